package i18n

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/nora-content/internal/app/models"
)

func TestSetNested(t *testing.T) {
	t.Run("ReplacesExistingLeaf", func(t *testing.T) {
		tree := map[string]any{"hero": map[string]any{"title": "Old", "cta": "Go"}}
		SetNested(tree, "hero.title", "New")
		assert.Equal(t, map[string]any{"hero": map[string]any{"title": "New", "cta": "Go"}}, tree)
	})

	t.Run("CreatesMissingContainers", func(t *testing.T) {
		tree := map[string]any{}
		assert.True(t, SetNested(tree, "a.b.c", "x"))
		assert.Equal(t, map[string]any{"a": map[string]any{"b": map[string]any{"c": "x"}}}, tree)
	})

	t.Run("ReplacesNonObjectIntermediate", func(t *testing.T) {
		tree := map[string]any{"a": "scalar", "keep": "me"}
		SetNested(tree, "a.b", "x")
		assert.Equal(t, map[string]any{"a": map[string]any{"b": "x"}, "keep": "me"}, tree)
	})

	t.Run("SetsArrayElementInPlace", func(t *testing.T) {
		tree, err := DecodeBundle([]byte(`{"features":{"items":["Fast","Secure","Cheap"]}}`))
		require.NoError(t, err)

		assert.True(t, SetNested(tree, "features.items.1", "Private"))

		out, err := json.Marshal(tree)
		require.NoError(t, err)
		assert.JSONEq(t, `{"features":{"items":["Fast","Private","Cheap"]}}`, string(out))
	})

	t.Run("DescendsIntoArrayElement", func(t *testing.T) {
		tree := map[string]any{"cards": []any{
			map[string]any{"title": "A", "body": "a"},
			map[string]any{"title": "B", "body": "b"},
		}}
		assert.True(t, SetNested(tree, "cards.1.title", "Bee"))
		assert.Equal(t, map[string]any{"cards": []any{
			map[string]any{"title": "A", "body": "a"},
			map[string]any{"title": "Bee", "body": "b"},
		}}, tree)
	})

	t.Run("ScalarArrayElementBecomesObject", func(t *testing.T) {
		tree := map[string]any{"list": []any{"one", "two"}}
		assert.True(t, SetNested(tree, "list.0.label", "x"))
		assert.Equal(t, map[string]any{"list": []any{map[string]any{"label": "x"}, "two"}}, tree)
	})

	t.Run("AppendsAtArrayEnd", func(t *testing.T) {
		tree := map[string]any{"nested": map[string]any{"list": []any{"one"}}}
		assert.True(t, SetNested(tree, "nested.list.1", "two"))
		assert.Equal(t, map[string]any{"nested": map[string]any{"list": []any{"one", "two"}}}, tree)
	})

	t.Run("AppendsNestedArrays", func(t *testing.T) {
		tree := map[string]any{"grid": []any{[]any{"a"}}}
		assert.True(t, SetNested(tree, "grid.0.1", "b"))
		assert.True(t, SetNested(tree, "grid.1.x", "c"))
		assert.Equal(t, map[string]any{"grid": []any{[]any{"a", "b"}, map[string]any{"x": "c"}}}, tree)
	})

	t.Run("RejectsUnusableArrayIndex", func(t *testing.T) {
		for _, path := range []string{"list.5", "list.-1", "list.01", "list.+1", "list.name", "list.name.deep"} {
			tree := map[string]any{"list": []any{"one", "two"}}
			assert.False(t, SetNested(tree, path, "x"), path)
			assert.Equal(t, map[string]any{"list": []any{"one", "two"}}, tree, path)
		}
	})

	t.Run("TopLevelKey", func(t *testing.T) {
		tree := map[string]any{"title": "Old"}
		SetNested(tree, "title", "New")
		assert.Equal(t, "New", tree["title"])
	})

	t.Run("ReplacesObjectLeaf", func(t *testing.T) {
		tree := map[string]any{"footer": map[string]any{"links": "x"}}
		SetNested(tree, "footer", "flat")
		assert.Equal(t, "flat", tree["footer"])
	})
}

func TestApplyOverrides(t *testing.T) {
	tree, err := DecodeBundle([]byte(`{"hero":{"title":"Hello","count":12.50},"nav":{"home":"Home"}}`))
	require.NoError(t, err)

	merged, skipped := ApplyOverrides(tree, []models.Override{
		{KeyPath: "hero.title", Value: "First"},
		{KeyPath: "hero.title", Value: "Last"},
		{KeyPath: "promo.banner", Value: "Sale"},
	})
	assert.Empty(t, skipped)

	out, err := json.Marshal(merged)
	require.NoError(t, err)
	assert.JSONEq(t, `{"hero":{"title":"Last","count":12.50},"nav":{"home":"Home"},"promo":{"banner":"Sale"}}`, string(out))
	assert.Contains(t, string(out), `"count":12.50`)
}

func TestApplyOverrides_NoOverridesKeepsBundle(t *testing.T) {
	raw := `{"a":{"b":[1,2,3],"c":true,"d":null},"e":"f"}`
	tree, err := DecodeBundle([]byte(raw))
	require.NoError(t, err)

	merged, skipped := ApplyOverrides(tree, nil)
	assert.Empty(t, skipped)

	out, err := json.Marshal(merged)
	require.NoError(t, err)
	assert.JSONEq(t, raw, string(out))
}

func TestApplyOverrides_ReportsSkippedPaths(t *testing.T) {
	tree, err := DecodeBundle([]byte(`{"features":{"items":["Fast","Secure"]}}`))
	require.NoError(t, err)

	merged, skipped := ApplyOverrides(tree, []models.Override{
		{KeyPath: "features.items.0", Value: "Quick"},
		{KeyPath: "features.items.9", Value: "Lost"},
	})

	assert.Equal(t, []string{"features.items.9"}, skipped)
	out, err := json.Marshal(merged)
	require.NoError(t, err)
	assert.JSONEq(t, `{"features":{"items":["Quick","Secure"]}}`, string(out))
}
