package i18n

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/FACorreiaa/nora-content/internal/app/models"
)

// BundleLoader returns a fresh, mutable copy of the static bundle of a language.
type BundleLoader interface {
	Load(ctx context.Context, lang string) (map[string]any, error)
}

// FileBundleLoader reads <dir>/<lang>.json on every call.
type FileBundleLoader struct {
	dir string
}

func NewFileBundleLoader(dir string) *FileBundleLoader {
	return &FileBundleLoader{dir: dir}
}

func (l *FileBundleLoader) Load(ctx context.Context, lang string) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	// lang has already passed the allow-list, so it cannot escape dir.
	raw, err := os.ReadFile(filepath.Join(l.dir, lang+".json"))
	if err != nil {
		return nil, fmt.Errorf("read bundle %s: %w: %w", lang, models.ErrBundleUnavailable, err)
	}
	return DecodeBundle(raw)
}

// DecodeBundle parses a bundle document. The top level must be a JSON object
// and numbers are kept as json.Number so they re-encode unchanged.
func DecodeBundle(raw []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var tree map[string]any
	if err := dec.Decode(&tree); err != nil {
		return nil, fmt.Errorf("decode bundle: %w: %w", models.ErrBundleUnavailable, err)
	}
	if tree == nil {
		return nil, fmt.Errorf("bundle is not an object: %w", models.ErrBundleUnavailable)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("trailing data after bundle: %w", models.ErrBundleUnavailable)
	}
	return tree, nil
}
