package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Override replaces one static translation entry for a language.
type Override struct {
	Lang      string    `json:"-" db:"lang"`
	KeyPath   string    `json:"key_path" db:"key_path"`
	Value     string    `json:"value" db:"value"`
	UpdatedBy *int64    `json:"-" db:"updated_by"`
	UpdatedAt time.Time `json:"-" db:"updated_at"`
}

// OverrideList is the read response of the override API.
type OverrideList struct {
	Overrides []Override `json:"overrides"`
}

// SetOverrideRequest is the write body of the override API. A null or
// absent value reverts the key to its static bundle value. The camelCase
// keyPath is accepted as an alias of key_path.
type SetOverrideRequest struct {
	KeyPath      string          `json:"key_path"`
	KeyPathAlias string          `json:"keyPath"`
	Value        json.RawMessage `json:"value"`
}

// Path returns the submitted key path, preferring key_path.
func (r SetOverrideRequest) Path() string {
	if r.KeyPath != "" {
		return r.KeyPath
	}
	return r.KeyPathAlias
}

// Text returns the value as stored text, or nil when the key should revert.
// Numbers keep their literal form and booleans become "true" or "false".
// Objects and arrays are rejected.
func (r SetOverrideRequest) Text() (*string, error) {
	raw := bytes.TrimSpace(r.Value)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("malformed value: %w", ErrValidation)
	}

	var text string
	switch t := v.(type) {
	case string:
		text = t
	case json.Number:
		text = t.String()
	case bool:
		text = strconv.FormatBool(t)
	default:
		return nil, fmt.Errorf("value must be a string, number or boolean: %w", ErrValidation)
	}
	return &text, nil
}
