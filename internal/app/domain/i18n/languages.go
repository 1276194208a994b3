package i18n

import (
	"fmt"
	"slices"

	"github.com/FACorreiaa/nora-content/internal/app/models"
)

// Languages is the configured allow-list of site languages.
type Languages struct {
	codes []string
}

func NewLanguages(codes []string) Languages {
	return Languages{codes: slices.Clone(codes)}
}

// Validate returns models.ErrInvalidLanguage unless lang is configured.
func (l Languages) Validate(lang string) error {
	if !slices.Contains(l.codes, lang) {
		return fmt.Errorf("%w: %q", models.ErrInvalidLanguage, lang)
	}
	return nil
}

func (l Languages) Codes() []string {
	return slices.Clone(l.codes)
}
