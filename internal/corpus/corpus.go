// Package corpus loads the verse corpus and flattens it into quiz items.
package corpus

import (
	"fmt"

	"golang.org/x/text/language"
)

// Corpus is a validated, flattened verse corpus. It is immutable once built.
type Corpus struct {
	surahs []Surah
	items  []Item
	lang   language.Tag
}

// New validates surahs and flattens them once.
func New(surahs []Surah, lang language.Tag) (*Corpus, error) {
	if err := Validate(surahs); err != nil {
		return nil, fmt.Errorf("validating corpus: %w", err)
	}
	return &Corpus{
		surahs: surahs,
		items:  Flatten(surahs),
		lang:   lang,
	}, nil
}

// Items returns the flattened items. Callers must treat the slice as
// read-only; every consumer shares this one view.
func (c *Corpus) Items() []Item {
	return c.items
}

// Surahs returns a copy of the nested corpus.
func (c *Corpus) Surahs() []Surah {
	return append([]Surah(nil), c.surahs...)
}

// Len returns the number of items.
func (c *Corpus) Len() int {
	return len(c.items)
}

// TranslationLanguage returns the language of the translated text, or
// language.Und when no document declared one.
func (c *Corpus) TranslationLanguage() language.Tag {
	return c.lang
}
