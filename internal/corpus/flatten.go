package corpus

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrMalformed marks a corpus that violates its data-integrity rules.
var ErrMalformed = errors.New("malformed corpus")

// ItemID formats the corpus-wide identifier of a verse.
func ItemID(surah, verse int) string {
	return strconv.Itoa(surah) + ":" + strconv.Itoa(verse)
}

// Flatten turns the nested corpus into quiz items, in surah order and then
// verse order. It assumes well-formed input; see Validate.
func Flatten(surahs []Surah) []Item {
	n := 0
	for _, s := range surahs {
		n += len(s.Verses)
	}

	items := make([]Item, 0, n)
	for _, s := range surahs {
		for _, v := range s.Verses {
			items = append(items, Item{
				ID:             ItemID(s.Number, v.Number),
				SurahNumber:    s.Number,
				SurahName:      s.Name,
				VerseNumber:    v.Number,
				TextOriginal:   v.TextOriginal,
				TextTranslated: v.TextTranslated,
			})
		}
	}
	return items
}

// Validate reports every integrity violation in the corpus: non-positive
// numbers, missing names or text, and duplicate surah:verse pairs.
func Validate(surahs []Surah) error {
	var errs []error
	seen := make(map[string]struct{})

	for _, s := range surahs {
		if s.Number < 1 {
			errs = append(errs, fmt.Errorf("%w: surah %q has number %d", ErrMalformed, s.Name, s.Number))
		}
		if s.Name == "" {
			errs = append(errs, fmt.Errorf("%w: surah %d has no name", ErrMalformed, s.Number))
		}
		for _, v := range s.Verses {
			id := ItemID(s.Number, v.Number)
			if v.Number < 1 {
				errs = append(errs, fmt.Errorf("%w: verse %s has non-positive number", ErrMalformed, id))
			}
			if v.TextOriginal == "" || v.TextTranslated == "" {
				errs = append(errs, fmt.Errorf("%w: verse %s is missing text", ErrMalformed, id))
			}
			if _, dup := seen[id]; dup {
				errs = append(errs, fmt.Errorf("%w: duplicate verse id %s", ErrMalformed, id))
			}
			seen[id] = struct{}{}
		}
	}

	return errors.Join(errs...)
}
