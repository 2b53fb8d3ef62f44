package corpus

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Load walks rootDir and builds a corpus from every .yaml, .yml, .json and
// .xlsx document found. Other files are ignored. Surahs split across
// documents are merged; the result is ordered by surah number.
func Load(rootDir string) (*Corpus, error) {
	var (
		surahs []Surah
		lang   = language.Und
		langOf string
		files  int
	)

	err := filepath.WalkDir(rootDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		var (
			doc    Document
			loaded bool
		)
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			doc, err = loadYAML(path)
			loaded = true
		case ".json":
			doc, err = loadJSON(path)
			loaded = true
		case ".xlsx":
			doc.Surahs, err = loadSpreadsheet(path)
			loaded = true
		}
		if err != nil {
			return fmt.Errorf("loading %s: %w", path, err)
		}
		if !loaded {
			return nil
		}
		files++

		if doc.TranslationLanguage != "" {
			tag, err := language.Parse(doc.TranslationLanguage)
			if err != nil {
				return fmt.Errorf("loading %s: translation_language: %w", path, err)
			}
			if lang != language.Und && lang != tag {
				return fmt.Errorf("loading %s: translation language %s conflicts with %s from %s", path, tag, lang, langOf)
			}
			lang, langOf = tag, path
		}

		surahs, err = mergeSurahs(surahs, doc.Surahs)
		if err != nil {
			return fmt.Errorf("loading %s: %w", path, err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("loading corpus: %w", err)
	}

	sort.SliceStable(surahs, func(i, j int) bool {
		return surahs[i].Number < surahs[j].Number
	})

	c, err := New(surahs, lang)
	if err != nil {
		return nil, err
	}

	slog.Info("corpus loaded",
		"files", files,
		"surahs", len(surahs),
		"items", c.Len(),
		"translation_language", lang.String(),
	)
	return c, nil
}

func loadYAML(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, err
	}

	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if err := validateDocument(raw); err != nil {
		return Document{}, err
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return doc, nil
}

func loadJSON(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, err
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if err := validateDocument(raw); err != nil {
		return Document{}, err
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return doc, nil
}

// mergeSurahs appends the verses of surahs already present and adds the
// rest. A surah number seen again under another name is malformed.
func mergeSurahs(dst, src []Surah) ([]Surah, error) {
	for _, s := range src {
		merged := false
		for i := range dst {
			if dst[i].Number != s.Number {
				continue
			}
			if dst[i].Name != s.Name {
				return nil, fmt.Errorf("%w: surah %d named %q, already loaded as %q", ErrMalformed, s.Number, s.Name, dst[i].Name)
			}
			dst[i].Verses = append(dst[i].Verses, s.Verses...)
			merged = true
			break
		}
		if !merged {
			dst = append(dst, s)
		}
	}
	return dst, nil
}
