package corpus

// Document is a single corpus file: a set of surahs sharing one translation.
type Document struct {
	Name                string  `yaml:"name" json:"name"`
	TranslationLanguage string  `yaml:"translation_language" json:"translation_language"`
	Surahs              []Surah `yaml:"surahs" json:"surahs"`
}

// Surah is a numbered, named top-level unit of the corpus.
type Surah struct {
	Number int     `yaml:"number" json:"number"`
	Name   string  `yaml:"name" json:"name"`
	Verses []Verse `yaml:"verses" json:"verses"`
}

// Verse is a numbered leaf unit within a surah. Both text fields are
// rendered verbatim.
type Verse struct {
	Number         int    `yaml:"number" json:"number"`
	TextOriginal   string `yaml:"text_original" json:"text_original"`
	TextTranslated string `yaml:"text_translated" json:"text_translated"`
}

// Item is the flattened, directly addressable unit the quiz operates on.
// Items are never mutated after flattening.
type Item struct {
	ID             string `json:"id"`
	SurahNumber    int    `json:"surah_number"`
	SurahName      string `json:"surah_name"`
	VerseNumber    int    `json:"verse_number"`
	TextOriginal   string `json:"text_original"`
	TextTranslated string `json:"text_translated"`
}
