package history_test

import "github.com/p-n-ai/verse-quiz/internal/corpus"

func testItems() []corpus.Item {
	return []corpus.Item{
		{ID: "1:1", SurahNumber: 1, SurahName: "Al-Fatihah", VerseNumber: 1, TextOriginal: "o1", TextTranslated: "t1"},
		{ID: "1:2", SurahNumber: 1, SurahName: "Al-Fatihah", VerseNumber: 2, TextOriginal: "o2", TextTranslated: "t2"},
		{ID: "1:3", SurahNumber: 1, SurahName: "Al-Fatihah", VerseNumber: 3, TextOriginal: "o3", TextTranslated: "t3"},
		{ID: "1:4", SurahNumber: 1, SurahName: "Al-Fatihah", VerseNumber: 4, TextOriginal: "o4", TextTranslated: "t4"},
	}
}
