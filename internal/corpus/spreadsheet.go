package corpus

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

var spreadsheetColumns = []string{"surah", "surah_name", "verse", "text_original", "text_translated"}

// loadSpreadsheet reads every sheet of a workbook. The first row of each
// sheet is a header naming the columns in spreadsheetColumns, in any order;
// each following row is one verse.
func loadSpreadsheet(path string) ([]Surah, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	var surahs []Surah
	index := make(map[int]int)

	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("reading sheet %s: %w", sheet, err)
		}
		if len(rows) == 0 {
			continue
		}

		cols, err := headerColumns(rows[0])
		if err != nil {
			return nil, fmt.Errorf("sheet %s: %w", sheet, err)
		}

		for i, row := range rows[1:] {
			if blankRow(row) {
				continue
			}
			cell := func(name string) string {
				c := cols[name]
				if c >= len(row) {
					return ""
				}
				return row[c]
			}

			surahNum, err := strconv.Atoi(strings.TrimSpace(cell("surah")))
			if err != nil {
				return nil, fmt.Errorf("%w: sheet %s row %d: surah: %v", ErrMalformed, sheet, i+2, err)
			}
			verseNum, err := strconv.Atoi(strings.TrimSpace(cell("verse")))
			if err != nil {
				return nil, fmt.Errorf("%w: sheet %s row %d: verse: %v", ErrMalformed, sheet, i+2, err)
			}

			pos, ok := index[surahNum]
			if !ok {
				surahs = append(surahs, Surah{Number: surahNum, Name: cell("surah_name")})
				pos = len(surahs) - 1
				index[surahNum] = pos
			} else if name := cell("surah_name"); name != surahs[pos].Name {
				return nil, fmt.Errorf("%w: sheet %s row %d: surah %d named %q, earlier rows say %q", ErrMalformed, sheet, i+2, surahNum, name, surahs[pos].Name)
			}
			surahs[pos].Verses = append(surahs[pos].Verses, Verse{
				Number:         verseNum,
				TextOriginal:   cell("text_original"),
				TextTranslated: cell("text_translated"),
			})
		}
	}

	return surahs, nil
}

func headerColumns(header []string) (map[string]int, error) {
	cols := make(map[string]int, len(spreadsheetColumns))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, name := range spreadsheetColumns {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", ErrMalformed, name)
		}
	}
	return cols, nil
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
