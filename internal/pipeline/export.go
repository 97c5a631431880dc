package pipeline

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/xuri/excelize/v2"

	"quizbank/internal"
)

var exportHeaders = []string{"no", "content", "options", "answer", "type"}

// ExportBankToXLSX writes one sheet per question type, named by the type's
// section label.
func ExportBankToXLSX(records []internal.QuestionRecord, outputPath string) error {
	f := excelize.NewFile()
	defer f.Close()

	byType := map[internal.QuestionType][]internal.QuestionRecord{}
	for _, rec := range records {
		byType[rec.Type] = append(byType[rec.Type], rec)
	}

	first := true
	for _, t := range internal.QuestionTypes {
		sheet := t.Label()
		if first {
			if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
				return eris.Wrap(err, "export: rename sheet")
			}
			first = false
		} else if _, err := f.NewSheet(sheet); err != nil {
			return eris.Wrapf(err, "export: sheet %s", sheet)
		}

		for i, h := range exportHeaders {
			cell, _ := excelize.CoordinatesToCellName(i+1, 1)
			_ = f.SetCellValue(sheet, cell, h)
		}

		for i, rec := range byType[t] {
			r := i + 2
			set := func(col int, value any) {
				cell, _ := excelize.CoordinatesToCellName(col, r)
				_ = f.SetCellValue(sheet, cell, value)
			}

			set(1, i+1)
			set(2, strings.TrimSpace(rec.Content))
			set(3, strings.Join(rec.Options, "\n"))
			set(4, rec.Answer)
			set(5, string(rec.Type))
		}
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return eris.Wrap(err, "export: create output dir")
	}
	return eris.Wrap(f.SaveAs(outputPath), "export: save")
}
