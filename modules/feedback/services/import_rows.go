package services

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/go-faster/errors"
	"github.com/xuri/excelize/v2"
)

// RowsFromCSV reads (subject code, evaluator code, label) triples from the
// first three columns of a CSV stream. A leading header row is skipped when
// its first cell matches a known heading; blank rows are ignored.
func RowsFromCSV(r io.Reader) ([]ImportRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse CSV")
	}
	return rowsFromRecords(records), nil
}

// RowsFromWorkbook reads the same triples from the first sheet of an XLSX
// workbook.
func RowsFromWorkbook(r io.Reader) ([]ImportRow, error) {
	wb, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open workbook")
	}
	defer wb.Close()

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	records, err := wb.GetRows(sheets[0])
	if err != nil {
		return nil, errors.Wrap(err, "failed to read workbook rows")
	}
	return rowsFromRecords(records), nil
}

func rowsFromRecords(records [][]string) []ImportRow {
	rows := make([]ImportRow, 0, len(records))
	for i, record := range records {
		if i == 0 && isHeaderRow(record) {
			continue
		}
		if isEmptyRecord(record) {
			continue
		}
		row := ImportRow{}
		if len(record) > 0 {
			row.SubjectCode = strings.TrimSpace(record[0])
		}
		if len(record) > 1 {
			row.EvaluatorCode = strings.TrimSpace(record[1])
		}
		if len(record) > 2 {
			row.Label = strings.TrimSpace(record[2])
		}
		rows = append(rows, row)
	}
	return rows
}

func isHeaderRow(record []string) bool {
	if len(record) == 0 {
		return false
	}
	first := strings.ToLower(strings.TrimSpace(record[0]))
	switch first {
	case "subject", "subjectcode", "subject_code", "subject code", "subjectemployeecode", "subject employee code":
		return true
	}
	return false
}

func isEmptyRecord(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
