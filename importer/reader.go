package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
)

// Row is one data line keyed by its original header text. Missing cells
// read as "".
type Row map[string]string

// Get returns the cell under a source column, tolerating unmapped ("")
// column names.
func (r Row) Get(column string) string {
	if column == "" {
		return ""
	}
	return r[column]
}

// RowBatch is a parsed upload: the header row plus the data rows, in sheet
// order.
type RowBatch struct {
	Columns []string
	Rows    []Row
}

// ReadBatch parses an uploaded spreadsheet by file extension. CSV exports
// frequently arrive with a .txt extension, so both go through the CSV path.
func ReadBatch(filename string, reader io.Reader) (*RowBatch, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv", ".txt":
		return ReadCSV(reader)
	case ".xlsx", ".xlsm":
		return ReadXLSX(reader)
	default:
		return nil, errors.New("unsupported file type, expected csv or xlsx")
	}
}

// ReadCSV parses a delimited text upload. The delimiter is sniffed from the
// header line (";" then "," then tab) and non-UTF-8 content is assumed to
// be ISO-8859-1, the usual encoding of Brazilian ERP exports.
func ReadCSV(reader io.Reader) (*RowBatch, error) {
	raw, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	if !utf8.Valid(raw) {
		decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
		if err != nil {
			return nil, err
		}
		raw = decoded
	}
	raw = bytes.TrimPrefix(raw, []byte{0xEF, 0xBB, 0xBF})

	cr := csv.NewReader(bytes.NewReader(raw))
	cr.Comma = sniffDelimiter(raw)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	return batchFromRecords(records), nil
}

// ReadXLSX parses the first sheet of an Excel upload.
func ReadXLSX(reader io.Reader) (*RowBatch, error) {
	file, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	records, err := file.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}
	return batchFromRecords(records), nil
}

func sniffDelimiter(raw []byte) rune {
	header := raw
	if i := bytes.IndexByte(raw, '\n'); i >= 0 {
		header = raw[:i]
	}
	for _, candidate := range []byte{';', ',', '\t'} {
		if bytes.IndexByte(header, candidate) >= 0 {
			return rune(candidate)
		}
	}
	return ','
}

// batchFromRecords shapes raw records into a RowBatch: the first record is
// the header, columns with empty headers are dropped, short rows are padded
// and rows with no content at all are skipped.
func batchFromRecords(records [][]string) *RowBatch {
	batch := &RowBatch{}
	if len(records) == 0 {
		return batch
	}

	keep := make([]int, 0, len(records[0]))
	for i, col := range records[0] {
		col = strings.TrimSpace(col)
		if col == "" {
			continue
		}
		batch.Columns = append(batch.Columns, col)
		keep = append(keep, i)
	}

	for _, record := range records[1:] {
		row := Row{}
		empty := true
		for pos, src := range keep {
			value := ""
			if src < len(record) {
				value = strings.TrimSpace(record[src])
			}
			if value != "" {
				empty = false
			}
			row[batch.Columns[pos]] = value
		}
		if empty {
			continue
		}
		batch.Rows = append(batch.Rows, row)
	}
	return batch
}
