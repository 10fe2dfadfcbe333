package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/dcastano/leadboard/internal/normalize"
)

// Table is a fully decoded upload: a header row plus data rows. Cell lookup
// is by header name, exact first and folded (lowercase, trimmed, unaccented)
// as a fallback, because the sheets these files come from are not consistent
// about casing.
type Table struct {
	Headers []string
	Rows    [][]string

	index  map[string]int
	folded map[string]int
}

var ErrEmptyFile = errors.New("ingest: file has no header row")

func newTable(rows [][]string) (*Table, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyFile
	}
	t := &Table{
		Headers: rows[0],
		index:   make(map[string]int, len(rows[0])),
		folded:  make(map[string]int, len(rows[0])),
	}
	for i, h := range rows[0] {
		if _, ok := t.index[h]; !ok {
			t.index[h] = i
		}
		f := normalize.Fold(h)
		if _, ok := t.folded[f]; !ok {
			t.folded[f] = i
		}
	}
	for _, row := range rows[1:] {
		if blankRow(row) {
			continue
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// Has reports whether the header set contains name (tolerant match).
func (t *Table) Has(name string) bool {
	if _, ok := t.index[name]; ok {
		return true
	}
	_, ok := t.folded[normalize.Fold(name)]
	return ok
}

// HeaderWithPrefix returns the first header whose folded form starts with the
// folded prefix, or "". Used for columns like "Importe gastado (EUR)" where
// the currency suffix varies per export.
func (t *Table) HeaderWithPrefix(prefix string) string {
	p := normalize.Fold(prefix)
	for _, h := range t.Headers {
		if strings.HasPrefix(normalize.Fold(h), p) {
			return h
		}
	}
	return ""
}

// Cell returns the value of column name in row i, or "" when the column does
// not exist or the row is short.
func (t *Table) Cell(i int, name string) string {
	if name == "" {
		return ""
	}
	col, ok := t.index[name]
	if !ok {
		col, ok = t.folded[normalize.Fold(name)]
		if !ok {
			return ""
		}
	}
	if i < 0 || i >= len(t.Rows) || col >= len(t.Rows[i]) {
		return ""
	}
	return t.Rows[i][col]
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// ReadTable decodes an uploaded file into a Table. Workbooks are recognized
// by filename extension; everything else is treated as delimited text with
// the delimiter sniffed from the header line.
func ReadTable(filename string, r io.Reader) (*Table, error) {
	if strings.HasSuffix(strings.ToLower(filename), ".xlsx") {
		return readWorkbook(r)
	}
	return readDelimited(r)
}

func readDelimited(r io.Reader) (*Table, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("ingest: read: %w", err)
	}
	raw = bytes.TrimPrefix(raw, []byte{0xEF, 0xBB, 0xBF}) // BOM from Excel exports
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, ErrEmptyFile
	}

	cr := csv.NewReader(bytes.NewReader(raw))
	cr.Comma = sniffDelimiter(raw)
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("ingest: malformed delimited file: %w", err)
	}
	return newTable(rows)
}

// sniffDelimiter picks the delimiter with the most occurrences in the header
// line, defaulting to comma.
func sniffDelimiter(raw []byte) rune {
	header := raw
	if i := bytes.IndexByte(raw, '\n'); i >= 0 {
		header = raw[:i]
	}
	best, n := ',', bytes.Count(header, []byte{','})
	for _, c := range []byte{'\t', ';'} {
		if cnt := bytes.Count(header, []byte{c}); cnt > n {
			best, n = rune(c), cnt
		}
	}
	return best
}

func readWorkbook(r io.Reader) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("ingest: open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyFile
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("ingest: read workbook: %w", err)
	}
	return newTable(rows)
}
