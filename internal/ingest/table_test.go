package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestReadTableCSV(t *testing.T) {
	in := "a,b,c\n1,2,3\n,,\n4,5\n"
	tbl, err := ReadTable("leads.csv", strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, tbl.Headers)
	assert.Len(t, tbl.Rows, 2) // the blank row is dropped
	assert.Equal(t, "2", tbl.Cell(0, "b"))
	assert.Equal(t, "", tbl.Cell(1, "c")) // short row
}

func TestReadTableTSV(t *testing.T) {
	in := "a\tb\n1\t2\n"
	tbl, err := ReadTable("leads.tsv", strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, "2", tbl.Cell(0, "b"))
}

func TestReadTableSemicolon(t *testing.T) {
	in := "a;b\n1;2\n"
	tbl, err := ReadTable("export.csv", strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, "1", tbl.Cell(0, "a"))
}

func TestReadTableBOM(t *testing.T) {
	in := "\xEF\xBB\xBFa,b\n1,2\n"
	tbl, err := ReadTable("x.csv", strings.NewReader(in))
	require.NoError(t, err)
	assert.True(t, tbl.Has("a"))
}

func TestReadTableEmpty(t *testing.T) {
	_, err := ReadTable("x.csv", strings.NewReader("   \n"))
	assert.ErrorIs(t, err, ErrEmptyFile)
}

func TestTolerantHeaderLookup(t *testing.T) {
	in := " Fecha ,NOMBRE\n05/03/2024,Promo\n"
	tbl, err := ReadTable("x.csv", strings.NewReader(in))
	require.NoError(t, err)
	assert.True(t, tbl.Has("fecha"))
	assert.Equal(t, "Promo", tbl.Cell(0, "nombre"))
}

func TestHeaderWithPrefix(t *testing.T) {
	in := "Nombre del anuncio,Importe gastado (EUR)\nAd,10\n"
	tbl, err := ReadTable("x.csv", strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, "Importe gastado (EUR)", tbl.HeaderWithPrefix("Importe gastado"))
	assert.Equal(t, "", tbl.HeaderWithPrefix("Alcance"))
}

func TestReadTableWorkbook(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetCellValue(sheet, "A1", "AGENTE"))
	require.NoError(t, f.SetCellValue(sheet, "B1", "platform"))
	require.NoError(t, f.SetCellValue(sheet, "A2", "PM"))
	require.NoError(t, f.SetCellValue(sheet, "B2", "wp"))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	tbl, err := ReadTable("leads.xlsx", buf)
	require.NoError(t, err)
	assert.Equal(t, "PM", tbl.Cell(0, "AGENTE"))
	assert.Equal(t, "wp", tbl.Cell(0, "platform"))
}

func TestReadTableBadWorkbook(t *testing.T) {
	_, err := ReadTable("leads.xlsx", strings.NewReader("not a zip"))
	assert.Error(t, err)
}
