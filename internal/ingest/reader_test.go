package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/temirov/exclusion-screener/internal/clientconfig"
)

func writeRosterFile(t *testing.T, fileName string, content string) string {
	t.Helper()
	rosterPath := filepath.Join(t.TempDir(), fileName)
	require.NoError(t, os.WriteFile(rosterPath, []byte(content), 0o644))
	return rosterPath
}

func TestReadRosterCSVWithExplicitHeaderRow(t *testing.T) {
	rosterPath := writeRosterFile(t, "staff.csv", "First Name,Last Name,DOB\nJohn,Doe,7/4/1962\nJane,Smith,1990-01-15\n")

	section := clientconfig.SectionConfiguration{
		FileType:  clientconfig.FileTypeCSV,
		HeaderRow: clientconfig.HeaderRow{Index: 0},
		Columns: map[string]string{
			clientconfig.FieldFirstName: "First Name",
			clientconfig.FieldLastName:  "Last Name",
		},
	}

	table, resolution, readError := ReadRoster(rosterPath, section)
	require.NoError(t, readError)
	require.Equal(t, []string{"First Name", "Last Name", "DOB"}, table.Headers)
	require.Len(t, table.Rows, 2)
	require.Equal(t, "John", table.Rows[0].Value("First Name"))
	require.Equal(t, "1990-01-15", table.Rows[1].Value("DOB"))
	require.Equal(t, 0, resolution.HeaderRowIndex)
	require.Equal(t, ",", resolution.Delimiter)
	require.Empty(t, resolution.Warnings)
}

func TestReadRosterAutoHeaderSkipsPreamble(t *testing.T) {
	content := "Harbor Health Staff Export\nGenerated 2026-08-01\nFirst Name,Last Name,DOB\nJohn,Doe,7/4/1962\n"
	rosterPath := writeRosterFile(t, "staff.csv", content)

	section := clientconfig.SectionConfiguration{
		HeaderRow:        clientconfig.HeaderRow{Auto: true},
		TrueHeaderTokens: []string{"first name", "Last Name"},
	}

	table, resolution, readError := ReadRoster(rosterPath, section)
	require.NoError(t, readError)
	require.Equal(t, 2, resolution.HeaderRowIndex)
	require.Len(t, table.Rows, 1)
	require.Equal(t, "Doe", table.Rows[0].Value("Last Name"))
}

func TestReadRosterAutoHeaderNotFound(t *testing.T) {
	rosterPath := writeRosterFile(t, "staff.csv", "a,b\nc,d\n")

	section := clientconfig.SectionConfiguration{
		HeaderRow:        clientconfig.HeaderRow{Auto: true},
		TrueHeaderTokens: []string{"First Name"},
	}

	_, _, readError := ReadRoster(rosterPath, section)
	require.Error(t, readError)
	require.Contains(t, readError.Error(), "true_header_tokens")
}

func TestReadRosterSniffsSemicolonDelimiter(t *testing.T) {
	rosterPath := writeRosterFile(t, "staff.csv", "First Name;Last Name\nJohn;Doe\n")

	section := clientconfig.SectionConfiguration{
		HeaderRow: clientconfig.HeaderRow{Index: 0},
		Delimiter: "auto",
	}

	table, resolution, readError := ReadRoster(rosterPath, section)
	require.NoError(t, readError)
	require.Equal(t, ";", resolution.Delimiter)
	require.Equal(t, "John", table.Rows[0].Value("First Name"))
}

func TestReadRosterUnsetDelimiterDefaultsToComma(t *testing.T) {
	content := "Name,Notes\nJohn Doe,\"a;b;c;d;e\"\nJane Roe,\"v;w;x;y;z\"\n"
	rosterPath := writeRosterFile(t, "staff.csv", content)

	section := clientconfig.SectionConfiguration{
		HeaderRow: clientconfig.HeaderRow{Index: 0},
	}

	table, resolution, readError := ReadRoster(rosterPath, section)
	require.NoError(t, readError)
	require.Equal(t, ",", resolution.Delimiter)
	require.Len(t, table.Rows, 2)
	require.Equal(t, "John Doe", table.Rows[0].Value("Name"))
	require.Equal(t, "a;b;c;d;e", table.Rows[0].Value("Notes"))
}

func TestReadRosterSkipRowsAndRaggedRows(t *testing.T) {
	content := "junk line,,\nFirst Name,Last Name,Title\nJohn,Doe\n,,\nJane,Smith,Director\n"
	rosterPath := writeRosterFile(t, "board.csv", content)

	section := clientconfig.SectionConfiguration{
		HeaderRow: clientconfig.HeaderRow{Index: 0},
		SkipRows:  1,
	}

	table, resolution, readError := ReadRoster(rosterPath, section)
	require.NoError(t, readError)
	require.Equal(t, 1, resolution.HeaderRowIndex)
	require.Len(t, table.Rows, 2)
	require.Equal(t, "", table.Rows[0].Value("Title"))
	require.Equal(t, "Director", table.Rows[1].Value("Title"))
}

func TestReadRosterHeaderRowPastEnd(t *testing.T) {
	rosterPath := writeRosterFile(t, "staff.csv", "a,b\n")

	section := clientconfig.SectionConfiguration{
		HeaderRow: clientconfig.HeaderRow{Index: 5},
	}

	_, _, readError := ReadRoster(rosterPath, section)
	require.Error(t, readError)
}

func TestReadRosterWarnsOnUnboundConfiguredColumn(t *testing.T) {
	rosterPath := writeRosterFile(t, "staff.csv", "First Name,Last Name\nJohn,Doe\n")

	section := clientconfig.SectionConfiguration{
		HeaderRow: clientconfig.HeaderRow{Index: 0},
		Columns: map[string]string{
			clientconfig.FieldDateOfBirth: "Date of Birth",
		},
	}

	_, resolution, readError := ReadRoster(rosterPath, section)
	require.NoError(t, readError)
	require.Len(t, resolution.Warnings, 1)
	require.Contains(t, resolution.Warnings[0], "Date of Birth")
	require.Equal(t, "Date of Birth", resolution.ColumnBindings[clientconfig.FieldDateOfBirth])
}

func TestReadRosterExcel(t *testing.T) {
	rosterPath := filepath.Join(t.TempDir(), "vendors.xlsx")

	workbook := excelize.NewFile()
	sheetName := workbook.GetSheetName(0)
	require.NoError(t, workbook.SetSheetRow(sheetName, "A1", &[]any{"Vendor Name", "EIN"}))
	require.NoError(t, workbook.SetSheetRow(sheetName, "A2", &[]any{"Acme Supply LLC", "12-3456789"}))
	require.NoError(t, workbook.SaveAs(rosterPath))
	require.NoError(t, workbook.Close())

	section := clientconfig.SectionConfiguration{
		FileType:  clientconfig.FileTypeExcel,
		HeaderRow: clientconfig.HeaderRow{Index: 0},
	}

	table, resolution, readError := ReadRoster(rosterPath, section)
	require.NoError(t, readError)
	require.Empty(t, resolution.Delimiter)
	require.Len(t, table.Rows, 1)
	require.Equal(t, "Acme Supply LLC", table.Rows[0].Value("Vendor Name"))
	require.Equal(t, "12-3456789", table.Rows[0].Value("EIN"))
}

func TestResolveFileType(t *testing.T) {
	require.Equal(t, clientconfig.FileTypeExcel, resolveFileType("roster.XLSX", clientconfig.FileTypeAuto))
	require.Equal(t, clientconfig.FileTypeCSV, resolveFileType("roster.csv", clientconfig.FileTypeAuto))
	require.Equal(t, clientconfig.FileTypeCSV, resolveFileType("roster.txt", clientconfig.FileTypeAuto))
	require.Equal(t, clientconfig.FileTypeExcel, resolveFileType("roster.csv", clientconfig.FileTypeExcel))
}
