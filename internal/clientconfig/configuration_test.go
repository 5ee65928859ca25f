package clientconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const sampleDocumentConstant = `client_name: Harbor Health
staff:
  file_type: csv
  header_row: auto
  true_header_tokens: ["First Name", "Last Name"]
  skip_rows: 1
  delimiter: auto
  first_name: "First Name"
  last_name: "Last Name"
  dob: "Date of Birth"
board:
  header_row: 2
  name_column: "Member"
vendors:
  file_type: excel
  header_row: 0
  entity_name: "Vendor Name"
  tax_id: "EIN"
  city_state_zip: "Location"
`

func TestDocumentUnmarshal(t *testing.T) {
	var document Document
	require.NoError(t, yaml.Unmarshal([]byte(sampleDocumentConstant), &document))
	require.NoError(t, document.Validate())

	require.Equal(t, "Harbor Health", document.ClientName)
	require.Len(t, document.Sections, 3)

	staff, staffDeclared := document.Section(StaffSectionName)
	require.True(t, staffDeclared)
	require.Equal(t, FileTypeCSV, staff.FileType)
	require.True(t, staff.HeaderRow.Auto)
	require.Equal(t, 1, staff.SkipRows)
	require.True(t, staff.DelimiterIsAuto())
	require.Equal(t, []string{"First Name", "Last Name"}, staff.TrueHeaderTokens)
	require.Equal(t, "Date of Birth", staff.Column(FieldDateOfBirth))
	require.False(t, staff.HasColumn(FieldZip))

	board, boardDeclared := document.Section(BoardSectionName)
	require.True(t, boardDeclared)
	require.Equal(t, FileTypeAuto, board.FileType)
	require.False(t, board.HeaderRow.Auto)
	require.Equal(t, 2, board.HeaderRow.Index)
	require.Equal(t, "Member", board.Column(FieldNameColumn))

	vendors, vendorsDeclared := document.Section(VendorsSectionName)
	require.True(t, vendorsDeclared)
	require.Equal(t, FileTypeExcel, vendors.FileType)
	require.Equal(t, "Location", vendors.Column(FieldCityStateZip))
}

func TestDocumentValidateRejectsMissingClientName(t *testing.T) {
	var document Document
	require.NoError(t, yaml.Unmarshal([]byte("staff:\n  header_row: 0\n"), &document))
	require.ErrorIs(t, document.Validate(), ErrClientNameMissing)
}

func TestSectionValidationErrors(t *testing.T) {
	testCases := []struct {
		name          string
		document      string
		expectedError error
	}{
		{
			name:          "negative header row",
			document:      "client_name: C\nstaff:\n  header_row: -1\n",
			expectedError: ErrNegativeHeaderRow,
		},
		{
			name:          "negative skip rows",
			document:      "client_name: C\nstaff:\n  header_row: 0\n  skip_rows: -2\n",
			expectedError: ErrNegativeSkipRows,
		},
		{
			name:          "auto header without tokens",
			document:      "client_name: C\nstaff:\n  header_row: auto\n",
			expectedError: ErrMissingHeaderTokens,
		},
		{
			name:          "delimiter with excel",
			document:      "client_name: C\nvendors:\n  file_type: excel\n  header_row: 0\n  delimiter: \";\"\n",
			expectedError: ErrDelimiterWithExcel,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			var document Document
			require.NoError(t, yaml.Unmarshal([]byte(testCase.document), &document))
			require.ErrorIs(t, document.Validate(), testCase.expectedError)
		})
	}
}

func TestDocumentValidateRejectsUnsupportedFileType(t *testing.T) {
	var document Document
	require.NoError(t, yaml.Unmarshal([]byte("client_name: C\nstaff:\n  file_type: parquet\n  header_row: 0\n"), &document))
	require.Error(t, document.Validate())
}

func TestHeaderRowUnmarshalRejectsUnknownLiteral(t *testing.T) {
	var document Document
	require.Error(t, yaml.Unmarshal([]byte("client_name: C\nstaff:\n  header_row: sometimes\n"), &document))
}

func TestLoad(t *testing.T) {
	configurationPath := filepath.Join(t.TempDir(), "client.yaml")
	require.NoError(t, os.WriteFile(configurationPath, []byte(sampleDocumentConstant), 0o644))

	document, loadError := Load(configurationPath)
	require.NoError(t, loadError)
	require.Equal(t, "Harbor Health", document.ClientName)
}

func TestLoadReportsMissingFile(t *testing.T) {
	_, loadError := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, loadError)
}
