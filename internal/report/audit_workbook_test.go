package report

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/temirov/exclusion-screener/internal/match"
)

func sampleResults() Results {
	return Results{
		Staff: []Record{
			{
				Name:        "JOHN DOE",
				DateOfBirth: "1962-07-04",
				SSNLastFour: "6789",
				Role:        "Nurse",
				Status:      "Active",
				Outcome: match.Outcome{
					OIGStatus: match.StatusConfirmed,
					OIGDate:   "2019-05-20",
					SAMStatus: match.StatusNotFound,
					Reason:    "Exact first+last+DOB",
				},
			},
			{
				Name:    "JANE SMITH",
				Outcome: match.Outcome{OIGStatus: match.StatusNotFound, SAMStatus: match.StatusNotFound},
			},
		},
		Vendors: []Record{
			{
				Name:           "ACME MEDICAL SUPPLY",
				Classification: "ENTITY",
				City:           "SPRINGFIELD",
				State:          "IL",
				Outcome: match.Outcome{
					OIGStatus: match.StatusNotFound,
					SAMStatus: match.StatusNotFound,
					Review: match.Review{
						Required:      true,
						Source:        "OIG Entities",
						CandidateName: "ACME MEDICAL SUPPLIES",
						Note:          "High-similarity OIG entity name match (score=95).",
						NeededData:    "Tax ID / address corroboration",
					},
				},
			},
		},
	}
}

func TestResultsSectionCounts(t *testing.T) {
	staffCount, boardCount, vendorCount := sampleResults().SectionCounts()
	require.Equal(t, 2, staffCount)
	require.Equal(t, 0, boardCount)
	require.Equal(t, 1, vendorCount)
}

func TestResultsReviewRecords(t *testing.T) {
	reviewRecords := sampleResults().ReviewRecords()
	require.Len(t, reviewRecords, 1)
	require.Equal(t, VendorsKind, reviewRecords[0].Kind)
	require.Equal(t, "ACME MEDICAL SUPPLY", reviewRecords[0].Record.Name)
}

func TestWriteAuditWorkbook(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "Audit.xlsx")
	metadata := map[string]any{"client": "Harbor Health", "month": "2026-08"}

	require.NoError(t, WriteAuditWorkbook(outputPath, sampleResults(), metadata))

	workbook, openError := excelize.OpenFile(outputPath)
	require.NoError(t, openError)
	defer func() {
		require.NoError(t, workbook.Close())
	}()

	sheetNames := workbook.GetSheetList()
	require.ElementsMatch(
		t,
		[]string{"Staff Results", "Board Results", "Vendor Results", "Possible Matches", "Run Metadata"},
		sheetNames,
	)

	staffRows, staffRowsError := workbook.GetRows("Staff Results")
	require.NoError(t, staffRowsError)
	require.Len(t, staffRows, 3)
	require.Equal(t, "name", staffRows[0][0])
	require.Equal(t, "JOHN DOE", staffRows[1][0])
	require.Equal(t, match.StatusConfirmed, staffRows[1][5])

	boardRows, boardRowsError := workbook.GetRows("Board Results")
	require.NoError(t, boardRowsError)
	require.Len(t, boardRows, 1)
	require.Equal(t, "No records", boardRows[0][0])

	reviewRows, reviewRowsError := workbook.GetRows("Possible Matches")
	require.NoError(t, reviewRowsError)
	require.Len(t, reviewRows, 2)
	require.Equal(t, VendorsKind, reviewRows[1][0])
	require.Equal(t, "ACME MEDICAL SUPPLIES", reviewRows[1][5])

	metadataRows, metadataRowsError := workbook.GetRows("Run Metadata")
	require.NoError(t, metadataRowsError)
	require.Equal(t, []string{"Key", "Value"}, metadataRows[0][:2])
	require.Equal(t, []string{"client", "Harbor Health"}, metadataRows[1][:2])
	require.Equal(t, []string{"month", "2026-08"}, metadataRows[2][:2])
}
