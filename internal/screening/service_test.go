package screening

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/temirov/exclusion-screener/internal/match"
	"github.com/temirov/exclusion-screener/internal/refcache"
)

const (
	serviceTestMonthConstant = "2026-08"

	serviceTestOIGExportConstant = `LASTNAME,FIRSTNAME,BUSNAME,DOB,EXCLDATE
DOE,JOHN,,07/04/1962,20190520
,,ACME MEDICAL SUPPLY LLC,,20181130
`

	serviceTestSAMExportConstant = `Name,First,Last,City,State,Zip,Exclusion Date
,JOHN,DOE,Springfield,IL,62704,2020-02-02
`

	serviceTestClientConfigConstant = `client_name: Harbor Health
staff:
  file_type: csv
  header_row: 0
  first_name: "First Name"
  last_name: "Last Name"
  dob: "DOB"
  job_title: "Title"
vendors:
  file_type: csv
  header_row: 0
  entity_name: "Vendor"
  tax_id: "EIN"
  city_state_zip: "Location"
`

	serviceTestStaffRosterConstant = `First Name,Last Name,DOB,Title
John,Doe,07/04/1962,Nurse
Alice,Brown,01/01/1980,Therapist
`

	serviceTestVendorRosterConstant = `Vendor,EIN,Location
Acme Medical Supply LLC,12-3456789,"Springfield, IL 62704"
Quiet Lane Consulting LLC,98-7654321,"Denver, CO 80202"
`

	serviceTestBoardClientConfigConstant = `client_name: Harbor Health
board:
  file_type: csv
  header_row: 0
  name_column: "Member"
  dob: "DOB"
`

	serviceTestBoardRosterConstant = `Member,DOB
John Q. Doe,07/04/1962
Maria Santos,05/05/1975
`
)

func serviceTestClock() time.Time {
	return time.Date(2026, time.August, 30, 12, 0, 0, 0, time.UTC)
}

func prepareRunFixtures(t *testing.T) (string, Options) {
	t.Helper()
	dataDirectory := t.TempDir()

	oigPath := filepath.Join(dataDirectory, "oig.csv")
	require.NoError(t, os.WriteFile(oigPath, []byte(serviceTestOIGExportConstant), 0o644))
	samPath := filepath.Join(dataDirectory, "sam.csv")
	require.NoError(t, os.WriteFile(samPath, []byte(serviceTestSAMExportConstant), 0o644))

	_, buildError := refcache.Build(context.Background(), refcache.BuildOptions{
		DataDirectory: dataDirectory,
		Month:         serviceTestMonthConstant,
		OIGPath:       oigPath,
		SAMPath:       samPath,
	}, nil)
	require.NoError(t, buildError)

	clientConfigPath := filepath.Join(dataDirectory, "client.yaml")
	require.NoError(t, os.WriteFile(clientConfigPath, []byte(serviceTestClientConfigConstant), 0o644))
	staffPath := filepath.Join(dataDirectory, "staff.csv")
	require.NoError(t, os.WriteFile(staffPath, []byte(serviceTestStaffRosterConstant), 0o644))
	vendorPath := filepath.Join(dataDirectory, "vendors.csv")
	require.NoError(t, os.WriteFile(vendorPath, []byte(serviceTestVendorRosterConstant), 0o644))

	return dataDirectory, Options{
		ClientConfigPath: clientConfigPath,
		Month:            serviceTestMonthConstant,
		DataDirectory:    dataDirectory,
		StaffPath:        staffPath,
		VendorPath:       vendorPath,
		OIGPath:          oigPath,
		SAMPath:          samPath,
	}
}

func TestRunProducesAllArtifacts(t *testing.T) {
	dataDirectory, options := prepareRunFixtures(t)

	service := NewService(Dependencies{Clock: serviceTestClock})
	result, runError := service.Run(context.Background(), options)
	require.NoError(t, runError)

	require.Equal(t, filepath.Join(dataDirectory, "runs", "Harbor Health", serviceTestMonthConstant), result.RunDirectory)
	require.Equal(t, 2, result.StaffCount)
	require.Equal(t, 0, result.BoardCount)
	require.Equal(t, 2, result.VendorCount)
	require.Empty(t, result.Warnings)

	for _, artifactPath := range []string{result.AuditFile, result.StaffPDF, result.BoardPDF, result.VendorPDF} {
		fileInfo, statError := os.Stat(artifactPath)
		require.NoError(t, statError)
		require.Greater(t, fileInfo.Size(), int64(0))
	}

	encodedMetadata, readError := os.ReadFile(filepath.Join(result.RunDirectory, "metadata.json"))
	require.NoError(t, readError)
	var metadata map[string]any
	require.NoError(t, json.Unmarshal(encodedMetadata, &metadata))
	require.Equal(t, "Harbor Health", metadata["client"])
	require.Equal(t, serviceTestMonthConstant, metadata["month"])
	require.Equal(t, EngineVersion, metadata["engine_version"])
	require.NotEmpty(t, metadata["run_id"])
	require.NotEmpty(t, metadata["oig_file_hash"])
	require.NotEmpty(t, metadata["sam_file_hash"])
	require.Equal(t, "2026-08-30T12:00:00Z", metadata["timestamp"])

	runLog, logReadError := os.ReadFile(filepath.Join(result.RunDirectory, "run_log.txt"))
	require.NoError(t, logReadError)
	require.Contains(t, string(runLog), "Exclusion check completed successfully.")

	workbook, openError := excelize.OpenFile(result.AuditFile)
	require.NoError(t, openError)
	defer func() {
		require.NoError(t, workbook.Close())
	}()

	metadataRows, metadataRowsError := workbook.GetRows("Run Metadata")
	require.NoError(t, metadataRowsError)
	require.Contains(t, metadataRows, []string{"timestamp", "2026-08-30T12:00:00Z"})
}

func TestRunScreensRostersAgainstCache(t *testing.T) {
	_, options := prepareRunFixtures(t)

	service := NewService(Dependencies{Clock: serviceTestClock})
	result, runError := service.Run(context.Background(), options)
	require.NoError(t, runError)

	workbook, openError := excelize.OpenFile(result.AuditFile)
	require.NoError(t, openError)
	defer func() {
		require.NoError(t, workbook.Close())
	}()

	staffRows, staffRowsError := workbook.GetRows("Staff Results")
	require.NoError(t, staffRowsError)
	require.Len(t, staffRows, 3)

	// name, dob, ssn_last4, role, status, oig_status, oig_date, sam_status
	require.Equal(t, "JOHN DOE", staffRows[1][0])
	require.Equal(t, "1962-07-04", staffRows[1][1])
	require.Equal(t, "Nurse", staffRows[1][3])
	require.Equal(t, match.StatusConfirmed, staffRows[1][5])
	require.Equal(t, "20190520", staffRows[1][6])

	require.Equal(t, "ALICE BROWN", staffRows[2][0])
	require.Equal(t, match.StatusNotFound, staffRows[2][5])

	vendorRows, vendorRowsError := workbook.GetRows("Vendor Results")
	require.NoError(t, vendorRowsError)
	require.Len(t, vendorRows, 3)

	// name, classification, city, state, oig_status
	require.Equal(t, "Acme Medical Supply LLC", vendorRows[1][0])
	require.Equal(t, string(match.ClassificationEntity), vendorRows[1][1])
	require.Equal(t, "Springfield", vendorRows[1][2])
	require.Equal(t, "IL", vendorRows[1][3])
	require.Equal(t, match.StatusConfirmed, vendorRows[1][4])

	require.Equal(t, "Quiet Lane Consulting LLC", vendorRows[2][0])
	require.Equal(t, match.StatusNotFound, vendorRows[2][4])
}

func TestRunScreensBoardRosterByWholeName(t *testing.T) {
	dataDirectory, options := prepareRunFixtures(t)

	require.NoError(t, os.WriteFile(options.ClientConfigPath, []byte(serviceTestBoardClientConfigConstant), 0o644))
	boardPath := filepath.Join(dataDirectory, "board.csv")
	require.NoError(t, os.WriteFile(boardPath, []byte(serviceTestBoardRosterConstant), 0o644))
	options.StaffPath = ""
	options.VendorPath = ""
	options.BoardPath = boardPath

	service := NewService(Dependencies{Clock: serviceTestClock})
	result, runError := service.Run(context.Background(), options)
	require.NoError(t, runError)
	require.Equal(t, 0, result.StaffCount)
	require.Equal(t, 2, result.BoardCount)
	require.Equal(t, 0, result.VendorCount)

	workbook, openError := excelize.OpenFile(result.AuditFile)
	require.NoError(t, openError)
	defer func() {
		require.NoError(t, workbook.Close())
	}()

	boardRows, boardRowsError := workbook.GetRows("Board Results")
	require.NoError(t, boardRowsError)
	require.Len(t, boardRows, 3)

	// name, dob, ssn_last4, oig_status, oig_date
	require.Equal(t, "JOHN DOE", boardRows[1][0])
	require.Equal(t, "1962-07-04", boardRows[1][1])
	require.Equal(t, match.StatusConfirmed, boardRows[1][3])
	require.Equal(t, "20190520", boardRows[1][4])

	require.Equal(t, "MARIA SANTOS", boardRows[2][0])
	require.Equal(t, match.StatusNotFound, boardRows[2][3])
}

func TestRunValidatesOptions(t *testing.T) {
	service := NewService(Dependencies{})

	_, missingClientError := service.Run(context.Background(), Options{Month: serviceTestMonthConstant})
	require.ErrorIs(t, missingClientError, ErrClientConfigRequired)

	_, badMonthError := service.Run(context.Background(), Options{ClientConfigPath: "client.yaml", Month: "August 2026"})
	require.ErrorIs(t, badMonthError, ErrMonthInvalid)
}

func TestRunRequiresBuiltCache(t *testing.T) {
	dataDirectory := t.TempDir()
	clientConfigPath := filepath.Join(dataDirectory, "client.yaml")
	require.NoError(t, os.WriteFile(clientConfigPath, []byte(serviceTestClientConfigConstant), 0o644))

	service := NewService(Dependencies{})
	_, runError := service.Run(context.Background(), Options{
		ClientConfigPath: clientConfigPath,
		Month:            serviceTestMonthConstant,
		DataDirectory:    dataDirectory,
	})
	require.ErrorIs(t, runError, refcache.ErrCacheMissing)
}

func TestRunRejectsUndeclaredSection(t *testing.T) {
	dataDirectory, options := prepareRunFixtures(t)

	boardPath := filepath.Join(dataDirectory, "board.csv")
	require.NoError(t, os.WriteFile(boardPath, []byte("Member\nJane Doe\n"), 0o644))
	options.BoardPath = boardPath

	service := NewService(Dependencies{Clock: serviceTestClock})
	_, runError := service.Run(context.Background(), options)
	require.Error(t, runError)
	require.Contains(t, runError.Error(), "board")
}
