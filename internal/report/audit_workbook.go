package report

import (
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"
)

const (
	defaultSheetNameConstant      = "Sheet1"
	staffSheetNameConstant        = "Staff Results"
	boardSheetNameConstant        = "Board Results"
	vendorSheetNameConstant       = "Vendor Results"
	reviewSheetNameConstant       = "Possible Matches"
	metadataSheetNameConstant     = "Run Metadata"
	noRecordsPlaceholderConstant  = "No records"
	metadataKeyHeaderConstant     = "Key"
	metadataValueHeaderConstant   = "Value"
	sheetCreateErrorTemplate      = "unable to create sheet %s: %w"
	sheetWriteErrorTemplate       = "unable to write sheet %s: %w"
	workbookSaveErrorTemplate     = "unable to save audit workbook %s: %w"
	headerStyleErrorTemplate      = "unable to style sheet %s: %w"
	firstCellReferenceConstant    = "A1"
)

var staffSheetHeaders = []string{
	"name", "dob", "ssn_last4", "role", "status",
	"oig_status", "oig_date", "sam_status", "sam_date", "reason",
	"review_required", "review_source", "review_candidate_name",
	"review_candidate_exclusion_date", "review_note", "review_needed_data",
}

var boardSheetHeaders = []string{
	"name", "dob", "ssn_last4",
	"oig_status", "oig_date", "sam_status", "sam_date", "reason",
	"review_required", "review_source", "review_candidate_name",
	"review_candidate_exclusion_date", "review_note", "review_needed_data",
}

var vendorSheetHeaders = []string{
	"name", "classification", "city", "state",
	"oig_status", "oig_date", "sam_status", "sam_date", "reason",
	"review_required", "review_source", "review_candidate_name",
	"review_candidate_exclusion_date", "review_note", "review_needed_data",
}

var reviewSheetHeaders = []string{
	"section", "name",
	"oig_status", "sam_status",
	"review_source", "review_candidate_name",
	"review_candidate_exclusion_date", "review_note", "review_needed_data",
}

// WriteAuditWorkbook renders the full audit workbook for one screening run.
func WriteAuditWorkbook(outputPath string, results Results, metadata map[string]any) error {
	workbook := excelize.NewFile()
	defer func() {
		_ = workbook.Close()
	}()

	headerStyle, styleError := workbook.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if styleError != nil {
		return styleError
	}

	sectionSheets := []struct {
		name    string
		headers []string
		rows    [][]any
	}{
		{name: staffSheetNameConstant, headers: staffSheetHeaders, rows: sectionRows(results.Staff, staffSheetHeaders)},
		{name: boardSheetNameConstant, headers: boardSheetHeaders, rows: sectionRows(results.Board, boardSheetHeaders)},
		{name: vendorSheetNameConstant, headers: vendorSheetHeaders, rows: sectionRows(results.Vendors, vendorSheetHeaders)},
		{name: reviewSheetNameConstant, headers: reviewSheetHeaders, rows: reviewRows(results)},
	}

	for _, sheet := range sectionSheets {
		if sheetError := writeSheet(workbook, sheet.name, sheet.headers, sheet.rows, headerStyle); sheetError != nil {
			return sheetError
		}
	}

	if metadataError := writeMetadataSheet(workbook, metadata, headerStyle); metadataError != nil {
		return metadataError
	}

	if deleteError := workbook.DeleteSheet(defaultSheetNameConstant); deleteError != nil {
		return deleteError
	}

	if saveError := workbook.SaveAs(outputPath); saveError != nil {
		return fmt.Errorf(workbookSaveErrorTemplate, outputPath, saveError)
	}

	return nil
}

// writeSheet emits a header row plus data rows, or a placeholder when the section is empty.
func writeSheet(workbook *excelize.File, sheetName string, headers []string, rows [][]any, headerStyle int) error {
	if _, createError := workbook.NewSheet(sheetName); createError != nil {
		return fmt.Errorf(sheetCreateErrorTemplate, sheetName, createError)
	}

	if len(rows) == 0 {
		placeholderRow := []any{noRecordsPlaceholderConstant}
		if writeError := workbook.SetSheetRow(sheetName, firstCellReferenceConstant, &placeholderRow); writeError != nil {
			return fmt.Errorf(sheetWriteErrorTemplate, sheetName, writeError)
		}
		return nil
	}

	headerRow := make([]any, len(headers))
	for headerIndex, headerName := range headers {
		headerRow[headerIndex] = headerName
	}
	if writeError := workbook.SetSheetRow(sheetName, firstCellReferenceConstant, &headerRow); writeError != nil {
		return fmt.Errorf(sheetWriteErrorTemplate, sheetName, writeError)
	}

	lastHeaderCell, cellError := excelize.CoordinatesToCellName(len(headers), 1)
	if cellError != nil {
		return cellError
	}
	if styleError := workbook.SetCellStyle(sheetName, firstCellReferenceConstant, lastHeaderCell, headerStyle); styleError != nil {
		return fmt.Errorf(headerStyleErrorTemplate, sheetName, styleError)
	}

	for rowIndex, rowValues := range rows {
		rowCell, rowCellError := excelize.CoordinatesToCellName(1, rowIndex+2)
		if rowCellError != nil {
			return rowCellError
		}
		rowCopy := rowValues
		if writeError := workbook.SetSheetRow(sheetName, rowCell, &rowCopy); writeError != nil {
			return fmt.Errorf(sheetWriteErrorTemplate, sheetName, writeError)
		}
	}

	return nil
}

func sectionRows(records []Record, headers []string) [][]any {
	rows := make([][]any, 0, len(records))
	for _, record := range records {
		row := make([]any, 0, len(headers))
		for _, headerName := range headers {
			row = append(row, recordField(record, headerName))
		}
		rows = append(rows, row)
	}
	return rows
}

func reviewRows(results Results) [][]any {
	taggedRecords := results.ReviewRecords()
	rows := make([][]any, 0, len(taggedRecords))
	for _, tagged := range taggedRecords {
		rows = append(rows, []any{
			tagged.Kind,
			tagged.Record.Name,
			tagged.Record.Outcome.OIGStatus,
			tagged.Record.Outcome.SAMStatus,
			tagged.Record.Outcome.Review.Source,
			tagged.Record.Outcome.Review.CandidateName,
			tagged.Record.Outcome.Review.CandidateExclusionDate,
			tagged.Record.Outcome.Review.Note,
			tagged.Record.Outcome.Review.NeededData,
		})
	}
	return rows
}

// recordField resolves a sheet column name to the matching record value.
func recordField(record Record, columnName string) any {
	switch columnName {
	case "name":
		return record.Name
	case "dob":
		return record.DateOfBirth
	case "ssn_last4":
		return record.SSNLastFour
	case "role":
		return record.Role
	case "status":
		return record.Status
	case "classification":
		return record.Classification
	case "city":
		return record.City
	case "state":
		return record.State
	case "oig_status":
		return record.Outcome.OIGStatus
	case "oig_date":
		return record.Outcome.OIGDate
	case "sam_status":
		return record.Outcome.SAMStatus
	case "sam_date":
		return record.Outcome.SAMDate
	case "reason":
		return record.Outcome.Reason
	case "review_required":
		return record.Outcome.Review.Required
	case "review_source":
		return record.Outcome.Review.Source
	case "review_candidate_name":
		return record.Outcome.Review.CandidateName
	case "review_candidate_exclusion_date":
		return record.Outcome.Review.CandidateExclusionDate
	case "review_note":
		return record.Outcome.Review.Note
	case "review_needed_data":
		return record.Outcome.Review.NeededData
	default:
		return ""
	}
}

func writeMetadataSheet(workbook *excelize.File, metadata map[string]any, headerStyle int) error {
	metadataKeys := make([]string, 0, len(metadata))
	for metadataKey := range metadata {
		metadataKeys = append(metadataKeys, metadataKey)
	}
	sort.Strings(metadataKeys)

	rows := make([][]any, 0, len(metadataKeys))
	for _, metadataKey := range metadataKeys {
		rows = append(rows, []any{metadataKey, fmt.Sprintf("%v", metadata[metadataKey])})
	}

	return writeSheet(workbook, metadataSheetNameConstant, []string{metadataKeyHeaderConstant, metadataValueHeaderConstant}, rows, headerStyle)
}
