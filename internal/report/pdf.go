package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/temirov/exclusion-screener/internal/match"
)

const (
	pdfOrientationConstant      = "L"
	pdfUnitConstant             = "in"
	pdfPageSizeConstant         = "Letter"
	pdfFontFamilyConstant       = "Helvetica"
	pdfBoldStyleConstant        = "B"
	pdfPlainStyleConstant       = ""
	pdfMarginConstant           = 0.5
	pdfHeadingFontSizeConstant  = 14
	pdfTitleFontSizeConstant    = 12
	pdfMonthFontSizeConstant    = 10
	pdfSummaryFontSizeConstant  = 9
	pdfTableFontSizeConstant    = 8
	pdfFooterFontSizeConstant   = 8
	pdfLineHeightConstant       = 0.22
	pdfTableRowHeightConstant   = 0.20
	pdfSpacerHeightConstant     = 0.10
	pdfPageNumberTemplate       = "-- %d of {nb} --"
	pdfReportDateLayoutConstant = "January 2, 2006"
	pdfDisplayDOBLayoutConstant = "1/2/2006"
	isoDateLayoutConstant       = "2006-01-02"

	screeningSummaryHeadingConstant = "Screening Summary"
	noExclusionsHeadingConstant     = "NO EXCLUSIONS FOUND"
	exclusionsFoundHeadingConstant  = "MATCHES REQUIRE ATTENTION"
	pdfAttributionConstant          = "This report was generated using automated screening against the U.S. Department of Health and Human " +
		"Services Office of Inspector General (OIG) List of Excluded Individuals and Entities and the System " +
		"for Award Management (SAM) Exclusions database."
)

var sectionDisplayLabels = map[string]string{
	StaffKind:   "Staff",
	BoardKind:   "Board Members",
	VendorsKind: "Vendors",
}

var sectionTableTitles = map[string]string{
	StaffKind:   "Screened Staff List",
	BoardKind:   "Screened Board Members",
	VendorsKind: "Screened Vendors",
}

var sectionClearanceTexts = map[string]string{
	StaffKind: "All staff members have been screened against the OIG and SAM exclusion databases. " +
		"No matches were found. All staff are clear to continue employment.",
	BoardKind: "All board members have been screened against the OIG and SAM exclusion databases. " +
		"No matches were found.",
	VendorsKind: "All vendors have been screened against the OIG and SAM exclusion databases. " +
		"No matches were found.",
}

// WritePDFReport renders one roster section's screening report as a landscape PDF.
func WritePDFReport(outputPath string, clientName string, month string, title string, kind string, records []Record, clock func() time.Time) error {
	if clock == nil {
		clock = time.Now
	}

	document := fpdf.New(pdfOrientationConstant, pdfUnitConstant, pdfPageSizeConstant, "")
	document.SetMargins(pdfMarginConstant, pdfMarginConstant, pdfMarginConstant)
	document.AliasNbPages("")
	document.SetFooterFunc(func() {
		document.SetY(-pdfMarginConstant)
		document.SetFont(pdfFontFamilyConstant, pdfPlainStyleConstant, pdfFooterFontSizeConstant)
		document.SetTextColor(128, 128, 128)
		document.CellFormat(0, pdfLineHeightConstant, fmt.Sprintf(pdfPageNumberTemplate, document.PageNo()), "", 0, "C", false, 0, "")
	})
	document.AddPage()

	writeReportHeadings(document, clientName, title, month)
	writeScreeningSummary(document, kind, records, clock)
	writeClearanceNotice(document, kind, records)
	writeSectionTable(document, kind, records)
	writeAttribution(document)

	return document.OutputFileAndClose(outputPath)
}

func writeReportHeadings(document *fpdf.Fpdf, clientName string, title string, month string) {
	document.SetFont(pdfFontFamilyConstant, pdfBoldStyleConstant, pdfHeadingFontSizeConstant)
	document.SetTextColor(0, 0, 0)
	document.CellFormat(0, pdfLineHeightConstant+0.04, clientName, "", 1, "C", false, 0, "")

	displayTitle := strings.ReplaceAll(title, " Exclusion Report", " Exclusion Screening Report")
	document.SetFont(pdfFontFamilyConstant, pdfBoldStyleConstant, pdfTitleFontSizeConstant)
	document.CellFormat(0, pdfLineHeightConstant, displayTitle, "", 1, "C", false, 0, "")

	document.SetFont(pdfFontFamilyConstant, pdfPlainStyleConstant, pdfMonthFontSizeConstant)
	document.CellFormat(0, pdfLineHeightConstant, month, "", 1, "C", false, 0, "")
	document.Ln(pdfSpacerHeightConstant)
}

func writeScreeningSummary(document *fpdf.Fpdf, kind string, records []Record, clock func() time.Time) {
	totalScreened := len(records)
	oigFound := 0
	samFound := 0
	totalMatches := 0
	for _, record := range records {
		if record.Outcome.OIGStatus == match.StatusConfirmed {
			oigFound++
		}
		if record.Outcome.SAMStatus == match.StatusConfirmed {
			samFound++
		}
		if record.Outcome.Confirmed() || record.Outcome.Review.Required {
			totalMatches++
		}
	}

	sectionLabel, labelKnown := sectionDisplayLabels[kind]
	if !labelKnown {
		sectionLabel = "Records"
	}

	document.SetFont(pdfFontFamilyConstant, pdfBoldStyleConstant, pdfMonthFontSizeConstant)
	document.CellFormat(0, pdfLineHeightConstant, screeningSummaryHeadingConstant, "", 1, "L", false, 0, "")

	document.SetFont(pdfFontFamilyConstant, pdfPlainStyleConstant, pdfSummaryFontSizeConstant)
	summaryLines := []string{
		fmt.Sprintf("Total %s Screened: %d", sectionLabel, totalScreened),
		fmt.Sprintf("OIG Exclusions Found: %d", oigFound),
		fmt.Sprintf("SAM Exclusions Found: %d", samFound),
		fmt.Sprintf("Total Matches: %d", totalMatches),
		fmt.Sprintf("Report Date: %s", clock().Format(pdfReportDateLayoutConstant)),
	}
	for _, summaryLine := range summaryLines {
		document.CellFormat(0, pdfLineHeightConstant-0.04, summaryLine, "", 1, "L", false, 0, "")
	}
	document.Ln(pdfSpacerHeightConstant)
}

func writeClearanceNotice(document *fpdf.Fpdf, kind string, records []Record) {
	anyMatches := false
	for _, record := range records {
		if record.Outcome.Confirmed() || record.Outcome.Review.Required {
			anyMatches = true
			break
		}
	}

	document.SetFont(pdfFontFamilyConstant, pdfBoldStyleConstant, pdfMonthFontSizeConstant)
	if anyMatches {
		document.SetTextColor(183, 28, 28)
		document.CellFormat(0, pdfLineHeightConstant, exclusionsFoundHeadingConstant, "", 1, "L", false, 0, "")
	} else {
		document.SetTextColor(46, 125, 50)
		document.CellFormat(0, pdfLineHeightConstant, noExclusionsHeadingConstant, "", 1, "L", false, 0, "")

		clearanceText, textKnown := sectionClearanceTexts[kind]
		if !textKnown {
			clearanceText = "All records have been screened against the OIG and SAM exclusion databases."
		}
		document.SetTextColor(0, 0, 0)
		document.SetFont(pdfFontFamilyConstant, pdfPlainStyleConstant, pdfSummaryFontSizeConstant)
		document.CellFormat(0, pdfLineHeightConstant-0.04, clearanceText, "", 1, "L", false, 0, "")
	}
	document.SetTextColor(0, 0, 0)
	document.Ln(pdfSpacerHeightConstant)
}

func writeSectionTable(document *fpdf.Fpdf, kind string, records []Record) {
	tableTitle, titleKnown := sectionTableTitles[kind]
	if !titleKnown {
		tableTitle = "Screened Records"
	}
	document.SetFont(pdfFontFamilyConstant, pdfBoldStyleConstant, pdfMonthFontSizeConstant)
	document.CellFormat(0, pdfLineHeightConstant, tableTitle, "", 1, "L", false, 0, "")

	headers, widths, rows := buildTableData(kind, records)

	document.SetFont(pdfFontFamilyConstant, pdfBoldStyleConstant, pdfTableFontSizeConstant)
	document.SetFillColor(34, 75, 122)
	document.SetTextColor(255, 255, 255)
	document.SetDrawColor(176, 190, 197)
	for columnIndex, headerName := range headers {
		document.CellFormat(widths[columnIndex], pdfTableRowHeightConstant, headerName, "1", 0, "L", true, 0, "")
	}
	document.Ln(-1)

	document.SetFont(pdfFontFamilyConstant, pdfPlainStyleConstant, pdfTableFontSizeConstant)
	document.SetTextColor(0, 0, 0)
	for _, row := range rows {
		for columnIndex, cellValue := range row {
			document.CellFormat(widths[columnIndex], pdfTableRowHeightConstant, cellValue, "1", 0, "L", false, 0, "")
		}
		document.Ln(-1)
	}
	document.Ln(pdfSpacerHeightConstant)
}

// buildTableData selects the per-kind column layout; widths are inches on landscape letter.
func buildTableData(kind string, records []Record) ([]string, []float64, [][]string) {
	switch kind {
	case StaffKind:
		headers := []string{"Last Name", "First Name", "Job Title", "Employment Status"}
		widths := []float64{2.0, 1.9, 4.9, 1.7}
		rows := make([][]string, 0, len(records))
		for _, record := range records {
			lastName, firstName := splitDisplayName(record.Name)
			rows = append(rows, []string{lastName, firstName, record.Role, record.Status})
		}
		return headers, widths, rows
	case BoardKind:
		headers := []string{"Name", "DOB", "SAM.gov Exclusion Date", "HHS/OIG Exclusion Date"}
		widths := []float64{4.2, 1.3, 2.2, 2.3}
		rows := make([][]string, 0, len(records))
		for _, record := range records {
			rows = append(rows, []string{
				record.Name,
				formatDisplayDOB(record.DateOfBirth),
				formatExclusionDate(record.Outcome.SAMStatus, record.Outcome.SAMDate),
				formatExclusionDate(record.Outcome.OIGStatus, record.Outcome.OIGDate),
			})
		}
		return headers, widths, rows
	case VendorsKind:
		headers := []string{"Name", "City", "State", "SAM.gov Exclusion Date", "HHS/OIG Exclusion Date"}
		widths := []float64{5.5, 1.5, 0.8, 1.1, 1.1}
		rows := make([][]string, 0, len(records))
		for _, record := range records {
			rows = append(rows, []string{
				record.Name,
				record.City,
				record.State,
				formatExclusionDate(record.Outcome.SAMStatus, record.Outcome.SAMDate),
				formatExclusionDate(record.Outcome.OIGStatus, record.Outcome.OIGDate),
			})
		}
		return headers, widths, rows
	default:
		headers := []string{"Name", "Role", "SAM Status", "OIG Status"}
		widths := []float64{2.8, 2.0, 1.35, 1.35}
		rows := make([][]string, 0, len(records))
		for _, record := range records {
			rows = append(rows, []string{record.Name, record.Role, record.Outcome.SAMStatus, record.Outcome.OIGStatus})
		}
		return headers, widths, rows
	}
}

func writeAttribution(document *fpdf.Fpdf) {
	document.SetFont(pdfFontFamilyConstant, pdfPlainStyleConstant, pdfFooterFontSizeConstant)
	document.SetTextColor(128, 128, 128)
	document.MultiCell(0, pdfLineHeightConstant-0.06, pdfAttributionConstant, "", "L", false)
	document.SetTextColor(0, 0, 0)
}

// splitDisplayName separates a display name into last and first components.
// "LAST, FIRST" splits on the comma; otherwise the final token is the last name.
func splitDisplayName(displayName string) (string, string) {
	trimmed := strings.TrimSpace(displayName)
	if len(trimmed) == 0 {
		return "", ""
	}
	if commaIndex := strings.Index(trimmed, ","); commaIndex >= 0 {
		return strings.TrimSpace(trimmed[:commaIndex]), strings.TrimSpace(trimmed[commaIndex+1:])
	}
	tokens := strings.Fields(trimmed)
	if len(tokens) == 1 {
		return tokens[0], ""
	}
	return tokens[len(tokens)-1], strings.Join(tokens[:len(tokens)-1], " ")
}

// formatDisplayDOB renders an ISO date of birth as M/D/YYYY, passing through non-ISO values.
func formatDisplayDOB(value string) string {
	trimmed := strings.TrimSpace(value)
	if len(trimmed) == 0 {
		return ""
	}
	parsed, parseError := time.Parse(isoDateLayoutConstant, trimmed)
	if parseError != nil {
		return trimmed
	}
	return parsed.Format(pdfDisplayDOBLayoutConstant)
}

// formatExclusionDate shows a date only for statuses that carry one.
func formatExclusionDate(status string, date string) string {
	if status == match.StatusConfirmed && len(date) > 0 {
		return date
	}
	return ""
}
