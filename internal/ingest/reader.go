package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/temirov/exclusion-screener/internal/clientconfig"
)

const (
	csvExtensionConstant            = ".csv"
	excelExtensionConstant          = ".xlsx"
	excelMacroExtensionConstant     = ".xlsm"
	excelLegacyExtensionConstant    = ".xls"
	rosterOpenErrorTemplateConstant = "unable to open roster %s: %w"
	rosterReadErrorTemplateConstant = "unable to read roster %s: %w"
	excelNoSheetsMessageConstant    = "workbook contains no sheets"
	headerRowOutOfRangeTemplate     = "header_row %d is past the end of the file (%d rows after skip_rows)"
	headerTokensNotFoundTemplate    = "no row matched the configured true_header_tokens %v"
	unmappedColumnWarningTemplate   = "configured column %q for field %q was not found in the resolved header"
	defaultDelimiterRuneConstant    = ','
	delimiterSampleRowLimitConstant = 10
)

// delimiterCandidates lists the separators considered during sniffing.
var delimiterCandidates = []rune{',', ';', '\t', '|'}

// Record exposes one roster row keyed by source column header.
type Record map[string]string

// Value returns the cell under the given source header, or empty when the header is absent.
func (record Record) Value(sourceHeader string) string {
	return record[sourceHeader]
}

// Table is a parsed roster with resolved headers.
type Table struct {
	Headers []string
	Rows    []Record
}

// Resolution reports how a roster was interpreted, for run metadata and troubleshooting.
type Resolution struct {
	HeaderRowIndex int
	Delimiter      string
	ColumnBindings map[string]string
	Warnings       []string
}

// ReadRoster parses the roster at path according to the section configuration.
func ReadRoster(rosterPath string, section clientconfig.SectionConfiguration) (Table, Resolution, error) {
	resolvedFileType := resolveFileType(rosterPath, section.FileType)

	var rawRows [][]string
	var delimiterUsed rune
	var readError error

	switch resolvedFileType {
	case clientconfig.FileTypeExcel:
		rawRows, readError = readExcelRows(rosterPath)
		delimiterUsed = 0
	default:
		rawRows, delimiterUsed, readError = readCSVRows(rosterPath, section)
	}
	if readError != nil {
		return Table{}, Resolution{}, readError
	}

	if section.SkipRows > 0 {
		if section.SkipRows >= len(rawRows) {
			rawRows = nil
		} else {
			rawRows = rawRows[section.SkipRows:]
		}
	}

	headerRowIndex, headerError := locateHeaderRow(rawRows, section)
	if headerError != nil {
		return Table{}, Resolution{}, headerError
	}

	headers := normalizeHeaders(rawRows[headerRowIndex])
	table := Table{Headers: headers}
	for _, rawRow := range rawRows[headerRowIndex+1:] {
		if rowIsEmpty(rawRow) {
			continue
		}
		table.Rows = append(table.Rows, buildRecord(headers, rawRow))
	}

	resolution := Resolution{
		HeaderRowIndex: section.SkipRows + headerRowIndex,
		ColumnBindings: map[string]string{},
	}
	if delimiterUsed != 0 {
		resolution.Delimiter = string(delimiterUsed)
	}

	resolveColumnBindings(&resolution, headers, section)

	return table, resolution, nil
}

// resolveFileType honors an explicit file type and otherwise infers one from the extension.
func resolveFileType(rosterPath string, configured clientconfig.FileType) clientconfig.FileType {
	if configured == clientconfig.FileTypeCSV || configured == clientconfig.FileTypeExcel {
		return configured
	}
	switch strings.ToLower(filepath.Ext(rosterPath)) {
	case excelExtensionConstant, excelMacroExtensionConstant, excelLegacyExtensionConstant:
		return clientconfig.FileTypeExcel
	case csvExtensionConstant:
		return clientconfig.FileTypeCSV
	default:
		return clientconfig.FileTypeCSV
	}
}

func readCSVRows(rosterPath string, section clientconfig.SectionConfiguration) ([][]string, rune, error) {
	rosterData, readError := os.ReadFile(rosterPath)
	if readError != nil {
		return nil, 0, fmt.Errorf(rosterOpenErrorTemplateConstant, rosterPath, readError)
	}

	delimiter := rune(defaultDelimiterRuneConstant)
	trimmedDelimiter := strings.TrimSpace(section.Delimiter)
	switch {
	case section.DelimiterIsAuto():
		delimiter = sniffDelimiter(string(rosterData))
	case len(trimmedDelimiter) > 0:
		delimiter = []rune(trimmedDelimiter)[0]
	}

	csvReader := csv.NewReader(strings.NewReader(string(rosterData)))
	csvReader.Comma = delimiter
	csvReader.FieldsPerRecord = -1
	csvReader.LazyQuotes = true

	rows, parseError := csvReader.ReadAll()
	if parseError != nil {
		return nil, 0, fmt.Errorf(rosterReadErrorTemplateConstant, rosterPath, parseError)
	}

	return rows, delimiter, nil
}

func readExcelRows(rosterPath string) ([][]string, error) {
	workbook, openError := excelize.OpenFile(rosterPath)
	if openError != nil {
		return nil, fmt.Errorf(rosterOpenErrorTemplateConstant, rosterPath, openError)
	}
	defer func() {
		_ = workbook.Close()
	}()

	sheetNames := workbook.GetSheetList()
	if len(sheetNames) == 0 {
		return nil, errors.New(excelNoSheetsMessageConstant)
	}

	rows, rowsError := workbook.GetRows(sheetNames[0])
	if rowsError != nil {
		return nil, fmt.Errorf(rosterReadErrorTemplateConstant, rosterPath, rowsError)
	}

	return rows, nil
}

// sniffDelimiter scores each candidate separator over the leading rows and
// selects the one that appears most often, preferring the comma on ties.
func sniffDelimiter(content string) rune {
	lines := strings.Split(content, "\n")
	if len(lines) > delimiterSampleRowLimitConstant {
		lines = lines[:delimiterSampleRowLimitConstant]
	}

	bestDelimiter := rune(defaultDelimiterRuneConstant)
	bestScore := 0
	for _, candidate := range delimiterCandidates {
		score := 0
		for _, line := range lines {
			score += strings.Count(line, string(candidate))
		}
		if score > bestScore {
			bestScore = score
			bestDelimiter = candidate
		}
	}

	return bestDelimiter
}

// locateHeaderRow returns the index of the header row within rows, honoring
// explicit indexes and token-based automatic recognition.
func locateHeaderRow(rows [][]string, section clientconfig.SectionConfiguration) (int, error) {
	if !section.HeaderRow.Auto {
		if section.HeaderRow.Index >= len(rows) {
			return 0, fmt.Errorf(headerRowOutOfRangeTemplate, section.HeaderRow.Index, len(rows))
		}
		return section.HeaderRow.Index, nil
	}

	for rowIndex, row := range rows {
		if rowMatchesHeaderTokens(row, section.TrueHeaderTokens) {
			return rowIndex, nil
		}
	}

	return 0, fmt.Errorf(headerTokensNotFoundTemplate, section.TrueHeaderTokens)
}

// rowMatchesHeaderTokens reports whether every configured token appears as a
// cell value, compared case-insensitively after whitespace normalization.
func rowMatchesHeaderTokens(row []string, tokens []string) bool {
	if len(tokens) == 0 {
		return false
	}

	cellValues := map[string]struct{}{}
	for _, cell := range row {
		cellValues[foldHeader(cell)] = struct{}{}
	}

	for _, token := range tokens {
		if _, present := cellValues[foldHeader(token)]; !present {
			return false
		}
	}

	return true
}

func foldHeader(value string) string {
	return strings.ToLower(strings.Join(strings.Fields(value), " "))
}

func normalizeHeaders(rawHeader []string) []string {
	headers := make([]string, len(rawHeader))
	for headerIndex, headerValue := range rawHeader {
		headers[headerIndex] = strings.TrimSpace(headerValue)
	}
	return headers
}

func rowIsEmpty(row []string) bool {
	for _, cell := range row {
		if len(strings.TrimSpace(cell)) > 0 {
			return false
		}
	}
	return true
}

// buildRecord maps header names to cell values, padding ragged rows. The
// first occurrence wins when a header name repeats.
func buildRecord(headers []string, rawRow []string) Record {
	record := Record{}
	for headerIndex, headerName := range headers {
		if len(headerName) == 0 {
			continue
		}
		if _, alreadyBound := record[headerName]; alreadyBound {
			continue
		}
		cellValue := ""
		if headerIndex < len(rawRow) {
			cellValue = strings.TrimSpace(rawRow[headerIndex])
		}
		record[headerName] = cellValue
	}
	return record
}

// resolveColumnBindings records which configured mappings bind to resolved
// headers, warning on mappings that reference absent columns. Explicit
// configuration always wins; unmapped fields simply stay unbound.
func resolveColumnBindings(resolution *Resolution, headers []string, section clientconfig.SectionConfiguration) {
	headerSet := map[string]struct{}{}
	for _, headerName := range headers {
		headerSet[headerName] = struct{}{}
	}

	for semanticField, sourceHeader := range section.Columns {
		resolution.ColumnBindings[semanticField] = sourceHeader
		if _, present := headerSet[sourceHeader]; !present {
			resolution.Warnings = append(
				resolution.Warnings,
				fmt.Sprintf(unmappedColumnWarningTemplate, sourceHeader, semanticField),
			)
		}
	}
}
