package clientconfig

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	clientNameKeyConstant       = "client_name"
	fileTypeKeyConstant         = "file_type"
	headerRowKeyConstant        = "header_row"
	skipRowsKeyConstant         = "skip_rows"
	delimiterKeyConstant        = "delimiter"
	trueHeaderTokensKeyConstant = "true_header_tokens"
	autoValueConstant           = "auto"

	configurationReadErrorTemplateConstant     = "unable to read client configuration %s: %w"
	configurationParseErrorTemplateConstant    = "unable to parse client configuration %s: %w"
	sectionDecodeErrorTemplateConstant         = "section %s: %w"
	sectionValidationErrorTemplateConstant     = "section %s: %w"
	headerRowValueErrorTemplateConstant        = "header_row must be %q or a non-negative integer, got %q"
	clientNameMissingMessageConstant           = "client_name must be provided"
	negativeHeaderRowMessageConstant           = "header_row must not be negative"
	negativeSkipRowsMessageConstant            = "skip_rows must not be negative"
	missingHeaderTokensMessageConstant         = "header_row: auto requires a non-empty true_header_tokens sequence"
	delimiterWithExcelMessageConstant          = "delimiter is a CSV-only option and cannot be combined with file_type: excel"
	unsupportedFileTypeTemplateConstant        = "unsupported file_type %q"
	multiCharacterDelimiterTemplateConstant    = "delimiter must be a single character or %q, got %q"
	sectionMappingExpectedMessageConstant      = "section body must be a mapping"
	documentMappingExpectedMessageConstant     = "client configuration must be a mapping"
	trueHeaderTokensDecodeTemplateConstant     = "true_header_tokens must be a sequence of strings: %w"
	columnMappingValueDecodeTemplateConstant   = "column mapping %s must be a string: %w"
	skipRowsDecodeErrorTemplateConstant        = "skip_rows must be an integer: %w"
	fileTypeDecodeErrorTemplateConstant        = "file_type must be a string: %w"
	delimiterDecodeErrorTemplateConstant       = "delimiter must be a string: %w"
	clientNameDecodeErrorTemplateConstant      = "client_name must be a string: %w"
)

// Section name constants for the roster sections a client document may declare.
const (
	StaffSectionName   = "staff"
	BoardSectionName   = "board"
	VendorsSectionName = "vendors"
)

// Semantic field name constants recognized by ingestion and the runner.
const (
	FieldFirstName    = "first_name"
	FieldLastName     = "last_name"
	FieldMiddleName   = "middle_name"
	FieldDateOfBirth  = "dob"
	FieldZip          = "zip"
	FieldSSN          = "ssn"
	FieldJobTitle     = "job_title"
	FieldStatus       = "status"
	FieldNameColumn   = "name_column"
	FieldEntityName   = "entity_name"
	FieldTaxID        = "tax_id"
	FieldCity         = "city"
	FieldState        = "state"
	FieldCityStateZip = "city_state_zip"
)

// FileType enumerates supported roster file formats.
type FileType string

// Supported file type values.
const (
	FileTypeAuto  FileType = "auto"
	FileTypeCSV   FileType = "csv"
	FileTypeExcel FileType = "excel"
)

// ErrClientNameMissing indicates the document omitted client_name.
var ErrClientNameMissing = errors.New(clientNameMissingMessageConstant)

// ErrNegativeHeaderRow indicates a section declared a negative header row index.
var ErrNegativeHeaderRow = errors.New(negativeHeaderRowMessageConstant)

// ErrNegativeSkipRows indicates a section declared a negative skip_rows count.
var ErrNegativeSkipRows = errors.New(negativeSkipRowsMessageConstant)

// ErrMissingHeaderTokens indicates header_row: auto without true_header_tokens.
var ErrMissingHeaderTokens = errors.New(missingHeaderTokensMessageConstant)

// ErrDelimiterWithExcel indicates a delimiter option on an Excel section.
var ErrDelimiterWithExcel = errors.New(delimiterWithExcelMessageConstant)

// HeaderRow locates the header row of a roster file, either automatically or by explicit 0-based index.
type HeaderRow struct {
	Auto  bool
	Index int
}

// UnmarshalYAML accepts the literal "auto" or a non-negative integer index.
func (headerRow *HeaderRow) UnmarshalYAML(value *yaml.Node) error {
	var literal string
	if stringError := value.Decode(&literal); stringError == nil {
		if strings.EqualFold(strings.TrimSpace(literal), autoValueConstant) {
			headerRow.Auto = true
			headerRow.Index = 0
			return nil
		}
	}

	var index int
	if intError := value.Decode(&index); intError == nil {
		headerRow.Auto = false
		headerRow.Index = index
		return nil
	}

	return fmt.Errorf(headerRowValueErrorTemplateConstant, autoValueConstant, value.Value)
}

// SectionConfiguration describes how one roster file is parsed and mapped.
type SectionConfiguration struct {
	FileType         FileType
	HeaderRow        HeaderRow
	SkipRows         int
	Delimiter        string
	TrueHeaderTokens []string
	Columns          map[string]string
}

// Column returns the configured source header for a semantic field, or empty when unmapped.
func (section SectionConfiguration) Column(semanticField string) string {
	return section.Columns[semanticField]
}

// HasColumn reports whether a semantic field carries an explicit mapping.
func (section SectionConfiguration) HasColumn(semanticField string) bool {
	_, mapped := section.Columns[semanticField]
	return mapped
}

// DelimiterIsAuto reports whether delimiter sniffing was requested.
func (section SectionConfiguration) DelimiterIsAuto() bool {
	return strings.EqualFold(strings.TrimSpace(section.Delimiter), autoValueConstant)
}

// UnmarshalYAML decodes the recognized parse options and treats every other
// scalar entry as a semantic field to source header mapping.
func (section *SectionConfiguration) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return errors.New(sectionMappingExpectedMessageConstant)
	}

	section.FileType = FileTypeAuto
	section.Columns = map[string]string{}

	for entryIndex := 0; entryIndex+1 < len(value.Content); entryIndex += 2 {
		keyNode := value.Content[entryIndex]
		valueNode := value.Content[entryIndex+1]
		entryKey := keyNode.Value

		switch entryKey {
		case fileTypeKeyConstant:
			var fileTypeValue string
			if decodeError := valueNode.Decode(&fileTypeValue); decodeError != nil {
				return fmt.Errorf(fileTypeDecodeErrorTemplateConstant, decodeError)
			}
			section.FileType = FileType(strings.ToLower(strings.TrimSpace(fileTypeValue)))
		case headerRowKeyConstant:
			if decodeError := valueNode.Decode(&section.HeaderRow); decodeError != nil {
				return decodeError
			}
		case skipRowsKeyConstant:
			if decodeError := valueNode.Decode(&section.SkipRows); decodeError != nil {
				return fmt.Errorf(skipRowsDecodeErrorTemplateConstant, decodeError)
			}
		case delimiterKeyConstant:
			if decodeError := valueNode.Decode(&section.Delimiter); decodeError != nil {
				return fmt.Errorf(delimiterDecodeErrorTemplateConstant, decodeError)
			}
		case trueHeaderTokensKeyConstant:
			if decodeError := valueNode.Decode(&section.TrueHeaderTokens); decodeError != nil {
				return fmt.Errorf(trueHeaderTokensDecodeTemplateConstant, decodeError)
			}
		default:
			var columnHeader string
			if decodeError := valueNode.Decode(&columnHeader); decodeError != nil {
				return fmt.Errorf(columnMappingValueDecodeTemplateConstant, entryKey, decodeError)
			}
			section.Columns[entryKey] = columnHeader
		}
	}

	return nil
}

// validate enforces the section-level configuration contract.
func (section SectionConfiguration) validate() error {
	switch section.FileType {
	case FileTypeAuto, FileTypeCSV, FileTypeExcel:
	default:
		return fmt.Errorf(unsupportedFileTypeTemplateConstant, section.FileType)
	}

	if !section.HeaderRow.Auto && section.HeaderRow.Index < 0 {
		return ErrNegativeHeaderRow
	}
	if section.SkipRows < 0 {
		return ErrNegativeSkipRows
	}
	if section.HeaderRow.Auto && len(section.TrueHeaderTokens) == 0 {
		return ErrMissingHeaderTokens
	}

	trimmedDelimiter := strings.TrimSpace(section.Delimiter)
	if section.FileType == FileTypeExcel && len(trimmedDelimiter) > 0 {
		return ErrDelimiterWithExcel
	}
	if len(trimmedDelimiter) > 1 && !section.DelimiterIsAuto() {
		return fmt.Errorf(multiCharacterDelimiterTemplateConstant, autoValueConstant, section.Delimiter)
	}

	return nil
}

// Document is a fully parsed client screening configuration.
type Document struct {
	ClientName string
	Sections   map[string]SectionConfiguration
}

// Section returns the configuration for a named roster section and whether it was declared.
func (document Document) Section(sectionName string) (SectionConfiguration, bool) {
	section, declared := document.Sections[sectionName]
	return section, declared
}

// UnmarshalYAML decodes client_name and any declared roster sections.
func (document *Document) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return errors.New(documentMappingExpectedMessageConstant)
	}

	document.Sections = map[string]SectionConfiguration{}

	for entryIndex := 0; entryIndex+1 < len(value.Content); entryIndex += 2 {
		keyNode := value.Content[entryIndex]
		valueNode := value.Content[entryIndex+1]

		switch keyNode.Value {
		case clientNameKeyConstant:
			if decodeError := valueNode.Decode(&document.ClientName); decodeError != nil {
				return fmt.Errorf(clientNameDecodeErrorTemplateConstant, decodeError)
			}
		case StaffSectionName, BoardSectionName, VendorsSectionName:
			var section SectionConfiguration
			if decodeError := valueNode.Decode(&section); decodeError != nil {
				return fmt.Errorf(sectionDecodeErrorTemplateConstant, keyNode.Value, decodeError)
			}
			document.Sections[keyNode.Value] = section
		}
	}

	return nil
}

// Validate enforces the document-level configuration contract.
func (document Document) Validate() error {
	if len(strings.TrimSpace(document.ClientName)) == 0 {
		return ErrClientNameMissing
	}

	for sectionName, section := range document.Sections {
		if validationError := section.validate(); validationError != nil {
			return fmt.Errorf(sectionValidationErrorTemplateConstant, sectionName, validationError)
		}
	}

	return nil
}

// Load reads, parses, and validates a client configuration file.
func Load(configurationPath string) (Document, error) {
	configurationData, readError := os.ReadFile(configurationPath)
	if readError != nil {
		return Document{}, fmt.Errorf(configurationReadErrorTemplateConstant, configurationPath, readError)
	}

	var document Document
	if parseError := yaml.Unmarshal(configurationData, &document); parseError != nil {
		return Document{}, fmt.Errorf(configurationParseErrorTemplateConstant, configurationPath, parseError)
	}

	if validationError := document.Validate(); validationError != nil {
		return Document{}, validationError
	}

	return document, nil
}
