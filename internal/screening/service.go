package screening

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/temirov/exclusion-screener/internal/clientconfig"
	"github.com/temirov/exclusion-screener/internal/history"
	"github.com/temirov/exclusion-screener/internal/ingest"
	"github.com/temirov/exclusion-screener/internal/match"
	"github.com/temirov/exclusion-screener/internal/refcache"
	"github.com/temirov/exclusion-screener/internal/report"
)

const (
	clientConfigRequiredMessageConstant  = "client configuration path must be provided"
	monthRequiredMessageConstant         = "month must be provided in YYYY-MM form"
	sectionNotConfiguredTemplateConstant = "roster supplied for section %s but the client configuration does not declare it"
	sectionIngestErrorTemplateConstant   = "unable to ingest %s roster: %w"
	sectionMatchErrorTemplateConstant    = "unable to match %s roster: %w"

	auditFileNameConstant     = "Audit.xlsx"
	staffReportFileName       = "Staff_Report.pdf"
	boardReportFileName       = "Board_Report.pdf"
	vendorReportFileName      = "Vendor_Report.pdf"
	staffReportTitleConstant  = "Staff Exclusion Report"
	boardReportTitleConstant  = "Board Exclusion Report"
	vendorReportTitleConstant = "Vendor Exclusion Report"

	runCompletedLogMessageConstant = "Exclusion check completed successfully."
	runCompletedMessageConstant    = "exclusion check completed"
	sectionScreenedMessageConstant = "roster section screened"
	logFieldClientConstant         = "client"
	logFieldMonthConstant          = "month"
	logFieldSectionConstant        = "section"
	logFieldRecordCountConstant    = "records"
	logFieldRunDirectoryConstant   = "run_directory"
	logFieldWarningsConstant       = "warnings"

	metadataClientKeyConstant         = "client"
	metadataMonthKeyConstant          = "month"
	metadataEngineVersionKeyConstant  = "engine_version"
	metadataThresholdKeyConstant      = "threshold_version"
	metadataRunIDKeyConstant          = "run_id"
	metadataStaffCountKeyConstant     = "staff_count"
	metadataBoardCountKeyConstant     = "board_count"
	metadataVendorCountKeyConstant    = "vendor_count"
	metadataOIGHashKeyConstant        = "oig_file_hash"
	metadataSAMHashKeyConstant        = "sam_file_hash"
	metadataColumnBindingsKeyConstant = "column_bindings"
	metadataWarningsKeyConstant       = "warnings"
	metadataTimestampKeyConstant      = "timestamp"
)

var monthPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// ErrClientConfigRequired indicates the client configuration path option was empty.
var ErrClientConfigRequired = errors.New(clientConfigRequiredMessageConstant)

// ErrMonthInvalid indicates the month option was empty or not YYYY-MM.
var ErrMonthInvalid = errors.New(monthRequiredMessageConstant)

// Dependencies enumerates external collaborators required for screening runs.
type Dependencies struct {
	Logger *zap.Logger
	Clock  func() time.Time
}

// Options configures one exclusion check run.
type Options struct {
	ClientConfigPath string
	Month            string
	DataDirectory    string
	StaffPath        string
	BoardPath        string
	VendorPath       string
	OIGPath          string
	SAMPath          string
}

// Result captures the artifacts produced by a completed run.
type Result struct {
	RunDirectory string
	AuditFile    string
	StaffPDF     string
	BoardPDF     string
	VendorPDF    string
	StaffCount   int
	BoardCount   int
	VendorCount  int
	Warnings     []string
}

// Service coordinates exclusion check runs end to end.
type Service struct {
	logger *zap.Logger
	clock  func() time.Time
}

// NewService constructs a Service from the provided dependencies.
func NewService(dependencies Dependencies) *Service {
	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clock := dependencies.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Service{logger: logger, clock: clock}
}

// Run executes a full exclusion check for one client and month.
func (service *Service) Run(executionContext context.Context, options Options) (Result, error) {
	if len(strings.TrimSpace(options.ClientConfigPath)) == 0 {
		return Result{}, ErrClientConfigRequired
	}
	if !monthPattern.MatchString(strings.TrimSpace(options.Month)) {
		return Result{}, ErrMonthInvalid
	}

	document, configurationError := clientconfig.Load(options.ClientConfigPath)
	if configurationError != nil {
		return Result{}, configurationError
	}

	cache, cacheError := refcache.Open(options.DataDirectory, options.Month)
	if cacheError != nil {
		return Result{}, cacheError
	}
	defer func() {
		_ = cache.Close()
	}()

	results := report.Results{}
	columnBindings := map[string]any{}
	var warnings []string

	if len(options.StaffPath) > 0 {
		staffRecords, resolution, staffError := service.screenStaff(executionContext, cache, document, options.StaffPath)
		if staffError != nil {
			return Result{}, staffError
		}
		results.Staff = staffRecords
		columnBindings[clientconfig.StaffSectionName] = resolution.ColumnBindings
		warnings = append(warnings, resolution.Warnings...)
		service.logSectionScreened(clientconfig.StaffSectionName, len(staffRecords))
	}

	if len(options.BoardPath) > 0 {
		boardRecords, resolution, boardError := service.screenBoard(executionContext, cache, document, options.BoardPath)
		if boardError != nil {
			return Result{}, boardError
		}
		results.Board = boardRecords
		columnBindings[clientconfig.BoardSectionName] = resolution.ColumnBindings
		warnings = append(warnings, resolution.Warnings...)
		service.logSectionScreened(clientconfig.BoardSectionName, len(boardRecords))
	}

	if len(options.VendorPath) > 0 {
		vendorRecords, resolution, vendorError := service.screenVendors(executionContext, cache, document, options.VendorPath)
		if vendorError != nil {
			return Result{}, vendorError
		}
		results.Vendors = vendorRecords
		columnBindings[clientconfig.VendorsSectionName] = resolution.ColumnBindings
		warnings = append(warnings, resolution.Warnings...)
		service.logSectionScreened(clientconfig.VendorsSectionName, len(vendorRecords))
	}

	return service.persistRun(document, options, results, columnBindings, warnings)
}

func (service *Service) logSectionScreened(sectionName string, recordCount int) {
	service.logger.Info(
		sectionScreenedMessageConstant,
		zap.String(logFieldSectionConstant, sectionName),
		zap.Int(logFieldRecordCountConstant, recordCount),
	)
}

// sectionOrError returns the declared section configuration or an error naming the missing section.
func sectionOrError(document clientconfig.Document, sectionName string) (clientconfig.SectionConfiguration, error) {
	section, declared := document.Section(sectionName)
	if !declared {
		return clientconfig.SectionConfiguration{}, fmt.Errorf(sectionNotConfiguredTemplateConstant, sectionName)
	}
	return section, nil
}

// rowLocation resolves city, state, and zip for a record, preferring explicit
// column mappings and falling back to the combined city_state_zip column.
func rowLocation(record ingest.Record, section clientconfig.SectionConfiguration) ingest.Location {
	location := ingest.Location{
		City:  record.Value(section.Column(clientconfig.FieldCity)),
		State: strings.ToUpper(record.Value(section.Column(clientconfig.FieldState))),
		Zip:   record.Value(section.Column(clientconfig.FieldZip)),
	}

	if section.HasColumn(clientconfig.FieldCityStateZip) {
		combined := ingest.SplitCityStateZip(record.Value(section.Column(clientconfig.FieldCityStateZip)))
		if len(location.City) == 0 {
			location.City = combined.City
		}
		if len(location.State) == 0 {
			location.State = combined.State
		}
		if len(location.Zip) == 0 {
			location.Zip = combined.Zip
		}
	}

	return location
}

func (service *Service) screenStaff(executionContext context.Context, cache *refcache.Cache, document clientconfig.Document, rosterPath string) ([]report.Record, ingest.Resolution, error) {
	section, sectionError := sectionOrError(document, clientconfig.StaffSectionName)
	if sectionError != nil {
		return nil, ingest.Resolution{}, sectionError
	}

	table, resolution, ingestError := ingest.ReadRoster(rosterPath, section)
	if ingestError != nil {
		return nil, ingest.Resolution{}, fmt.Errorf(sectionIngestErrorTemplateConstant, clientconfig.StaffSectionName, ingestError)
	}

	records := make([]report.Record, 0, len(table.Rows))
	for _, row := range table.Rows {
		personName := normalizePersonRow(row, section)
		dateOfBirth := normalizeDOBRow(row, section)
		location := rowLocation(row, section)

		outcome, matchError := match.MatchPerson(executionContext, cache, match.PersonQuery{
			First:      personName.First,
			Last:       personName.Last,
			DOBCompact: dateOfBirth.Compact,
			City:       location.City,
			State:      location.State,
			Zip:        normalizeZipValue(location.Zip),
		})
		if matchError != nil {
			return nil, ingest.Resolution{}, fmt.Errorf(sectionMatchErrorTemplateConstant, clientconfig.StaffSectionName, matchError)
		}

		records = append(records, report.Record{
			Name:        personName.Full,
			DateOfBirth: dateOfBirth.ISO,
			SSNLastFour: normalizeSSNRow(row, section),
			Role:        row.Value(section.Column(clientconfig.FieldJobTitle)),
			Status:      row.Value(section.Column(clientconfig.FieldStatus)),
			City:        location.City,
			State:       location.State,
			Outcome:     outcome,
		})
	}

	return records, resolution, nil
}

func (service *Service) screenBoard(executionContext context.Context, cache *refcache.Cache, document clientconfig.Document, rosterPath string) ([]report.Record, ingest.Resolution, error) {
	section, sectionError := sectionOrError(document, clientconfig.BoardSectionName)
	if sectionError != nil {
		return nil, ingest.Resolution{}, sectionError
	}

	table, resolution, ingestError := ingest.ReadRoster(rosterPath, section)
	if ingestError != nil {
		return nil, ingest.Resolution{}, fmt.Errorf(sectionIngestErrorTemplateConstant, clientconfig.BoardSectionName, ingestError)
	}

	records := make([]report.Record, 0, len(table.Rows))
	for _, row := range table.Rows {
		fullName := row.Value(section.Column(clientconfig.FieldNameColumn))
		firstToken, lastToken := splitWholeName(fullName)
		personName := normalizePersonName(firstToken, lastToken, "")
		dateOfBirth := normalizeDOBRow(row, section)
		location := rowLocation(row, section)

		outcome, matchError := match.MatchPerson(executionContext, cache, match.PersonQuery{
			First:      personName.First,
			Last:       personName.Last,
			DOBCompact: dateOfBirth.Compact,
			City:       location.City,
			State:      location.State,
			Zip:        normalizeZipValue(location.Zip),
		})
		if matchError != nil {
			return nil, ingest.Resolution{}, fmt.Errorf(sectionMatchErrorTemplateConstant, clientconfig.BoardSectionName, matchError)
		}

		records = append(records, report.Record{
			Name:        personName.Full,
			DateOfBirth: dateOfBirth.ISO,
			SSNLastFour: normalizeSSNRow(row, section),
			City:        location.City,
			State:       location.State,
			Outcome:     outcome,
		})
	}

	return records, resolution, nil
}

func (service *Service) screenVendors(executionContext context.Context, cache *refcache.Cache, document clientconfig.Document, rosterPath string) ([]report.Record, ingest.Resolution, error) {
	section, sectionError := sectionOrError(document, clientconfig.VendorsSectionName)
	if sectionError != nil {
		return nil, ingest.Resolution{}, sectionError
	}

	table, resolution, ingestError := ingest.ReadRoster(rosterPath, section)
	if ingestError != nil {
		return nil, ingest.Resolution{}, fmt.Errorf(sectionIngestErrorTemplateConstant, clientconfig.VendorsSectionName, ingestError)
	}

	records := make([]report.Record, 0, len(table.Rows))
	for _, row := range table.Rows {
		rawName := row.Value(section.Column(clientconfig.FieldEntityName))
		taxIdentifier := row.Value(section.Column(clientconfig.FieldTaxID))
		classification := match.ClassifyVendor(rawName, taxIdentifier)
		location := rowLocation(row, section)
		zipCode := normalizeZipValue(location.Zip)

		outcome, matchError := service.matchVendor(executionContext, cache, rawName, classification, location, zipCode)
		if matchError != nil {
			return nil, ingest.Resolution{}, fmt.Errorf(sectionMatchErrorTemplateConstant, clientconfig.VendorsSectionName, matchError)
		}

		records = append(records, report.Record{
			Name:           rawName,
			Classification: string(classification),
			City:           location.City,
			State:          location.State,
			Outcome:        outcome,
		})
	}

	return records, resolution, nil
}

// matchVendor screens one vendor row according to its classification. An
// ambiguous vendor is probed both ways; the person outcome wins only when it
// confirms an exclusion.
func (service *Service) matchVendor(executionContext context.Context, cache *refcache.Cache, rawName string, classification match.Classification, location ingest.Location, zipCode string) (match.Outcome, error) {
	entityQuery := match.EntityQuery{
		Name:  normalizeEntityName(rawName),
		City:  location.City,
		State: location.State,
		Zip:   zipCode,
	}

	switch classification {
	case match.ClassificationEntity:
		return match.MatchEntity(executionContext, cache, entityQuery)
	case match.ClassificationPersonVendor:
		return service.matchVendorAsPerson(executionContext, cache, rawName, location, zipCode)
	default:
		entityOutcome, entityError := match.MatchEntity(executionContext, cache, entityQuery)
		if entityError != nil {
			return match.Outcome{}, entityError
		}

		personOutcome, personError := service.matchVendorAsPerson(executionContext, cache, rawName, location, zipCode)
		if personError != nil {
			return match.Outcome{}, personError
		}

		if personOutcome.Confirmed() {
			return personOutcome, nil
		}
		return entityOutcome, nil
	}
}

func (service *Service) matchVendorAsPerson(executionContext context.Context, cache *refcache.Cache, rawName string, location ingest.Location, zipCode string) (match.Outcome, error) {
	firstToken, lastToken := splitWholeName(rawName)
	personName := normalizePersonName(firstToken, lastToken, "")
	return match.MatchPerson(executionContext, cache, match.PersonQuery{
		First: personName.First,
		Last:  personName.Last,
		City:  location.City,
		State: location.State,
		Zip:   zipCode,
	})
}

// persistRun writes every artifact of a completed run and assembles the result.
func (service *Service) persistRun(document clientconfig.Document, options Options, results report.Results, columnBindings map[string]any, warnings []string) (Result, error) {
	runDirectory, directoryError := history.CreateRunDirectory(options.DataDirectory, document.ClientName, options.Month)
	if directoryError != nil {
		return Result{}, directoryError
	}

	staffCount, boardCount, vendorCount := results.SectionCounts()

	metadata := map[string]any{
		metadataTimestampKeyConstant:      service.clock().UTC().Format(time.RFC3339),
		metadataClientKeyConstant:         document.ClientName,
		metadataMonthKeyConstant:          options.Month,
		metadataEngineVersionKeyConstant:  EngineVersion,
		metadataThresholdKeyConstant:      MatchThresholdVersion,
		metadataRunIDKeyConstant:          uuid.NewString(),
		metadataStaffCountKeyConstant:     staffCount,
		metadataBoardCountKeyConstant:     boardCount,
		metadataVendorCountKeyConstant:    vendorCount,
		metadataColumnBindingsKeyConstant: columnBindings,
	}
	if len(warnings) > 0 {
		metadata[metadataWarningsKeyConstant] = warnings
	}

	if len(options.OIGPath) > 0 {
		oigHash, hashError := refcache.FileSHA256(options.OIGPath)
		if hashError != nil {
			return Result{}, hashError
		}
		metadata[metadataOIGHashKeyConstant] = oigHash
	}
	if len(options.SAMPath) > 0 {
		samHash, hashError := refcache.FileSHA256(options.SAMPath)
		if hashError != nil {
			return Result{}, hashError
		}
		metadata[metadataSAMHashKeyConstant] = samHash
	}

	auditPath := filepath.Join(runDirectory, auditFileNameConstant)
	if workbookError := report.WriteAuditWorkbook(auditPath, results, metadata); workbookError != nil {
		return Result{}, workbookError
	}

	if _, metadataError := history.WriteMetadata(runDirectory, metadata, service.clock); metadataError != nil {
		return Result{}, metadataError
	}
	if _, logError := history.AppendRunLog(runDirectory, runCompletedLogMessageConstant, service.clock); logError != nil {
		return Result{}, logError
	}

	result := Result{
		RunDirectory: runDirectory,
		AuditFile:    auditPath,
		StaffPDF:     filepath.Join(runDirectory, staffReportFileName),
		BoardPDF:     filepath.Join(runDirectory, boardReportFileName),
		VendorPDF:    filepath.Join(runDirectory, vendorReportFileName),
		StaffCount:   staffCount,
		BoardCount:   boardCount,
		VendorCount:  vendorCount,
		Warnings:     warnings,
	}

	pdfSections := []struct {
		path    string
		title   string
		kind    string
		records []report.Record
	}{
		{path: result.StaffPDF, title: staffReportTitleConstant, kind: report.StaffKind, records: results.Staff},
		{path: result.BoardPDF, title: boardReportTitleConstant, kind: report.BoardKind, records: results.Board},
		{path: result.VendorPDF, title: vendorReportTitleConstant, kind: report.VendorsKind, records: results.Vendors},
	}
	for _, pdfSection := range pdfSections {
		if pdfError := report.WritePDFReport(pdfSection.path, document.ClientName, options.Month, pdfSection.title, pdfSection.kind, pdfSection.records, service.clock); pdfError != nil {
			return Result{}, pdfError
		}
	}

	service.logger.Info(
		runCompletedMessageConstant,
		zap.String(logFieldClientConstant, document.ClientName),
		zap.String(logFieldMonthConstant, options.Month),
		zap.String(logFieldRunDirectoryConstant, runDirectory),
		zap.Int(logFieldWarningsConstant, len(warnings)),
	)

	return result, nil
}
