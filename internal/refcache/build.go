package refcache

import (
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/exclusion-screener/internal/normalize"
)

const (
	cacheAlreadyBuiltTemplateConstant    = "reference cache for %s already exists at %s"
	cacheDirectoryErrorTemplateConstant  = "unable to create reference cache directory: %w"
	cacheCreateErrorTemplateConstant     = "unable to create reference cache %s: %w"
	referenceOpenErrorTemplateConstant   = "unable to open reference file %s: %w"
	referenceParseErrorTemplateConstant  = "unable to parse reference file %s: %w"
	schemaErrorTemplateConstant          = "unable to create reference schema: %w"
	loadErrorTemplateConstant            = "unable to load %s reference rows: %w"
	indexErrorTemplateConstant           = "unable to create reference indexes: %w"
	oigSourceNameConstant                = "OIG"
	samSourceNameConstant                = "SAM"
	oigLoadedMessageConstant             = "loaded OIG reference rows"
	samLoadedMessageConstant             = "loaded SAM reference rows"
	cacheBuiltMessageConstant            = "reference cache built"
	logFieldMonthConstant                = "month"
	logFieldPeopleCountConstant          = "people"
	logFieldEntityCountConstant          = "entities"
	logFieldCachePathConstant            = "cache_path"
	directoryPermissionsConstant         = 0o755

	oigFirstNameHeaderConstant     = "FIRSTNAME"
	oigLastNameHeaderConstant      = "LASTNAME"
	oigDateOfBirthHeaderConstant   = "DOB"
	oigBusinessNameHeaderConstant  = "BUSNAME"
	oigExclusionDateHeaderConstant = "EXCLDATE"

	samFirstNameHeaderConstant     = "First"
	samLastNameHeaderConstant      = "Last"
	samEntityNameHeaderConstant    = "Name"
	samCityHeaderConstant          = "City"
	samStateHeaderConstant         = "State"
	samZipHeaderConstant           = "Zip"
	samExclusionDateHeaderConstant = "Exclusion Date"
)

const referenceSchemaConstant = `
CREATE TABLE oig_people (
    first TEXT,
    last TEXT,
    dob TEXT,
    dob_compact TEXT,
    exclusion_date TEXT
);
CREATE TABLE oig_entities (
    name TEXT,
    exclusion_date TEXT
);
CREATE TABLE sam_people (
    first TEXT,
    last TEXT,
    exclusion_date TEXT,
    city TEXT,
    state TEXT,
    zip TEXT
);
CREATE TABLE sam_entities (
    name TEXT,
    exclusion_date TEXT,
    city TEXT,
    state TEXT,
    zip TEXT
);
`

const referenceIndexesConstant = `
CREATE INDEX idx_oig_people ON oig_people(last, first, dob_compact);
CREATE INDEX idx_oig_entities ON oig_entities(name);
CREATE INDEX idx_sam_people ON sam_people(last, first);
CREATE INDEX idx_sam_entities ON sam_entities(name);
`

const (
	insertOIGPersonStatementConstant  = `INSERT INTO oig_people VALUES (?, ?, ?, ?, ?)`
	insertOIGEntityStatementConstant  = `INSERT INTO oig_entities VALUES (?, ?)`
	insertSAMPersonStatementConstant  = `INSERT INTO sam_people VALUES (?, ?, ?, ?, ?, ?)`
	insertSAMEntityStatementConstant  = `INSERT INTO sam_entities VALUES (?, ?, ?, ?, ?)`
)

// BuildOptions configures a monthly reference cache build.
type BuildOptions struct {
	DataDirectory string
	Month         string
	OIGPath       string
	SAMPath       string
}

// BuildResult reports row counts loaded into a freshly built cache.
type BuildResult struct {
	CachePath   string
	PeopleCount int
	EntityCount int
}

// Build creates the month's reference database from the raw OIG and SAM exports.
// Build refuses to overwrite an existing month.
func Build(executionContext context.Context, options BuildOptions, logger *zap.Logger) (BuildResult, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	cachePath := CachePath(options.DataDirectory, options.Month)
	if _, statError := os.Stat(cachePath); statError == nil {
		return BuildResult{}, fmt.Errorf(cacheAlreadyBuiltTemplateConstant, options.Month, cachePath)
	}

	if directoryError := os.MkdirAll(filepath.Dir(cachePath), directoryPermissionsConstant); directoryError != nil {
		return BuildResult{}, fmt.Errorf(cacheDirectoryErrorTemplateConstant, directoryError)
	}

	database, openError := sql.Open(sqliteDriverNameConstant, cachePath)
	if openError != nil {
		return BuildResult{}, fmt.Errorf(cacheCreateErrorTemplateConstant, cachePath, openError)
	}
	defer func() {
		_ = database.Close()
	}()

	if _, schemaError := database.ExecContext(executionContext, referenceSchemaConstant); schemaError != nil {
		return BuildResult{}, fmt.Errorf(schemaErrorTemplateConstant, schemaError)
	}

	result := BuildResult{CachePath: cachePath}

	oigPeople, oigEntities, oigError := loadOIG(executionContext, database, options.OIGPath)
	if oigError != nil {
		return BuildResult{}, fmt.Errorf(loadErrorTemplateConstant, oigSourceNameConstant, oigError)
	}
	logger.Info(oigLoadedMessageConstant, zap.Int(logFieldPeopleCountConstant, oigPeople), zap.Int(logFieldEntityCountConstant, oigEntities))

	samPeople, samEntities, samError := loadSAM(executionContext, database, options.SAMPath)
	if samError != nil {
		return BuildResult{}, fmt.Errorf(loadErrorTemplateConstant, samSourceNameConstant, samError)
	}
	logger.Info(samLoadedMessageConstant, zap.Int(logFieldPeopleCountConstant, samPeople), zap.Int(logFieldEntityCountConstant, samEntities))

	if _, indexError := database.ExecContext(executionContext, referenceIndexesConstant); indexError != nil {
		return BuildResult{}, fmt.Errorf(indexErrorTemplateConstant, indexError)
	}

	result.PeopleCount = oigPeople + samPeople
	result.EntityCount = oigEntities + samEntities

	logger.Info(
		cacheBuiltMessageConstant,
		zap.String(logFieldMonthConstant, options.Month),
		zap.String(logFieldCachePathConstant, cachePath),
		zap.Int(logFieldPeopleCountConstant, result.PeopleCount),
		zap.Int(logFieldEntityCountConstant, result.EntityCount),
	)

	return result, nil
}

// referenceReader streams a reference CSV and exposes cells by header name.
type referenceReader struct {
	csvReader    *csv.Reader
	headerIndex  map[string]int
	currentRow   []string
}

func newReferenceReader(filePath string) (*referenceReader, func(), error) {
	file, openError := os.Open(filePath)
	if openError != nil {
		return nil, nil, fmt.Errorf(referenceOpenErrorTemplateConstant, filePath, openError)
	}

	csvReader := csv.NewReader(file)
	csvReader.FieldsPerRecord = -1
	csvReader.LazyQuotes = true

	headerRow, headerError := csvReader.Read()
	if headerError != nil {
		_ = file.Close()
		return nil, nil, fmt.Errorf(referenceParseErrorTemplateConstant, filePath, headerError)
	}

	headerIndex := map[string]int{}
	for columnIndex, headerValue := range headerRow {
		headerIndex[strings.TrimSpace(headerValue)] = columnIndex
	}

	reader := &referenceReader{csvReader: csvReader, headerIndex: headerIndex}
	closer := func() {
		_ = file.Close()
	}

	return reader, closer, nil
}

func (reader *referenceReader) next() (bool, error) {
	row, readError := reader.csvReader.Read()
	if readError == io.EOF {
		return false, nil
	}
	if readError != nil {
		return false, readError
	}
	reader.currentRow = row
	return true, nil
}

func (reader *referenceReader) value(headerName string) string {
	columnIndex, present := reader.headerIndex[headerName]
	if !present || columnIndex >= len(reader.currentRow) {
		return ""
	}
	return strings.TrimSpace(reader.currentRow[columnIndex])
}

// loadOIG splits each LEIE row into a person record, an entity record, or both.
func loadOIG(executionContext context.Context, database *sql.DB, oigPath string) (int, int, error) {
	reader, closer, readerError := newReferenceReader(oigPath)
	if readerError != nil {
		return 0, 0, readerError
	}
	defer closer()

	transaction, transactionError := database.BeginTx(executionContext, nil)
	if transactionError != nil {
		return 0, 0, transactionError
	}

	personStatement, personPrepareError := transaction.PrepareContext(executionContext, insertOIGPersonStatementConstant)
	if personPrepareError != nil {
		_ = transaction.Rollback()
		return 0, 0, personPrepareError
	}
	entityStatement, entityPrepareError := transaction.PrepareContext(executionContext, insertOIGEntityStatementConstant)
	if entityPrepareError != nil {
		_ = transaction.Rollback()
		return 0, 0, entityPrepareError
	}

	peopleLoaded := 0
	entitiesLoaded := 0

	for {
		hasRow, rowError := reader.next()
		if rowError != nil {
			_ = transaction.Rollback()
			return 0, 0, rowError
		}
		if !hasRow {
			break
		}

		exclusionDate := reader.value(oigExclusionDateHeaderConstant)

		firstName := reader.value(oigFirstNameHeaderConstant)
		lastName := reader.value(oigLastNameHeaderConstant)
		if len(firstName) > 0 && len(lastName) > 0 {
			personName := normalize.NormalizePersonName(firstName, lastName, "")
			dateOfBirth := normalize.NormalizeDateOfBirth(reader.value(oigDateOfBirthHeaderConstant))
			if _, insertError := personStatement.ExecContext(executionContext, personName.First, personName.Last, dateOfBirth.ISO, dateOfBirth.Compact, exclusionDate); insertError != nil {
				_ = transaction.Rollback()
				return 0, 0, insertError
			}
			peopleLoaded++
		}

		businessName := reader.value(oigBusinessNameHeaderConstant)
		if len(businessName) > 0 {
			if _, insertError := entityStatement.ExecContext(executionContext, normalize.NormalizeEntityName(businessName), exclusionDate); insertError != nil {
				_ = transaction.Rollback()
				return 0, 0, insertError
			}
			entitiesLoaded++
		}
	}

	if commitError := transaction.Commit(); commitError != nil {
		return 0, 0, commitError
	}

	return peopleLoaded, entitiesLoaded, nil
}

// loadSAM splits each SAM exclusion row into a person record, an entity record, or both.
func loadSAM(executionContext context.Context, database *sql.DB, samPath string) (int, int, error) {
	reader, closer, readerError := newReferenceReader(samPath)
	if readerError != nil {
		return 0, 0, readerError
	}
	defer closer()

	transaction, transactionError := database.BeginTx(executionContext, nil)
	if transactionError != nil {
		return 0, 0, transactionError
	}

	personStatement, personPrepareError := transaction.PrepareContext(executionContext, insertSAMPersonStatementConstant)
	if personPrepareError != nil {
		_ = transaction.Rollback()
		return 0, 0, personPrepareError
	}
	entityStatement, entityPrepareError := transaction.PrepareContext(executionContext, insertSAMEntityStatementConstant)
	if entityPrepareError != nil {
		_ = transaction.Rollback()
		return 0, 0, entityPrepareError
	}

	peopleLoaded := 0
	entitiesLoaded := 0

	for {
		hasRow, rowError := reader.next()
		if rowError != nil {
			_ = transaction.Rollback()
			return 0, 0, rowError
		}
		if !hasRow {
			break
		}

		exclusionDate := reader.value(samExclusionDateHeaderConstant)
		city := strings.ToUpper(reader.value(samCityHeaderConstant))
		state := strings.ToUpper(reader.value(samStateHeaderConstant))
		zipCode := normalize.NormalizeZip(reader.value(samZipHeaderConstant))

		firstName := reader.value(samFirstNameHeaderConstant)
		lastName := reader.value(samLastNameHeaderConstant)
		if len(firstName) > 0 && len(lastName) > 0 {
			personName := normalize.NormalizePersonName(firstName, lastName, "")
			if _, insertError := personStatement.ExecContext(executionContext, personName.First, personName.Last, exclusionDate, city, state, zipCode); insertError != nil {
				_ = transaction.Rollback()
				return 0, 0, insertError
			}
			peopleLoaded++
		}

		entityName := reader.value(samEntityNameHeaderConstant)
		if len(entityName) > 0 {
			if _, insertError := entityStatement.ExecContext(executionContext, normalize.NormalizeEntityName(entityName), exclusionDate, city, state, zipCode); insertError != nil {
				_ = transaction.Rollback()
				return 0, 0, insertError
			}
			entitiesLoaded++
		}
	}

	if commitError := transaction.Commit(); commitError != nil {
		return 0, 0, commitError
	}

	return peopleLoaded, entitiesLoaded, nil
}
