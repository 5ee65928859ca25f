package refcache

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const (
	sqliteDriverNameConstant         = "sqlite"
	referenceCacheDirectoryConstant  = "reference_cache"
	cacheFileNameTemplateConstant    = "reference_%s.sqlite"
	cacheMissingTemplateConstant     = "%w for %s; run build-cache first"
	cacheOpenErrorTemplateConstant   = "unable to open reference cache %s: %w"
	fingerprintErrorTemplateConstant = "unable to fingerprint %s: %w"

	oigPeopleByLastNameQueryConstant = `SELECT first, last, dob_compact, exclusion_date FROM oig_people WHERE last = ?`
	samPeopleByLastNameQueryConstant = `SELECT first, last, exclusion_date, city, state, zip FROM sam_people WHERE last = ?`
	oigEntityByNameQueryConstant     = `SELECT name, exclusion_date FROM oig_entities WHERE name = ?`
	oigEntitiesQueryConstant         = `SELECT name, exclusion_date FROM oig_entities`
	samEntityByNameQueryConstant     = `SELECT name, exclusion_date, city, state, zip FROM sam_entities WHERE name = ?`
	samEntitiesQueryConstant         = `SELECT name, exclusion_date, city, state, zip FROM sam_entities`
)

// ErrCacheMissing indicates the requested month has no built reference cache.
var ErrCacheMissing = errors.New("reference cache missing")

// PersonRow is one excluded individual from a reference source.
type PersonRow struct {
	First         string
	Last          string
	DOBCompact    string
	ExclusionDate string
	City          string
	State         string
	Zip           string
}

// EntityRow is one excluded organization from a reference source.
type EntityRow struct {
	Name          string
	ExclusionDate string
	City          string
	State         string
	Zip           string
}

// Cache provides read access to a built monthly reference database.
type Cache struct {
	database *sql.DB
}

// CachePath returns the sqlite path for a month's reference cache under dataDir.
func CachePath(dataDirectory string, month string) string {
	return filepath.Join(dataDirectory, referenceCacheDirectoryConstant, fmt.Sprintf(cacheFileNameTemplateConstant, month))
}

// Exists reports whether a month's reference cache has been built.
func Exists(dataDirectory string, month string) bool {
	_, statError := os.Stat(CachePath(dataDirectory, month))
	return statError == nil
}

// Open connects to an existing month's reference cache.
func Open(dataDirectory string, month string) (*Cache, error) {
	cachePath := CachePath(dataDirectory, month)
	if _, statError := os.Stat(cachePath); statError != nil {
		return nil, fmt.Errorf(cacheMissingTemplateConstant, ErrCacheMissing, month)
	}

	database, openError := sql.Open(sqliteDriverNameConstant, cachePath)
	if openError != nil {
		return nil, fmt.Errorf(cacheOpenErrorTemplateConstant, cachePath, openError)
	}

	return &Cache{database: database}, nil
}

// Close releases the underlying database handle.
func (cache *Cache) Close() error {
	if cache == nil || cache.database == nil {
		return nil
	}
	return cache.database.Close()
}

// OIGPeopleByLastName returns OIG individuals whose normalized last name matches exactly.
func (cache *Cache) OIGPeopleByLastName(executionContext context.Context, lastName string) ([]PersonRow, error) {
	rows, queryError := cache.database.QueryContext(executionContext, oigPeopleByLastNameQueryConstant, lastName)
	if queryError != nil {
		return nil, queryError
	}
	defer func() {
		_ = rows.Close()
	}()

	var people []PersonRow
	for rows.Next() {
		var person PersonRow
		if scanError := rows.Scan(&person.First, &person.Last, &person.DOBCompact, &person.ExclusionDate); scanError != nil {
			return nil, scanError
		}
		people = append(people, person)
	}

	return people, rows.Err()
}

// SAMPeopleByLastName returns SAM individuals whose normalized last name matches exactly.
func (cache *Cache) SAMPeopleByLastName(executionContext context.Context, lastName string) ([]PersonRow, error) {
	rows, queryError := cache.database.QueryContext(executionContext, samPeopleByLastNameQueryConstant, lastName)
	if queryError != nil {
		return nil, queryError
	}
	defer func() {
		_ = rows.Close()
	}()

	var people []PersonRow
	for rows.Next() {
		var person PersonRow
		if scanError := rows.Scan(&person.First, &person.Last, &person.ExclusionDate, &person.City, &person.State, &person.Zip); scanError != nil {
			return nil, scanError
		}
		people = append(people, person)
	}

	return people, rows.Err()
}

// OIGEntityByName returns the OIG entity with an exactly matching normalized name, when present.
func (cache *Cache) OIGEntityByName(executionContext context.Context, entityName string) (EntityRow, bool, error) {
	row := cache.database.QueryRowContext(executionContext, oigEntityByNameQueryConstant, entityName)

	var entity EntityRow
	scanError := row.Scan(&entity.Name, &entity.ExclusionDate)
	if errors.Is(scanError, sql.ErrNoRows) {
		return EntityRow{}, false, nil
	}
	if scanError != nil {
		return EntityRow{}, false, scanError
	}

	return entity, true, nil
}

// OIGEntities returns every OIG entity for fuzzy comparison passes.
func (cache *Cache) OIGEntities(executionContext context.Context) ([]EntityRow, error) {
	rows, queryError := cache.database.QueryContext(executionContext, oigEntitiesQueryConstant)
	if queryError != nil {
		return nil, queryError
	}
	defer func() {
		_ = rows.Close()
	}()

	var entities []EntityRow
	for rows.Next() {
		var entity EntityRow
		if scanError := rows.Scan(&entity.Name, &entity.ExclusionDate); scanError != nil {
			return nil, scanError
		}
		entities = append(entities, entity)
	}

	return entities, rows.Err()
}

// SAMEntityByName returns the SAM entity with an exactly matching normalized name, when present.
func (cache *Cache) SAMEntityByName(executionContext context.Context, entityName string) (EntityRow, bool, error) {
	row := cache.database.QueryRowContext(executionContext, samEntityByNameQueryConstant, entityName)

	var entity EntityRow
	scanError := row.Scan(&entity.Name, &entity.ExclusionDate, &entity.City, &entity.State, &entity.Zip)
	if errors.Is(scanError, sql.ErrNoRows) {
		return EntityRow{}, false, nil
	}
	if scanError != nil {
		return EntityRow{}, false, scanError
	}

	return entity, true, nil
}

// SAMEntities returns every SAM entity for fuzzy comparison passes.
func (cache *Cache) SAMEntities(executionContext context.Context) ([]EntityRow, error) {
	rows, queryError := cache.database.QueryContext(executionContext, samEntitiesQueryConstant)
	if queryError != nil {
		return nil, queryError
	}
	defer func() {
		_ = rows.Close()
	}()

	var entities []EntityRow
	for rows.Next() {
		var entity EntityRow
		if scanError := rows.Scan(&entity.Name, &entity.ExclusionDate, &entity.City, &entity.State, &entity.Zip); scanError != nil {
			return nil, scanError
		}
		entities = append(entities, entity)
	}

	return entities, rows.Err()
}

// FileSHA256 computes the hex SHA-256 digest of a reference file for run metadata.
func FileSHA256(filePath string) (string, error) {
	file, openError := os.Open(filePath)
	if openError != nil {
		return "", fmt.Errorf(fingerprintErrorTemplateConstant, filePath, openError)
	}
	defer func() {
		_ = file.Close()
	}()

	digest := sha256.New()
	if _, copyError := io.Copy(digest, file); copyError != nil {
		return "", fmt.Errorf(fingerprintErrorTemplateConstant, filePath, copyError)
	}

	return hex.EncodeToString(digest.Sum(nil)), nil
}
