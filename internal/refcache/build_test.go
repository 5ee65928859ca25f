package refcache

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	testMonthConstant = "2026-08"

	testOIGExportConstant = `LASTNAME,FIRSTNAME,BUSNAME,DOB,EXCLDATE
DOE,JOHN,,07/04/1962,20190520
,,ACME MEDICAL SUPPLY LLC,,20181130
SMITH,JANE,,1990-01-15,20200101
`

	testSAMExportConstant = `Name,First,Last,City,State,Zip,Exclusion Date
,JOHN,DOE,Springfield,IL,62704-1234,2020-02-02
RIVERSIDE THERAPY CENTER,,,Springfield,IL,62704,2022-06-01
`
)

func buildTestCache(t *testing.T) (string, BuildResult) {
	t.Helper()
	dataDirectory := t.TempDir()

	oigPath := filepath.Join(dataDirectory, "oig.csv")
	require.NoError(t, os.WriteFile(oigPath, []byte(testOIGExportConstant), 0o644))
	samPath := filepath.Join(dataDirectory, "sam.csv")
	require.NoError(t, os.WriteFile(samPath, []byte(testSAMExportConstant), 0o644))

	result, buildError := Build(context.Background(), BuildOptions{
		DataDirectory: dataDirectory,
		Month:         testMonthConstant,
		OIGPath:       oigPath,
		SAMPath:       samPath,
	}, nil)
	require.NoError(t, buildError)

	return dataDirectory, result
}

func TestBuildLoadsBothSources(t *testing.T) {
	dataDirectory, result := buildTestCache(t)

	require.Equal(t, CachePath(dataDirectory, testMonthConstant), result.CachePath)
	require.Equal(t, 3, result.PeopleCount)
	require.Equal(t, 2, result.EntityCount)
	require.True(t, Exists(dataDirectory, testMonthConstant))
}

func TestBuildRefusesExistingMonth(t *testing.T) {
	dataDirectory, _ := buildTestCache(t)

	_, rebuildError := Build(context.Background(), BuildOptions{
		DataDirectory: dataDirectory,
		Month:         testMonthConstant,
		OIGPath:       "unused.csv",
		SAMPath:       "unused.csv",
	}, nil)
	require.Error(t, rebuildError)
	require.Contains(t, rebuildError.Error(), "already exists")
}

func TestBuiltCacheQueries(t *testing.T) {
	dataDirectory, _ := buildTestCache(t)

	cache, openError := Open(dataDirectory, testMonthConstant)
	require.NoError(t, openError)
	defer func() {
		require.NoError(t, cache.Close())
	}()

	executionContext := context.Background()

	oigPeople, oigPeopleError := cache.OIGPeopleByLastName(executionContext, "DOE")
	require.NoError(t, oigPeopleError)
	require.Len(t, oigPeople, 1)
	require.Equal(t, "JOHN", oigPeople[0].First)
	require.Equal(t, "19620704", oigPeople[0].DOBCompact)
	require.Equal(t, "20190520", oigPeople[0].ExclusionDate)

	samPeople, samPeopleError := cache.SAMPeopleByLastName(executionContext, "DOE")
	require.NoError(t, samPeopleError)
	require.Len(t, samPeople, 1)
	require.Equal(t, "SPRINGFIELD", samPeople[0].City)
	require.Equal(t, "IL", samPeople[0].State)
	require.Equal(t, "62704", samPeople[0].Zip)

	oigEntity, oigEntityFound, oigEntityError := cache.OIGEntityByName(executionContext, "ACME MEDICAL SUPPLY")
	require.NoError(t, oigEntityError)
	require.True(t, oigEntityFound)
	require.Equal(t, "20181130", oigEntity.ExclusionDate)

	_, absentFound, absentError := cache.OIGEntityByName(executionContext, "NO SUCH VENDOR")
	require.NoError(t, absentError)
	require.False(t, absentFound)

	samEntities, samEntitiesError := cache.SAMEntities(executionContext)
	require.NoError(t, samEntitiesError)
	require.Len(t, samEntities, 1)
	require.Equal(t, "RIVERSIDE THERAPY CENTER", samEntities[0].Name)

	samEntity, samEntityFound, samEntityError := cache.SAMEntityByName(executionContext, "RIVERSIDE THERAPY CENTER")
	require.NoError(t, samEntityError)
	require.True(t, samEntityFound)
	require.Equal(t, "62704", samEntity.Zip)
}

func TestOpenMissingCache(t *testing.T) {
	_, openError := Open(t.TempDir(), testMonthConstant)
	require.ErrorIs(t, openError, ErrCacheMissing)
}

func TestFileSHA256(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "export.csv")
	require.NoError(t, os.WriteFile(filePath, []byte("abc"), 0o644))

	digest, digestError := FileSHA256(filePath)
	require.NoError(t, digestError)
	require.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", digest)

	_, missingError := FileSHA256(filepath.Join(t.TempDir(), "absent"))
	require.Error(t, missingError)
}
