package match

import (
	"context"
	"fmt"
	"strings"

	"github.com/temirov/exclusion-screener/internal/refcache"
)

const (
	oigEntitiesSourceNameConstant      = "OIG Entities"
	samEntitiesSourceNameConstant      = "SAM Entities"
	exactOIGEntityReasonConstant       = "Exact entity name match (OIG)"
	reviewOIGEntityNoteTemplate        = "High-similarity OIG entity name match (score=%d)."
	reviewSAMEntityStateNoteTemplate   = "High-similarity SAM entity match (score=%d) with state corroboration."
	reviewSAMEntityZipNoteTemplate     = "High-similarity SAM entity match (score=%d) with zip corroboration."
	reviewNeededEntityDataConstant     = "Tax ID / address corroboration"
	reviewNeededEntityIdentityConstant = "Tax ID / exact legal name confirmation"
)

// EntityReference supplies excluded-entity records for exact lookup and fuzzy passes.
type EntityReference interface {
	OIGEntityByName(executionContext context.Context, entityName string) (refcache.EntityRow, bool, error)
	OIGEntities(executionContext context.Context) ([]refcache.EntityRow, error)
	SAMEntityByName(executionContext context.Context, entityName string) (refcache.EntityRow, bool, error)
	SAMEntities(executionContext context.Context) ([]refcache.EntityRow, error)
}

// EntityQuery carries the normalized identity fields of one roster organization.
type EntityQuery struct {
	Name  string
	City  string
	State string
	Zip   string
}

// MatchEntity screens an organization against both reference sources.
//
// An exact normalized name confirms outright for either source. Otherwise a
// fuzzy pass over all entities raises a review item for candidates at or
// above StrongSimilarityThreshold; SAM candidates additionally require state
// or zip corroboration before a review item is raised.
func MatchEntity(executionContext context.Context, reference EntityReference, query EntityQuery) (Outcome, error) {
	outcome := newOutcome()

	exactOIG, oigFound, oigLookupError := reference.OIGEntityByName(executionContext, query.Name)
	if oigLookupError != nil {
		return Outcome{}, oigLookupError
	}

	if oigFound {
		outcome.OIGStatus = StatusConfirmed
		outcome.OIGDate = exactOIG.ExclusionDate
		outcome.Reason = exactOIGEntityReasonConstant
	} else {
		oigEntities, oigScanError := reference.OIGEntities(executionContext)
		if oigScanError != nil {
			return Outcome{}, oigScanError
		}
		for _, candidate := range oigEntities {
			score := similarityScore(query.Name, candidate.Name)
			if score >= StrongSimilarityThreshold {
				outcome.flagReview(
					oigEntitiesSourceNameConstant,
					candidate.Name,
					candidate.ExclusionDate,
					fmt.Sprintf(reviewOIGEntityNoteTemplate, score),
					reviewNeededEntityDataConstant,
				)
				break
			}
		}
	}

	exactSAM, samFound, samLookupError := reference.SAMEntityByName(executionContext, query.Name)
	if samLookupError != nil {
		return Outcome{}, samLookupError
	}

	if samFound {
		outcome.SAMStatus = StatusConfirmed
		outcome.SAMDate = exactSAM.ExclusionDate
		return outcome, nil
	}

	samEntities, samScanError := reference.SAMEntities(executionContext)
	if samScanError != nil {
		return Outcome{}, samScanError
	}

	for _, candidate := range samEntities {
		score := similarityScore(query.Name, candidate.Name)
		if score < StrongSimilarityThreshold {
			continue
		}

		if len(query.State) > 0 && len(candidate.State) > 0 && strings.EqualFold(query.State, candidate.State) {
			outcome.flagReview(
				samEntitiesSourceNameConstant,
				candidate.Name,
				candidate.ExclusionDate,
				fmt.Sprintf(reviewSAMEntityStateNoteTemplate, score),
				reviewNeededEntityIdentityConstant,
			)
			break
		}
		if len(query.Zip) > 0 && len(candidate.Zip) > 0 && query.Zip == candidate.Zip {
			outcome.flagReview(
				samEntitiesSourceNameConstant,
				candidate.Name,
				candidate.ExclusionDate,
				fmt.Sprintf(reviewSAMEntityZipNoteTemplate, score),
				reviewNeededEntityIdentityConstant,
			)
			break
		}
	}

	return outcome, nil
}
