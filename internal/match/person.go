package match

import (
	"context"
	"fmt"
	"strings"

	"github.com/temirov/exclusion-screener/internal/refcache"
)

const (
	oigPeopleSourceNameConstant       = "OIG People"
	exactPersonReasonConstant         = "Exact first+last+DOB"
	fuzzyPersonReasonTemplateConstant = "Fuzzy first (%d) + DOB"
	reviewMissingDOBNoteTemplate      = "High-similarity OIG name match (score=%d) but DOB missing in source record."
	reviewMismatchedDOBNoteTemplate   = "High-similarity OIG name match (score=%d) but DOB does not match reference."
	reviewNeededDOBConstant           = "DOB"
	reviewNeededDOBConfirmConstant    = "Confirm DOB / SSN last4"
)

// PersonReference supplies excluded-individual records keyed by normalized last name.
type PersonReference interface {
	OIGPeopleByLastName(executionContext context.Context, lastName string) ([]refcache.PersonRow, error)
	SAMPeopleByLastName(executionContext context.Context, lastName string) ([]refcache.PersonRow, error)
}

// PersonQuery carries the normalized identity fields of one roster individual.
type PersonQuery struct {
	First      string
	Last       string
	DOBCompact string
	City       string
	State      string
	Zip        string
}

// MatchPerson screens an individual against both reference sources.
//
// OIG ladder: an exact first name with matching date of birth confirms, a
// strong fuzzy first name (score >= StrongSimilarityThreshold) with matching
// date of birth confirms, and a possible fuzzy name (score >=
// PossibleSimilarityThreshold) raises a review item describing the missing
// or mismatched date of birth.
//
// SAM individual records frequently lack deterministic identifiers, so only
// corroborated location matches are actionable: exact first and last name
// with a zip match, and city/state agreement whenever the source supplies
// them. Non-corroborated SAM person candidates are intentionally ignored.
func MatchPerson(executionContext context.Context, reference PersonReference, query PersonQuery) (Outcome, error) {
	outcome := newOutcome()

	oigCandidates, oigError := reference.OIGPeopleByLastName(executionContext, query.Last)
	if oigError != nil {
		return Outcome{}, oigError
	}

	for _, candidate := range oigCandidates {
		score := similarityScore(query.First, candidate.First)

		if query.First == candidate.First && len(query.DOBCompact) > 0 && query.DOBCompact == candidate.DOBCompact {
			outcome.OIGStatus = StatusConfirmed
			outcome.OIGDate = candidate.ExclusionDate
			outcome.Reason = exactPersonReasonConstant
			break
		}

		if score >= StrongSimilarityThreshold && len(query.DOBCompact) > 0 && query.DOBCompact == candidate.DOBCompact {
			outcome.OIGStatus = StatusConfirmed
			outcome.OIGDate = candidate.ExclusionDate
			outcome.Reason = fmt.Sprintf(fuzzyPersonReasonTemplateConstant, score)
			break
		}

		if score >= PossibleSimilarityThreshold {
			candidateName := strings.TrimSpace(candidate.First + " " + candidate.Last)
			if len(query.DOBCompact) == 0 {
				outcome.flagReview(
					oigPeopleSourceNameConstant,
					candidateName,
					candidate.ExclusionDate,
					fmt.Sprintf(reviewMissingDOBNoteTemplate, score),
					reviewNeededDOBConstant,
				)
			} else if len(candidate.DOBCompact) > 0 && query.DOBCompact != candidate.DOBCompact {
				outcome.flagReview(
					oigPeopleSourceNameConstant,
					candidateName,
					candidate.ExclusionDate,
					fmt.Sprintf(reviewMismatchedDOBNoteTemplate, score),
					reviewNeededDOBConfirmConstant,
				)
			}
		}
	}

	samCandidates, samError := reference.SAMPeopleByLastName(executionContext, query.Last)
	if samError != nil {
		return Outcome{}, samError
	}

	for _, candidate := range samCandidates {
		if query.First != candidate.First {
			continue
		}

		stateMatches := len(query.State) > 0 && len(candidate.State) > 0 && strings.EqualFold(query.State, candidate.State)
		cityMatches := len(query.City) > 0 && len(candidate.City) > 0 && strings.EqualFold(query.City, candidate.City)
		zipMatches := len(query.Zip) > 0 && len(candidate.Zip) > 0 && query.Zip == candidate.Zip

		locationSilent := len(query.City) == 0 && len(query.State) == 0
		if zipMatches && (locationSilent || (cityMatches && stateMatches)) {
			outcome.SAMStatus = StatusConfirmed
			outcome.SAMDate = candidate.ExclusionDate
			break
		}
	}

	return outcome, nil
}
