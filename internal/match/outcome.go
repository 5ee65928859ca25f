package match

import (
	"math"

	"github.com/agext/levenshtein"
)

const (
	// StatusNotFound reports no actionable reference record.
	StatusNotFound = "NOT FOUND"
	// StatusConfirmed reports a corroborated exclusion match.
	StatusConfirmed = "CONFIRMED"

	// StrongSimilarityThreshold accepts a fuzzy name only with independent corroboration.
	StrongSimilarityThreshold = 95
	// PossibleSimilarityThreshold raises a manual review item without corroboration.
	PossibleSimilarityThreshold = 90

	similarityScaleConstant = 100
)

// Review describes a candidate record requiring manual confirmation.
type Review struct {
	Required               bool
	Source                 string
	CandidateName          string
	CandidateExclusionDate string
	Note                   string
	NeededData             string
}

// Outcome reports the per-source screening result for one roster identity.
type Outcome struct {
	OIGStatus string
	OIGDate   string
	SAMStatus string
	SAMDate   string
	Reason    string
	Review    Review
}

// Confirmed reports whether either source confirmed an exclusion.
func (outcome Outcome) Confirmed() bool {
	return outcome.OIGStatus == StatusConfirmed || outcome.SAMStatus == StatusConfirmed
}

func newOutcome() Outcome {
	return Outcome{
		OIGStatus: StatusNotFound,
		SAMStatus: StatusNotFound,
	}
}

// flagReview records the first review candidate; later candidates never overwrite it.
func (outcome *Outcome) flagReview(source string, candidateName string, exclusionDate string, note string, neededData string) {
	if outcome.Review.Required {
		return
	}
	outcome.Review = Review{
		Required:               true,
		Source:                 source,
		CandidateName:          candidateName,
		CandidateExclusionDate: exclusionDate,
		Note:                   note,
		NeededData:             neededData,
	}
}

// similarityScore returns the scaled Levenshtein similarity of two normalized names.
func similarityScore(left string, right string) int {
	return int(math.Round(levenshtein.Similarity(left, right, nil) * similarityScaleConstant))
}
