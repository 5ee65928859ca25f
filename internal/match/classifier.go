package match

import (
	"regexp"
	"strings"
)

// Classification buckets a vendor row for screening.
type Classification string

// Vendor classification values.
const (
	ClassificationEntity       Classification = "ENTITY"
	ClassificationPersonVendor Classification = "PERSON_VENDOR"
	ClassificationAmbiguous    Classification = "AMBIGUOUS"
)

const (
	personTokenMinimumConstant           = 2
	personTokenMaximumConstant           = 3
	employerIdentificationDigitsConstant = 9
)

var (
	classifierPunctuationPattern = regexp.MustCompile(`[^\w\s]`)
	classifierNonDigitPattern    = regexp.MustCompile(`[^\d]`)
)

// classifierBusinessSuffixes are explicit corporate designators.
var classifierBusinessSuffixes = map[string]struct{}{
	"LLC": {}, "L.L.C.": {}, "INC": {}, "INC.": {}, "CORP": {}, "CORPORATION": {},
	"CO": {}, "COMPANY": {}, "LTD": {}, "LIMITED": {}, "PLLC": {}, "PC": {},
	"LP": {}, "LLP": {},
}

// classifierBusinessKeywords are commercial signals short of a suffix.
var classifierBusinessKeywords = map[string]struct{}{
	"GROUP": {}, "SERVICES": {}, "ASSOCIATES": {}, "ENTERPRISES": {},
	"HOLDINGS": {}, "SOLUTIONS": {}, "CLINIC": {}, "MEDICAL": {},
	"HEALTH": {}, "THERAPY": {}, "SUPPLY": {},
}

// ClassifyVendor decides how a vendor row should be screened.
//
// The ladder: a nine-digit tax identifier marks an entity, then explicit
// corporate suffixes, then commercial keywords. Names shaped like a person
// (two or three tokens without commercial signals) are screened as
// individuals. Everything else stays ambiguous and is screened both ways.
func ClassifyVendor(vendorName string, taxIdentifier string) Classification {
	if len(strings.TrimSpace(vendorName)) == 0 {
		return ClassificationAmbiguous
	}

	upperName := strings.ToUpper(strings.TrimSpace(vendorName))
	tokens := strings.Fields(classifierPunctuationPattern.ReplaceAllString(upperName, ""))

	if len(taxIdentifier) > 0 {
		digits := classifierNonDigitPattern.ReplaceAllString(taxIdentifier, "")
		if len(digits) == employerIdentificationDigitsConstant {
			return ClassificationEntity
		}
	}

	for _, token := range tokens {
		if _, isSuffix := classifierBusinessSuffixes[token]; isSuffix {
			return ClassificationEntity
		}
	}

	keywordPresent := false
	for _, token := range tokens {
		if _, isKeyword := classifierBusinessKeywords[token]; isKeyword {
			keywordPresent = true
			break
		}
	}
	if keywordPresent {
		return ClassificationEntity
	}

	if len(tokens) >= personTokenMinimumConstant && len(tokens) <= personTokenMaximumConstant {
		return ClassificationPersonVendor
	}

	return ClassificationAmbiguous
}
