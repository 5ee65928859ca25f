package normalize

import (
	"regexp"
	"strings"
	"time"
)

const (
	dateOfBirthSlashLayoutConstant = "1/2/2006"
	dateOfBirthISOLayoutConstant   = "2006-01-02"
	dateOfBirthCompactLayout       = "20060102"
	ssnLastFourLengthConstant      = 4
	zipCodeLengthConstant          = 5
	employerIdentificationDigits   = 9
	employerIdentificationDash     = "-"
)

var (
	whitespaceRunPattern   = regexp.MustCompile(`\s+`)
	nonWordCharacterPattern = regexp.MustCompile(`[^\w\s]`)
	nonDigitPattern         = regexp.MustCompile(`[^\d]`)
)

// businessSuffixTokens lists corporate designators removed from entity names.
var businessSuffixTokens = map[string]struct{}{
	"LLC": {}, "L.L.C.": {}, "INC": {}, "INC.": {}, "CORP": {}, "CORPORATION": {},
	"CO": {}, "COMPANY": {}, "LTD": {}, "LIMITED": {}, "PLLC": {}, "PC": {},
	"LP": {}, "LLP": {}, "ASSOCIATES": {}, "GROUP": {}, "SERVICES": {},
}

// personSuffixTokens lists generational designators removed from person names.
var personSuffixTokens = map[string]struct{}{
	"JR": {}, "SR": {}, "II": {}, "III": {}, "IV": {},
}

// NormalizeWhitespace trims the value and collapses interior whitespace runs to single spaces.
func NormalizeWhitespace(value string) string {
	return whitespaceRunPattern.ReplaceAllString(strings.TrimSpace(value), " ")
}

// NormalizeName uppercases the value, strips punctuation, and collapses whitespace.
func NormalizeName(value string) string {
	if len(value) == 0 {
		return ""
	}
	uppercased := strings.ToUpper(value)
	withoutPunctuation := nonWordCharacterPattern.ReplaceAllString(uppercased, "")
	return NormalizeWhitespace(withoutPunctuation)
}

// RemovePersonSuffixes drops generational suffixes (JR, SR, II, III, IV) from a normalized name.
func RemovePersonSuffixes(name string) string {
	tokens := strings.Fields(name)
	retained := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if _, isSuffix := personSuffixTokens[token]; isSuffix {
			continue
		}
		retained = append(retained, token)
	}
	return strings.Join(retained, " ")
}

// PersonName carries the normalized components of an individual's name.
type PersonName struct {
	First  string
	Last   string
	Middle string
	Full   string
}

// NormalizePersonName canonicalizes the name components of an individual and assembles the full display form.
func NormalizePersonName(first string, last string, middle string) PersonName {
	normalizedFirst := RemovePersonSuffixes(NormalizeName(first))
	normalizedLast := RemovePersonSuffixes(NormalizeName(last))
	normalizedMiddle := NormalizeName(middle)
	full := NormalizeWhitespace(normalizedFirst + " " + normalizedMiddle + " " + normalizedLast)
	return PersonName{
		First:  normalizedFirst,
		Last:   normalizedLast,
		Middle: normalizedMiddle,
		Full:   full,
	}
}

// NormalizeEntityName canonicalizes a business name and strips corporate suffix tokens.
func NormalizeEntityName(name string) string {
	if len(name) == 0 {
		return ""
	}
	normalized := NormalizeName(name)
	tokens := strings.Fields(normalized)
	retained := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if _, isSuffix := businessSuffixTokens[token]; isSuffix {
			continue
		}
		retained = append(retained, token)
	}
	return strings.Join(retained, " ")
}

// NormalizeZip reduces a zip value to its leading five digits.
func NormalizeZip(zipCode string) string {
	if len(zipCode) == 0 {
		return ""
	}
	digits := nonDigitPattern.ReplaceAllString(zipCode, "")
	if len(digits) > zipCodeLengthConstant {
		return digits[:zipCodeLengthConstant]
	}
	return digits
}

// DateOfBirth carries the accepted representations of a parsed birth date.
type DateOfBirth struct {
	ISO     string
	Compact string
}

// NormalizeDateOfBirth parses MM/DD/YYYY or YYYY-MM-DD values into ISO and compact forms.
// Unparseable values yield the zero DateOfBirth.
func NormalizeDateOfBirth(value string) DateOfBirth {
	trimmed := strings.TrimSpace(value)
	if len(trimmed) == 0 {
		return DateOfBirth{}
	}

	parsed, parseError := time.Parse(dateOfBirthSlashLayoutConstant, trimmed)
	if parseError != nil {
		parsed, parseError = time.Parse(dateOfBirthISOLayoutConstant, trimmed)
	}
	if parseError != nil {
		return DateOfBirth{}
	}

	return DateOfBirth{
		ISO:     parsed.Format(dateOfBirthISOLayoutConstant),
		Compact: parsed.Format(dateOfBirthCompactLayout),
	}
}

// ExtractSSNLastFour returns the trailing four digits of a social security value when present.
func ExtractSSNLastFour(value string) string {
	if len(value) == 0 {
		return ""
	}
	digits := nonDigitPattern.ReplaceAllString(value, "")
	if len(digits) < ssnLastFourLengthConstant {
		return ""
	}
	return digits[len(digits)-ssnLastFourLengthConstant:]
}

// IsEmployerIdentification reports whether a tax identifier resembles a formatted EIN.
func IsEmployerIdentification(taxIdentifier string) bool {
	if len(taxIdentifier) == 0 {
		return false
	}
	digits := nonDigitPattern.ReplaceAllString(taxIdentifier, "")
	return len(digits) == employerIdentificationDigits && strings.Contains(taxIdentifier, employerIdentificationDash)
}
