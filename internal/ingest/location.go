package ingest

import (
	"strings"
	"unicode"
)

const (
	locationSeparatorConstant = ","
	stateTokenLengthConstant  = 2
)

// Location holds the parts of a decomposed combined location column.
type Location struct {
	City  string
	State string
	Zip   string
}

// SplitCityStateZip decomposes a combined "CITY, STATE, ZIP" column into its
// parts. Both comma-separated ("SPRINGFIELD, IL, 62704") and mixed
// ("SPRINGFIELD, IL 62704") shapes are recognized; unparseable remainders are
// left in City so no source data is silently dropped.
func SplitCityStateZip(combined string) Location {
	trimmed := strings.TrimSpace(combined)
	if len(trimmed) == 0 {
		return Location{}
	}

	segments := splitAndTrim(trimmed, locationSeparatorConstant)

	switch len(segments) {
	case 3:
		return Location{City: segments[0], State: strings.ToUpper(segments[1]), Zip: segments[2]}
	case 2:
		location := Location{City: segments[0]}
		location.State, location.Zip = splitStateZip(segments[1])
		return location
	default:
		return splitUndelimitedLocation(trimmed)
	}
}

func splitAndTrim(value string, separator string) []string {
	rawSegments := strings.Split(value, separator)
	segments := make([]string, 0, len(rawSegments))
	for _, rawSegment := range rawSegments {
		trimmedSegment := strings.TrimSpace(rawSegment)
		if len(trimmedSegment) > 0 {
			segments = append(segments, trimmedSegment)
		}
	}
	return segments
}

// splitStateZip separates a trailing "STATE ZIP" fragment.
func splitStateZip(fragment string) (string, string) {
	tokens := strings.Fields(fragment)
	switch len(tokens) {
	case 0:
		return "", ""
	case 1:
		if isZipToken(tokens[0]) {
			return "", tokens[0]
		}
		return strings.ToUpper(tokens[0]), ""
	default:
		lastToken := tokens[len(tokens)-1]
		if isZipToken(lastToken) {
			return strings.ToUpper(strings.Join(tokens[:len(tokens)-1], " ")), lastToken
		}
		return strings.ToUpper(fragment), ""
	}
}

// splitUndelimitedLocation handles values without commas by peeling a zip and
// a two-letter state off the end.
func splitUndelimitedLocation(value string) Location {
	tokens := strings.Fields(value)
	location := Location{}

	if len(tokens) > 0 && isZipToken(tokens[len(tokens)-1]) {
		location.Zip = tokens[len(tokens)-1]
		tokens = tokens[:len(tokens)-1]
	}
	if len(tokens) > 1 && isStateToken(tokens[len(tokens)-1]) {
		location.State = strings.ToUpper(tokens[len(tokens)-1])
		tokens = tokens[:len(tokens)-1]
	}
	location.City = strings.Join(tokens, " ")

	return location
}

func isZipToken(token string) bool {
	digitsSeen := 0
	for _, character := range token {
		if unicode.IsDigit(character) {
			digitsSeen++
			continue
		}
		if character != '-' {
			return false
		}
	}
	return digitsSeen >= stateTokenLengthConstant+1
}

func isStateToken(token string) bool {
	if len(token) != stateTokenLengthConstant {
		return false
	}
	for _, character := range token {
		if !unicode.IsLetter(character) {
			return false
		}
	}
	return true
}
