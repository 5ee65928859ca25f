package screening

import (
	"strings"

	"github.com/temirov/exclusion-screener/internal/clientconfig"
	"github.com/temirov/exclusion-screener/internal/ingest"
	"github.com/temirov/exclusion-screener/internal/normalize"
)

// normalizePersonRow canonicalizes the mapped name columns of a staff row.
func normalizePersonRow(row ingest.Record, section clientconfig.SectionConfiguration) normalize.PersonName {
	return normalize.NormalizePersonName(
		row.Value(section.Column(clientconfig.FieldFirstName)),
		row.Value(section.Column(clientconfig.FieldLastName)),
		row.Value(section.Column(clientconfig.FieldMiddleName)),
	)
}

func normalizePersonName(first string, last string, middle string) normalize.PersonName {
	return normalize.NormalizePersonName(first, last, middle)
}

func normalizeEntityName(name string) string {
	return normalize.NormalizeEntityName(name)
}

func normalizeDOBRow(row ingest.Record, section clientconfig.SectionConfiguration) normalize.DateOfBirth {
	return normalize.NormalizeDateOfBirth(row.Value(section.Column(clientconfig.FieldDateOfBirth)))
}

func normalizeSSNRow(row ingest.Record, section clientconfig.SectionConfiguration) string {
	return normalize.ExtractSSNLastFour(row.Value(section.Column(clientconfig.FieldSSN)))
}

func normalizeZipValue(zipCode string) string {
	return normalize.NormalizeZip(zipCode)
}

// splitWholeName derives first and last tokens from a whole-name column, the
// way board rosters and person-shaped vendors present names.
func splitWholeName(wholeName string) (string, string) {
	tokens := strings.Fields(strings.TrimSpace(wholeName))
	switch len(tokens) {
	case 0:
		return "", ""
	case 1:
		return tokens[0], ""
	default:
		return tokens[0], tokens[len(tokens)-1]
	}
}
