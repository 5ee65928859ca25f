package report

import (
	"github.com/temirov/exclusion-screener/internal/match"
)

// Section kind identifiers used to select report layouts.
const (
	StaffKind   = "staff"
	BoardKind   = "board"
	VendorsKind = "vendors"
)

// Record is one screened roster identity with its match outcome.
type Record struct {
	Name           string
	DateOfBirth    string
	SSNLastFour    string
	Role           string
	Status         string
	Classification string
	City           string
	State          string
	Outcome        match.Outcome
}

// Results aggregates screened records by roster section.
type Results struct {
	Staff   []Record
	Board   []Record
	Vendors []Record
}

// SectionCounts reports how many identities each section screened.
func (results Results) SectionCounts() (int, int, int) {
	return len(results.Staff), len(results.Board), len(results.Vendors)
}

// ReviewRecords returns every record carrying a manual review item, tagged by section kind.
func (results Results) ReviewRecords() []TaggedRecord {
	var tagged []TaggedRecord
	for _, sectionPair := range []struct {
		kind    string
		records []Record
	}{
		{kind: StaffKind, records: results.Staff},
		{kind: BoardKind, records: results.Board},
		{kind: VendorsKind, records: results.Vendors},
	} {
		for _, record := range sectionPair.records {
			if record.Outcome.Review.Required {
				tagged = append(tagged, TaggedRecord{Kind: sectionPair.kind, Record: record})
			}
		}
	}
	return tagged
}

// TaggedRecord pairs a record with the section it was screened under.
type TaggedRecord struct {
	Kind   string
	Record Record
}
