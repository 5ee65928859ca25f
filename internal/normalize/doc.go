// Package normalize canonicalizes identity fields prior to reference matching.
//
// Names are uppercased, stripped of punctuation and generational or corporate
// suffixes, and whitespace-collapsed so roster values and reference records
// compare on equal footing. Dates of birth, zip codes, and taxpayer
// identifiers are reduced to the compact forms the matchers key on.
package normalize
