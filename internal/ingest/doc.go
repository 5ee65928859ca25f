// Package ingest reads client roster files into uniform tables.
//
// CSV and Excel sources share one pipeline: skip leading rows, locate the
// header row (explicitly indexed or recognized by configured tokens when the
// file carries title or metadata rows above the real header), then expose
// every following row keyed by its source column header. CSV delimiters may
// be declared literally or sniffed from the file. The package also decomposes
// combined "CITY, STATE, ZIP" columns into their semantic parts.
package ingest
