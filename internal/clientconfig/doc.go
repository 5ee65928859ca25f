// Package clientconfig loads and validates per-client YAML screening
// configurations.
//
// A client document names the client and describes up to three roster
// sections (staff, board, vendors). Each section declares how its source file
// is parsed (file type, header row, skipped rows, delimiter) and how source
// column headers map onto semantic fields. Validation enforces the
// configuration contract up front so ingestion never guesses: automatic
// header resolution requires recognition tokens, row indices must be
// non-negative, and delimiter sniffing is a CSV-only option.
package clientconfig
