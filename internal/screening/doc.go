// Package screening orchestrates a full exclusion check for one client and
// month: loading the client configuration, ingesting the staff, board, and
// vendor rosters, normalizing and matching every identity against the
// monthly reference cache, and persisting the audit workbook, PDF reports,
// and run history artifacts.
package screening
