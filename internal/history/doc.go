// Package history manages the per-client, per-month run directories that
// preserve screening artifacts.
//
// Every run writes its workbook and reports into
// <data-dir>/runs/<client>/<month>/ alongside a metadata.json written
// atomically and an append-only run_log.txt of timestamped events.
package history
