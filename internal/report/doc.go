// Package report renders screening results into the deliverable artifacts:
// an Audit.xlsx workbook with per-section result sheets, a consolidated
// review sheet, and a run metadata sheet, plus landscape PDF reports per
// roster section for client distribution.
package report
