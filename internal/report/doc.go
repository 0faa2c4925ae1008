// Package report reads parsed documents back and renders them as summary
// tables or CSV rows for spreadsheets.
package report
