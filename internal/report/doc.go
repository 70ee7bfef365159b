// Package report renders run results for people and machines: a colored text
// report with a per-category summary, a JSON document, and a live progress bar.
package report
