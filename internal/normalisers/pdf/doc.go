// Package pdf extracts per-page plain text from PDF documents.
//
// Parsing is pure Go via github.com/ledongthuc/pdf. When the pure Go reader
// rejects a file and poppler's pdftotext is installed, the extractor retries
// with pdftotext and splits its output on form feeds.
package pdf
