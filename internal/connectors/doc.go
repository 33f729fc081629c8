// Package connectors holds adapters that pull documents into a project from
// outside the application. The filesystem connector watches a local folder
// and feeds new or rewritten PDFs to the document service.
package connectors
