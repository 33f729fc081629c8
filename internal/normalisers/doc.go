// Package normalisers holds extractors that turn uploaded binary documents
// into plain page text for chunking.
package normalisers
