// Package chunker splits extracted text into overlapping chunks.
//
// Splitting is recursive: the text is cut at the coarsest separator it
// contains (paragraph, line, word) and pieces that are still too long are
// cut again with the next one, down to single characters. Small pieces are
// merged back up to the chunk size, carrying a tail of the previous chunk
// forward as overlap.
package chunker

import (
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/riskrag/internal/core/domain"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = domain.DefaultChunkSize

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = domain.DefaultChunkOverlap

// DefaultSeparators are tried in order, coarsest first.
var DefaultSeparators = []string{"\n\n", "\n", " ", ""}

// Splitter cuts page text into chunks of at most chunkSize characters.
// Lengths are counted in runes.
type Splitter struct {
	chunkSize  int
	overlap    int
	separators []string
}

// Option configures the splitter.
type Option func(*Splitter)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(s *Splitter) {
		if size > 0 {
			s.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(s *Splitter) {
		if overlap >= 0 {
			s.overlap = overlap
		}
	}
}

// New creates a new splitter with the given options.
func New(opts ...Option) *Splitter {
	s := &Splitter{
		chunkSize:  DefaultChunkSize,
		overlap:    DefaultChunkOverlap,
		separators: DefaultSeparators,
	}

	for _, opt := range opts {
		opt(s)
	}

	// Ensure overlap doesn't exceed chunk size
	if s.overlap >= s.chunkSize {
		s.overlap = s.chunkSize / 4
	}

	return s
}

// ChunkSize returns the configured maximum chunk length.
func (s *Splitter) ChunkSize() int {
	return s.chunkSize
}

// Overlap returns the configured overlap.
func (s *Splitter) Overlap() int {
	return s.overlap
}

// Split turns pages into chunks without IDs, preserving page order and
// left-to-right order within each page. Pages without a number count as page 1.
func (s *Splitter) Split(pages []domain.PageText) []domain.Chunk {
	var chunks []domain.Chunk
	for _, page := range pages {
		pageNumber := page.PageNumber
		if pageNumber <= 0 {
			pageNumber = 1
		}
		for _, text := range s.SplitText(page.Text) {
			chunks = append(chunks, domain.Chunk{
				Text:       text,
				SourceName: page.SourceName,
				PageNumber: pageNumber,
			})
		}
	}
	return chunks
}

// SplitText splits a single text. Returned chunks are trimmed and never empty.
func (s *Splitter) SplitText(text string) []string {
	var out []string
	for _, chunk := range s.split(text, s.separators) {
		if chunk = strings.TrimSpace(chunk); chunk != "" {
			out = append(out, chunk)
		}
	}
	return out
}

func (s *Splitter) split(text string, separators []string) []string {
	separator := separators[len(separators)-1]
	var finer []string
	for i, sep := range separators {
		if sep == "" {
			separator = sep
			break
		}
		if strings.Contains(text, sep) {
			separator = sep
			finer = separators[i+1:]
			break
		}
	}

	var chunks, small []string
	for _, piece := range splitKeepingSeparator(text, separator) {
		if runeLen(piece) < s.chunkSize {
			small = append(small, piece)
			continue
		}
		if len(small) > 0 {
			chunks = append(chunks, s.merge(small)...)
			small = nil
		}
		if len(finer) == 0 {
			chunks = append(chunks, piece)
		} else {
			chunks = append(chunks, s.split(piece, finer)...)
		}
	}
	if len(small) > 0 {
		chunks = append(chunks, s.merge(small)...)
	}
	return chunks
}

// merge packs pieces into chunks of at most chunkSize. When a chunk is
// emitted, leading pieces are dropped until at most overlap characters remain
// to start the next one.
func (s *Splitter) merge(pieces []string) []string {
	var chunks, current []string
	total := 0
	for _, piece := range pieces {
		n := runeLen(piece)
		if total+n > s.chunkSize && len(current) > 0 {
			if chunk := strings.TrimSpace(strings.Join(current, "")); chunk != "" {
				chunks = append(chunks, chunk)
			}
			for total > s.overlap || (total+n > s.chunkSize && total > 0) {
				total -= runeLen(current[0])
				current = current[1:]
			}
		}
		current = append(current, piece)
		total += n
	}
	if chunk := strings.TrimSpace(strings.Join(current, "")); chunk != "" {
		chunks = append(chunks, chunk)
	}
	return chunks
}

// splitKeepingSeparator cuts text at sep, attaching each separator to the
// start of the piece that follows it. An empty sep cuts between runes.
func splitKeepingSeparator(text, sep string) []string {
	if sep == "" {
		pieces := make([]string, 0, len(text))
		for _, r := range text {
			pieces = append(pieces, string(r))
		}
		return pieces
	}

	parts := strings.Split(text, sep)
	pieces := make([]string, 0, len(parts))
	for i, part := range parts {
		if i > 0 {
			part = sep + part
		}
		if part != "" {
			pieces = append(pieces, part)
		}
	}
	return pieces
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
