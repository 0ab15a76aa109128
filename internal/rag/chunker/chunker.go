package chunker

import (
	"fmt"

	"github.com/doctalk-ai/doctalk/internal/domain/docModel"
)

// Chunker splits document text into fixed-size overlapping spans.
// Offsets and sizes are rune counts so multibyte scripts chunk cleanly.
type Chunker struct {
	size    int
	overlap int
}

// Span is one chunk of text together with its rune offset in the source
// document. The offset lets ingestion map a chunk back to its page.
type Span struct {
	Text  string
	Start int
}

func New(size, overlap int) (*Chunker, error) {
	if size <= 0 {
		return nil, docModel.E(docModel.KindConfiguration,
			fmt.Sprintf("chunk size must be positive, got %d", size), nil)
	}
	if overlap < 0 {
		return nil, docModel.E(docModel.KindConfiguration,
			fmt.Sprintf("chunk overlap must not be negative, got %d", overlap), nil)
	}
	if overlap >= size {
		return nil, docModel.E(docModel.KindConfiguration,
			fmt.Sprintf("chunk overlap %d must be strictly less than chunk size %d", overlap, size), nil)
	}
	return &Chunker{size: size, overlap: overlap}, nil
}

// Split covers the whole input without gaps: each span starts
// size-overlap runes after the previous one, so consecutive spans share
// exactly `overlap` runes and concatenating the non-overlapping tails
// reconstructs the input. Empty input yields no spans.
func (c *Chunker) Split(text string) []Span {
	if text == "" {
		return nil
	}

	runes := []rune(text)
	if len(runes) <= c.size {
		return []Span{{Text: text, Start: 0}}
	}

	step := c.size - c.overlap
	spans := make([]Span, 0, len(runes)/step+1)

	for start := 0; start < len(runes); start += step {
		end := start + c.size
		if end > len(runes) {
			end = len(runes)
		}
		spans = append(spans, Span{Text: string(runes[start:end]), Start: start})
		if end == len(runes) {
			break
		}
	}
	return spans
}

func (c *Chunker) Size() int    { return c.size }
func (c *Chunker) Overlap() int { return c.overlap }
