package tokenizer

import "fmt"

// Piece is one subword unit produced by a BPE vocabulary.
type Piece struct {
	ID   int32
	Text string
}

// Subworder splits a single word into subword pieces.
//
// Implementations must be deterministic for a given word.
type Subworder interface {
	// Name identifies the vocabulary (e.g., "cl100k_base").
	Name() string

	// Pieces returns the subword units of word, in order.
	Pieces(word string) ([]Piece, error)
}

// SplitAll applies s to every word.
func SplitAll(s Subworder, words []string) ([][]Piece, error) {
	out := make([][]Piece, len(words))
	for i, w := range words {
		pieces, err := s.Pieces(w)
		if err != nil {
			return nil, fmt.Errorf("split %q: %w", w, err)
		}
		out[i] = pieces
	}
	return out, nil
}
