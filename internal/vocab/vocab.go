// Package vocab holds the fixed lookup tables of the simulator: the English source
// vocabulary, its translations, and the deterministic embedding of every known token.
//
// This is deliberately not a learned tokenizer. Tokenize splits on whitespace and
// drops every word the table does not know; callers must check that something
// survived before starting a run.
package vocab

import (
	"fmt"
	"hash/fnv"
	"math"
	"math/rand/v2"
	"strings"
	"sync"

	"github.com/born-ml/walkthrough/internal/vecops"
)

// Table is an immutable lookup from surface tokens to embeddings and translations.
// It is safe for concurrent use.
type Table struct {
	source map[string]entry
	known  map[string]struct{}
}

var defaultTable = sync.OnceValue(func() *Table { return newTable(lexicon) })

// Default returns the shared built-in table.
func Default() *Table {
	return defaultTable()
}

func newTable(entries []entry) *Table {
	t := &Table{
		source: make(map[string]entry, len(entries)),
		known:  make(map[string]struct{}),
	}
	for _, e := range entries {
		t.source[e.word] = e
		t.known[e.word] = struct{}{}
		for _, w := range e.translations {
			t.known[fold(w)] = struct{}{}
		}
	}
	for _, words := range functionWords {
		for _, w := range words {
			t.known[fold(w)] = struct{}{}
		}
	}
	for _, s := range []string{StartToken, EndToken, PadToken} {
		t.known[s] = struct{}{}
	}
	return t
}

// fold normalizes a token for lookup. Special tokens are matched verbatim.
func fold(token string) string {
	if strings.HasPrefix(token, "<") && strings.HasSuffix(token, ">") {
		return token
	}
	return strings.ToLower(token)
}

// Known reports whether token has an embedding.
func (t *Table) Known(token string) bool {
	_, ok := t.known[fold(token)]
	return ok
}

// InSource reports whether token belongs to the English source vocabulary.
func (t *Table) InSource(token string) bool {
	_, ok := t.source[fold(token)]
	return ok
}

// Embed returns the fixed vector for token, or false when the token is unknown.
//
// The vector is a pure function of the folded token and dModel: a FNV-1a hash of the
// token seeds a PCG stream whose first dModel draws, rounded to two decimals in
// [-1, 1], form the embedding. A token's vector at a smaller dModel is therefore a
// prefix of its vector at a larger one.
func (t *Table) Embed(token string, dModel int) (vecops.Vector, bool) {
	if !t.Known(token) || dModel <= 0 {
		return nil, false
	}

	h := fnv.New64a()
	_, _ = h.Write([]byte(fold(token)))
	seed := h.Sum64()
	//nolint:gosec // Deterministic embedding table, not security-sensitive
	rng := rand.New(rand.NewPCG(seed, seed>>1|1))

	v := make(vecops.Vector, dModel)
	for i := range v {
		v[i] = math.Round((rng.Float64()*2-1)*100) / 100
	}
	return v, true
}

// Tokenize trims the sentence, collapses whitespace, splits on it, truncates to
// maxWords (no limit when maxWords <= 0) and then drops every word outside the
// source vocabulary. Surviving tokens keep their original surface form.
func (t *Table) Tokenize(sentence string, maxWords int) []string {
	words := strings.Fields(sentence)
	if maxWords > 0 && len(words) > maxWords {
		words = words[:maxWords]
	}

	tokens := make([]string, 0, len(words))
	for _, w := range words {
		if t.InSource(w) {
			tokens = append(tokens, w)
		}
	}
	return tokens
}

// Translate returns the fixed translation of a source token.
func (t *Table) Translate(token string, lang Language) (string, bool) {
	e, ok := t.source[fold(token)]
	if !ok {
		return "", false
	}
	w, ok := e.translations[lang]
	return w, ok
}

// SourceWords lists the English vocabulary in table order.
func (t *Table) SourceWords() []string {
	out := make([]string, 0, len(lexicon))
	for _, e := range lexicon {
		if _, ok := t.source[e.word]; ok {
			out = append(out, e.word)
		}
	}
	return out
}

// FunctionWords returns a copy of the common words of lang.
func FunctionWords(lang Language) []string {
	return append([]string(nil), functionWords[lang]...)
}

// Languages lists the supported target languages.
func Languages() []Language {
	return append([]Language(nil), languages...)
}

// ParseLanguage resolves a case-insensitive language name.
func ParseLanguage(name string) (Language, error) {
	want := Language(strings.ToLower(strings.TrimSpace(name)))
	for _, l := range languages {
		if l == want {
			return l, nil
		}
	}
	return "", fmt.Errorf("unsupported language %q", name)
}

// IsSpecial reports whether token is one of the special tokens.
func IsSpecial(token string) bool {
	return token == StartToken || token == EndToken || token == PadToken
}
