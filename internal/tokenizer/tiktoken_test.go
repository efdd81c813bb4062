package tokenizer

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// loadTikToken skips the test when the BPE ranks cannot be fetched (offline CI).
func loadTikToken(t *testing.T, encoding string) *TikToken {
	t.Helper()
	tok, err := NewTikToken(encoding)
	if err != nil {
		t.Skipf("tiktoken encoding %s unavailable: %v", encoding, err)
	}
	return tok
}

func TestTikToken_InvalidEncoding(t *testing.T) {
	tok, err := NewTikToken("invalid_encoding_xyz")
	assert.Error(t, err)
	assert.Nil(t, tok)
}

func TestTikToken_Roundtrip(t *testing.T) {
	tok := loadTikToken(t, EncodingCL100kBase)

	tests := []struct {
		name string
		text string
	}{
		{name: "sentence", text: "We are best"},
		{name: "accents", text: "nous sommes très heureux aujourd'hui"},
		{name: "empty", text: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.text, tok.Decode(tok.Encode(tt.text)))
		})
	}
}

func TestTikToken_Pieces(t *testing.T) {
	tok := loadTikToken(t, EncodingCL100kBase)
	assert.Equal(t, EncodingCL100kBase, tok.Name())

	for _, word := range []string{"We", "students", "morning"} {
		pieces, err := tok.Pieces(word)
		require.NoError(t, err)
		require.NotEmpty(t, pieces)

		var sb strings.Builder
		for _, p := range pieces {
			sb.WriteString(p.Text)
		}
		assert.Equal(t, word, sb.String(), "pieces must reassemble the word")
	}
}

type fakeSubworder struct {
	fail string
}

func (f fakeSubworder) Name() string { return "fake" }

func (f fakeSubworder) Pieces(word string) ([]Piece, error) {
	if word == f.fail {
		return nil, errors.New("boom")
	}
	out := make([]Piece, 0, len(word))
	for i, r := range word {
		out = append(out, Piece{ID: int32(i), Text: string(r)})
	}
	return out, nil
}

func TestSplitAll(t *testing.T) {
	got, err := SplitAll(fakeSubworder{}, []string{"ab", "c"})
	require.NoError(t, err)
	assert.Equal(t, [][]Piece{
		{{ID: 0, Text: "a"}, {ID: 1, Text: "b"}},
		{{ID: 0, Text: "c"}},
	}, got)

	_, err = SplitAll(fakeSubworder{fail: "c"}, []string{"ab", "c"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `split "c"`)
}
