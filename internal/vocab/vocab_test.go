package vocab

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	table := Default()

	tests := []struct {
		name     string
		sentence string
		maxWords int
		want     []string
	}{
		{name: "known words", sentence: "We are best", maxWords: 8, want: []string{"We", "are", "best"}},
		{name: "extra whitespace", sentence: "  We\tare \n  best  ", maxWords: 8, want: []string{"We", "are", "best"}},
		{name: "drops unknown", sentence: "We zzz are best", maxWords: 8, want: []string{"We", "are", "best"}},
		{name: "no matches", sentence: "xyz qwerty", maxWords: 8, want: []string{}},
		{name: "truncates before filtering", sentence: "xyz we are best", maxWords: 2, want: []string{"we"}},
		{name: "duplicates kept", sentence: "the dog and the cat", maxWords: 0, want: []string{"the", "dog", "and", "the", "cat"}},
		{name: "empty", sentence: "   ", maxWords: 3, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, table.Tokenize(tt.sentence, tt.maxWords))
		})
	}
}

func TestTokenize_Idempotent(t *testing.T) {
	table := Default()
	first := table.Tokenize("  Hello   world and good  morning friends", 10)
	second := table.Tokenize(strings.Join(first, " "), 10)
	assert.Equal(t, first, second)
}

func TestEmbed(t *testing.T) {
	table := Default()

	v, ok := table.Embed("We", 6)
	require.True(t, ok)
	require.Len(t, v, 6)
	for _, x := range v {
		assert.GreaterOrEqual(t, x, -1.0)
		assert.LessOrEqual(t, x, 1.0)
	}

	again, ok := table.Embed("we", 6)
	require.True(t, ok)
	assert.Equal(t, v, again, "lookup is deterministic and case-insensitive")

	short, ok := table.Embed("we", 4)
	require.True(t, ok)
	assert.Equal(t, v[:4], short, "smaller dimension is a prefix")

	other, ok := table.Embed("are", 6)
	require.True(t, ok)
	assert.NotEqual(t, v, other)

	_, ok = table.Embed("qwerty", 6)
	assert.False(t, ok)
}

func TestEmbed_TargetAndSpecialTokens(t *testing.T) {
	table := Default()

	for _, tok := range []string{"nous", "Katze", "de", StartToken, EndToken, PadToken} {
		_, ok := table.Embed(tok, 4)
		assert.True(t, ok, "token %q should have an embedding", tok)
	}
	assert.False(t, table.InSource("nous"), "target words are not source tokens")
}

func TestTranslate(t *testing.T) {
	table := Default()

	want := map[string]string{"We": "nous", "are": "sommes", "best": "meilleurs"}
	for src, dst := range want {
		got, ok := table.Translate(src, French)
		require.True(t, ok)
		assert.Equal(t, dst, got)
	}

	got, ok := table.Translate("dog", German)
	require.True(t, ok)
	assert.Equal(t, "Hund", got)

	_, ok = table.Translate("nous", French)
	assert.False(t, ok)
}

func TestLanguages(t *testing.T) {
	for _, lang := range Languages() {
		assert.NotEmpty(t, FunctionWords(lang))
		for _, src := range Default().SourceWords() {
			_, ok := Default().Translate(src, lang)
			assert.True(t, ok, "%q has no %s translation", src, lang)
		}
	}

	lang, err := ParseLanguage(" French ")
	require.NoError(t, err)
	assert.Equal(t, French, lang)

	_, err = ParseLanguage("klingon")
	assert.Error(t, err)
}

func TestIsSpecial(t *testing.T) {
	assert.True(t, IsSpecial(StartToken))
	assert.True(t, IsSpecial(EndToken))
	assert.True(t, IsSpecial(PadToken))
	assert.False(t, IsSpecial("nous"))
}
