package pipeline

import (
	"fmt"
	"slices"
	"strings"

	"github.com/born-ml/walkthrough/internal/attention"
	"github.com/born-ml/walkthrough/internal/vocab"
)

// Configuration limits.
const (
	MinDModel       = 2
	MaxDModel       = 12
	DefaultMaxWords = 8
)

// AllowedHeads lists the head counts a run may use.
var AllowedHeads = []int{1, 2, 3, 4, 6}

// DecoderMode is the informational decoder operating mode chosen at decoder_start.
// It has no effect on the numbers.
type DecoderMode int

// Decoder modes.
const (
	TeacherForcing DecoderMode = iota
	Autoregressive
)

// String returns the mode name.
func (m DecoderMode) String() string {
	switch m {
	case TeacherForcing:
		return "teacher-forcing"
	case Autoregressive:
		return "autoregressive"
	default:
		return fmt.Sprintf("DecoderMode(%d)", int(m))
	}
}

// ParseDecoderMode resolves a mode name.
func ParseDecoderMode(name string) (DecoderMode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "teacher-forcing", "teacher_forcing", "teacher":
		return TeacherForcing, nil
	case "autoregressive", "auto":
		return Autoregressive, nil
	default:
		return 0, &ConfigError{Field: "decoderMode", Reason: fmt.Sprintf("unknown mode %q", name)}
	}
}

// Config describes one run.
type Config struct {
	// Sentence is the English source text.
	Sentence string

	// DModel is the vector dimension: even, in [MinDModel, MaxDModel].
	DModel int

	// NumHeads is one of AllowedHeads and must divide DModel.
	NumHeads int

	// Language is the translation target.
	Language vocab.Language

	// MaxWords caps the sentence length in words.
	MaxWords int

	// Seed for reproducible weights. -1 = random.
	Seed int64

	// DecoderMode is recorded at decoder_start.
	DecoderMode DecoderMode

	// HeadMode selects combined or split-heads attention.
	HeadMode attention.Mode
}

// DefaultConfig returns the walkthrough's standard settings for sentence.
func DefaultConfig(sentence string) Config {
	return Config{
		Sentence:    sentence,
		DModel:      6,
		NumHeads:    2,
		Language:    vocab.French,
		MaxWords:    DefaultMaxWords,
		Seed:        -1,
		DecoderMode: TeacherForcing,
		HeadMode:    attention.ModeCombined,
	}
}

// Validate rejects configurations the pipeline cannot run.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Sentence) == "" {
		return &ConfigError{Field: "sentence", Reason: "must not be empty"}
	}
	if c.MaxWords <= 0 {
		return &ConfigError{Field: "maxWords", Reason: fmt.Sprintf("must be positive, got %d", c.MaxWords)}
	}
	if n := len(strings.Fields(c.Sentence)); n > c.MaxWords {
		return &ConfigError{Field: "sentence", Reason: fmt.Sprintf("%d words exceeds the limit of %d", n, c.MaxWords)}
	}
	if !slices.Contains(AllowedHeads, c.NumHeads) {
		return &ConfigError{Field: "numHeads", Reason: fmt.Sprintf("must be one of %v, got %d", AllowedHeads, c.NumHeads)}
	}
	if c.DModel%c.NumHeads != 0 {
		return &ConfigError{Field: "dModel", Reason: fmt.Sprintf("%d is not divisible by %d heads", c.DModel, c.NumHeads)}
	}
	if c.DModel < MinDModel || c.DModel > MaxDModel || c.DModel%2 != 0 {
		return &ConfigError{Field: "dModel", Reason: fmt.Sprintf("must be even in [%d, %d], got %d", MinDModel, MaxDModel, c.DModel)}
	}
	if _, err := vocab.ParseLanguage(string(c.Language)); err != nil {
		return &ConfigError{Field: "language", Reason: err.Error()}
	}
	if c.DecoderMode != TeacherForcing && c.DecoderMode != Autoregressive {
		return &ConfigError{Field: "decoderMode", Reason: c.DecoderMode.String()}
	}
	if c.HeadMode != attention.ModeCombined && c.HeadMode != attention.ModeSplitHeads {
		return &ConfigError{Field: "headMode", Reason: c.HeadMode.String()}
	}
	return nil
}
