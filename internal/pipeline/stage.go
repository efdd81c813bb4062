package pipeline

import "fmt"

// Stage identifies one step of the forward pass. Stages are totally ordered; the
// zero value StageIdle precedes the first real stage.
type Stage int

// Stages in pipeline order.
const (
	StageIdle Stage = iota

	// Encoder phase.
	StageTokenizing
	StageEmbedding
	StagePositional
	StageAttention
	StageAddNorm
	StageFeedForward

	// Decoder phase.
	StageDecoderStart
	StageDecoderEmbedding
	StageDecoderPositional
	StageDecoderMaskedAttention
	StageDecoderAddNorm1
	StageDecoderCrossAttention
	StageDecoderAddNorm2
	StageDecoderFFN
	StageOutputProjection
	StageTranslationComplete

	stageEnd
)

// NumStages is the number of real stages (StageIdle excluded).
const NumStages = int(stageEnd) - 1

// FirstStage and LastStage bound the real stages.
const (
	FirstStage = StageTokenizing
	LastStage  = StageTranslationComplete
)

var stageNames = [...]string{
	StageIdle:                   "idle",
	StageTokenizing:             "tokenizing",
	StageEmbedding:              "embedding",
	StagePositional:             "positional",
	StageAttention:              "attention",
	StageAddNorm:                "addnorm",
	StageFeedForward:            "feedforward",
	StageDecoderStart:           "decoder_start",
	StageDecoderEmbedding:       "decoder_embedding",
	StageDecoderPositional:      "decoder_positional",
	StageDecoderMaskedAttention: "decoder_masked_attention",
	StageDecoderAddNorm1:        "decoder_addnorm1",
	StageDecoderCrossAttention:  "decoder_cross_attention",
	StageDecoderAddNorm2:        "decoder_addnorm2",
	StageDecoderFFN:             "decoder_ffn",
	StageOutputProjection:       "output_projection",
	StageTranslationComplete:    "translation_complete",
}

// Stages returns the real stages in order.
func Stages() []Stage {
	out := make([]Stage, 0, NumStages)
	for s := FirstStage; s <= LastStage; s++ {
		out = append(out, s)
	}
	return out
}

// Valid reports whether s is StageIdle or a real stage.
func (s Stage) Valid() bool {
	return s >= StageIdle && s < stageEnd
}

// String returns the stage identifier used by collaborators.
func (s Stage) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Stage(%d)", int(s))
	}
	return stageNames[s]
}

// MarshalText implements encoding.TextMarshaler.
func (s Stage) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownStage, int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Stage) UnmarshalText(text []byte) error {
	parsed, err := ParseStage(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseStage resolves a stage identifier. Unknown names are an error, never a
// silent no-op.
func ParseStage(name string) (Stage, error) {
	for s, n := range stageNames {
		if n == name {
			return Stage(s), nil
		}
	}
	return StageIdle, fmt.Errorf("%w: %q", ErrUnknownStage, name)
}

// Phase groups stages into encoder and decoder halves.
type Phase int

// Phases.
const (
	PhaseIdle Phase = iota
	PhaseEncoder
	PhaseDecoder
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseEncoder:
		return "encoder"
	case PhaseDecoder:
		return "decoder"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Phase returns the half of the network s belongs to.
func (s Stage) Phase() Phase {
	switch {
	case s >= StageTokenizing && s <= StageFeedForward:
		return PhaseEncoder
	case s >= StageDecoderStart && s <= StageTranslationComplete:
		return PhaseDecoder
	default:
		return PhaseIdle
	}
}
