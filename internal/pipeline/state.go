package pipeline

import (
	"github.com/google/uuid"

	"github.com/born-ml/walkthrough/internal/weights"
)

// State is the complete record of one run: where it stands and what every
// finished stage produced.
//
// Completed stages are derived from Current, so they always form a contiguous
// prefix of the stage order.
type State struct {
	RunID   uuid.UUID
	Config  Config
	Current Stage
	Paused  bool

	outputs  [stageEnd]*StageOutput
	provider *weights.Provider
}

// Completed returns the stages before Current, in order.
func (s *State) Completed() []Stage {
	if s.Current <= FirstStage {
		return []Stage{}
	}
	out := make([]Stage, 0, int(s.Current-FirstStage))
	for st := FirstStage; st < s.Current; st++ {
		out = append(out, st)
	}
	return out
}

// IsCompleted reports whether stage lies in the completed prefix.
func (s *State) IsCompleted(stage Stage) bool {
	return stage >= FirstStage && stage < s.Current
}

// Output returns the stored product of stage, or nil.
func (s *State) Output(stage Stage) *StageOutput {
	if stage <= StageIdle || stage >= stageEnd {
		return nil
	}
	return s.outputs[stage]
}

// Done reports whether the final stage has been reached.
func (s *State) Done() bool {
	return s.Current == LastStage
}

// Translation returns the decoded translation of a completed state.
func (s *State) Translation() ([]string, bool) {
	out := s.Output(StageTranslationComplete)
	if out == nil {
		return nil, false
	}
	return out.Tokens, true
}

// Clone deep-copies the state. The clone cannot be advanced.
func (s *State) Clone() State {
	dup := State{
		RunID:   s.RunID,
		Config:  s.Config,
		Current: s.Current,
		Paused:  s.Paused,
	}
	for i, o := range s.outputs {
		dup.outputs[i] = o.Clone()
	}
	return dup
}

func (s *State) store(out *StageOutput) {
	s.outputs[out.Stage] = out
}
