package glquad

// DefaultStep is the per-frame change of the animated value.
const DefaultStep float32 = 0.05

// AnimationState is a value bouncing between 0 and 1 in fixed steps,
// producing a triangle wave.
type AnimationState struct {
	Value float32
	Step  float32
}

// NewAnimation starts at 0 moving up by DefaultStep.
func NewAnimation() AnimationState {
	return AnimationState{Value: 0, Step: DefaultStep}
}

// Advance moves the value one step. Reaching or overshooting either bound
// clamps the value to the bound and reverses the direction, so both 0 and 1
// are hit exactly once per half period. It returns the new value.
func (a *AnimationState) Advance() float32 {
	a.Value += a.Step
	switch {
	case a.Value >= 1:
		a.Value = 1
		a.Step = -abs32(a.Step)
	case a.Value <= 0:
		a.Value = 0
		a.Step = abs32(a.Step)
	}
	return a.Value
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
