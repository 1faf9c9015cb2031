package glquad_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/go-theft-auto/glquad"
)

func TestAnimationFirstStep(t *testing.T) {
	a := glquad.NewAnimation()
	assert.Equal(t, float32(0.05), a.Advance())
	assert.Equal(t, glquad.DefaultStep, a.Step)
}

func TestAnimationWaveform(t *testing.T) {
	a := glquad.NewAnimation()

	var tops, bottoms int
	for range 10_000 {
		v := a.Advance()
		if v < 0 || v > 1 {
			t.Fatalf("value %v out of [0, 1]", v)
		}
		switch v {
		case 1:
			tops++
		case 0:
			bottoms++
		}
	}

	// One period is about 40 frames.
	assert.Greater(t, tops, 100)
	assert.Greater(t, bottoms, 100)
}

func TestAnimationReversesAtBounds(t *testing.T) {
	a := glquad.AnimationState{Value: 0.98, Step: 0.05}

	assert.Equal(t, float32(1), a.Advance())
	assert.Equal(t, float32(-0.05), a.Step)
	assert.Less(t, a.Advance(), float32(1))

	a = glquad.AnimationState{Value: 0.02, Step: -0.05}
	assert.Equal(t, float32(0), a.Advance())
	assert.Equal(t, float32(0.05), a.Step)
	assert.Greater(t, a.Advance(), float32(0))
}

func TestAnimationStepMagnitudeIsKept(t *testing.T) {
	a := glquad.NewAnimation()
	for range 1_000 {
		a.Advance()
		if a.Step != 0.05 && a.Step != -0.05 {
			t.Fatalf("step changed to %v", a.Step)
		}
	}
}
