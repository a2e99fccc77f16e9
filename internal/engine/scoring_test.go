package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputePoints(t *testing.T) {
	tests := []struct {
		name     string
		correct  bool
		timeLeft int
		want     int
	}{
		{"wrong answer scores nothing", false, 30, 0},
		{"wrong answer at the buzzer scores nothing", false, 0, 0},
		{"correct at the buzzer scores the base", true, 0, 100},
		{"correct with 25s left", true, 25, 183},
		{"correct with full 30s left", true, 30, 199},
		{"correct with 1s left", true, 1, 103},
		{"negative time is clamped", true, -3, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputePoints(tt.correct, tt.timeLeft))
		})
	}
}
