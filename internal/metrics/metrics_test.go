package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChangePct(t *testing.T) {
	tests := []struct {
		name string
		ltp  float64
		cls  float64
		want float64
	}{
		{"flat", 100, 100, 0},
		{"up 10", 110, 100, 10},
		{"down 5", 95, 100, -5},
		{"zero close", 123.45, 0, 0},
		{"zero close zero ltp", 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ChangePct(tt.ltp, tt.cls), 1e-9)
		})
	}
}

func TestTargetDist(t *testing.T) {
	assert.InDelta(t, 20, TargetDist(120, 100), 1e-9)
	assert.InDelta(t, -10, TargetDist(90, 100), 1e-9)
	assert.InDelta(t, 0, TargetDist(120, 0), 1e-9)
}

func TestStopDist(t *testing.T) {
	assert.InDelta(t, -5, StopDist(95, 100), 1e-9)
	assert.InDelta(t, 0, StopDist(95, 0), 1e-9)
}

func TestTargetHit(t *testing.T) {
	assert.False(t, TargetHit(20), "price below target is not a hit")
	assert.True(t, TargetHit(0), "price exactly at target is a hit")
	assert.True(t, TargetHit(-10), "price past target is a hit")
}
