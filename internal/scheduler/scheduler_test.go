package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewStartsAtZero(t *testing.T) {
	s := New()
	assert.Equal(t, uint64(0), s.Cycle())
}

func TestTickAdvancesByOne(t *testing.T) {
	s := New()
	s.Tick()
	s.Tick()
	s.Tick()
	assert.Equal(t, uint64(3), s.Cycle())
}
