package bough

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDebugActiveFollowsDebugMode(t *testing.T) {
	s := newTestScene(t, 2, 2)
	assert.False(t, s.debugActive())
	s.SetDebugMode(true)
	assert.True(t, s.debugActive())
	s.SetDebugMode(false)
	assert.False(t, s.debugActive())
}

func TestDebugCheckTreeSize(t *testing.T) {
	s := newTestScene(t, 2, 2)
	s.SetDebugMode(true)
	assert.NotPanics(t, s.debugCheckTreeSize)
	assert.NotPanics(t, func() { s.debugLog(debugStats{commandCount: 3}) })
}

func TestHUDText(t *testing.T) {
	s := newTestScene(t, 3, 2)
	text := s.hudText()
	assert.Contains(t, text, "depth 3")
	assert.Contains(t, text, "branches 2")
	assert.Contains(t, text, "nodes 7")
	assert.Contains(t, text, "edit off")
	assert.Contains(t, text, "hover -")

	s.SetEditMode(true)
	s.OnPointerMove(trunkNDC(t, s))
	assert.Contains(t, s.hudText(), "hover depth 3 slot 0")
	assert.Contains(t, s.hudText(), "edit on")
}
