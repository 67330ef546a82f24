package bough

import (
	"encoding/json"
	"fmt"

	"github.com/golang/glog"
)

// testStep is a single action in a test script.
type testStep struct {
	Action   string  `json:"action"`
	Label    string  `json:"label,omitempty"`
	X        float64 `json:"x,omitempty"`
	Y        float64 `json:"y,omitempty"`
	FromX    float64 `json:"fromX,omitempty"`
	FromY    float64 `json:"fromY,omitempty"`
	ToX      float64 `json:"toX,omitempty"`
	ToY      float64 `json:"toY,omitempty"`
	Frames   int     `json:"frames,omitempty"`
	On       *bool   `json:"on,omitempty"`
	Depth    int     `json:"depth,omitempty"`
	Branches int     `json:"branches,omitempty"`
}

// testScript is the top-level JSON structure for a test script.
type testScript struct {
	Steps []testStep `json:"steps"`
}

var knownActions = map[string]bool{
	"screenshot": true,
	"hover":      true,
	"click":      true,
	"drag":       true,
	"wait":       true,
	"edit":       true,
	"spin":       true,
	"params":     true,
	"reset":      true,
}

// TestRunner sequences injected input, mode toggles, parameter changes and
// screenshots across frames for automated visual testing. Attach it to a
// Scene with SetTestRunner.
type TestRunner struct {
	steps     []testStep
	cursor    int
	waitCount int
	done      bool
}

// LoadTestScript parses a JSON test script and returns a TestRunner ready
// to be attached to a Scene via SetTestRunner.
func LoadTestScript(jsonData []byte) (*TestRunner, error) {
	var script testScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("parse test script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse test script: %w", ErrEmptyScript)
	}
	for i, st := range script.Steps {
		if !knownActions[st.Action] {
			return nil, fmt.Errorf("parse test script: step %d: unknown action %q", i, st.Action)
		}
		if (st.Action == "edit" || st.Action == "spin") && st.On == nil {
			return nil, fmt.Errorf("parse test script: step %d: %s needs \"on\"", i, st.Action)
		}
	}
	return &TestRunner{steps: script.Steps}, nil
}

// SetTestRunner attaches a TestRunner to the scene. Its step method runs at
// the start of every Scene.Update.
func (s *Scene) SetTestRunner(runner *TestRunner) {
	s.testRunner = runner
}

// Done reports whether all steps in the test script have been executed.
func (r *TestRunner) Done() bool {
	return r.done
}

// step advances the runner by one frame.
func (r *TestRunner) step(s *Scene) {
	if r.done {
		return
	}
	// Wait for pending injections to drain before advancing.
	if len(s.injectQueue) > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "screenshot":
		s.Screenshot(st.Label)
	case "hover":
		s.InjectHover(st.X, st.Y)
	case "click":
		s.InjectClick(st.X, st.Y)
	case "drag":
		s.InjectDrag(st.FromX, st.FromY, st.ToX, st.ToY, max(st.Frames, 2))
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	case "edit":
		s.SetEditMode(*st.On)
	case "spin":
		s.SetSpin(*st.On)
	case "params":
		d, b := st.Depth, st.Branches
		if d == 0 {
			d = s.params.Depth
		}
		if b == 0 {
			b = s.params.BranchCount
		}
		if err := s.SetParams(d, b); err != nil {
			glog.Errorf("bough: test script step %d: %v", r.cursor-1, err)
		}
	case "reset":
		s.ResetCamera()
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && len(s.injectQueue) == 0 {
		r.done = true
	}
}
