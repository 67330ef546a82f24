package bough

import (
	"time"

	"github.com/golang/glog"
)

// debugStats holds per-frame timing and draw-call metrics. Only populated
// while debug output is active.
type debugStats struct {
	traverseTime  time.Duration
	sortTime      time.Duration
	submitTime    time.Duration
	commandCount  int
	drawCallCount int
}

// debugActive reports whether per-frame stats are collected: either debug
// mode is on or glog verbosity is at least 2.
func (s *Scene) debugActive() bool {
	return s.debug || bool(glog.V(2))
}

// debugLog logs timing and draw-call stats for one frame.
func (s *Scene) debugLog(stats debugStats) {
	total := stats.traverseTime + stats.sortTime + stats.submitTime
	glog.Infof("bough: traverse: %v | sort: %v | submit: %v | total: %v",
		stats.traverseTime, stats.sortTime, stats.submitTime, total)
	glog.Infof("bough: commands: %d | draw calls: %d | branches: %d | handlers: %d",
		stats.commandCount, stats.drawCallCount, s.tree.CountBranches(s.root), s.frames.len())
}

// debugMaxBranches is the branch count above which a graft logs a warning.
const debugMaxBranches = 20000

// debugCheckTreeSize warns when grafting has grown the tree past the point
// where a single draw batch no longer holds it.
func (s *Scene) debugCheckTreeSize() {
	if !s.debug {
		return
	}
	if n := s.tree.CountBranches(s.root); n > debugMaxBranches {
		glog.Warningf("bough: tree has %d branches (threshold %d)", n, debugMaxBranches)
	}
}
