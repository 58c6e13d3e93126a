package photoheart

import (
	"fmt"
	"os"
	"time"
)

// debugStats holds per-frame timing and sprite metrics.
// Only populated when Scene.debug is true.
type debugStats struct {
	buildTime     time.Duration
	submitTime    time.Duration
	particleCount int
	spriteCount   int
}

// debugLog prints timing and sprite stats to stderr.
func (s *Scene) debugLog(stats debugStats) {
	if !s.debug {
		return
	}
	_, _ = fmt.Fprint(os.Stderr, formatDebugStats(stats, s.ctx))
}

func formatDebugStats(stats debugStats, ctx *Context) string {
	total := stats.buildTime + stats.submitTime
	return fmt.Sprintf(
		"[photoheart] build: %v | submit: %v | total: %v\n"+
			"[photoheart] particles: %d | sprites: %d | culled: %d | phase: %s | time: %.3f\n",
		stats.buildTime, stats.submitTime, total,
		stats.particleCount, stats.spriteCount, stats.particleCount-stats.spriteCount,
		ctx.Phase(), ctx.Time)
}
