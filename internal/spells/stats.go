package spells

import "github.com/dmitrijs2005/spellcaster/internal/server/models"

// Stats is the public view of the global counters.
type Stats struct {
	TotalBurned    uint64
	TotalCollected uint64
	TotalCasts     uint64
	TotalSuccesses uint64
	// SuccessRate is a percentage, 0 when nothing was cast yet.
	SuccessRate float64
}

func StatsOf(g models.GlobalState) Stats {
	s := Stats{
		TotalBurned:    g.TotalBurned,
		TotalCollected: g.TotalCollected,
		TotalCasts:     g.TotalCasts,
		TotalSuccesses: g.TotalSuccesses,
	}
	if g.TotalCasts > 0 {
		s.SuccessRate = float64(g.TotalSuccesses) / float64(g.TotalCasts) * 100
	}
	return s
}
