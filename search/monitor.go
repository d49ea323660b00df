package search

import (
	"github.com/poiesic/elscan/core"
)

// SearchMonitor provides hooks to observe the search process.
// Implement this interface to track intermediate steps and results during search.
type SearchMonitor interface {
	Start(pattern string, minSkip, maxSkip int)
	// CacheHit reports a result served from "memory" or "repository".
	CacheHit(source string)
	SkipSearched(skip, forward, backward int)
	Finish(occurrences []core.Occurrence)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string, _, _ int)   {}
func (n *noopMonitor) CacheHit(_ string)          {}
func (n *noopMonitor) SkipSearched(_, _, _ int)   {}
func (n *noopMonitor) Finish(_ []core.Occurrence) {}
