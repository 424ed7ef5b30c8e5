package resolve

import (
	"github.com/poiesic/resolvit/core"
	"github.com/poiesic/resolvit/normalize"
)

// ResolveMonitor provides hooks to observe the resolve process.
// Implement this interface to track intermediate steps and results during resolution.
type ResolveMonitor interface {
	Start(query string)
	AfterTokenize(tokens []normalize.Token)
	AfterLookup(candidates []core.ID)
	CandidateScored(id core.ID, score float64)
	CandidateDropped(id core.ID)
	DeadlineExpired(scored, skipped int)
	Finish(result *Result)
}

// noopMonitor is a no-op implementation of ResolveMonitor
type noopMonitor struct{}

var _ ResolveMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                       {}
func (n *noopMonitor) AfterTokenize(_ []normalize.Token)    {}
func (n *noopMonitor) AfterLookup(_ []core.ID)              {}
func (n *noopMonitor) CandidateScored(_ core.ID, _ float64) {}
func (n *noopMonitor) CandidateDropped(_ core.ID)           {}
func (n *noopMonitor) DeadlineExpired(_, _ int)             {}
func (n *noopMonitor) Finish(_ *Result)                     {}
