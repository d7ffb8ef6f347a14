package resolve

import (
	"github.com/poiesic/categorit/core"
	"github.com/poiesic/categorit/corrections"
)

// Monitor provides hooks to observe a resolution as it advances.
// Implement this interface to track intermediate steps and results.
type Monitor interface {
	Start(text string)
	CorrectionHit(stage corrections.MatchStage, result core.Categorization)
	AfterRetrieval(candidates []core.CandidatePhrase)
	AfterFiltering(survivors []core.CandidatePhrase)
	PairSelected(pair core.Pair)
	TypeSelected(productType string)
	Finish(result core.Categorization)
}

// noopMonitor is a no-op implementation of Monitor
type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                                            {}
func (n *noopMonitor) CorrectionHit(_ corrections.MatchStage, _ core.Categorization) {}
func (n *noopMonitor) AfterRetrieval(_ []core.CandidatePhrase)                   {}
func (n *noopMonitor) AfterFiltering(_ []core.CandidatePhrase)                   {}
func (n *noopMonitor) PairSelected(_ core.Pair)                                  {}
func (n *noopMonitor) TypeSelected(_ string)                                     {}
func (n *noopMonitor) Finish(_ core.Categorization)                              {}
