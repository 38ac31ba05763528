package retrieval

import "github.com/poiesic/paperit/storage"

// Monitor provides hooks to observe the retrieval process.
// Implement this interface to track intermediate steps and results.
type Monitor interface {
	Start(query string)
	AfterQueryEmbedding(vector []float32)
	AfterVectorSearch(matches []storage.Match)
	CandidateScored(candidate ScoredCandidate)
	Finish(results []ScoredCandidate)
}

// noopMonitor is a no-op implementation of Monitor
type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                      {}
func (n *noopMonitor) AfterQueryEmbedding(_ []float32)     {}
func (n *noopMonitor) AfterVectorSearch(_ []storage.Match) {}
func (n *noopMonitor) CandidateScored(_ ScoredCandidate)   {}
func (n *noopMonitor) Finish(_ []ScoredCandidate)          {}
