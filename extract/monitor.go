package extract

import (
	"sync"

	"github.com/calyptra/loom/core"
)

// Monitor provides hooks to observe the extraction process.
// Implement this interface to track chunk progress, malformed model
// responses, and dropped relationship edges.
type Monitor interface {
	Start(method string, chunks int)
	ChunkExtracted(index int, concepts int)
	MalformedResponse(index int, response string)
	Consolidated(concepts []*core.Concept)
	EdgeDropped(rel *core.Relationship)
	Finish(concepts, relationships int)
}

// noopMonitor is a no-op implementation of Monitor.
type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string, _ int)             {}
func (n *noopMonitor) ChunkExtracted(_ int, _ int)       {}
func (n *noopMonitor) MalformedResponse(_ int, _ string) {}
func (n *noopMonitor) Consolidated(_ []*core.Concept)    {}
func (n *noopMonitor) EdgeDropped(_ *core.Relationship)  {}
func (n *noopMonitor) Finish(_ int, _ int)               {}

// CountingMonitor tallies extraction events. Safe for concurrent use;
// useful in tests and for operational counters.
type CountingMonitor struct {
	mu            sync.Mutex
	Chunks        int
	Extracted     int
	Malformed     int
	DroppedEdges  int
	Concepts      int
	Relationships int
}

var _ Monitor = (*CountingMonitor)(nil)

func (m *CountingMonitor) Start(_ string, chunks int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Chunks = chunks
}

func (m *CountingMonitor) ChunkExtracted(_ int, concepts int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Extracted++
}

func (m *CountingMonitor) MalformedResponse(_ int, _ string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Malformed++
}

func (m *CountingMonitor) Consolidated(_ []*core.Concept) {}

func (m *CountingMonitor) EdgeDropped(_ *core.Relationship) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DroppedEdges++
}

func (m *CountingMonitor) Finish(concepts, relationships int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Concepts = concepts
	m.Relationships = relationships
}
