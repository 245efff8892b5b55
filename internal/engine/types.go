package engine

import "time"

// State represents the engine lifecycle state.
type State string

const (
	StateReady State = "ready"
	// StateError is entered when the generator reports a missing dependency;
	// searches keep working but the engine is no longer ready.
	StateError State = "error"
	// StateClosed follows Close.
	StateClosed State = "closed"
)

// document is a stored document and the chunks it was split into.
type document struct {
	ID         string
	Title      string
	Metadata   map[string]string
	ChunkIDs   []string
	IngestedAt time.Time
}

// chunk is the unit of retrieval.
type chunk struct {
	ID     string
	DocID  string
	Index  int
	Text   string
	Terms  map[string]int
	Length int
}
