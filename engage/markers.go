package engage

import (
	"fmt"

	"github.com/mathfra-rgb/cancelme-mvp/app"
	"github.com/mathfra-rgb/cancelme-mvp/domain"
)

// Markers remembers which reactions this device already sent, one key per
// post and kind.
type Markers struct {
	kv app.KV
}

// NewMarkers creates a marker set over kv.
func NewMarkers(kv app.KV) *Markers {
	return &Markers{kv: kv}
}

func markerKey(postID string, kind domain.ReactionKind) string {
	return fmt.Sprintf("reacted:%s:%s", postID, kind)
}

// Has reports whether the reaction was already sent.
func (m *Markers) Has(postID string, kind domain.ReactionKind) (bool, error) {
	_, ok, err := m.kv.Get(markerKey(postID, kind))
	return ok, err
}

// Set records the reaction as sent.
func (m *Markers) Set(postID string, kind domain.ReactionKind) error {
	return m.kv.Set(markerKey(postID, kind), "1")
}

// Clear forgets the reaction, allowing it again.
func (m *Markers) Clear(postID string, kind domain.ReactionKind) error {
	return m.kv.Delete(markerKey(postID, kind))
}
