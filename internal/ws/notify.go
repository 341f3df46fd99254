package ws

import (
	"encoding/json"
	"time"

	"kazi-hub/internal/domain/job"
)

// SnapshotEvent is the wire shape pushed to clients when a new snapshot
// generation goes live.
type SnapshotEvent struct {
	Type        string `json:"type"`
	Total       int    `json:"total"`
	GeneratedAt string `json:"generated_at"`
}

const eventSnapshotPublished = "snapshot_published"

// SnapshotNotifier adapts the hub to the pipeline's publish hook.
type SnapshotNotifier struct {
	hub *Hub
}

func NewSnapshotNotifier(hub *Hub) *SnapshotNotifier {
	return &SnapshotNotifier{hub: hub}
}

func (n *SnapshotNotifier) SnapshotPublished(snap *job.Snapshot) {
	if n == nil || n.hub == nil || snap == nil {
		return
	}

	evt := SnapshotEvent{
		Type:        eventSnapshotPublished,
		Total:       snap.Total,
		GeneratedAt: snap.GeneratedAt.UTC().Format(time.RFC3339),
	}
	b, err := json.Marshal(evt)
	if err != nil {
		return
	}
	n.hub.Broadcast(b)
}
