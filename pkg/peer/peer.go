// Package peer defines the external peer records the visualizer consumes.
// The visualizer never discovers peers itself; a Directory supplies an
// ordered list and the subsystem renders whatever it is given.
package peer

import "context"

// Record describes one peer as supplied by an external directory
type Record struct {
	ID          string `json:"id" yaml:"id"`
	DisplayName string `json:"display_name" yaml:"display_name"`
	AvatarRef   string `json:"avatar_ref,omitempty" yaml:"avatar_ref,omitempty"`
	OnlineHint  bool   `json:"online_hint" yaml:"online_hint"`
}

// Directory supplies the current ordered peer list
type Directory interface {
	// Peers returns the current peer list. The returned slice is a copy;
	// callers may retain it across directory updates.
	Peers() []Record
}

// Watcher is a Directory that additionally pushes roster changes. The
// channel closes when the watch context is cancelled.
type Watcher interface {
	Directory
	Watch(ctx context.Context) <-chan []Record
}

// Dedupe returns the records with duplicate IDs removed, first occurrence
// winning, preserving order
func Dedupe(records []Record) []Record {
	seen := make(map[string]bool, len(records))
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if r.ID == "" || seen[r.ID] {
			continue
		}
		seen[r.ID] = true
		out = append(out, r)
	}
	return out
}
