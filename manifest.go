package burstpick

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"
)

// Manifest roles.
const (
	RoleWinner   = "winner"
	RoleLoser    = "loser"
	RoleUnscored = "unscored"
	RoleFailed   = "failed"
)

// ManifestEntry is one relocation recorded in the manifest.
type ManifestEntry struct {
	RunID       string           `json:"run_id"`
	Time        time.Time        `json:"time"`
	Group       string           `json:"group"`
	Role        string           `json:"role"`
	Source      string           `json:"source"`
	Destination string           `json:"destination,omitempty"`
	Score       *float64         `json:"score,omitempty"`
	Blurry      bool             `json:"blurry,omitempty"`
	Fingerprint string           `json:"fingerprint,omitempty"`
	Meta        *CaptureMetadata `json:"meta,omitempty"`
	Error       string           `json:"error,omitempty"`
}

// manifestWriter appends JSON lines to a file. It is safe for concurrent use.
type manifestWriter struct {
	mu  sync.Mutex
	f   *os.File
	enc *json.Encoder
}

func openManifest(path string) (*manifestWriter, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open manifest: %w", err)
	}
	return &manifestWriter{f: f, enc: json.NewEncoder(f)}, nil
}

func (w *manifestWriter) write(e ManifestEntry) error {
	if w == nil {
		return nil
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.enc.Encode(e)
}

func (w *manifestWriter) Close() error {
	if w == nil {
		return nil
	}
	return w.f.Close()
}

// ReadManifest decodes every entry of a manifest file.
func ReadManifest(path string) ([]ManifestEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var entries []ManifestEntry
	dec := json.NewDecoder(f)
	for dec.More() {
		var e ManifestEntry
		if err := dec.Decode(&e); err != nil {
			return entries, fmt.Errorf("decode manifest entry %d: %w", len(entries)+1, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// RoleOf returns the manifest role of a member of the selection.
func (s Selection) RoleOf(f Frame) string {
	if s.Winner != nil && f.Path == s.Winner.Path {
		return RoleWinner
	}
	for _, fail := range s.Failures {
		if fail.Path == f.Path {
			return RoleFailed
		}
	}
	if f.Scored {
		return RoleLoser
	}
	return RoleUnscored
}
