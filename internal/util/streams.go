package util

import (
	"fmt"
	"strings"

	apperrors "roguecore/internal/errors"
)

// DefaultStreams are the subsystem streams forked for a run, in fork order.
var DefaultStreams = []string{"battle", "loot", "map", "ai", "save", "events", "effects"}

var (
	// ErrStreamNotInitialized is returned by Get for a label that was never registered.
	ErrStreamNotInitialized = apperrors.New(apperrors.CodeStreamNotInitialized, "stream not initialized")
	// ErrStreamCollision is returned when two streams sample identically.
	ErrStreamCollision = apperrors.New(apperrors.CodeStreamCollision, "streams produced identical samples")
)

// Streams owns one forked child per subsystem label. All streams descend
// directly from the same root and are created once, at construction.
type Streams struct {
	order   []string
	streams map[string]*Rand
}

// NewStreams forks every label from root in order. With no labels the
// DefaultStreams are used.
func NewStreams(root *Rand, labels ...string) (*Streams, error) {
	if root == nil {
		panic("util: NewStreams with nil root")
	}
	if len(labels) == 0 {
		labels = DefaultStreams
	}
	s := &Streams{
		order:   make([]string, 0, len(labels)),
		streams: make(map[string]*Rand, len(labels)),
	}
	for _, label := range labels {
		if strings.TrimSpace(label) == "" {
			return nil, apperrors.New(apperrors.CodeStreamLabelEmpty, "stream label must not be empty")
		}
		if _, dup := s.streams[label]; dup {
			return nil, apperrors.WithMetadata(apperrors.CodeStreamDuplicate,
				fmt.Sprintf("stream %q registered twice", label), map[string]string{"label": label})
		}
		s.streams[label] = root.Fork(label)
		s.order = append(s.order, label)
	}
	return s, nil
}

// Get returns the stream registered under label. It never creates one.
func (s *Streams) Get(label string) (*Rand, error) {
	r, ok := s.streams[label]
	if !ok {
		return nil, apperrors.WithMetadata(apperrors.CodeStreamNotInitialized,
			fmt.Sprintf("stream %q not initialized", label), map[string]string{"label": label})
	}
	return r, nil
}

// MustGet is Get for wiring code; an unknown label panics.
func (s *Streams) MustGet(label string) *Rand {
	r, err := s.Get(label)
	if err != nil {
		panic(err)
	}
	return r
}

// Labels lists registered labels in fork order.
func (s *Streams) Labels() []string {
	return append([]string(nil), s.order...)
}

// CheckIndependence samples each stream and fails if two streams agree on
// every draw. Samples come from copies so live streams are not advanced.
// Diagnostic use only.
func (s *Streams) CheckIndependence(samples int) error {
	if samples <= 0 {
		return apperrors.New(apperrors.CodeStreamSampleCountZero, "sample count must be positive")
	}
	seen := make(map[string]string, len(s.order))
	for _, label := range s.order {
		c := s.streams[label].clone()
		var b strings.Builder
		for i := 0; i < samples; i++ {
			fmt.Fprintf(&b, "%x,", c.Uint64())
		}
		key := b.String()
		if other, ok := seen[key]; ok {
			return apperrors.WithMetadata(apperrors.CodeStreamCollision,
				fmt.Sprintf("streams %q and %q produced identical samples", other, label),
				map[string]string{"a": other, "b": label})
		}
		seen[key] = label
	}
	return nil
}
