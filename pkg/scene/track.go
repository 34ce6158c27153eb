package scene

import (
	"slices"

	"github.com/matzehuels/bendchain/pkg/errors"
)

// Keyframe is a strength value at a frame.
type Keyframe struct {
	Frame float64 `json:"frame" toml:"frame" yaml:"frame"`
	Value float64 `json:"value" toml:"value" yaml:"value"`
}

// Track is a strength animation: keyframes sorted by frame, linearly
// interpolated and held constant past either end.
type Track []Keyframe

// NewTrack sorts keys by frame and rejects duplicate frames.
func NewTrack(keys ...Keyframe) (Track, error) {
	t := slices.Clone(keys)
	slices.SortStableFunc(t, func(a, b Keyframe) int {
		switch {
		case a.Frame < b.Frame:
			return -1
		case a.Frame > b.Frame:
			return 1
		}
		return 0
	})
	for i := 1; i < len(t); i++ {
		if t[i].Frame == t[i-1].Frame {
			return nil, errors.New(errors.ErrCodeInvalidInput, "duplicate keyframe at frame %g", t[i].Frame)
		}
	}
	return t, nil
}

// Sample returns the value at frame. ok is false for an empty track.
func (t Track) Sample(frame float64) (v float64, ok bool) {
	switch {
	case len(t) == 0:
		return 0, false
	case frame <= t[0].Frame:
		return t[0].Value, true
	case frame >= t[len(t)-1].Frame:
		return t[len(t)-1].Value, true
	}

	i, _ := slices.BinarySearchFunc(t, frame, func(k Keyframe, f float64) int {
		switch {
		case k.Frame < f:
			return -1
		case k.Frame > f:
			return 1
		}
		return 0
	})
	if t[i].Frame == frame {
		return t[i].Value, true
	}
	a, b := t[i-1], t[i]
	u := (frame - a.Frame) / (b.Frame - a.Frame)
	return a.Value + u*(b.Value-a.Value), true
}

// Span returns the first and last keyed frame.
func (t Track) Span() (first, last float64, ok bool) {
	if len(t) == 0 {
		return 0, 0, false
	}
	return t[0].Frame, t[len(t)-1].Frame, true
}
