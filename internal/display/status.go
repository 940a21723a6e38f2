package display

import (
	"fmt"
	"strings"

	"github.com/hammamikhairi/fridgechef/internal/domain"
)

// SegmentKind picks the style of a status bar segment.
type SegmentKind int

const (
	SegmentInfo SegmentKind = iota
	SegmentBusy
	SegmentSpeaking
	SegmentFailed
)

// Segment is one piece of the status bar.
type Segment struct {
	Kind SegmentKind
	Text string
}

// Status is what the status bar shows for a snapshot.
type Status struct {
	Segments []Segment
	recipe   string
}

// Empty reports whether there is nothing to show.
func (s Status) Empty() bool { return len(s.Segments) == 0 }

// Busy reports whether a request is in flight.
func (s Status) Busy() bool {
	for _, seg := range s.Segments {
		if seg.Kind == SegmentBusy {
			return true
		}
	}
	return false
}

// Title is the terminal window title.
func (s Status) Title() string {
	if s.recipe != "" {
		return "FridgeChef · " + s.recipe
	}
	return "FridgeChef"
}

// String joins the segments as plain text.
func (s Status) String() string {
	parts := make([]string, len(s.Segments))
	for i, seg := range s.Segments {
		parts[i] = seg.Text
	}
	return strings.Join(parts, " | ")
}

// StatusOf derives the status bar from a browser snapshot.
func StatusOf(snap domain.Snapshot) Status {
	var st Status

	switch snap.Search.Status {
	case domain.RequestLoading:
		st.Segments = append(st.Segments, Segment{SegmentBusy, fmt.Sprintf(" searching %q", snap.Query)})
	case domain.RequestSuccess:
		st.Segments = append(st.Segments, Segment{SegmentInfo, fmt.Sprintf("%d result(s) for %q", len(snap.Search.Value), snap.Query)})
	case domain.RequestFailed:
		st.Segments = append(st.Segments, Segment{SegmentFailed, "search: " + snap.Search.Message})
	}

	switch snap.Phase() {
	case domain.PhaseLoading:
		st.Segments = append(st.Segments, Segment{SegmentBusy, " loading recipe"})
	case domain.PhaseOpenSilent:
		st.recipe = snap.Detail.Value.Title
		st.Segments = append(st.Segments, Segment{SegmentInfo, st.recipe})
	case domain.PhaseOpenSpeaking:
		st.recipe = snap.Detail.Value.Title
		st.Segments = append(st.Segments,
			Segment{SegmentInfo, st.recipe},
			Segment{SegmentSpeaking, "♪ reading aloud"})
	case domain.PhaseFailed:
		st.Segments = append(st.Segments, Segment{SegmentFailed, "recipe: " + snap.Detail.Message})
	}
	return st
}
