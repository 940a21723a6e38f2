package main

import "github.com/hammamikhairi/fridgechef/internal/domain"

// viewEvent is something the scrollback should show.
type viewEvent int

const (
	showResults viewEvent = iota
	showSearchError
	showDetail
	showDetailError
	showSpeaking
	showSilent
)

// viewTracker remembers what has been printed, so each outcome is shown
// once even though snapshots can be skipped or repeated.
type viewTracker struct {
	searchSeq   uint64
	detailSeq   uint64
	utteranceID string
	wasSpeaking bool
	searchShown bool
	detailShown bool
}

func (v *viewTracker) update(s domain.Snapshot) []viewEvent {
	var out []viewEvent

	if s.SearchSeq != v.searchSeq {
		v.searchSeq, v.searchShown = s.SearchSeq, false
	}
	if !v.searchShown {
		switch {
		case s.Search.IsSuccess():
			out = append(out, showResults)
			v.searchShown = true
		case s.Search.IsFailed():
			out = append(out, showSearchError)
			v.searchShown = true
		}
	}

	if s.DetailSeq != v.detailSeq {
		v.detailSeq, v.detailShown = s.DetailSeq, false
	}
	if !v.detailShown {
		switch s.Phase() {
		case domain.PhaseOpenSilent, domain.PhaseOpenSpeaking:
			out = append(out, showDetail)
			v.detailShown = true
		case domain.PhaseFailed:
			out = append(out, showDetailError)
			v.detailShown = true
		}
	}

	speaking := s.Narration.Speaking
	switch {
	case speaking && s.Narration.UtteranceID != v.utteranceID:
		out = append(out, showSpeaking)
		v.utteranceID = s.Narration.UtteranceID
	case !speaking && v.wasSpeaking:
		out = append(out, showSilent)
	}
	v.wasSpeaking = speaking
	return out
}

// narrationStep is what a narration command does in the current phase.
type narrationStep int

const (
	stepNoRecipe narrationStep = iota
	stepStart
	stepStop
	stepNothingPlaying
)

// planNarration maps "speak" and "stop" onto the detail phase. "speak"
// toggles; "stop" only ever cancels, so it cannot restart narration that
// has just finished on its own.
func planNarration(intent domain.IntentType, phase domain.DetailPhase) narrationStep {
	stopOnly := intent == domain.IntentStopNarration
	switch {
	case phase == domain.PhaseOpenSpeaking:
		return stepStop
	case stopOnly:
		return stepNothingPlaying
	case phase == domain.PhaseOpenSilent:
		return stepStart
	default:
		return stepNoRecipe
	}
}
