package engine

import (
	"fmt"
	"strings"

	"github.com/hammamikhairi/fridgechef/internal/domain"
)

// Event is an input to the reducer: a user action or an I/O completion.
type Event interface{ isEvent() }

// SearchSubmitted is a user search request.
type SearchSubmitted struct{ Query string }

// SearchResolved carries the outcome of the search request numbered Seq.
type SearchResolved struct {
	Seq     uint64
	Results []domain.SearchResult
	Err     error
}

// DetailSelected is a user request to open one recipe.
type DetailSelected struct{ ID domain.RecipeID }

// DetailResolved carries the outcome of the detail request numbered Seq.
type DetailResolved struct {
	Seq    uint64
	Detail *domain.RecipeDetail
	Err    error
}

// DetailClosed is the user closing the detail view.
type DetailClosed struct{}

// NarrationToggled is the user pressing the read-aloud toggle.
type NarrationToggled struct{ Text string }

// NarrationEnded is the speaker reporting that an utterance stopped.
type NarrationEnded struct{ UtteranceID string }

func (SearchSubmitted) isEvent()  {}
func (SearchResolved) isEvent()   {}
func (DetailSelected) isEvent()   {}
func (DetailResolved) isEvent()   {}
func (DetailClosed) isEvent()     {}
func (NarrationToggled) isEvent() {}
func (NarrationEnded) isEvent()   {}

// Effect is I/O requested by the reducer. The Engine performs it.
type Effect interface{ isEffect() }

// FetchResults asks for up to Limit matches of Query.
type FetchResults struct {
	Seq   uint64
	Query string
	Limit int
}

// FetchDetail asks for the full recipe ID.
type FetchDetail struct {
	Seq uint64
	ID  domain.RecipeID
}

// StartSpeech submits an utterance to the speaker.
type StartSpeech struct{ Utterance domain.Utterance }

// CancelSpeech stops an utterance.
type CancelSpeech struct{ UtteranceID string }

func (FetchResults) isEffect() {}
func (FetchDetail) isEffect()  {}
func (StartSpeech) isEffect()  {}
func (CancelSpeech) isEffect() {}

// Voice holds the fixed narration settings.
type Voice struct {
	Locale string
	Rate   float64
	Volume float64
}

// DefaultVoice matches what a browser speech engine uses out of the box.
var DefaultVoice = Voice{Locale: "en-US", Rate: 1, Volume: 1}

// State is the full browser state. The embedded Snapshot is what views
// see; the rest is bookkeeping.
type State struct {
	domain.Snapshot

	// Version grows on every committed change.
	Version      uint64
	utteranceSeq uint64
}

// Reducer is the pure transition function of the browser.
type Reducer struct {
	Limit int
	Voice Voice
}

// Reduce applies ev to s. It returns s unchanged (same Version) when the
// event is a no-op, e.g. an empty query or a stale response.
func (r Reducer) Reduce(s State, ev Event) (State, []Effect) {
	switch ev := ev.(type) {
	case SearchSubmitted:
		return r.searchSubmitted(s, ev)
	case SearchResolved:
		return r.searchResolved(s, ev)
	case DetailSelected:
		return r.detailSelected(s, ev)
	case DetailResolved:
		return r.detailResolved(s, ev)
	case DetailClosed:
		return r.detailClosed(s)
	case NarrationToggled:
		return r.narrationToggled(s, ev)
	case NarrationEnded:
		return r.narrationEnded(s, ev)
	}
	return s, nil
}

func (r Reducer) limit() int {
	if r.Limit <= 0 || r.Limit > domain.MaxResults {
		return domain.MaxResults
	}
	return r.Limit
}

func (r Reducer) searchSubmitted(s State, ev SearchSubmitted) (State, []Effect) {
	query := strings.TrimSpace(ev.Query)
	if query == "" {
		return s, nil
	}
	s.Query = query
	s.SearchSeq++
	// Loading carries no results, so stale ones vanish right away.
	s.Search = domain.Loading[[]domain.SearchResult]()
	s.Version++
	return s, []Effect{FetchResults{Seq: s.SearchSeq, Query: query, Limit: r.limit()}}
}

func (r Reducer) searchResolved(s State, ev SearchResolved) (State, []Effect) {
	if ev.Seq != s.SearchSeq || !s.Search.IsLoading() {
		return s, nil
	}
	switch {
	case ev.Err != nil:
		s.Search = domain.Failed[[]domain.SearchResult](FailureMessage(ev.Err))
	case len(ev.Results) == 0:
		s.Search = domain.Failed[[]domain.SearchResult](MsgNoResults)
	default:
		n := min(len(ev.Results), r.limit())
		results := make([]domain.SearchResult, n)
		copy(results, ev.Results)
		s.Search = domain.Succeeded(results)
	}
	s.Version++
	return s, nil
}

func (r Reducer) detailSelected(s State, ev DetailSelected) (State, []Effect) {
	var effects []Effect
	s, effects = silence(s, effects)
	s.DetailSeq++
	s.Detail = domain.Loading[*domain.RecipeDetail]()
	s.DetailOpen = false
	s.Version++
	return s, append(effects, FetchDetail{Seq: s.DetailSeq, ID: ev.ID})
}

func (r Reducer) detailResolved(s State, ev DetailResolved) (State, []Effect) {
	if ev.Seq != s.DetailSeq || !s.Detail.IsLoading() {
		return s, nil
	}
	err := ev.Err
	if err == nil && ev.Detail == nil {
		err = fmt.Errorf("empty detail: %w", domain.ErrDecode)
	}
	if err != nil {
		s.Detail = domain.Failed[*domain.RecipeDetail](FailureMessage(err))
		s.DetailOpen = false
	} else {
		s.Detail = domain.Succeeded(ev.Detail)
		s.DetailOpen = true
	}
	s.Version++
	return s, nil
}

func (r Reducer) detailClosed(s State) (State, []Effect) {
	if s.Detail.Status == domain.RequestIdle && !s.Narration.Speaking {
		return s, nil
	}
	var effects []Effect
	s, effects = silence(s, effects)
	// Bumping the sequence drops a detail response still in flight.
	s.DetailSeq++
	s.Detail = domain.Idle[*domain.RecipeDetail]()
	s.DetailOpen = false
	s.Version++
	return s, effects
}

func (r Reducer) narrationToggled(s State, ev NarrationToggled) (State, []Effect) {
	if s.Narration.Speaking {
		var effects []Effect
		s, effects = silence(s, effects)
		s.Version++
		return s, effects
	}
	text := strings.TrimSpace(ev.Text)
	if text == "" || s.Phase() != domain.PhaseOpenSilent {
		return s, nil
	}
	s.utteranceSeq++
	u := domain.Utterance{
		ID:     fmt.Sprintf("utt-%d", s.utteranceSeq),
		Text:   text,
		Locale: r.Voice.Locale,
		Rate:   r.Voice.Rate,
		Volume: r.Voice.Volume,
	}
	s.Narration = domain.NarrationState{Speaking: true, Text: text, UtteranceID: u.ID}
	s.Version++
	return s, []Effect{StartSpeech{Utterance: u}}
}

func (r Reducer) narrationEnded(s State, ev NarrationEnded) (State, []Effect) {
	if !s.Narration.Speaking || s.Narration.UtteranceID != ev.UtteranceID {
		return s, nil
	}
	s.Narration = domain.Silent()
	s.Version++
	return s, nil
}

// silence forces narration off, queueing a cancel when something is playing.
func silence(s State, effects []Effect) (State, []Effect) {
	if !s.Narration.Speaking {
		return s, effects
	}
	effects = append(effects, CancelSpeech{UtteranceID: s.Narration.UtteranceID})
	s.Narration = domain.Silent()
	return s, effects
}
