// Package engine implements the recipe browser: the search controller and
// the detail & narration controller.
//
// All transitions go through a pure [Reducer]. The [Engine] owns the
// current [State], feeds it events, and performs the effects the reducer
// asks for (HTTP lookups through [domain.RecipeAPI], speech through
// [domain.Speaker]).
package engine

import (
	"context"
	"sync"

	"github.com/hammamikhairi/fridgechef/internal/domain"
	"github.com/hammamikhairi/fridgechef/internal/logger"
)

// Option configures the engine.
type Option func(*Engine)

// WithResultLimit sets how many results a search asks for. Values outside
// 1..domain.MaxResults fall back to domain.MaxResults.
func WithResultLimit(n int) Option {
	return func(e *Engine) {
		e.reducer.Limit = n
	}
}

// WithVoice sets the fixed narration locale, rate and volume.
func WithVoice(v Voice) Option {
	return func(e *Engine) {
		e.reducer.Voice = v
	}
}

// WithObserver registers fn to be called with every committed snapshot, in
// commit order. fn runs while the engine lock is held and must not call
// back into the engine.
func WithObserver(fn func(domain.Snapshot)) Option {
	return func(e *Engine) {
		e.observers = append(e.observers, fn)
	}
}

// Engine drives the browser state machine. It depends only on interfaces
// and is fully testable with fakes. Safe for concurrent use.
type Engine struct {
	api     domain.RecipeAPI
	speaker domain.Speaker
	log     *logger.Logger
	reducer Reducer

	mu        sync.Mutex
	state     State
	observers []func(domain.Snapshot)
	subs      map[int]chan domain.Snapshot
	nextSub   int
}

// New creates an engine with the given dependencies and options.
func New(api domain.RecipeAPI, speaker domain.Speaker, log *logger.Logger, opts ...Option) *Engine {
	e := &Engine{
		api:     api,
		speaker: speaker,
		log:     log,
		reducer: Reducer{Limit: domain.MaxResults, Voice: DefaultVoice},
		subs:    make(map[int]chan domain.Snapshot),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Search looks up recipes matching query. Blank queries are ignored.
// Blocks until the lookup finishes; the outcome lands in the state.
func (e *Engine) Search(ctx context.Context, query string) {
	e.dispatch(ctx, SearchSubmitted{Query: query})
}

// LoadDetail fetches one recipe and opens the detail view on success.
// Blocks until the lookup finishes.
func (e *Engine) LoadDetail(ctx context.Context, id domain.RecipeID) {
	e.dispatch(ctx, DetailSelected{ID: id})
}

// CloseDetail closes the detail view and stops any narration.
func (e *Engine) CloseDetail() {
	e.dispatch(context.Background(), DetailClosed{})
}

// ToggleNarration starts reading text aloud, or stops the current
// narration. ctx bounds the speech request and must outlive playback for
// the completion to be observed.
func (e *Engine) ToggleNarration(ctx context.Context, text string) {
	e.dispatch(ctx, NarrationToggled{Text: text})
}

// Snapshot returns the current state.
func (e *Engine) Snapshot() domain.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Snapshot
}

// Subscribe returns a channel that always holds the latest snapshot after
// a change. Intermediate snapshots may be skipped when the reader is slow.
// Call the returned func to unsubscribe.
func (e *Engine) Subscribe() (<-chan domain.Snapshot, func()) {
	ch := make(chan domain.Snapshot, 1)

	e.mu.Lock()
	id := e.nextSub
	e.nextSub++
	e.subs[id] = ch
	e.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			e.mu.Lock()
			delete(e.subs, id)
			e.mu.Unlock()
			close(ch)
		})
	}
}

// dispatch commits one event and then performs the resulting effects
// outside the lock.
func (e *Engine) dispatch(ctx context.Context, ev Event) {
	e.mu.Lock()
	prev := e.state.Version
	next, effects := e.reducer.Reduce(e.state, ev)
	e.state = next
	if next.Version != prev {
		e.publishLocked(next.Snapshot)
	}
	e.mu.Unlock()

	for _, eff := range effects {
		e.perform(ctx, eff)
	}
}

func (e *Engine) publishLocked(s domain.Snapshot) {
	for _, fn := range e.observers {
		fn(s)
	}
	for _, ch := range e.subs {
		offer(ch, s)
	}
}

// offer replaces whatever is buffered in ch with s.
func offer(ch chan domain.Snapshot, s domain.Snapshot) {
	for {
		select {
		case ch <- s:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

func (e *Engine) perform(ctx context.Context, eff Effect) {
	switch eff := eff.(type) {
	case FetchResults:
		e.log.Debug("search #%d: %q (limit=%d)", eff.Seq, eff.Query, eff.Limit)
		results, err := e.api.Search(ctx, eff.Query, eff.Limit)
		if err != nil {
			e.log.Error("search #%d failed: %v", eff.Seq, err)
		} else {
			e.log.Info("search #%d: %d result(s) for %q", eff.Seq, len(results), eff.Query)
		}
		e.dispatch(ctx, SearchResolved{Seq: eff.Seq, Results: results, Err: err})

	case FetchDetail:
		e.log.Debug("detail #%d: recipe %s", eff.Seq, eff.ID)
		detail, err := e.api.Detail(ctx, eff.ID)
		if err != nil {
			e.log.Error("detail #%d (recipe %s) failed: %v", eff.Seq, eff.ID, err)
		}
		e.dispatch(ctx, DetailResolved{Seq: eff.Seq, Detail: detail, Err: err})

	case StartSpeech:
		e.startSpeech(ctx, eff.Utterance)

	case CancelSpeech:
		e.log.Debug("narration %s: cancel", eff.UtteranceID)
		e.speaker.Cancel(eff.UtteranceID)
	}
}

func (e *Engine) startSpeech(ctx context.Context, u domain.Utterance) {
	e.log.Debug("narration %s: speak %d chars (%s, rate=%.2f, volume=%.2f)", u.ID, len(u.Text), u.Locale, u.Rate, u.Volume)
	done, err := e.speaker.Speak(ctx, u)
	if err != nil {
		e.log.Error("narration %s failed: %v", u.ID, err)
		e.dispatch(ctx, NarrationEnded{UtteranceID: u.ID})
		return
	}

	// A toggle-off or close may have been committed while Speak was
	// running; its cancel then reached the speaker too early.
	e.mu.Lock()
	current := e.state.Narration.Speaking && e.state.Narration.UtteranceID == u.ID
	e.mu.Unlock()
	if !current {
		e.speaker.Cancel(u.ID)
	}

	go func() {
		select {
		case <-done:
			e.log.Debug("narration %s: finished", u.ID)
			e.dispatch(ctx, NarrationEnded{UtteranceID: u.ID})
		case <-ctx.Done():
		}
	}()
}
