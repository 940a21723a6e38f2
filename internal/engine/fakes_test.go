package engine

import (
	"context"
	"sync"

	"github.com/hammamikhairi/fridgechef/internal/domain"
)

// fakeAPI answers from canned responses. Once gated, each call announces
// its key on started and blocks until the test releases that key.
type fakeAPI struct {
	mu          sync.Mutex
	searchCalls []string
	detailCalls []domain.RecipeID
	limits      []int

	results map[string][]domain.SearchResult
	details map[domain.RecipeID]*domain.RecipeDetail
	err     error

	started chan string
	gates   map[string]chan struct{}
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		results: make(map[string][]domain.SearchResult),
		details: make(map[domain.RecipeID]*domain.RecipeDetail),
	}
}

func (f *fakeAPI) gated() *fakeAPI {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.started = make(chan string, 8)
	f.gates = make(map[string]chan struct{})
	return f
}

func (f *fakeAPI) gateFor(key string) chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.gates == nil {
		return nil
	}
	g, ok := f.gates[key]
	if !ok {
		g = make(chan struct{})
		f.gates[key] = g
	}
	return g
}

// release lets the call for key return.
func (f *fakeAPI) release(key string) {
	close(f.gateFor(key))
}

func (f *fakeAPI) wait(key string) {
	g := f.gateFor(key)
	if g == nil {
		return
	}
	f.started <- key
	<-g
}

func (f *fakeAPI) Search(ctx context.Context, query string, limit int) ([]domain.SearchResult, error) {
	f.mu.Lock()
	f.searchCalls = append(f.searchCalls, query)
	f.limits = append(f.limits, limit)
	res, err := f.results[query], f.err
	f.mu.Unlock()

	f.wait(query)
	return res, err
}

func (f *fakeAPI) Detail(ctx context.Context, id domain.RecipeID) (*domain.RecipeDetail, error) {
	f.mu.Lock()
	f.detailCalls = append(f.detailCalls, id)
	d, err := f.details[id], f.err
	f.mu.Unlock()

	f.wait(id.String())
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, domain.ErrNotFound
	}
	return d, nil
}

func (f *fakeAPI) searchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.searchCalls)
}

// fakeSpeaker records calls and lets the test finish utterances.
type fakeSpeaker struct {
	mu      sync.Mutex
	spoken  []domain.Utterance
	cancels []string
	done    map[string]chan struct{}
	err     error
}

func newFakeSpeaker() *fakeSpeaker {
	return &fakeSpeaker{done: make(map[string]chan struct{})}
}

func (f *fakeSpeaker) Speak(ctx context.Context, u domain.Utterance) (<-chan struct{}, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.spoken = append(f.spoken, u)
	ch := make(chan struct{})
	f.done[u.ID] = ch
	return ch, nil
}

func (f *fakeSpeaker) Cancel(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancels = append(f.cancels, id)
}

// finish simulates the speech engine reaching the end of an utterance.
func (f *fakeSpeaker) finish(id string) {
	f.mu.Lock()
	ch := f.done[id]
	delete(f.done, id)
	f.mu.Unlock()
	if ch != nil {
		close(ch)
	}
}

func (f *fakeSpeaker) calls() (spoken []domain.Utterance, cancels []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Utterance(nil), f.spoken...), append([]string(nil), f.cancels...)
}
