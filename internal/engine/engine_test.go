package engine

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammamikhairi/fridgechef/internal/domain"
	"github.com/hammamikhairi/fridgechef/internal/logger"
)

func setupEngine(t *testing.T, api *fakeAPI, speaker *fakeSpeaker, opts ...Option) *Engine {
	t.Helper()
	log := logger.New(logger.LevelOff, nil)
	return New(api, speaker, log, opts...)
}

func pasta() *domain.RecipeDetail {
	return &domain.RecipeDetail{
		ID:    42,
		Title: "Pasta",
		Ingredients: []domain.Ingredient{
			{ID: 1, Original: "200 g spaghetti"},
			{ID: 2, Original: "1 tbsp olive oil"},
		},
		InstructionsHTML: "<ol><li>Boil water.</li><li>Cook pasta.</li></ol>",
	}
}

func openDetail(t *testing.T, eng *Engine, api *fakeAPI) {
	t.Helper()
	api.details[42] = pasta()
	eng.LoadDetail(context.Background(), 42)
	require.Equal(t, domain.PhaseOpenSilent, eng.Snapshot().Phase())
}

func TestSearchIgnoresBlankQueries(t *testing.T) {
	api := newFakeAPI()
	eng := setupEngine(t, api, newFakeSpeaker())

	for _, q := range []string{"", "   ", "\t\n"} {
		eng.Search(context.Background(), q)
	}

	assert.Zero(t, api.searchCount())
	snap := eng.Snapshot()
	assert.Equal(t, domain.RequestIdle, snap.Search.Status)
	assert.Zero(t, snap.SearchSeq)
}

func TestSearchSuccessPreservesOrder(t *testing.T) {
	api := newFakeAPI()
	want := []domain.SearchResult{
		{ID: 3, Title: "Carbonara"},
		{ID: 1, Title: "Arrabbiata"},
		{ID: 2, Title: "Bolognese"},
	}
	api.results["pasta"] = want

	var phases []domain.RequestStatus
	eng := setupEngine(t, api, newFakeSpeaker(), WithObserver(func(s domain.Snapshot) {
		phases = append(phases, s.Search.Status)
	}))

	eng.Search(context.Background(), "  pasta ")

	snap := eng.Snapshot()
	require.True(t, snap.Search.IsSuccess())
	assert.Equal(t, want, snap.Search.Value)
	assert.Equal(t, "pasta", snap.Query)
	assert.Equal(t, []domain.RequestStatus{domain.RequestLoading, domain.RequestSuccess}, phases)
	assert.Equal(t, []int{domain.MaxResults}, api.limits)
}

func TestSearchCapsResults(t *testing.T) {
	api := newFakeAPI()
	for i := 0; i < 14; i++ {
		api.results["soup"] = append(api.results["soup"], domain.SearchResult{ID: domain.RecipeID(i), Title: fmt.Sprintf("Soup %d", i)})
	}
	eng := setupEngine(t, api, newFakeSpeaker())

	eng.Search(context.Background(), "soup")

	res := eng.Snapshot().Search.Value
	require.Len(t, res, domain.MaxResults)
	assert.Equal(t, domain.RecipeID(0), res[0].ID)
	assert.Equal(t, domain.RecipeID(9), res[9].ID)
}

func TestSearchEmptyResultIsFailure(t *testing.T) {
	api := newFakeAPI()
	eng := setupEngine(t, api, newFakeSpeaker())

	eng.Search(context.Background(), "unobtainium")

	snap := eng.Snapshot()
	require.True(t, snap.Search.IsFailed())
	assert.Equal(t, "Ramya, no such food exists in this planet", snap.Search.Message)
	assert.Nil(t, snap.Search.Value)
}

func TestSearchHTTPErrorMessage(t *testing.T) {
	api := newFakeAPI()
	api.err = fmt.Errorf("search: %w", &domain.HTTPError{StatusCode: 500, Reason: "Internal Server Error"})
	eng := setupEngine(t, api, newFakeSpeaker())

	eng.Search(context.Background(), "pasta")

	snap := eng.Snapshot()
	require.True(t, snap.Search.IsFailed())
	assert.Contains(t, snap.Search.Message, "500")
	assert.Equal(t, "Error: 500 Internal Server Error", snap.Search.Message)
}

func TestSearchNetworkErrorMessage(t *testing.T) {
	api := newFakeAPI()
	api.err = fmt.Errorf("search: %w: connection refused", domain.ErrNetwork)
	eng := setupEngine(t, api, newFakeSpeaker())

	eng.Search(context.Background(), "pasta")

	assert.Equal(t, msgNetwork, eng.Snapshot().Search.Message)
}

func TestSearchClearsResultsWhileLoading(t *testing.T) {
	api := newFakeAPI()
	api.results["pasta"] = []domain.SearchResult{{ID: 1, Title: "Carbonara"}}
	eng := setupEngine(t, api, newFakeSpeaker())
	eng.Search(context.Background(), "pasta")
	require.True(t, eng.Snapshot().Search.IsSuccess())

	api.gated()
	done := make(chan struct{})
	go func() {
		eng.Search(context.Background(), "pasta")
		close(done)
	}()
	<-api.started

	snap := eng.Snapshot()
	assert.True(t, snap.Search.IsLoading())
	assert.Empty(t, snap.Search.Value)

	api.release("pasta")
	<-done
	assert.True(t, eng.Snapshot().Search.IsSuccess())
}

func TestStaleSearchResponseIsDropped(t *testing.T) {
	api := newFakeAPI().gated()
	api.results["slow"] = []domain.SearchResult{{ID: 1, Title: "Slow"}}
	api.results["fast"] = []domain.SearchResult{{ID: 2, Title: "Fast"}}
	eng := setupEngine(t, api, newFakeSpeaker())

	var wg sync.WaitGroup
	wg.Add(2)
	go func() { defer wg.Done(); eng.Search(context.Background(), "slow") }()
	require.Equal(t, "slow", <-api.started)
	go func() { defer wg.Done(); eng.Search(context.Background(), "fast") }()
	require.Equal(t, "fast", <-api.started)

	// Let the newer search win, then release the older one.
	api.release("fast")
	require.Eventually(t, func() bool {
		return eng.Snapshot().Search.IsSuccess()
	}, time.Second, 5*time.Millisecond)
	api.release("slow")
	wg.Wait()

	snap := eng.Snapshot()
	require.True(t, snap.Search.IsSuccess())
	assert.Equal(t, "fast", snap.Query)
	assert.Equal(t, "Fast", snap.Search.Value[0].Title)
}

func TestLoadDetailOpensView(t *testing.T) {
	api := newFakeAPI()
	api.details[42] = pasta()

	var phases []domain.DetailPhase
	eng := setupEngine(t, api, newFakeSpeaker(), WithObserver(func(s domain.Snapshot) {
		phases = append(phases, s.Phase())
	}))

	assert.Equal(t, domain.PhaseViewClosed, eng.Snapshot().Phase())
	eng.LoadDetail(context.Background(), 42)

	snap := eng.Snapshot()
	assert.True(t, snap.DetailOpen)
	assert.Equal(t, "Pasta", snap.Detail.Value.Title)
	assert.Equal(t, []domain.DetailPhase{domain.PhaseLoading, domain.PhaseOpenSilent}, phases)
}

func TestLoadDetailFailureStaysVisible(t *testing.T) {
	api := newFakeAPI()
	api.err = &domain.HTTPError{StatusCode: 404, Reason: "Not Found"}
	eng := setupEngine(t, api, newFakeSpeaker())

	eng.LoadDetail(context.Background(), 7)

	snap := eng.Snapshot()
	assert.Equal(t, domain.PhaseFailed, snap.Phase())
	assert.Equal(t, "Error: 404 Not Found", snap.Detail.Message)
	assert.False(t, snap.DetailOpen)

	eng.CloseDetail()
	assert.Equal(t, domain.PhaseViewClosed, eng.Snapshot().Phase())
}

func TestSelectWhileOpenClearsPreviousDetail(t *testing.T) {
	api := newFakeAPI()
	eng := setupEngine(t, api, newFakeSpeaker())
	openDetail(t, eng, api)

	api.details[7] = &domain.RecipeDetail{ID: 7, Title: "Soup"}
	api.gated()
	done := make(chan struct{})
	go func() {
		eng.LoadDetail(context.Background(), 7)
		close(done)
	}()
	<-api.started

	snap := eng.Snapshot()
	assert.Equal(t, domain.PhaseLoading, snap.Phase())
	assert.Nil(t, snap.Detail.Value)
	assert.False(t, snap.DetailOpen)

	api.release("7")
	<-done
	snap = eng.Snapshot()
	assert.Equal(t, domain.PhaseOpenSilent, snap.Phase())
	assert.Equal(t, "Soup", snap.Detail.Value.Title)
}

func TestCloseDuringLoadDropsResponse(t *testing.T) {
	api := newFakeAPI().gated()
	api.details[42] = pasta()
	eng := setupEngine(t, api, newFakeSpeaker())

	done := make(chan struct{})
	go func() {
		eng.LoadDetail(context.Background(), 42)
		close(done)
	}()
	<-api.started
	eng.CloseDetail()
	api.release("42")
	<-done

	snap := eng.Snapshot()
	assert.Equal(t, domain.PhaseViewClosed, snap.Phase())
	assert.Nil(t, snap.Detail.Value)
}

func TestToggleNarration(t *testing.T) {
	api := newFakeAPI()
	speaker := newFakeSpeaker()
	eng := setupEngine(t, api, speaker, WithVoice(Voice{Locale: "en-GB", Rate: 1.25, Volume: 0.5}))
	openDetail(t, eng, api)

	eng.ToggleNarration(context.Background(), "Boil water. Cook pasta.")

	snap := eng.Snapshot()
	assert.Equal(t, domain.PhaseOpenSpeaking, snap.Phase())
	spoken, cancels := speaker.calls()
	require.Len(t, spoken, 1)
	assert.Equal(t, "Boil water. Cook pasta.", spoken[0].Text)
	assert.Equal(t, "en-GB", spoken[0].Locale)
	assert.Equal(t, 1.25, spoken[0].Rate)
	assert.Equal(t, 0.5, spoken[0].Volume)
	assert.Empty(t, cancels)

	eng.ToggleNarration(context.Background(), "Boil water. Cook pasta.")

	assert.Equal(t, domain.PhaseOpenSilent, eng.Snapshot().Phase())
	spoken, cancels = speaker.calls()
	assert.Len(t, spoken, 1)
	assert.Equal(t, []string{spoken[0].ID}, cancels)
}

func TestToggleNarrationRequiresOpenDetail(t *testing.T) {
	speaker := newFakeSpeaker()
	eng := setupEngine(t, newFakeAPI(), speaker)

	eng.ToggleNarration(context.Background(), "hello")

	assert.False(t, eng.Snapshot().Narration.Speaking)
	spoken, _ := speaker.calls()
	assert.Empty(t, spoken)
}

func TestToggleNarrationIgnoresEmptyText(t *testing.T) {
	api := newFakeAPI()
	speaker := newFakeSpeaker()
	eng := setupEngine(t, api, speaker)
	openDetail(t, eng, api)

	eng.ToggleNarration(context.Background(), "  ")

	assert.Equal(t, domain.PhaseOpenSilent, eng.Snapshot().Phase())
	spoken, _ := speaker.calls()
	assert.Empty(t, spoken)
}

func TestCloseWhileSpeakingCancels(t *testing.T) {
	api := newFakeAPI()
	speaker := newFakeSpeaker()
	eng := setupEngine(t, api, speaker)
	openDetail(t, eng, api)
	eng.ToggleNarration(context.Background(), "Boil water.")

	eng.CloseDetail()

	snap := eng.Snapshot()
	assert.Equal(t, domain.PhaseViewClosed, snap.Phase())
	assert.False(t, snap.Narration.Speaking)
	spoken, cancels := speaker.calls()
	require.Len(t, spoken, 1)
	assert.Equal(t, []string{spoken[0].ID}, cancels)
}

func TestSelectWhileSpeakingCancels(t *testing.T) {
	api := newFakeAPI()
	speaker := newFakeSpeaker()
	eng := setupEngine(t, api, speaker)
	openDetail(t, eng, api)
	eng.ToggleNarration(context.Background(), "Boil water.")

	eng.LoadDetail(context.Background(), 42)

	assert.False(t, eng.Snapshot().Narration.Speaking)
	_, cancels := speaker.calls()
	assert.Len(t, cancels, 1)
}

func TestCompletionSilencesAutonomously(t *testing.T) {
	api := newFakeAPI()
	speaker := newFakeSpeaker()
	eng := setupEngine(t, api, speaker)
	openDetail(t, eng, api)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	eng.ToggleNarration(ctx, "Boil water.")
	spoken, _ := speaker.calls()
	require.Len(t, spoken, 1)

	speaker.finish(spoken[0].ID)

	require.Eventually(t, func() bool {
		return eng.Snapshot().Phase() == domain.PhaseOpenSilent
	}, time.Second, 5*time.Millisecond)
	_, cancels := speaker.calls()
	assert.Empty(t, cancels)
}

func TestStaleCompletionKeepsNewNarration(t *testing.T) {
	api := newFakeAPI()
	speaker := newFakeSpeaker()
	eng := setupEngine(t, api, speaker)
	openDetail(t, eng, api)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	eng.ToggleNarration(ctx, "first")
	eng.ToggleNarration(ctx, "first")
	eng.ToggleNarration(ctx, "second")

	spoken, _ := speaker.calls()
	require.Len(t, spoken, 2)
	require.NotEqual(t, spoken[0].ID, spoken[1].ID)

	// The first utterance reports its end late.
	speaker.finish(spoken[0].ID)
	time.Sleep(20 * time.Millisecond)

	snap := eng.Snapshot()
	assert.True(t, snap.Narration.Speaking)
	assert.Equal(t, spoken[1].ID, snap.Narration.UtteranceID)
}

func TestSpeakerFailureReturnsToSilent(t *testing.T) {
	api := newFakeAPI()
	speaker := newFakeSpeaker()
	speaker.err = fmt.Errorf("device busy: %w", domain.ErrSpeech)
	eng := setupEngine(t, api, speaker)
	openDetail(t, eng, api)

	eng.ToggleNarration(context.Background(), "Boil water.")

	assert.Equal(t, domain.PhaseOpenSilent, eng.Snapshot().Phase())
}

func TestSubscribeReceivesLatest(t *testing.T) {
	api := newFakeAPI()
	api.results["pasta"] = []domain.SearchResult{{ID: 1, Title: "Carbonara"}}
	eng := setupEngine(t, api, newFakeSpeaker())

	ch, unsubscribe := eng.Subscribe()
	defer unsubscribe()

	eng.Search(context.Background(), "pasta")

	select {
	case snap := <-ch:
		assert.True(t, snap.Search.IsSuccess())
	case <-time.After(time.Second):
		t.Fatal("no snapshot delivered")
	}
}
