package speech

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammamikhairi/fridgechef/internal/domain"
	"github.com/hammamikhairi/fridgechef/internal/logger"
)

type fakeSynth struct {
	mu    sync.Mutex
	calls []string
	fail  string
}

func (f *fakeSynth) Voice() string { return "test-voice" }

func (f *fakeSynth) Synthesize(ctx context.Context, text string, p Prosody) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, text)
	if text == f.fail {
		return nil, errors.New("boom")
	}
	return []byte("wav:" + text), nil
}

func (f *fakeSynth) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// fakeSink records what it plays. When hold is set, Play blocks until the
// context is cancelled.
type fakeSink struct {
	mu      sync.Mutex
	played  []string
	hold    bool
	playing chan string
}

func newFakeSink(hold bool) *fakeSink {
	return &fakeSink{hold: hold, playing: make(chan string, 16)}
}

func (f *fakeSink) Play(ctx context.Context, wav []byte) error {
	f.mu.Lock()
	f.played = append(f.played, string(wav))
	f.mu.Unlock()
	f.playing <- string(wav)
	if f.hold {
		<-ctx.Done()
	}
	return nil
}

func (f *fakeSink) Stop() {}

func (f *fakeSink) all() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.played...)
}

func waitClosed(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatal("utterance did not finish")
	}
}

func TestNarratorPlaysChunksInOrder(t *testing.T) {
	tts := &fakeSynth{}
	sink := newFakeSink(false)
	n := NewNarrator(tts, sink, logger.Nop(), WithChunkSize(20))

	done, err := n.Speak(context.Background(), domain.Utterance{
		ID:   "utt-1",
		Text: "Boil the water. Add the pasta. Drain it well.",
	})
	require.NoError(t, err)
	waitClosed(t, done)

	assert.Equal(t, []string{"wav:Boil the water.", "wav:Add the pasta.", "wav:Drain it well."}, sink.all())
}

func TestNarratorSkipsFailedChunk(t *testing.T) {
	tts := &fakeSynth{fail: "Add the pasta."}
	sink := newFakeSink(false)
	n := NewNarrator(tts, sink, logger.Nop(), WithChunkSize(20))

	done, err := n.Speak(context.Background(), domain.Utterance{ID: "utt-1", Text: "Boil the water. Add the pasta."})
	require.NoError(t, err)
	waitClosed(t, done)

	assert.Equal(t, []string{"wav:Boil the water."}, sink.all())
}

func TestNarratorCancel(t *testing.T) {
	sink := newFakeSink(true)
	n := NewNarrator(&fakeSynth{}, sink, logger.Nop())

	done, err := n.Speak(context.Background(), domain.Utterance{ID: "utt-1", Text: "Stir slowly."})
	require.NoError(t, err)
	<-sink.playing

	n.Cancel("utt-2")
	select {
	case <-done:
		t.Fatal("cancel of another id stopped playback")
	case <-time.After(20 * time.Millisecond):
	}

	n.Cancel("utt-1")
	waitClosed(t, done)
}

func TestNarratorNewUtteranceReplacesOld(t *testing.T) {
	sink := newFakeSink(true)
	n := NewNarrator(&fakeSynth{}, sink, logger.Nop())

	first, err := n.Speak(context.Background(), domain.Utterance{ID: "utt-1", Text: "First."})
	require.NoError(t, err)
	<-sink.playing

	second, err := n.Speak(context.Background(), domain.Utterance{ID: "utt-2", Text: "Second."})
	require.NoError(t, err)

	waitClosed(t, first)
	assert.Equal(t, "wav:Second.", <-sink.playing)

	n.Cancel("utt-2")
	waitClosed(t, second)
}

func TestNarratorCachesAudio(t *testing.T) {
	tts := &fakeSynth{}
	n := NewNarrator(tts, newFakeSink(false), logger.Nop())
	u := domain.Utterance{ID: "utt-1", Text: "Season to taste.", Rate: 1, Volume: 1}

	done, _ := n.Speak(context.Background(), u)
	waitClosed(t, done)
	u.ID = "utt-2"
	done, _ = n.Speak(context.Background(), u)
	waitClosed(t, done)

	assert.Equal(t, 1, tts.count())

	u.ID, u.Rate = "utt-3", 1.5
	done, _ = n.Speak(context.Background(), u)
	waitClosed(t, done)

	assert.Equal(t, 2, tts.count())
}

func TestNarratorRejectsEmptyText(t *testing.T) {
	n := NewNarrator(&fakeSynth{}, newFakeSink(false), logger.Nop())

	_, err := n.Speak(context.Background(), domain.Utterance{ID: "utt-1", Text: "  "})

	assert.ErrorIs(t, err, domain.ErrSpeech)
}

func TestSplitChunks(t *testing.T) {
	assert.Equal(t, []string{"Short."}, splitChunks("Short.", 200))
	assert.Equal(t, []string{"One. Two.", "Three."}, splitChunks("One. Two. Three.", 10))
	assert.Equal(t, []string{"no punctuation at all here"}, splitChunks("no punctuation at all here", 5))
}

func TestSilentFinishes(t *testing.T) {
	s := NewSilent(logger.Nop(), 0)

	done, err := s.Speak(context.Background(), domain.Utterance{ID: "utt-1", Text: "Whisk the eggs."})

	require.NoError(t, err)
	waitClosed(t, done)
}

func TestSilentCancel(t *testing.T) {
	s := NewSilent(logger.Nop(), 1000)

	done, err := s.Speak(context.Background(), domain.Utterance{ID: "utt-1", Text: "Whisk the eggs until fluffy."})
	require.NoError(t, err)

	select {
	case <-done:
		t.Fatal("finished early")
	default:
	}
	s.Cancel("utt-1")
	waitClosed(t, done)
}
