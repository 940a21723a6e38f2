package speech

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"unicode"

	"github.com/hammamikhairi/fridgechef/internal/domain"
	"github.com/hammamikhairi/fridgechef/internal/logger"
)

// NarratorOption configures the Narrator.
type NarratorOption func(*Narrator)

// WithChunkSize sets the approximate max character count per TTS chunk.
// Text longer than this is split at sentence boundaries and synthesized
// in parallel so playback doesn't stall between sentences.
func WithChunkSize(n int) NarratorOption {
	return func(m *Narrator) {
		m.chunkSize = n
	}
}

// WithCacheDir sets the filesystem directory used for persistent audio
// caching. If empty, the disk layer is disabled (pure in-memory).
func WithCacheDir(dir string) NarratorOption {
	return func(m *Narrator) {
		m.cacheDir = dir
	}
}

// WithDiskWrite controls whether new cache entries are written to disk.
// Even when false, existing on-disk entries are still read.
func WithDiskWrite(enabled bool) NarratorOption {
	return func(m *Narrator) {
		m.diskWrite = enabled
	}
}

// Narrator reads utterances aloud: chunk -> synthesize (parallel) -> play
// (sequential). Only one utterance plays at a time; a new one stops the
// previous one first.
type Narrator struct {
	tts    Synthesizer
	player AudioSink
	log    *logger.Logger
	cache  *AudioCache

	chunkSize int
	cacheDir  string
	diskWrite bool

	mu      sync.Mutex
	current *utterance
}

type utterance struct {
	id     string
	cancel context.CancelFunc
	done   chan struct{}
}

var _ domain.Speaker = (*Narrator)(nil)

// NewNarrator creates a narrator with the given TTS client and player.
func NewNarrator(tts Synthesizer, player AudioSink, log *logger.Logger, opts ...NarratorOption) *Narrator {
	n := &Narrator{
		tts:       tts,
		player:    player,
		log:       log,
		chunkSize: DefaultChunkSize,
		diskWrite: true,
	}
	for _, opt := range opts {
		opt(n)
	}
	// The cache depends on cacheDir and diskWrite.
	n.cache = NewAudioCache(tts.Voice(), n.cacheDir, n.diskWrite, log)
	return n
}

// Speak starts reading u aloud and returns immediately. The returned
// channel closes when the utterance ends or is cancelled.
func (n *Narrator) Speak(ctx context.Context, u domain.Utterance) (<-chan struct{}, error) {
	if strings.TrimSpace(u.Text) == "" {
		return nil, fmt.Errorf("%w: nothing to say", domain.ErrSpeech)
	}

	uctx, cancel := context.WithCancel(ctx)
	cur := &utterance{id: u.ID, cancel: cancel, done: make(chan struct{})}

	n.mu.Lock()
	prev := n.current
	n.current = cur
	n.mu.Unlock()

	if prev != nil {
		n.log.Debug("narrator: %s replaces %s", u.ID, prev.id)
		prev.cancel()
	}

	go n.run(uctx, cur, prev, u)
	return cur.done, nil
}

// Cancel stops the utterance with the given id if it is still playing.
func (n *Narrator) Cancel(id string) {
	n.mu.Lock()
	cur := n.current
	n.mu.Unlock()

	if cur == nil || cur.id != id {
		return
	}
	n.log.Debug("narrator: cancel %s", id)
	cur.cancel()
}

// Close stops playback and logs cache statistics.
func (n *Narrator) Close() {
	n.mu.Lock()
	cur := n.current
	n.mu.Unlock()
	if cur != nil {
		cur.cancel()
		<-cur.done
	}
	n.player.Stop()

	hits, misses := n.cache.Stats()
	n.log.Info("narrator: closed (cache: %d hits, %d misses, %d entries)", hits, misses, n.cache.Len())
}

func (n *Narrator) run(ctx context.Context, cur, prev *utterance, u domain.Utterance) {
	defer func() {
		n.mu.Lock()
		if n.current == cur {
			n.current = nil
		}
		n.mu.Unlock()
		cur.cancel()
		close(cur.done)
	}()

	p := Prosody{Locale: u.Locale, Rate: u.Rate, Volume: u.Volume}
	chunks := splitChunks(u.Text, n.chunkSize)
	n.log.Debug("narrator: %s: %d chunk(s): %s", u.ID, len(chunks), truncate(u.Text, 60))

	audio := n.synthesizeAll(ctx, chunks, p)

	// Synthesis can overlap the previous utterance; playback cannot.
	if prev != nil {
		<-prev.done
	}

	for i, wav := range audio {
		if ctx.Err() != nil {
			n.log.Debug("narrator: %s stopped before chunk %d", u.ID, i)
			return
		}
		if wav == nil {
			n.log.Debug("narrator: skipping chunk %d (synthesis failed)", i)
			continue
		}
		if err := n.player.Play(ctx, wav); err != nil {
			n.log.Error("narrator: chunk %d playback failed: %v", i, err)
		}
	}
	n.log.Debug("narrator: %s finished", u.ID)
}

// synthesizeAll fires all chunk requests in parallel and returns the audio
// in chunk order. Failed chunks are nil.
func (n *Narrator) synthesizeAll(ctx context.Context, chunks []string, p Prosody) [][]byte {
	type result struct {
		idx   int
		audio []byte
		err   error
	}
	results := make(chan result, len(chunks))

	for i, chunk := range chunks {
		go func(idx int, text string) {
			audio, err := n.synthesizeWithCache(ctx, text, p)
			results <- result{idx: idx, audio: audio, err: err}
		}(i, chunk)
	}

	slots := make([][]byte, len(chunks))
	for range chunks {
		r := <-results
		if r.err != nil {
			if ctx.Err() == nil {
				n.log.Error("narrator: chunk %d synthesis failed: %v", r.idx, r.err)
			}
			continue
		}
		slots[r.idx] = r.audio
	}
	return slots
}

func (n *Narrator) synthesizeWithCache(ctx context.Context, text string, p Prosody) ([]byte, error) {
	if audio, ok := n.cache.Get(text, p); ok {
		return audio, nil
	}
	audio, err := n.tts.Synthesize(ctx, text, p)
	if err != nil {
		return nil, err
	}
	n.cache.Put(text, p, audio)
	return audio, nil
}

// splitChunks breaks text into sentence-boundary chunks of approximately
// size characters. A size of 0 or short text yields a single chunk.
func splitChunks(text string, size int) []string {
	if size <= 0 || len(text) <= size {
		return []string{strings.TrimSpace(text)}
	}

	var chunks []string
	var current strings.Builder

	for _, s := range splitSentences(text) {
		if current.Len() > 0 && current.Len()+len(s) > size {
			chunks = append(chunks, strings.TrimSpace(current.String()))
			current.Reset()
		}
		current.WriteString(s)
	}
	if current.Len() > 0 {
		chunks = append(chunks, strings.TrimSpace(current.String()))
	}

	out := chunks[:0]
	for _, c := range chunks {
		if c != "" {
			out = append(out, c)
		}
	}
	return out
}

// splitSentences splits text at sentence boundaries (. ! ?) keeping the
// punctuation attached to the preceding sentence.
func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		current.WriteRune(runes[i])
		if isSentenceEnd(runes[i]) {
			for i+1 < len(runes) && unicode.IsSpace(runes[i+1]) {
				i++
				current.WriteRune(runes[i])
			}
			sentences = append(sentences, current.String())
			current.Reset()
		}
	}
	if current.Len() > 0 {
		sentences = append(sentences, current.String())
	}
	return sentences
}

func isSentenceEnd(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}
