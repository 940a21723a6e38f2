package speech

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/hammamikhairi/fridgechef/internal/domain"
	"github.com/hammamikhairi/fridgechef/internal/logger"
)

// wordsPerSecond is a typical narration pace at rate 1.
const wordsPerSecond = 2.5

// Silent is a speaker that plays nothing. Each utterance "lasts" as long
// as reading it aloud would, so the UI behaves as with real audio. Used
// when speech is disabled or no audio device is available.
type Silent struct {
	log   *logger.Logger
	pace  float64
	mu    sync.Mutex
	stops map[string]context.CancelFunc
}

var _ domain.Speaker = (*Silent)(nil)

// NewSilent creates a silent speaker. pace scales the simulated reading
// time; 1 is real time, 0 finishes immediately.
func NewSilent(log *logger.Logger, pace float64) *Silent {
	return &Silent{log: log, pace: pace, stops: make(map[string]context.CancelFunc)}
}

// Speak pretends to read u aloud.
func (s *Silent) Speak(ctx context.Context, u domain.Utterance) (<-chan struct{}, error) {
	d := s.duration(u)
	s.log.Debug("speech off: would read %d words for %s", len(strings.Fields(u.Text)), d.Round(time.Millisecond))

	uctx, cancel := context.WithTimeout(ctx, d)
	s.mu.Lock()
	for id, stop := range s.stops {
		stop()
		delete(s.stops, id)
	}
	s.stops[u.ID] = cancel
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		<-uctx.Done()
		s.mu.Lock()
		delete(s.stops, u.ID)
		s.mu.Unlock()
		cancel()
		close(done)
	}()
	return done, nil
}

// Cancel ends the utterance early.
func (s *Silent) Cancel(id string) {
	s.mu.Lock()
	stop, ok := s.stops[id]
	delete(s.stops, id)
	s.mu.Unlock()
	if ok {
		stop()
	}
}

func (s *Silent) duration(u domain.Utterance) time.Duration {
	rate := u.Rate
	if rate <= 0 {
		rate = 1
	}
	words := float64(len(strings.Fields(u.Text)))
	return time.Duration(words / (wordsPerSecond * rate) * s.pace * float64(time.Second))
}
