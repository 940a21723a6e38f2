package domain

// RequestStatus is the tag of a RequestState.
type RequestStatus int

const (
	RequestIdle RequestStatus = iota
	RequestLoading
	RequestSuccess
	RequestFailed
)

// String returns a human-readable request status.
func (s RequestStatus) String() string {
	switch s {
	case RequestIdle:
		return "idle"
	case RequestLoading:
		return "loading"
	case RequestSuccess:
		return "success"
	case RequestFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// RequestState tracks one kind of request. Value is only meaningful in
// RequestSuccess and Message only in RequestFailed.
type RequestState[T any] struct {
	Status  RequestStatus
	Value   T
	Message string
}

// Idle returns the initial state.
func Idle[T any]() RequestState[T] { return RequestState[T]{} }

// Loading returns an in-flight state with no payload.
func Loading[T any]() RequestState[T] {
	return RequestState[T]{Status: RequestLoading}
}

// Succeeded returns a success state carrying v.
func Succeeded[T any](v T) RequestState[T] {
	return RequestState[T]{Status: RequestSuccess, Value: v}
}

// Failed returns a failure state carrying a user-facing message.
func Failed[T any](message string) RequestState[T] {
	return RequestState[T]{Status: RequestFailed, Message: message}
}

func (r RequestState[T]) IsLoading() bool { return r.Status == RequestLoading }
func (r RequestState[T]) IsSuccess() bool { return r.Status == RequestSuccess }
func (r RequestState[T]) IsFailed() bool  { return r.Status == RequestFailed }

// NarrationState is either silent or speaking one utterance.
type NarrationState struct {
	Speaking    bool
	Text        string
	UtteranceID string
}

// Silent is the zero narration state.
func Silent() NarrationState { return NarrationState{} }

// DetailPhase is the combined detail-view + narration state.
type DetailPhase int

const (
	PhaseViewClosed DetailPhase = iota
	PhaseLoading
	PhaseOpenSilent
	PhaseOpenSpeaking
	PhaseFailed
)

// String returns a human-readable phase.
func (p DetailPhase) String() string {
	switch p {
	case PhaseViewClosed:
		return "closed"
	case PhaseLoading:
		return "loading"
	case PhaseOpenSilent:
		return "open"
	case PhaseOpenSpeaking:
		return "speaking"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Snapshot is an immutable copy of the browser state handed to views.
// SearchSeq and DetailSeq grow every time a new request of that kind is
// started (or the detail view is closed), so views can tell a fresh result
// from one they already rendered.
type Snapshot struct {
	Query     string
	Search    RequestState[[]SearchResult]
	SearchSeq uint64

	Detail     RequestState[*RecipeDetail]
	DetailOpen bool
	DetailSeq  uint64

	Narration NarrationState
}

// Phase derives where the detail view state machine currently is.
func (s Snapshot) Phase() DetailPhase {
	switch s.Detail.Status {
	case RequestLoading:
		return PhaseLoading
	case RequestFailed:
		return PhaseFailed
	case RequestSuccess:
		if !s.DetailOpen {
			return PhaseViewClosed
		}
		if s.Narration.Speaking {
			return PhaseOpenSpeaking
		}
		return PhaseOpenSilent
	default:
		return PhaseViewClosed
	}
}
