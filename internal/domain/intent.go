package domain

// IntentType classifies what the user wants to do.
type IntentType int

const (
	IntentUnknown IntentType = iota
	IntentSearch
	IntentSelect
	IntentToggleNarration
	IntentStopNarration
	IntentCloseDetail
	IntentShowResults
	IntentShowDetail
	IntentHelp
	IntentQuit
)

// String returns a human-readable intent type.
func (i IntentType) String() string {
	switch i {
	case IntentSearch:
		return "search"
	case IntentSelect:
		return "select"
	case IntentToggleNarration:
		return "toggle_narration"
	case IntentStopNarration:
		return "stop_narration"
	case IntentCloseDetail:
		return "close_detail"
	case IntentShowResults:
		return "show_results"
	case IntentShowDetail:
		return "show_detail"
	case IntentHelp:
		return "help"
	case IntentQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// Intent represents a parsed user action.
type Intent struct {
	Type    IntentType
	Payload string // search text for IntentSearch, result number or #id for IntentSelect
}
