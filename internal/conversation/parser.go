// Package conversation turns what the user types at the prompt into
// intents.
package conversation

import (
	"context"
	"regexp"
	"strings"

	"github.com/hammamikhairi/fridgechef/internal/domain"
	"github.com/hammamikhairi/fridgechef/internal/logger"
)

// Compile-time interface check.
var _ domain.IntentParser = (*KeywordParser)(nil)

// KeywordParser matches user input to intents using keywords and simple
// patterns. Anything that matches no command is treated as a search.
type KeywordParser struct {
	log      *logger.Logger
	patterns []patternRule
	prefixes []prefixRule
}

type patternRule struct {
	regex  *regexp.Regexp
	intent domain.IntentType
}

// prefixRule matches "<verb> <argument>" and carries the argument.
type prefixRule struct {
	regex  *regexp.Regexp
	intent domain.IntentType
}

// NewKeywordParser creates a keyword-based intent parser.
func NewKeywordParser(log *logger.Logger) *KeywordParser {
	p := &KeywordParser{log: log}
	p.patterns = []patternRule{
		{regexp.MustCompile(`(?i)^(quit|exit|q|bye)$`), domain.IntentQuit},
		{regexp.MustCompile(`(?i)^(help|h|\?)$`), domain.IntentHelp},
		{regexp.MustCompile(`(?i)^(speak|read|read aloud|narrate)$`), domain.IntentToggleNarration},
		{regexp.MustCompile(`(?i)^(stop|silence|shh|mute|quiet)$`), domain.IntentStopNarration},
		{regexp.MustCompile(`(?i)^(close|back|b|esc)$`), domain.IntentCloseDetail},
		{regexp.MustCompile(`(?i)^(results|list|ls|r)$`), domain.IntentShowResults},
		{regexp.MustCompile(`(?i)^(show|detail|details|recipe)$`), domain.IntentShowDetail},
	}
	p.prefixes = []prefixRule{
		{regexp.MustCompile(`(?i)^(?:open|select|pick|view)\s+(.+)$`), domain.IntentSelect},
		{regexp.MustCompile(`(?i)^(?:search|find|s|look up)\s+(.+)$`), domain.IntentSearch},
	}
	return p
}

// Parse converts user input into an intent.
func (p *KeywordParser) Parse(ctx context.Context, input string) (*domain.Intent, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return &domain.Intent{Type: domain.IntentUnknown}, nil
	}

	p.log.Debug("parsing input: %q", trimmed)

	// Result number ("3") or recipe id ("#716429").
	if isSelection(trimmed) {
		return &domain.Intent{Type: domain.IntentSelect, Payload: trimmed}, nil
	}

	for _, rule := range p.patterns {
		if rule.regex.MatchString(trimmed) {
			p.log.Debug("matched intent: %s", rule.intent)
			return &domain.Intent{Type: rule.intent}, nil
		}
	}

	for _, rule := range p.prefixes {
		if m := rule.regex.FindStringSubmatch(trimmed); m != nil {
			arg := strings.TrimSpace(m[1])
			p.log.Debug("matched intent: %s (%q)", rule.intent, arg)
			return &domain.Intent{Type: rule.intent, Payload: arg}, nil
		}
	}

	p.log.Debug("no command matched, searching for %q", trimmed)
	return &domain.Intent{Type: domain.IntentSearch, Payload: trimmed}, nil
}

func isSelection(s string) bool {
	if strings.HasPrefix(s, "#") {
		return len(s) > 1 && isDigits(s[1:])
	}
	return len(s) <= 2 && isDigits(s)
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return len(s) > 0
}
