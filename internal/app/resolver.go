package app

import (
	"fmt"
	"strings"

	"patternchat/internal/model"
)

const (
	AnswerTypeData = "data"
	AnswerTypeText = "text"
)

const fallbackResponse = "I'm not sure how to respond to that. Could you please rephrase or ask something else?"

// triggerKeywords switch resolution from pattern matching to fact search.
var triggerKeywords = []string{"search for", "find", "show", "get", "query"}

// Answer is the resolver's verdict: matching fact rows or a canned text reply.
type Answer struct {
	Type  string
	Text  string
	Facts []model.Fact
}

type PatternStore interface {
	FirstPrefixMatch(text string) (*model.ReplyPattern, error)
	FirstContainedMatch(text string) (*model.ReplyPattern, error)
}

type FactStore interface {
	Search(term string) ([]model.Fact, error)
}

// ResolverService maps incoming text to an Answer. Stateless; safe for
// concurrent use.
type ResolverService struct {
	patterns PatternStore
	facts    FactStore
}

func NewResolverService(patterns PatternStore, facts FactStore) *ResolverService {
	return &ResolverService{
		patterns: patterns,
		facts:    facts,
	}
}

// Resolve lowercases the message and decides in two stages. A trigger keyword
// anywhere in the text routes to the fact search first; a non-empty result
// wins outright. Otherwise patterns are tried as a prefix of the message, then
// as a substring, lowest id first. Nothing matching yields the fixed fallback.
func (s *ResolverService) Resolve(message string) (Answer, error) {
	text := strings.ToLower(message)

	if hasTrigger(text) {
		term := stripTriggers(text)
		facts, err := s.facts.Search(term)
		if err != nil {
			return Answer{}, fmt.Errorf("%w: %v", ErrResolution, err)
		}
		if len(facts) > 0 {
			return Answer{Type: AnswerTypeData, Facts: facts}, nil
		}
	}

	pattern, err := s.patterns.FirstPrefixMatch(text)
	if err != nil {
		return Answer{}, fmt.Errorf("%w: %v", ErrResolution, err)
	}
	if pattern == nil {
		pattern, err = s.patterns.FirstContainedMatch(text)
		if err != nil {
			return Answer{}, fmt.Errorf("%w: %v", ErrResolution, err)
		}
	}
	if pattern == nil {
		return Answer{Type: AnswerTypeText, Text: fallbackResponse}, nil
	}

	// Responses go out verbatim; placeholder tokens are not substituted.
	return Answer{Type: AnswerTypeText, Text: pattern.Response}, nil
}

func hasTrigger(text string) bool {
	for _, kw := range triggerKeywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// stripTriggers removes every occurrence of every trigger keyword and trims
// the ends. Interior whitespace left behind by the removal is preserved, so
// "please show me the name" becomes "please  me the name".
func stripTriggers(text string) string {
	for _, kw := range triggerKeywords {
		text = strings.ReplaceAll(text, kw, "")
	}
	return strings.TrimSpace(text)
}
