// Package feedback converts feedback input into score deltas.
//
// Two strategies exist: explicit signed commands ("+2", "-0.5") and naive
// keyword sentiment over free text. Which one interprets a given feedback
// event is a deployment choice, overridable per request.
package feedback

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidCommand is returned when a delta-mode feedback token is
// malformed.
var ErrInvalidCommand = errors.New("invalid feedback command")

// Modes name the scorer strategies.
const (
	ModeDelta   = "delta"
	ModeKeyword = "keyword"
)

// Scorer converts feedback input into a score delta.
// A Scorer never mutates anything; a parse error means no delta is applied.
type Scorer interface {
	Delta(feedback string) (float64, error)
}

// DeltaScorer parses explicit signed numeric commands: a leading '+' or '-'
// followed by a number, e.g. "+2" or "-1.5".
type DeltaScorer struct{}

// Delta parses the command and returns its signed magnitude.
func (DeltaScorer) Delta(feedback string) (float64, error) {
	command := strings.TrimSpace(feedback)
	if command == "" {
		return 0, fmt.Errorf("%w: empty command", ErrInvalidCommand)
	}

	var sign float64
	switch command[0] {
	case '+':
		sign = 1
	case '-':
		sign = -1
	default:
		return 0, fmt.Errorf("%w: %q must start with '+' or '-'", ErrInvalidCommand, command)
	}

	magnitude, err := strconv.ParseFloat(command[1:], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not numeric", ErrInvalidCommand, command)
	}

	return sign * magnitude, nil
}

// Keyword sets for KeywordScorer. Matching is case-insensitive substring
// containment, not word-boundary tokenization: a keyword occurring inside a
// longer word still counts. The false positives are a known property kept
// for compatibility with accumulated scores.
var (
	positiveKeywords = []string{"good", "great", "excellent", "amazing", "love", "like", "perfect", "awesome"}
	negativeKeywords = []string{"bad", "terrible", "awful", "hate", "dislike", "poor", "worst", "horrible"}
)

// keywordStep is the delta contributed by each matched keyword.
const keywordStep = 0.5

// KeywordScorer scores free-text feedback by keyword sentiment: +0.5 per
// matched positive keyword, -0.5 per matched negative keyword. The same text
// can match both sets; matches accumulate.
type KeywordScorer struct{}

// Delta computes the accumulated sentiment delta for the feedback text.
func (KeywordScorer) Delta(feedback string) (float64, error) {
	lower := strings.ToLower(feedback)

	var delta float64
	for _, word := range positiveKeywords {
		if strings.Contains(lower, word) {
			delta += keywordStep
		}
	}
	for _, word := range negativeKeywords {
		if strings.Contains(lower, word) {
			delta -= keywordStep
		}
	}

	return delta, nil
}

// NewScorer returns the scorer for a named mode.
func NewScorer(mode string) (Scorer, error) {
	switch mode {
	case ModeDelta:
		return DeltaScorer{}, nil
	case ModeKeyword:
		return KeywordScorer{}, nil
	default:
		return nil, fmt.Errorf("unsupported feedback mode: %s", mode)
	}
}
