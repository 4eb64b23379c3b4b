package testutils

import (
	"context"
	"fmt"

	"github.com/creatorcore/contextcore/pkg/generate"
)

// MockGenerator is a test generator that returns configurable text.
type MockGenerator struct {
	// Texts maps "type/topic" to the text returned for that request.
	Texts map[string]string

	// Err causes GenerateText to fail when set.
	Err error

	// Calls accumulates each (type, topic, goal) passed to GenerateText.
	Calls [][3]string
}

// NewMockGenerator creates a new mock generator.
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{
		Texts: make(map[string]string),
	}
}

func (m *MockGenerator) GenerateText(_ context.Context, typ, topic, goal string) (*generate.Generation, error) {
	m.Calls = append(m.Calls, [3]string{typ, topic, goal})

	if m.Err != nil {
		return nil, m.Err
	}

	text, ok := m.Texts[typ+"/"+topic]
	if !ok {
		text = fmt.Sprintf("mock %s about %s", typ, topic)
	}

	return &generate.Generation{Text: text, TokensUsed: len(text)}, nil
}

func (m *MockGenerator) Close() error {
	return nil
}
