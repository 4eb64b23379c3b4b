// Package template implements a deterministic template-fill generation
// backend.
//
// Each generation type carries a full prompt template (what a model-backed
// backend would send upstream) and produces a deterministic filled output.
// Token accounting is a fixed heuristic of twice the output word count.
package template

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	texttemplate "text/template"

	"github.com/creatorcore/contextcore/pkg/generate"
)

const storyPrompt = `You are a creative storyteller. Write a compelling story for the topic and goal below.

Topic: {{.Topic}}
Goal: {{.Goal}}

Structure the story as:
- Title
- Introduction
- Body
- Conclusion

Keep it engaging, coherent, and aligned with the goal.`

const adPrompt = `You are an advertising copywriter. Write an effective ad script for the topic and goal below.

Topic: {{.Topic}}
Goal: {{.Goal}}

Structure the script as:
- Hook
- Body
- Call to action

Keep it persuasive, concise, and targeted.`

const podcastPrompt = `You are a podcast scriptwriter. Write a podcast episode script for the topic and goal below.

Topic: {{.Topic}}
Goal: {{.Goal}}

Structure the script as:
- Introduction
- Main content
- Conclusion

Keep it conversational, informative, and engaging.`

// outputFormats are the deterministic filled outputs per type.
var outputFormats = map[string]string{
	generate.TypeStory:   "Generated story for topic '%s' with goal '%s'.",
	generate.TypeAd:      "Generated ad script for topic '%s' with goal '%s'.",
	generate.TypePodcast: "Generated podcast script for topic '%s' with goal '%s'.",
}

var prompts = map[string]*texttemplate.Template{
	generate.TypeStory:   texttemplate.Must(texttemplate.New(generate.TypeStory).Parse(storyPrompt)),
	generate.TypeAd:      texttemplate.Must(texttemplate.New(generate.TypeAd).Parse(adPrompt)),
	generate.TypePodcast: texttemplate.Must(texttemplate.New(generate.TypePodcast).Parse(podcastPrompt)),
}

// Generator implements generate.Generator with deterministic template fills.
type Generator struct{}

// NewGenerator creates a template-fill generator.
func NewGenerator() *Generator {
	return &Generator{}
}

// Prompt renders the full prompt for a generation type. Model-backed
// backends reuse these templates as their upstream prompt text.
func Prompt(typ, topic, goal string) (string, error) {
	tmpl, ok := prompts[typ]
	if !ok {
		return "", fmt.Errorf("%w: %s", generate.ErrUnknownType, typ)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, struct{ Topic, Goal string }{Topic: topic, Goal: goal}); err != nil {
		return "", fmt.Errorf("rendering %s prompt: %w", typ, err)
	}

	return buf.String(), nil
}

// GenerateText produces the deterministic filled output for the type.
func (g *Generator) GenerateText(ctx context.Context, typ, topic, goal string) (*generate.Generation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	format, ok := outputFormats[typ]
	if !ok {
		return nil, fmt.Errorf("%w: %s", generate.ErrUnknownType, typ)
	}

	text := fmt.Sprintf(format, topic, goal)

	return &generate.Generation{
		Text:       text,
		TokensUsed: len(strings.Fields(text)) * 2,
	}, nil
}

// Close is a no-op for the template generator.
func (g *Generator) Close() error {
	return nil
}

var _ generate.Generator = (*Generator)(nil)
