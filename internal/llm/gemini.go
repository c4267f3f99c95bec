package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"google.golang.org/adk/agent"
	"google.golang.org/adk/agent/llmagent"
	"google.golang.org/adk/model/gemini"
	"google.golang.org/adk/runner"
	"google.golang.org/adk/session"
	"google.golang.org/genai"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-1.5-flash-latest"

const agentName = "matcher"

// Config carries the Gemini connection settings.
type Config struct {
	APIKey string
	Model  string
}

type geminiGenerator struct {
	appName  string
	runner   *runner.Runner
	sessions session.Service
}

// NewGemini builds a Generator backed by a Gemini agent. It fails with
// ErrNotConfigured when no API key is set.
func NewGemini(ctx context.Context, cfg Config) (Generator, error) {
	if cfg.APIKey == "" {
		return nil, ErrNotConfigured
	}
	modelName := cfg.Model
	if modelName == "" {
		modelName = DefaultModel
	}

	model, err := gemini.NewModel(ctx, modelName, &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		HTTPClient: &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
	})
	if err != nil {
		return nil, fmt.Errorf("create model: %w", err)
	}

	matcher, err := llmagent.New(llmagent.Config{
		Name:        agentName,
		Model:       model,
		Description: "Matches resumes against job descriptions",
		Instruction: "You are a careful recruiting assistant. Answer directly using only the material in the request.",
	})
	if err != nil {
		return nil, fmt.Errorf("create agent: %w", err)
	}

	svc := session.InMemoryService()
	r, err := runner.New(runner.Config{
		AppName:        matcher.Name(),
		Agent:          matcher,
		SessionService: svc,
	})
	if err != nil {
		return nil, fmt.Errorf("create runner: %w", err)
	}

	return &geminiGenerator{appName: matcher.Name(), runner: r, sessions: svc}, nil
}

// Generate runs the prompt through a throwaway agent session. The chat
// history is already rendered into prompt, so no agent-side state is kept
// between calls.
func (g *geminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	created, err := g.sessions.Create(ctx, &session.CreateRequest{
		AppName:   g.appName,
		UserID:    uuid.New().String(),
		SessionID: uuid.New().String(),
	})
	if err != nil {
		return "", fmt.Errorf("create agent session: %w", err)
	}
	defer func() {
		_ = g.sessions.Delete(ctx, &session.DeleteRequest{
			AppName:   created.Session.AppName(),
			UserID:    created.Session.UserID(),
			SessionID: created.Session.ID(),
		})
	}()

	stream := g.runner.Run(ctx, created.Session.UserID(), created.Session.ID(), &genai.Content{
		Role:  "user",
		Parts: []*genai.Part{{Text: prompt}},
	}, agent.RunConfig{})

	var output string
	for event, err := range stream {
		if err != nil {
			return "", err
		}
		if event != nil && event.IsFinalResponse() && len(event.Content.Parts) > 0 {
			output = event.Content.Parts[0].Text
		}
	}
	output = strings.TrimSpace(output)
	if output == "" {
		return "", ErrEmptyResponse
	}
	return output, nil
}
