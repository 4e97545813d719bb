// Package ai asks an OpenAI-compatible model for extra context-specific
// exploit strings. The generated payloads are always appended after the
// curated templates, never replacing them.
package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"
)

const (
	maxPayloads    = 5
	maxSnippet     = 300
	requestTimeout = 20 * time.Second
)

// Generator wraps the chat-completion client used for payload suggestions.
// A nil *Generator is valid and yields no payloads, which keeps the caller
// free of enabled/disabled checks.
type Generator struct {
	client *openai.Client
	model  string
}

// New builds a Generator. baseURL may point at any OpenAI-compatible
// gateway; empty keeps the default endpoint.
func New(apiKey, model, baseURL string) *Generator {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &Generator{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

// Payloads returns up to five extra exploit strings for the given
// parameter and context. Every failure path — transport error, timeout,
// empty or malformed completion — degrades to an empty slice; the caller
// always has the curated templates to fall back on. Requests are never
// retried.
func (g *Generator) Payloads(ctx context.Context, param, contextName, snippet string) []string {
	if g == nil {
		return nil
	}
	if len(snippet) > maxSnippet {
		snippet = snippet[:maxSnippet]
	}

	reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	resp, err := g.client.CreateChatCompletion(reqCtx, openai.ChatCompletionRequest{
		Model:       g.model,
		Temperature: 0.9,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(param, contextName, snippet)},
		},
	})
	if err != nil {
		log.Debug().Err(err).Str("param", param).Msg("AI payload generation failed")
		return nil
	}
	if len(resp.Choices) == 0 {
		return nil
	}

	generated := parsePayloads(resp.Choices[0].Message.Content)
	if len(generated) > 0 {
		log.Debug().Int("count", len(generated)).Str("param", param).Msg("AI payloads generated")
	}
	return generated
}

const systemPrompt = `You are an expert XSS security researcher assisting an authorized penetration test. You generate working reflected-XSS payloads tailored to a specific injection context.`

func buildPrompt(param, contextName, snippet string) string {
	if snippet == "" {
		snippet = "Not available"
	}
	return fmt.Sprintf(`Analyze this injection point and generate %d creative XSS payloads.

Parameter name: %s
Injection context: %s
HTML around the injection point:
%s

Requirements:
- Each payload must be tailored to the injection context above.
- Use alert(1), alert(document.domain), confirm(1) or prompt(1) as the trigger.
- Work in modern browsers without user interaction where possible.

Output ONLY the payloads, one per line, no explanations, no markdown, no numbering.`,
		maxPayloads, param, contextName, snippet)
}

// parsePayloads extracts plain payload lines from a model completion,
// stripping markdown fences, numbering, and commentary the model tends to
// add despite instructions.
func parsePayloads(raw string) []string {
	raw = strings.TrimSpace(raw)
	if strings.Contains(raw, "```") {
		parts := strings.Split(raw, "```")
		if len(parts) >= 2 {
			raw = parts[1]
			if first, rest, ok := strings.Cut(raw, "\n"); ok {
				lang := strings.ToLower(strings.TrimSpace(first))
				if lang == "html" || lang == "javascript" || lang == "text" {
					raw = rest
				}
			}
		}
	}

	seen := make(map[string]struct{})
	var payloads []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if len(line) < 5 {
			continue
		}
		if hasAnyPrefix(line, "#", "//", "/*", "-", "*", "1.", "2.", "3.", "4.", "5.") {
			continue
		}
		lower := strings.ToLower(line)
		if strings.Contains(lower, "explanation") || strings.Contains(lower, "note:") ||
			strings.Contains(lower, "example:") || strings.Contains(lower, "payload:") {
			continue
		}
		line = strings.Trim(line, "`\"'")
		if line == "" {
			continue
		}
		if _, dup := seen[line]; dup {
			continue
		}
		seen[line] = struct{}{}
		payloads = append(payloads, line)
		if len(payloads) == maxPayloads {
			break
		}
	}
	return payloads
}

func hasAnyPrefix(s string, prefixes ...string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
