package summarizer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

type geminiGenerator struct {
	baseURL string
}

// NewGeminiGenerator calls the Gemini API. An empty baseURL uses the SDK default.
func NewGeminiGenerator(baseURL string) Generator {
	return &geminiGenerator{baseURL: baseURL}
}

func (g *geminiGenerator) GenerateContent(ctx context.Context, req *Request) (string, error) {
	cfg := &genai.ClientConfig{
		APIKey:  req.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if g.baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: g.baseURL}
	}

	// The key is read per call, so the client is too.
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return "", fmt.Errorf("creating Gemini client: %w", err)
	}

	data, err := req.Payload.Decode()
	if err != nil {
		return "", fmt.Errorf("decoding payload: %w", err)
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(data, req.Payload.MIMEType),
			genai.NewPartFromText(req.Prompt),
		}, genai.RoleUser),
	}

	resp, err := client.Models.GenerateContent(ctx, req.Model, contents, nil)
	if err != nil {
		return "", err
	}

	if len(resp.Candidates) == 0 {
		return "", errors.New("no response candidates returned")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", errors.New("no content in response")
	}

	var text strings.Builder
	for _, part := range candidate.Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		text.WriteString(part.Text)
	}

	return text.String(), nil
}
