package summarizer

import (
	"context"
	"errors"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const OpenRouterBaseURL = "https://openrouter.ai/api/v1/"

type openRouterGenerator struct {
	baseURL string
}

// NewOpenRouterGenerator talks to any OpenAI-compatible chat completions
// endpoint; OpenRouter by default.
func NewOpenRouterGenerator(baseURL string) Generator {
	if baseURL == "" {
		baseURL = OpenRouterBaseURL
	}
	return &openRouterGenerator{baseURL: baseURL}
}

func (g *openRouterGenerator) GenerateContent(ctx context.Context, req *Request) (string, error) {
	client := openai.NewClient(
		option.WithAPIKey(req.APIKey),
		option.WithBaseURL(g.baseURL),
		option.WithHeader("HTTP-Referer", "https://github.com/BerylCAtieno/document-summary-assistant"),
		option.WithMaxRetries(0),
	)

	var filePart openai.ChatCompletionContentPartUnionParam
	if strings.HasPrefix(req.Payload.MIMEType, "image/") {
		filePart = openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
			URL: req.Payload.DataURL(),
		})
	} else {
		filePart = openai.FileContentPart(openai.ChatCompletionContentPartFileFileParam{
			FileData: openai.String(req.Payload.DataURL()),
			Filename: openai.String(req.Filename),
		})
	}

	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(req.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage([]openai.ChatCompletionContentPartUnionParam{
				filePart,
				openai.TextContentPart(req.Prompt),
			}),
		},
	})
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("no choices in response")
	}

	return resp.Choices[0].Message.Content, nil
}
