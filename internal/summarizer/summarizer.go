package summarizer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BerylCAtieno/document-summary-assistant/internal/encoder"
	"github.com/BerylCAtieno/document-summary-assistant/internal/models"
	"github.com/BerylCAtieno/document-summary-assistant/internal/prompt"
	"github.com/BerylCAtieno/document-summary-assistant/internal/utils"
)

const (
	MissingCredentialMessage = "API key not found. Please set the API_KEY environment variable."
	UnknownFailureMessage    = "An unknown error occurred while generating the summary."
	serviceFailureFormat     = "An error occurred while generating the summary: %s. Please check the console for more details."
)

// Request is everything a backend needs for the single remote call.
type Request struct {
	APIKey   string
	Model    string
	Filename string
	Payload  *encoder.Payload
	Prompt   string
}

// Generator performs one call to a hosted generative model and returns its text.
type Generator interface {
	GenerateContent(ctx context.Context, req *Request) (string, error)
}

// CredentialSource is consulted on every call, never cached.
type CredentialSource interface {
	APIKey() (string, bool)
}

// EnvCredentials looks up the listed environment variables in order.
type EnvCredentials []string

func DefaultCredentials() EnvCredentials {
	return EnvCredentials{"API_KEY", "GEMINI_API_KEY"}
}

func (e EnvCredentials) APIKey() (string, bool) {
	for _, name := range e {
		if v := strings.TrimSpace(os.Getenv(name)); v != "" {
			return v, true
		}
	}
	return "", false
}

type StaticCredentials string

func (s StaticCredentials) APIKey() (string, bool) {
	return string(s), s != ""
}

// NewGenerator picks the backend named by provider.
func NewGenerator(provider, baseURL string) (Generator, error) {
	switch provider {
	case "", "gemini":
		return NewGeminiGenerator(baseURL), nil
	case "openrouter":
		return NewOpenRouterGenerator(baseURL), nil
	default:
		return nil, fmt.Errorf("unsupported provider %q", provider)
	}
}

type Client struct {
	generator   Generator
	credentials CredentialSource
	model       string
	logger      *utils.Logger
}

func NewClient(generator Generator, credentials CredentialSource, model string, logger *utils.Logger) *Client {
	return &Client{
		generator:   generator,
		credentials: credentials,
		model:       model,
		logger:      logger,
	}
}

func (c *Client) Model() string {
	return c.model
}

// Generate runs the full flow and reports every failure as a typed error:
// ConfigurationError, EncodingError or ServiceError.
func (c *Client) Generate(ctx context.Context, doc *models.Document, length models.SummaryLength) (string, error) {
	apiKey, ok := c.credentials.APIKey()
	if !ok {
		return "", utils.NewConfigurationError(MissingCredentialMessage)
	}

	payload, err := encoder.Encode(ctx, doc)
	if err != nil {
		return "", err
	}

	req := &Request{
		APIKey:   apiKey,
		Model:    c.model,
		Filename: doc.Name,
		Payload:  payload,
		Prompt:   prompt.Build(length),
	}

	c.logger.Debug("Requesting summary",
		"filename", doc.Name,
		"content_type", doc.MIMEType,
		"length", length,
		"model", c.model)

	text, err := c.generator.GenerateContent(ctx, req)
	if err != nil {
		return "", utils.NewServiceError(err)
	}
	if strings.TrimSpace(text) == "" {
		return "", utils.NewServiceError(errors.New("model returned no text"))
	}

	return text, nil
}

// GenerateSummary keeps the behaviour users see: a missing credential or an
// unreadable file is returned as an error, while a failed remote call comes
// back as displayable text with a nil error.
func (c *Client) GenerateSummary(ctx context.Context, doc *models.Document, length models.SummaryLength) (string, error) {
	text, _, err := c.GenerateSummaryDetail(ctx, doc, length)
	return text, err
}

// GenerateSummaryDetail behaves like GenerateSummary and also returns the
// ServiceError that the text stands in for, if any.
func (c *Client) GenerateSummaryDetail(ctx context.Context, doc *models.Document, length models.SummaryLength) (text string, remoteErr error, err error) {
	text, err = c.Generate(ctx, doc, length)
	if err == nil {
		return text, nil, nil
	}
	if !utils.IsKind(err, utils.KindService) {
		return "", nil, err
	}

	c.logger.Error("Error generating summary", "error", err, "filename", doc.Name, "model", c.model)
	return ServiceFailureText(err), err, nil
}

// ServiceFailureText renders a remote failure the way it is shown in place of a summary.
func ServiceFailureText(err error) string {
	var appErr *utils.AppError
	msg := ""
	if errors.As(err, &appErr) && appErr.Err != nil {
		msg = appErr.Err.Error()
	} else if err != nil {
		msg = err.Error()
	}
	if strings.TrimSpace(msg) == "" {
		return UnknownFailureMessage
	}
	return fmt.Sprintf(serviceFailureFormat, msg)
}
