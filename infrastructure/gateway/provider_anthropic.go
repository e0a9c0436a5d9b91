package gateway

import (
	"context"
	"errors"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/formul8/orchestra/internal/ports"
)

// AnthropicDefaultModel is used when no model is configured.
const AnthropicDefaultModel = "claude-3-5-sonnet-20241022"

func init() {
	RegisterProviderFactory("anthropic", newAnthropicProvider)
}

// anthropicProvider implements CoreLLM for Anthropic's Messages API,
// which takes the system prompt as a dedicated parameter.
type anthropicProvider struct {
	client     anthropic.Client
	model      string
	classifier *ErrorClassifier
}

func newAnthropicProvider(config Config) (CoreLLM, error) {
	if config.APIKey == "" {
		return nil, ErrEmptyAPIKey
	}

	model := config.Model
	if model == "" {
		model = AnthropicDefaultModel
	}

	opts := []option.RequestOption{option.WithAPIKey(config.APIKey)}
	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(config.BaseURL))
	}

	return &anthropicProvider{
		client:     anthropic.NewClient(opts...),
		model:      model,
		classifier: &ErrorClassifier{Provider: "anthropic"},
	}, nil
}

// DoRequest sends a messages request and concatenates the text blocks of
// the response.
func (p *anthropicProvider) DoRequest(ctx context.Context, req ports.CompletionRequest) (string, int, int, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: int64(req.MaxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.UserPrompt)),
		},
		Temperature: anthropic.Float(req.Temperature),
	}
	if req.SystemPrompt != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.SystemPrompt}}
	}

	message, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return "", 0, 0, p.classify(err)
	}

	var text strings.Builder
	for _, block := range message.Content {
		switch content := block.AsAny().(type) {
		case anthropic.TextBlock:
			text.WriteString(content.Text)
		}
	}
	response := text.String()
	if response == "" {
		return "", 0, 0, ErrEmptyResponse
	}

	return response,
		tokenCount(int(message.Usage.InputTokens), req.SystemPrompt+req.UserPrompt),
		tokenCount(int(message.Usage.OutputTokens), response),
		nil
}

// Model returns the configured model identifier.
func (p *anthropicProvider) Model() string { return p.model }

func (p *anthropicProvider) classify(err error) error {
	var anthropicErr *anthropic.Error
	if errors.As(err, &anthropicErr) {
		return p.classifier.ClassifyHTTPError(anthropicErr.StatusCode, anthropicErr.Error(), err)
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return p.classifier.ClassifyContextError(err)
	}
	return NewProviderError("anthropic", ErrorTypeUnknown, 0, "", err)
}
