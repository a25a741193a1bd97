package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/randomtoy/tarot-spreads/internal/domain"
	"github.com/randomtoy/tarot-spreads/internal/ports"
)

const (
	appTitle          = "tarot-spreads"
	defaultStyle      = "neutral"
	defaultDisclaimer = "For reflection/entertainment; not medical/legal/financial advice."
	maxErrorBody      = 512
)

// Client reads spreads through OpenRouter's chat completions endpoint. The
// primary model is tried first, then each fallback in order while the
// upstream failure is transient.
type Client struct {
	httpClient     *http.Client
	apiKey         string
	baseURL        string
	model          string
	fallbackModels []string
	logger         *slog.Logger
}

func NewClient(httpClient *http.Client, apiKey, baseURL, model string, fallbackModels []string, logger *slog.Logger) *Client {
	return &Client{
		httpClient:     httpClient,
		apiKey:         apiKey,
		baseURL:        strings.TrimRight(baseURL, "/"),
		model:          model,
		fallbackModels: fallbackModels,
		logger:         logger,
	}
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type completionRequest struct {
	Model          string          `json:"model"`
	Messages       []message       `json:"messages"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type completionResponse struct {
	Choices []struct {
		Message message `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// upstreamError is a non-200 answer from the API.
type upstreamError struct {
	Status  int
	Message string
}

func (e *upstreamError) Error() string {
	return fmt.Sprintf("upstream status %d: %s", e.Status, e.Message)
}

// transient reports whether another model may succeed where this one failed.
func (e *upstreamError) transient() bool {
	return e.Status == http.StatusTooManyRequests || e.Status == http.StatusRequestTimeout || e.Status >= 500
}

func (c *Client) Interpret(ctx context.Context, in ports.InterpretInput) (ports.InterpretOutput, error) {
	models := append([]string{c.model}, c.fallbackModels...)

	var lastErr error
	for i, model := range models {
		out, err := c.read(ctx, model, in)
		if err == nil {
			return out, nil
		}
		lastErr = err

		var ue *upstreamError
		if errors.As(err, &ue) && !ue.transient() {
			break
		}
		if ctx.Err() != nil {
			break
		}
		if i < len(models)-1 {
			c.logger.WarnContext(ctx, "model failed, trying next", "model", model, "next", models[i+1], "error", err)
		}
	}
	return ports.InterpretOutput{}, lastErr
}

// read runs one reading against model. An unparsable answer gets one
// correction turn in the same conversation.
func (c *Client) read(ctx context.Context, model string, in ports.InterpretInput) (ports.InterpretOutput, error) {
	conversation := []message{
		{Role: "system", Content: systemPrompt(in.Lang)},
		{Role: "user", Content: spreadPrompt(in)},
	}

	reply, err := c.complete(ctx, model, conversation)
	if err != nil {
		return ports.InterpretOutput{}, fmt.Errorf("%w: %w", domain.ErrUpstreamLLM, err)
	}

	out, err := decodeReading(reply)
	if err != nil {
		c.logger.WarnContext(ctx, "reading was not valid JSON, asking again", "model", model, "error", err)
		conversation = append(conversation,
			message{Role: "assistant", Content: reply},
			message{Role: "user", Content: correctionPrompt},
		)
		if reply, err = c.complete(ctx, model, conversation); err != nil {
			return ports.InterpretOutput{}, fmt.Errorf("%w: %w", domain.ErrUpstreamLLM, err)
		}
		if out, err = decodeReading(reply); err != nil {
			return ports.InterpretOutput{}, fmt.Errorf("%w: %w", domain.ErrInvalidLLMJSON, err)
		}
	}

	if out.Style == "" {
		out.Style = defaultStyle
	}
	if out.Disclaimer == "" {
		out.Disclaimer = defaultDisclaimer
	}
	out.Model = model
	return out, nil
}

func (c *Client) complete(ctx context.Context, model string, conversation []message) (string, error) {
	body, err := json.Marshal(completionRequest{
		Model:          model,
		Messages:       conversation,
		ResponseFormat: &responseFormat{Type: "json_object"},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("X-Title", appTitle)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("http call: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var cr completionResponse
	decodeErr := json.Unmarshal(raw, &cr)

	if resp.StatusCode != http.StatusOK {
		msg := string(raw)
		if decodeErr == nil && cr.Error != nil {
			msg = cr.Error.Message
		}
		msg = truncateUTF8(msg, maxErrorBody)
		return "", &upstreamError{Status: resp.StatusCode, Message: msg}
	}
	if decodeErr != nil {
		return "", fmt.Errorf("decode response: %w", decodeErr)
	}
	if len(cr.Choices) == 0 {
		return "", errors.New("no choices in response")
	}
	return strings.TrimSpace(cr.Choices[0].Message.Content), nil
}

// truncateUTF8 cuts s to at most n bytes without splitting a rune.
func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// decodeReading parses the model's answer, tolerating a markdown code fence
// around the object.
func decodeReading(reply string) (ports.InterpretOutput, error) {
	s := strings.TrimSpace(reply)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}

	var out ports.InterpretOutput
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return ports.InterpretOutput{}, err
	}
	if strings.TrimSpace(out.Text) == "" {
		return ports.InterpretOutput{}, errors.New("empty text field")
	}
	return out, nil
}
