// Package llm sends a slice of the time log to a chat-completion backend
// and returns the assistant's answer.
package llm

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
	"time"

	"github.com/gorewood/tracker/internal/assistant"
	"github.com/gorewood/tracker/internal/logging"
	"github.com/gorewood/tracker/internal/output"
	"github.com/gorewood/tracker/internal/timelog"
)

// Provider names a chat backend.
type Provider string

// Supported providers.
const (
	ProviderDeepSeek Provider = "deepseek"
	ProviderOllama   Provider = "ollama"
)

// DefaultProvider serves profiles that do not name one.
const DefaultProvider = ProviderDeepSeek

// KeyEnvVar holds the DeepSeek API key.
const KeyEnvVar = "DEEPSEEK_API_KEY"

// WindowHeader precedes the rendered log window in the second system
// message.
const WindowHeader = "Registro de tarefas:\n"

// maxErrorBody bounds how much of a failed response body is kept.
const maxErrorBody = 500

// Request is one question to an assistant.
type Request struct {
	Profile assistant.Profile
	Window  []timelog.Entry
	Message string
}

// RemoteError is a non-success answer from the backend.
type RemoteError struct {
	StatusCode int
	Body       string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Body)
}

// ErrMissingKey means the profile's provider needs an API key and none
// is configured.
var ErrMissingKey = errors.New("no DeepSeek API key configured")

// HTTPDoer defines the HTTP operations required by Client.
// This allows injection of test doubles for testing.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Config configures a Client.
type Config struct {
	DeepSeekKey string
	HTTPClient  HTTPDoer     // nil uses an http.Client with a 5 minute timeout
	Logger      *slog.Logger // nil discards
}

// Client talks to whichever backend a profile selects.
type Client struct {
	deepseekKey string
	httpClient  HTTPDoer
	logger      *slog.Logger
}

// New creates a Client.
func New(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Minute}
	}
	return &Client{
		deepseekKey: cfg.DeepSeekKey,
		httpClient:  httpClient,
		logger:      logging.OrDiscard(cfg.Logger),
	}
}

// ResolveProvider returns the provider a profile talks to.
func ResolveProvider(p assistant.Profile) (Provider, error) {
	name := Provider(strings.ToLower(strings.TrimSpace(p.Provider)))
	switch name {
	case "":
		return DefaultProvider, nil
	case ProviderDeepSeek, ProviderOllama:
		return name, nil
	default:
		return "", output.NewUserError(fmt.Sprintf("unsupported provider %q in assistant %q (supported: %s)",
			p.Provider, p.Name, strings.Join(SupportedProviders(), ", ")))
	}
}

// NeedsKey reports whether the provider requires an API key.
func NeedsKey(provider Provider) bool {
	return provider == ProviderDeepSeek
}

// SupportedProviders returns the provider names in display order.
func SupportedProviders() []string {
	return []string{string(ProviderDeepSeek), string(ProviderOllama)}
}

// Ready reports whether p can be asked: its provider is known and any
// required key is present. No request is made.
func (c *Client) Ready(p assistant.Profile) error {
	provider, err := ResolveProvider(p)
	if err != nil {
		return err
	}
	if NeedsKey(provider) && c.deepseekKey == "" {
		return output.NewUserErrorWithCause(ErrMissingKey.Error()+" (use --key or "+KeyEnvVar+")", ErrMissingKey)
	}
	return nil
}

// Ask sends the request and returns the full answer text.
func (c *Client) Ask(ctx context.Context, req Request) (string, error) {
	if err := c.Ready(req.Profile); err != nil {
		return "", err
	}
	provider, _ := ResolveProvider(req.Profile)
	messages := Messages(req)

	start := time.Now()
	var (
		answer string
		err    error
	)
	switch provider {
	case ProviderOllama:
		answer, err = c.askOllama(ctx, req.Profile, messages)
	default:
		answer, err = c.askDeepSeek(ctx, req.Profile, messages)
	}
	c.logger.Debug("assistant call",
		"assistant", req.Profile.Name,
		"provider", provider,
		"window", len(req.Window),
		"duration", time.Since(start),
		"error", err,
	)
	return answer, err
}

// Message is one chat turn. Both backends accept this shape.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Messages builds the conversation sent for req: the profile's
// instructions, the rendered log window, then the user's message.
func Messages(req Request) []Message {
	return []Message{
		{Role: "system", Content: req.Profile.Instructions},
		{Role: "system", Content: WindowHeader + RenderWindow(req.Window)},
		{Role: "user", Content: req.Message},
	}
}

// RenderWindow renders entries one per line as "<label> em <timestamp>".
func RenderWindow(entries []timelog.Entry) string {
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = e.Label + " em " + timelog.EncodeTimestamp(e.At)
	}
	return strings.Join(lines, "\n")
}

// doRequest performs an HTTP POST request with JSON body.
func (c *Client) doRequest(ctx context.Context, url string, body any, headers map[string]string) ([]byte, error) {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, output.NewSystemErrorWithCause("failed to marshal request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, output.NewSystemErrorWithCause("failed to create request", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	for key, value := range headers {
		httpReq.Header.Set(key, value)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, output.NewSystemErrorWithCause("request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, output.NewSystemErrorWithCause("failed to read response", err)
	}

	if resp.StatusCode != http.StatusOK {
		errBody := string(respBody)
		if len(errBody) > maxErrorBody {
			errBody = errBody[:maxErrorBody]
		}
		return nil, &RemoteError{StatusCode: resp.StatusCode, Body: errBody}
	}

	return respBody, nil
}
