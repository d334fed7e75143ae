package llm

import (
	"context"
	"encoding/json"
	"os"
	"strings"

	"github.com/gorewood/tracker/internal/assistant"
	"github.com/gorewood/tracker/internal/output"
)

// Ollama defaults.
const (
	OllamaURL     = "http://localhost:11434"
	OllamaModel   = "llama3.2"
	OllamaHostEnv = "OLLAMA_HOST"
)

type ollamaRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
	Stream   bool      `json:"stream"`
}

type ollamaResponse struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
	Error string `json:"error"`
}

// ollamaURL returns the chat endpoint for p. OLLAMA_HOST may omit the
// scheme, as the ollama CLI allows.
func ollamaURL(p assistant.Profile) string {
	base := p.URL
	if base == "" {
		base = os.Getenv(OllamaHostEnv)
	}
	if base == "" {
		base = OllamaURL
	}
	if !strings.Contains(base, "://") {
		base = "http://" + base
	}
	return strings.TrimRight(base, "/") + "/api/chat"
}

func (c *Client) askOllama(ctx context.Context, p assistant.Profile, messages []Message) (string, error) {
	model := p.Model
	if model == "" {
		model = OllamaModel
	}

	respBody, err := c.doRequest(ctx, ollamaURL(p), ollamaRequest{Model: model, Messages: messages}, nil)
	if err != nil {
		return "", err
	}

	var result ollamaResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", output.NewSystemErrorWithCause("failed to parse response", err)
	}
	if result.Error != "" {
		return "", output.NewSystemError("API error: " + result.Error)
	}
	return result.Message.Content, nil
}
