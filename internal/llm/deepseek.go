package llm

import (
	"context"
	"encoding/json"
	"os"
	"strings"

	"github.com/gorewood/tracker/internal/assistant"
	"github.com/gorewood/tracker/internal/output"
)

// DeepSeek defaults. The API is OpenAI-compatible.
const (
	DeepSeekBaseURL    = "https://api.deepseek.com"
	DeepSeekModel      = "deepseek-chat"
	DeepSeekBaseURLEnv = "DEEPSEEK_BASE_URL"
)

type deepseekRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
	Stream   bool      `json:"stream"`
}

type deepseekResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// deepseekURL returns the chat completions endpoint for p.
func deepseekURL(p assistant.Profile) string {
	base := p.URL
	if base == "" {
		base = os.Getenv(DeepSeekBaseURLEnv)
	}
	if base == "" {
		base = DeepSeekBaseURL
	}
	return strings.TrimRight(base, "/") + "/chat/completions"
}

func (c *Client) askDeepSeek(ctx context.Context, p assistant.Profile, messages []Message) (string, error) {
	model := p.Model
	if model == "" {
		model = DeepSeekModel
	}

	respBody, err := c.doRequest(ctx, deepseekURL(p), deepseekRequest{Model: model, Messages: messages}, map[string]string{
		"Authorization": "Bearer " + c.deepseekKey,
	})
	if err != nil {
		return "", err
	}

	var result deepseekResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", output.NewSystemErrorWithCause("failed to parse response", err)
	}
	if result.Error != nil {
		return "", output.NewSystemError("API error: " + result.Error.Message)
	}
	if len(result.Choices) == 0 {
		return "", output.NewSystemError("empty response from API")
	}
	return result.Choices[0].Message.Content, nil
}
