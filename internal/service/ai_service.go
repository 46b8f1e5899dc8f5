package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"lingo_backend/internal/config"
	"net/http"
	"regexp"
	"strings"
	"sync"
	"time"
)

// AIService talks to an OpenAI-compatible chat-completions endpoint.
type AIService struct {
	mu     sync.RWMutex
	config config.AIConfig
	client *http.Client
}

func NewAIService(cfg config.AIConfig) *AIService {
	return &AIService{
		config: cfg,
		client: &http.Client{Timeout: 120 * time.Second},
	}
}

// UpdateConfig swaps the endpoint settings, used on config hot reload.
func (s *AIService) UpdateConfig(cfg config.AIConfig) {
	s.mu.Lock()
	s.config = cfg
	s.mu.Unlock()
}

type AIChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatCompletionRequest struct {
	Model    string          `json:"model"`
	Messages []AIChatMessage `json:"messages"`
}

type ChatCompletionResponse struct {
	Choices []struct {
		Message AIChatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Chat sends a single-turn prompt, optionally grounded in a context string.
func (s *AIService) Chat(prompt string, context string) (string, error) {
	s.mu.RLock()
	cfg := s.config
	s.mu.RUnlock()

	messages := []AIChatMessage{}

	if context != "" {
		messages = append(messages, AIChatMessage{
			Role:    "system",
			Content: fmt.Sprintf("You are a language-learning tutor. Answer using the following background:\n\n%s", context),
		})
	} else {
		messages = append(messages, AIChatMessage{
			Role:    "system",
			Content: "You are a friendly language-learning tutor. Answer the learner's question.",
		})
	}

	messages = append(messages, AIChatMessage{
		Role:    "user",
		Content: prompt,
	})

	reqBody := ChatCompletionRequest{
		Model:    cfg.Model,
		Messages: messages,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequest("POST", cfg.BaseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+cfg.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("AI API error (status %d): %s", resp.StatusCode, string(body))
	}

	var result ChatCompletionResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", err
	}

	if len(result.Choices) > 0 {
		return result.Choices[0].Message.Content, nil
	}

	return "", fmt.Errorf("AI returned no choices")
}

// ChatJSON prompts for structured output and unmarshals the reply into out,
// tolerating markdown code fences and prose around the JSON body.
func (s *AIService) ChatJSON(prompt string, out interface{}) error {
	raw, err := s.Chat(prompt, "")
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(ExtractJSON(raw)), out)
}

var fenceRe = regexp.MustCompile("(?is)```(?:json)?\\s*(.+?)```")

// ExtractJSON pulls a JSON payload out of an LLM reply: fenced block first,
// then the widest object or array by brace scanning, then the raw text.
// The delimiter that opens first bounds the payload, so an object holding a
// nested array is not truncated to that array.
func ExtractJSON(raw string) string {
	if m := fenceRe.FindStringSubmatch(raw); m != nil {
		return strings.TrimSpace(m[1])
	}

	objStart := strings.IndexByte(raw, '{')
	arrStart := strings.IndexByte(raw, '[')

	if arrStart != -1 && (objStart == -1 || arrStart < objStart) {
		if end := strings.LastIndexByte(raw, ']'); end > arrStart {
			return raw[arrStart : end+1]
		}
	}
	if objStart != -1 {
		if end := strings.LastIndexByte(raw, '}'); end > objStart {
			return raw[objStart : end+1]
		}
	}

	return strings.TrimSpace(raw)
}
