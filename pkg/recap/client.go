// Package recap generates natural-language summaries of an analyzed chat via
// an Ollama chat-completion API.
package recap

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/chatlens/chatlens/pkg/models"
)

const maxTranscriptChars = 8000

const systemPrompt = "You summarize WhatsApp group chats. Write one concise paragraph " +
	"covering the main topics discussed, notable shared resources, and the most active " +
	"participants. Do not use markdown formatting."

// Client calls the Ollama chat API to produce recaps.
type Client struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewClient creates a new recap client
func NewClient(baseURL, model string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

// Model returns the model name used for recap generation.
func (c *Client) Model() string { return c.model }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

type chatResponse struct {
	Model     string      `json:"model"`
	CreatedAt time.Time   `json:"created_at"`
	Message   chatMessage `json:"message"`
	Done      bool        `json:"done"`
}

// Generate produces a recap of the message sequence. Member profiles, when
// provided, are summarized into the prompt so the model can name the most
// active participants.
func (c *Client) Generate(ctx context.Context, messages []models.Message, profiles []models.MemberProfile) (string, error) {
	req := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: buildPrompt(messages, profiles)},
		},
	}

	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, string(respBody))
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	return strings.TrimSpace(chatResp.Message.Content), nil
}

// Ping checks if the Ollama server is responsive
func (c *Client) Ping(ctx context.Context) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tags", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return nil
}

// buildPrompt renders the transcript and member summary into a single user
// message, capped to keep the request within a small context window.
func buildPrompt(messages []models.Message, profiles []models.MemberProfile) string {
	var sb strings.Builder

	if len(profiles) > 0 {
		sb.WriteString("Most active members: ")
		for i, p := range profiles {
			if i >= 5 {
				break
			}
			if i > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "%s (%d messages)", p.Name, p.TotalMessages)
		}
		sb.WriteString("\n\nTranscript:\n")
	}

	for _, msg := range messages {
		if msg.IsSystem() || msg.Content == "" {
			continue
		}
		line := fmt.Sprintf("%s: %s\n", msg.Author, msg.Content)
		if sb.Len()+len(line) > maxTranscriptChars {
			sb.WriteString("... (truncated)\n")
			break
		}
		sb.WriteString(line)
	}

	return sb.String()
}
