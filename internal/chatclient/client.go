// Package chatclient calls a running builder server's /api/chat endpoint.
package chatclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"idea-builder-backend/internal/completion"
	"idea-builder-backend/internal/types"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Chat posts the transcript and decodes the response body. The body decides
// success: a reply field means success, whatever the status code.
func (c *Client) Chat(ctx context.Context, msgs []completion.Message) (*types.ChatResponse, error) {
	b, err := json.Marshal(types.ChatRequest{Messages: msgs})
	if err != nil {
		return nil, fmt.Errorf("marshal chat request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("chat request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read chat response: %w", err)
	}
	var out types.ChatResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode chat response (status %d): %w", resp.StatusCode, err)
	}
	return &out, nil
}

// GenerateReply adapts Chat to the wizard's Replier contract.
func (c *Client) GenerateReply(ctx context.Context, msgs []completion.Message) completion.Result {
	out, err := c.Chat(ctx, msgs)
	if err != nil {
		return completion.Result{Err: err.Error()}
	}
	if out.Reply != nil {
		return completion.Result{Reply: out.Reply}
	}
	if out.Error != "" {
		return completion.Result{Err: out.Error}
	}
	return completion.Result{Err: "empty response"}
}
