package chatclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"idea-builder-backend/internal/completion"
	"idea-builder-backend/internal/types"
)

func TestGenerateReply(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantReply string
		wantErr   string
	}{
		{"reply", http.StatusOK, `{"reply":{"role":"assistant","content":"hi there"}}`, "hi there", ""},
		{"error body with 502", http.StatusBadGateway, `{"error":"Failed to generate reply"}`, "", "Failed to generate reply"},
		{"error body with 200", http.StatusOK, `{"error":"Failed to generate reply"}`, "", "Failed to generate reply"},
		{"empty object", http.StatusOK, `{}`, "", "empty response"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/api/chat", r.URL.Path)
				var req types.ChatRequest
				require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
				assert.Equal(t, "user", req.Messages[1].Role)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := New(srv.URL+"/", time.Second)
			res := c.GenerateReply(context.Background(), []completion.Message{
				{Role: "system", Content: "sys"},
				{Role: "user", Content: "{}"},
			})
			if tt.wantReply != "" {
				require.True(t, res.OK())
				assert.Equal(t, tt.wantReply, res.Reply.Content)
				return
			}
			assert.False(t, res.OK())
			assert.Equal(t, tt.wantErr, res.Err)
		})
	}
}

func TestChatUnreachableServer(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	res := New(url, time.Second).GenerateReply(context.Background(), nil)
	assert.False(t, res.OK())
	assert.Contains(t, res.Err, "chat request failed")
}
