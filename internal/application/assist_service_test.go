package application

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ugogo-app/ugogo-api/pkg/genai"
)

func genaiServer(t *testing.T, reply string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"role": "model", "parts": []map[string]any{{"text": reply}}}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
}

func TestIcebreaker_UsesGeneratedText(t *testing.T) {
	srv := genaiServer(t, "Yo Sarah, pulling up to Neon Rooftop Party? It's gonna slap fr")
	defer srv.Close()

	svc := NewAssistService(genai.NewClient("test-key", "test-model", time.Second).WithBaseURL(srv.URL), testLogger())
	got := svc.Icebreaker(context.Background(), "Sarah", "Neon Rooftop Party")
	assert.Equal(t, "Yo Sarah, pulling up to Neon Rooftop Party? It's gonna slap fr", got)
}

func TestIcebreaker_FallbackOnFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	svc := NewAssistService(genai.NewClient("test-key", "test-model", time.Second).WithBaseURL(srv.URL), testLogger())
	got := svc.Icebreaker(context.Background(), "Sarah", "Neon Rooftop Party")
	assert.Equal(t, "Hey Sarah, are you going to Neon Rooftop Party?", got)
}

func TestIcebreaker_FallbackOnEmptyReply(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	svc := NewAssistService(genai.NewClient("test-key", "test-model", time.Second).WithBaseURL(srv.URL), testLogger())
	got := svc.Icebreaker(context.Background(), "Sarah", "Neon Rooftop Party")
	assert.Equal(t, "Hey Sarah, see you at Neon Rooftop Party?", got)
}

func TestEventDescription_FallbackOnFailure(t *testing.T) {
	svc := NewAssistService(genai.NewClient("", "test-model", time.Second), testLogger())
	got := svc.EventDescription(context.Background(), "Warehouse Rave", "Pier 9", "wild")
	assert.Equal(t, "Come through to Warehouse Rave at Pier 9! It's gonna be lit.", got)
}

func TestEventDescription_FallbackOnEmptyReply(t *testing.T) {
	srv := genaiServer(t, "")
	defer srv.Close()

	svc := NewAssistService(genai.NewClient("test-key", "test-model", time.Second).WithBaseURL(srv.URL), testLogger())
	got := svc.EventDescription(context.Background(), "Warehouse Rave", "Pier 9", "wild")
	assert.Equal(t, "Join us for Warehouse Rave at Pier 9! It's going to be a wild time.", got)
}

func TestSupportReply_FallbackOnFailure(t *testing.T) {
	svc := NewAssistService(genai.NewClient("", "test-model", time.Second), testLogger())
	chat := svc.NewSupportChat("Alex")
	got := svc.SupportReply(context.Background(), chat, "my tickets are gone")
	assert.Equal(t, supportFallback, got)
}

func TestSupportGreeting(t *testing.T) {
	assert.Contains(t, SupportGreeting("Alex"), "Hey Alex!")
	assert.Contains(t, SupportGreeting(""), "Hey there!")
}
