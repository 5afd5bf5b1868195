package aigateway_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/chapavet/marketplace/model"
	"github.com/chapavet/marketplace/thirdparty/aigateway"
)

func TestClient_StreamForwardsRequest(t *testing.T) {
	var got struct {
		Model    string              `json:"model"`
		Messages []model.ChatMessage `json:"messages"`
		Stream   bool                `json:"stream"`
	}
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = io.WriteString(w, "data: {\"choices\":[{\"delta\":{\"content\":\"Hi\"}}]}\n\ndata: [DONE]\n\n")
	}))
	defer srv.Close()

	c := aigateway.NewClient(srv.URL, "secret", "google/gemini-2.5-flash", time.Second)
	body, err := c.Stream(context.Background(), []model.ChatMessage{{Role: "system", Content: "s"}, {Role: "user", Content: "hello"}})
	if err != nil {
		t.Fatalf("Stream() error = %v", err)
	}
	defer body.Close()

	raw, _ := io.ReadAll(body)
	if string(raw) != "data: {\"choices\":[{\"delta\":{\"content\":\"Hi\"}}]}\n\ndata: [DONE]\n\n" {
		t.Fatalf("body = %q", raw)
	}
	if auth != "Bearer secret" {
		t.Fatalf("authorization = %q", auth)
	}
	if got.Model != "google/gemini-2.5-flash" || !got.Stream || len(got.Messages) != 2 || got.Messages[1].Content != "hello" {
		t.Fatalf("request = %+v", got)
	}
}

func TestClient_StreamStatusError(t *testing.T) {
	for _, status := range []int{http.StatusTooManyRequests, http.StatusPaymentRequired, http.StatusBadGateway} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
			_, _ = io.WriteString(w, "upstream says no")
		}))

		_, err := aigateway.NewClient(srv.URL, "k", "m", time.Second).Stream(context.Background(), nil)
		srv.Close()

		var se *aigateway.StatusError
		if !errors.As(err, &se) {
			t.Fatalf("status %d: error = %v, want StatusError", status, err)
		}
		if se.StatusCode != status || se.Body != "upstream says no" {
			t.Fatalf("StatusError = %+v", se)
		}
	}
}

func TestClient_StreamTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := aigateway.NewClient(url, "k", "m", time.Second).Stream(context.Background(), nil)
	var se *aigateway.StatusError
	if err == nil || errors.As(err, &se) {
		t.Fatalf("error = %v, want transport error", err)
	}
}
