package transport_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/chapavet/marketplace/constant"
	"github.com/chapavet/marketplace/model"
	"github.com/chapavet/marketplace/transport"
	cerr "github.com/chapavet/marketplace/utils/errors"
)

type stubVetChat struct {
	body string
	err  error
	req  *model.VetChatRequest
}

func (s *stubVetChat) Stream(_ context.Context, req *model.VetChatRequest) (io.ReadCloser, error) {
	s.req = req
	if s.err != nil {
		return nil, s.err
	}
	return io.NopCloser(strings.NewReader(s.body)), nil
}

func postChat(t *testing.T, url, body, acceptLanguage string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, url+"/chapavet-ai", strings.NewReader(body))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if acceptLanguage != "" {
		req.Header.Set("Accept-Language", acceptLanguage)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestVetChat_StreamsUpstreamBody(t *testing.T) {
	stream := "data: {\"choices\":[{\"delta\":{\"content\":\"Habari\"}}]}\n\ndata: [DONE]\n\n"
	chat := &stubVetChat{body: stream}
	srv := newServer(t, &transport.RestHandler{VetChatApp: chat})

	resp := postChat(t, srv.URL, `{"messages":[{"role":"user","content":"Ng'ombe wangu anakohoa"}],"language":"sw"}`, "en-US")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("content-type = %q", ct)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("allow-origin = %q", got)
	}
	raw, _ := io.ReadAll(resp.Body)
	if string(raw) != stream {
		t.Fatalf("body = %q, want verbatim upstream stream", raw)
	}
	if chat.req.Language != "sw" || chat.req.AcceptLanguage != "en-US" {
		t.Fatalf("request language = %q accept = %q", chat.req.Language, chat.req.AcceptLanguage)
	}
}

func TestVetChat_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		accept     string
		streamErr  error
		wantStatus int
		wantError  string
	}{
		{
			name:       "rate limited",
			body:       `{"messages":[{"role":"user","content":"hi"}]}`,
			streamErr:  cerr.SetCustomError(constant.ErrRateLimited),
			wantStatus: http.StatusTooManyRequests,
			wantError:  "Rate limits exceeded, please try again later.",
		},
		{
			name:       "payment required in swahili",
			body:       `{"messages":[{"role":"user","content":"hi"}],"language":"sw"}`,
			streamErr:  cerr.SetCustomError(constant.ErrPaymentRequired),
			wantStatus: http.StatusPaymentRequired,
			wantError:  "Malipo yanahitajika, tafadhali ongeza salio kwenye akaunti ya AI.",
		},
		{
			name:       "missing key",
			body:       `{"messages":[{"role":"user","content":"hi"}]}`,
			streamErr:  cerr.SetCustomError(constant.ErrAIConfig),
			wantStatus: http.StatusInternalServerError,
			wantError:  "AI_GATEWAY_API_KEY is not configured",
		},
		{
			name:       "gateway failure",
			body:       `{"messages":[{"role":"user","content":"hi"}]}`,
			streamErr:  cerr.SetCustomError(constant.ErrAIGateway),
			wantStatus: http.StatusInternalServerError,
			wantError:  "AI gateway error",
		},
		{
			name:       "malformed body uses accept-language",
			body:       `{"messages":`,
			accept:     "sw",
			wantStatus: http.StatusBadRequest,
			wantError:  "Ombi si sahihi",
		},
		{
			name:       "empty conversation",
			body:       `{"messages":[]}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid request",
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			srv := newServer(t, &transport.RestHandler{VetChatApp: &stubVetChat{err: tt.streamErr}})

			resp := postChat(t, srv.URL, tt.body, tt.accept)
			if resp.StatusCode != tt.wantStatus {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			if got := resp.Header.Get("Access-Control-Allow-Headers"); got != "authorization, x-client-info, apikey, content-type" {
				t.Fatalf("allow-headers = %q", got)
			}
			var body map[string]string
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body["error"] != tt.wantError {
				t.Fatalf("error = %q, want %q", body["error"], tt.wantError)
			}
		})
	}
}

func TestVetChat_RelaysClientSystemTurn(t *testing.T) {
	chat := &stubVetChat{body: "data: [DONE]\n\n"}
	srv := newServer(t, &transport.RestHandler{VetChatApp: chat})

	resp := postChat(t, srv.URL, `{"messages":[{"role":"system","content":"Answer briefly"},{"role":"user","content":"hi"}]}`, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	want := []model.ChatMessage{{Role: "system", Content: "Answer briefly"}, {Role: "user", Content: "hi"}}
	if len(chat.req.Messages) != 2 || chat.req.Messages[0] != want[0] || chat.req.Messages[1] != want[1] {
		t.Fatalf("messages = %+v, want %+v", chat.req.Messages, want)
	}
}
