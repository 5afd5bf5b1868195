package vetchat_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	appvetchat "github.com/chapavet/marketplace/application/vetchat"
	"github.com/chapavet/marketplace/cmd/config"
	"github.com/chapavet/marketplace/constant"
	"github.com/chapavet/marketplace/model"
	"github.com/chapavet/marketplace/thirdparty/aigateway"
	cerr "github.com/chapavet/marketplace/utils/errors"
)

type stubStreamer struct {
	calls    int
	messages []model.ChatMessage
	body     string
	err      error
}

func (s *stubStreamer) Stream(_ context.Context, messages []model.ChatMessage) (io.ReadCloser, error) {
	s.calls++
	s.messages = messages
	if s.err != nil {
		return nil, s.err
	}
	return io.NopCloser(strings.NewReader(s.body)), nil
}

func gatewayConfig(key string) *config.Config {
	return &config.Config{AI: config.AIConfig{Provider: config.ProviderGateway, GatewayAPIKey: key}}
}

func TestVetChatApp_Stream(t *testing.T) {
	tests := []struct {
		name      string
		key       string
		req       *model.VetChatRequest
		streamErr error
		wantErr   bool
		errCode   constant.ErrorType
		wantCalls int
	}{
		{
			name:      "success: body relayed",
			key:       "k",
			req:       &model.VetChatRequest{Messages: []model.ChatMessage{{Role: "user", Content: "My cow is not eating"}}},
			wantCalls: 1,
		},
		{
			name:    "error: missing key makes no upstream call",
			key:     "",
			req:     &model.VetChatRequest{Messages: []model.ChatMessage{{Role: "user", Content: "hi"}}},
			wantErr: true,
			errCode: constant.ErrAIConfig,
		},
		{
			name:    "error: empty conversation",
			key:     "k",
			req:     &model.VetChatRequest{},
			wantErr: true,
			errCode: constant.ErrInvalidRequest,
		},
		{
			name:      "error: upstream 429",
			key:       "k",
			req:       &model.VetChatRequest{Messages: []model.ChatMessage{{Role: "user", Content: "hi"}}},
			streamErr: &aigateway.StatusError{StatusCode: http.StatusTooManyRequests},
			wantErr:   true,
			errCode:   constant.ErrRateLimited,
			wantCalls: 1,
		},
		{
			name:      "error: upstream 402",
			key:       "k",
			req:       &model.VetChatRequest{Messages: []model.ChatMessage{{Role: "user", Content: "hi"}}},
			streamErr: &aigateway.StatusError{StatusCode: http.StatusPaymentRequired},
			wantErr:   true,
			errCode:   constant.ErrPaymentRequired,
			wantCalls: 1,
		},
		{
			name:      "error: upstream 503",
			key:       "k",
			req:       &model.VetChatRequest{Messages: []model.ChatMessage{{Role: "user", Content: "hi"}}},
			streamErr: &aigateway.StatusError{StatusCode: http.StatusServiceUnavailable},
			wantErr:   true,
			errCode:   constant.ErrAIGateway,
			wantCalls: 1,
		},
		{
			name:      "error: transport failure",
			key:       "k",
			req:       &model.VetChatRequest{Messages: []model.ChatMessage{{Role: "user", Content: "hi"}}},
			streamErr: errors.New("dial tcp: connection refused"),
			wantErr:   true,
			errCode:   constant.ErrAIGateway,
			wantCalls: 1,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			streamer := &stubStreamer{body: "data: [DONE]\n\n", err: tt.streamErr}
			app := appvetchat.NewVetChatApp(gatewayConfig(tt.key), streamer)

			body, err := app.Stream(context.Background(), tt.req)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Stream() error = %v, wantErr %v", err, tt.wantErr)
			}
			if streamer.calls != tt.wantCalls {
				t.Fatalf("upstream calls = %d, want %d", streamer.calls, tt.wantCalls)
			}
			if tt.wantErr {
				var ce cerr.CustomError
				if !errors.As(err, &ce) || ce.Type() != tt.errCode {
					t.Fatalf("error = %v, want %s", err, constant.ErrorTypeCode[tt.errCode])
				}
				return
			}
			defer body.Close()
			raw, _ := io.ReadAll(body)
			if string(raw) != "data: [DONE]\n\n" {
				t.Fatalf("body = %q", raw)
			}
		})
	}
}

func TestVetChatApp_SystemPromptFollowsLanguage(t *testing.T) {
	tests := []struct {
		name     string
		language string
		accept   string
		want     string
	}{
		{name: "explicit swahili", language: "sw", want: appvetchat.SystemPrompt("sw")},
		{name: "explicit kinyarwanda", language: "rw", want: appvetchat.SystemPrompt("rw")},
		{name: "accept-language fallback", accept: "sw-TZ,sw;q=0.9,en;q=0.5", want: appvetchat.SystemPrompt("sw")},
		{name: "unknown language", language: "fr", want: appvetchat.SystemPrompt("en")},
		{name: "nothing given", want: appvetchat.SystemPrompt("en")},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			streamer := &stubStreamer{}
			app := appvetchat.NewVetChatApp(gatewayConfig("k"), streamer)
			user := model.ChatMessage{Role: "user", Content: "Habari"}

			body, err := app.Stream(context.Background(), &model.VetChatRequest{
				Messages:       []model.ChatMessage{user},
				Language:       tt.language,
				AcceptLanguage: tt.accept,
			})
			if err != nil {
				t.Fatalf("Stream() error = %v", err)
			}
			body.Close()

			if len(streamer.messages) != 2 {
				t.Fatalf("messages = %d, want system + 1", len(streamer.messages))
			}
			if streamer.messages[0].Role != "system" || streamer.messages[0].Content != tt.want {
				t.Fatalf("system message = %+v", streamer.messages[0])
			}
			if streamer.messages[1] != user {
				t.Fatalf("user message = %+v", streamer.messages[1])
			}
		})
	}
}

func TestSystemPromptsDiffer(t *testing.T) {
	en, sw, rw := appvetchat.SystemPrompt("en"), appvetchat.SystemPrompt("sw"), appvetchat.SystemPrompt("rw")
	if en == sw || en == rw || sw == rw {
		t.Fatal("each language should have its own prompt")
	}
}

func TestVetChatApp_ClientSystemTurnFollowsPrompt(t *testing.T) {
	streamer := &stubStreamer{}
	app := appvetchat.NewVetChatApp(gatewayConfig("k"), streamer)
	client := []model.ChatMessage{{Role: "system", Content: "Answer briefly"}, {Role: "user", Content: "hi"}}

	body, err := app.Stream(context.Background(), &model.VetChatRequest{Messages: client})
	if err != nil {
		t.Fatalf("Stream() error = %v", err)
	}
	body.Close()

	if len(streamer.messages) != 3 {
		t.Fatalf("messages = %d, want 3", len(streamer.messages))
	}
	if streamer.messages[0].Content != appvetchat.SystemPrompt("en") {
		t.Fatalf("first message = %+v, want injected prompt", streamer.messages[0])
	}
	if streamer.messages[1] != client[0] || streamer.messages[2] != client[1] {
		t.Fatalf("client messages = %+v", streamer.messages[1:])
	}
}
