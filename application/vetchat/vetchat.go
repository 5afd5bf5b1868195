package vetchat

import (
	"context"
	goerrors "errors"
	"io"
	"net/http"

	"github.com/chapavet/marketplace/cmd/config"
	"github.com/chapavet/marketplace/constant"
	"github.com/chapavet/marketplace/model"
	"github.com/chapavet/marketplace/thirdparty/aigateway"
	"github.com/chapavet/marketplace/utils/errors"
	"github.com/chapavet/marketplace/utils/i18n"
	"github.com/chapavet/marketplace/utils/logger"
	"go.uber.org/zap"
)

// Streamer opens a completion stream; both the gateway and the Gemini client satisfy it.
type Streamer interface {
	Stream(ctx context.Context, messages []model.ChatMessage) (io.ReadCloser, error)
}

type VetChatApp interface {
	Stream(ctx context.Context, req *model.VetChatRequest) (io.ReadCloser, error)
}

type vetChatAppImpl struct {
	config   *config.Config
	streamer Streamer
}

func NewVetChatApp(config *config.Config, streamer Streamer) VetChatApp {
	return &vetChatAppImpl{config: config, streamer: streamer}
}

// Stream relays the conversation upstream, prefixed with the system prompt
// for the negotiated language. Upstream failures are never retried.
func (s *vetChatAppImpl) Stream(ctx context.Context, req *model.VetChatRequest) (io.ReadCloser, error) {
	if s.config.ChatAPIKey() == "" || s.streamer == nil {
		logger.Error("[VetChat] chat provider key is not configured", zap.String("provider", s.config.AI.Provider))
		return nil, errors.SetCustomError(constant.ErrAIConfig)
	}
	if len(req.Messages) == 0 {
		return nil, errors.SetCustomError(constant.ErrInvalidRequest)
	}

	lang := i18n.Resolve(req.Language, req.AcceptLanguage)
	messages := make([]model.ChatMessage, 0, len(req.Messages)+1)
	messages = append(messages, model.ChatMessage{Role: "system", Content: SystemPrompt(lang)})
	messages = append(messages, req.Messages...)

	body, err := s.streamer.Stream(ctx, messages)
	if err == nil {
		return body, nil
	}

	var statusErr *aigateway.StatusError
	if goerrors.As(err, &statusErr) {
		switch statusErr.StatusCode {
		case http.StatusTooManyRequests:
			return nil, errors.SetCustomError(constant.ErrRateLimited)
		case http.StatusPaymentRequired:
			return nil, errors.SetCustomError(constant.ErrPaymentRequired)
		}
		logger.Error("[VetChat] upstream error", zap.Int("status", statusErr.StatusCode), zap.String("body", statusErr.Body))
		return nil, errors.SetCustomError(constant.ErrAIGateway)
	}

	logger.Error("[VetChat] err streamer.Stream", zap.String("error", err.Error()))
	return nil, errors.SetCustomError(constant.ErrAIGateway)
}
