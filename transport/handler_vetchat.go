package transport

import (
	"encoding/json"
	goerrors "errors"
	"io"
	"net/http"
	"time"

	"github.com/chapavet/marketplace/constant"
	"github.com/chapavet/marketplace/model"
	"github.com/chapavet/marketplace/utils/errors"
	"github.com/chapavet/marketplace/utils/i18n"
	"github.com/chapavet/marketplace/utils/logger"
	validatorx "github.com/chapavet/marketplace/utils/validator"
	"go.uber.org/zap"
)

const relayBufferSize = 4 * 1024

// VetChat handler
// @Summary Veterinary assistant
// @Description Streams the assistant reply as server-sent events. Failures answer {"error": message} localized to the request language.
// @Tags AI
// @Accept json
// @Produce text/event-stream
// @Param request body model.VetChatRequest true "Conversation"
// @Success 200 {string} string
// @Failure 402 {object} map[string]string
// @Failure 429 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /chapavet-ai [post]
func (s *RestHandler) VetChat(w http.ResponseWriter, r *http.Request) {
	setCORSHeaders(w.Header())
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	acceptLanguage := r.Header.Get("Accept-Language")

	var req model.VetChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeChatError(w, i18n.Resolve("", acceptLanguage), errInvalidRequest())
		return
	}
	req.AcceptLanguage = acceptLanguage
	lang := i18n.Resolve(req.Language, acceptLanguage)

	if err := validatorx.ValidateStruct(&req); err != nil {
		writeChatError(w, lang, errInvalidRequest())
		return
	}

	body, err := s.VetChatApp.Stream(r.Context(), &req)
	if err != nil {
		writeChatError(w, lang, err)
		return
	}
	defer body.Close()

	rc := http.NewResponseController(w)
	// replies can outlast the server write timeout
	_ = rc.SetWriteDeadline(time.Time{})

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)

	if err := relay(w, rc, body); err != nil {
		logger.Warn("[VetChat] relay interrupted", zap.String("error", err.Error()))
	}
}

// relay copies src to w, flushing after every chunk so tokens reach the
// client as they arrive.
func relay(w io.Writer, rc *http.ResponseController, src io.Reader) error {
	buf := make([]byte, relayBufferSize)
	for {
		n, readErr := src.Read(buf)
		if n > 0 {
			if _, err := w.Write(buf[:n]); err != nil {
				return err
			}
			if err := rc.Flush(); err != nil && !goerrors.Is(err, http.ErrNotSupported) {
				return err
			}
		}
		if readErr == io.EOF {
			return nil
		}
		if readErr != nil {
			return readErr
		}
	}
}

func writeChatError(w http.ResponseWriter, lang string, err error) {
	var ce errors.CustomError
	if !goerrors.As(err, &ce) {
		ce = errors.SetCustomError(constant.ErrAIGateway)
	}

	key := i18n.KeyGatewayError
	switch ce.Type() {
	case constant.ErrRateLimited:
		key = i18n.KeyRateLimited
	case constant.ErrPaymentRequired:
		key = i18n.KeyPaymentRequired
	case constant.ErrAIConfig:
		key = i18n.KeyMissingAPIKey
	case constant.ErrInvalidRequest:
		key = i18n.KeyInvalidRequest
	}

	writeJSON(w, ce.ErrorHTTPCode(), map[string]string{"error": i18n.Message(lang, key)})
}
