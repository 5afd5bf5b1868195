// Package gemini streams chat completions straight from the Gemini API and
// re-encodes them as OpenAI-style server-sent events, so callers can treat
// it like the gateway.
package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"

	"github.com/chapavet/marketplace/model"
	"github.com/chapavet/marketplace/thirdparty/aigateway"
	"google.golang.org/genai"
)

type Client struct {
	client *genai.Client
	model  string
}

func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &Client{client: client, model: model}, nil
}

// Stream returns an SSE body. Errors raised before the first chunk are
// returned directly (as *aigateway.StatusError when Gemini reports a status);
// later errors end the stream early.
func (c *Client) Stream(ctx context.Context, messages []model.ChatMessage) (io.ReadCloser, error) {
	system, contents := toContents(messages)
	cfg := &genai.GenerateContentConfig{}
	if system != "" {
		cfg.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}
	return encodeStream(c.client.Models.GenerateContentStream(ctx, c.model, contents, cfg))
}

func toContents(messages []model.ChatMessage) (string, []*genai.Content) {
	var system string
	contents := make([]*genai.Content, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case "system":
			// Gemini takes one system instruction; later system turns are appended
			if system != "" {
				system += "\n\n"
			}
			system += m.Content
		case "assistant":
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleUser))
		}
	}
	return system, contents
}

type chunk struct {
	Choices []choice `json:"choices"`
}

type choice struct {
	Delta delta `json:"delta"`
}

type delta struct {
	Content string `json:"content"`
}

func encodeStream(seq iter.Seq2[*genai.GenerateContentResponse, error]) (io.ReadCloser, error) {
	next, stop := iter.Pull2(seq)

	first, err, ok := next()
	if ok && err != nil {
		stop()
		return nil, statusError(err)
	}

	pr, pw := io.Pipe()
	go func() {
		defer stop()
		resp := first
		for ok {
			if text := resp.Text(); text != "" {
				if werr := writeChunk(pw, text); werr != nil {
					pw.CloseWithError(werr)
					return
				}
			}
			resp, err, ok = next()
			if ok && err != nil {
				pw.CloseWithError(err)
				return
			}
		}
		_, werr := io.WriteString(pw, "data: [DONE]\n\n")
		pw.CloseWithError(werr)
	}()
	return pr, nil
}

func writeChunk(w io.Writer, text string) error {
	payload, err := json.Marshal(chunk{Choices: []choice{{Delta: delta{Content: text}}}})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "data: %s\n\n", payload)
	return err
}

func statusError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) && apiErr.Code != 0 {
		return &aigateway.StatusError{StatusCode: apiErr.Code, Body: apiErr.Message}
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr.Code != 0 {
		return &aigateway.StatusError{StatusCode: apiErrPtr.Code, Body: apiErrPtr.Message}
	}
	return err
}
