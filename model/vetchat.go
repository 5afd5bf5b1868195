package model

type ChatMessage struct {
	Role    string `json:"role" validate:"required"`
	Content string `json:"content" validate:"required"`
}

type VetChatRequest struct {
	Messages       []ChatMessage `json:"messages" validate:"required,min=1,dive"`
	Language       string        `json:"language"`
	AcceptLanguage string        `json:"-"`
}
