package constant

import "net/http"

type ErrorType int

const (
	Successful ErrorType = iota
	ErrInternal
	ErrNotFound
	ErrInvalidRequest
	ErrUnauthorize
	ErrCredentialExists
	ErrInvalidPassword
	ErrForbidden
	ErrInvalidOrderStatus
	ErrListingUnavailable
	ErrRateLimited
	ErrPaymentRequired
	ErrAIConfig
	ErrAIGateway
)

var ErrorTypeMessage = map[ErrorType]string{
	Successful:            "success",
	ErrInternal:           "error internal",
	ErrNotFound:           "data not found",
	ErrInvalidRequest:     "invalid request",
	ErrUnauthorize:        "unauthorize request",
	ErrCredentialExists:   "email or phone already exists",
	ErrInvalidPassword:    "password invalid",
	ErrForbidden:          "forbidden",
	ErrInvalidOrderStatus: "invalid order status",
	ErrListingUnavailable: "listing is not available",
	ErrRateLimited:        "rate limits exceeded, please try again later",
	ErrPaymentRequired:    "payment required, please add funds to the AI workspace",
	ErrAIConfig:           "AI_GATEWAY_API_KEY is not configured",
	ErrAIGateway:          "AI gateway error",
}

var ErrorTypeHTTPCode = map[ErrorType]int{
	Successful:            http.StatusOK,
	ErrInternal:           http.StatusInternalServerError,
	ErrNotFound:           http.StatusNotFound,
	ErrInvalidRequest:     http.StatusBadRequest,
	ErrUnauthorize:        http.StatusUnauthorized,
	ErrCredentialExists:   http.StatusBadRequest,
	ErrInvalidPassword:    http.StatusBadRequest,
	ErrForbidden:          http.StatusForbidden,
	ErrInvalidOrderStatus: http.StatusConflict,
	ErrListingUnavailable: http.StatusConflict,
	ErrRateLimited:        http.StatusTooManyRequests,
	ErrPaymentRequired:    http.StatusPaymentRequired,
	ErrAIConfig:           http.StatusInternalServerError,
	ErrAIGateway:          http.StatusInternalServerError,
}

var ErrorTypeCode = map[ErrorType]string{
	Successful:            "0000",
	ErrInternal:           "0001",
	ErrNotFound:           "0002",
	ErrInvalidRequest:     "0003",
	ErrUnauthorize:        "0004",
	ErrCredentialExists:   "0005",
	ErrInvalidPassword:    "0006",
	ErrForbidden:          "0007",
	ErrInvalidOrderStatus: "0008",
	ErrListingUnavailable: "0009",
	ErrRateLimited:        "0010",
	ErrPaymentRequired:    "0011",
	ErrAIConfig:           "0012",
	ErrAIGateway:          "0013",
}
