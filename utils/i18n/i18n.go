// Package i18n negotiates the caller's language and holds the handful of
// user-facing strings the API produces itself.
package i18n

import (
	"golang.org/x/text/language"
)

const (
	English     = "en"
	Swahili     = "sw"
	Kinyarwanda = "rw"
)

// supported is ordered by preference; the first entry is the fallback.
var supported = []string{English, Swahili, Kinyarwanda}

var matcher = language.NewMatcher([]language.Tag{
	language.English,
	language.Swahili,
	language.Make(Kinyarwanda),
})

// Resolve picks a supported language from an explicit code (e.g. the chat
// request's "language" field) or, failing that, an Accept-Language header.
func Resolve(lang, acceptLanguage string) string {
	var tags []language.Tag
	if lang != "" {
		if tag, err := language.Parse(lang); err == nil {
			tags = append(tags, tag)
		}
	}
	if len(tags) == 0 && acceptLanguage != "" {
		parsed, _, err := language.ParseAcceptLanguage(acceptLanguage)
		if err == nil {
			tags = parsed
		}
	}
	if len(tags) == 0 {
		return English
	}

	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return English
	}
	return supported[index]
}

type Key string

const (
	KeyRateLimited     Key = "rate_limited"
	KeyPaymentRequired Key = "payment_required"
	KeyGatewayError    Key = "gateway_error"
	KeyMissingAPIKey   Key = "missing_api_key"
	KeyInvalidRequest  Key = "invalid_request"
)

var messages = map[string]map[Key]string{
	English: {
		KeyRateLimited:     "Rate limits exceeded, please try again later.",
		KeyPaymentRequired: "Payment required, please add funds to your AI workspace.",
		KeyGatewayError:    "AI gateway error",
		KeyMissingAPIKey:   "AI_GATEWAY_API_KEY is not configured",
		KeyInvalidRequest:  "Invalid request",
	},
	Swahili: {
		KeyRateLimited:     "Maombi yamezidi kikomo, tafadhali jaribu tena baadaye.",
		KeyPaymentRequired: "Malipo yanahitajika, tafadhali ongeza salio kwenye akaunti ya AI.",
		KeyGatewayError:    "Hitilafu ya huduma ya AI",
		KeyInvalidRequest:  "Ombi si sahihi",
	},
}

// Message returns the localized text for key, falling back to English.
func Message(lang string, key Key) string {
	if msg, ok := messages[lang][key]; ok {
		return msg
	}
	return messages[English][key]
}
