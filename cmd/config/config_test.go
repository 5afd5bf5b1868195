package config_test

import (
	"testing"
	"time"

	"github.com/chapavet/marketplace/cmd/config"
)

func TestLoad_DefaultsAndOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("ORDER_EXPIRATION", "30m")
	t.Setenv("DB_PORT", "not-a-number")
	t.Setenv("AI_GATEWAY_API_KEY", "")

	cfg := config.Load()

	if cfg.Server.Port != "9090" {
		t.Fatalf("Server.Port = %s, want 9090", cfg.Server.Port)
	}
	if cfg.Order.OrderExpiration != 30*time.Minute {
		t.Fatalf("Order.OrderExpiration = %v, want 30m", cfg.Order.OrderExpiration)
	}
	if cfg.Database.Port != 3306 {
		t.Fatalf("Database.Port = %d, want default 3306", cfg.Database.Port)
	}
	if cfg.ChatAPIKey() != "" {
		t.Fatalf("ChatAPIKey() = %q, want empty", cfg.ChatAPIKey())
	}
}

func TestConfig_ChatAPIKeyFollowsProvider(t *testing.T) {
	cfg := &config.Config{AI: config.AIConfig{
		Provider:      config.ProviderGemini,
		GatewayAPIKey: "gateway-key",
		GeminiAPIKey:  "gemini-key",
	}}
	if got := cfg.ChatAPIKey(); got != "gemini-key" {
		t.Fatalf("ChatAPIKey() = %q, want gemini-key", got)
	}

	cfg.AI.Provider = config.ProviderGateway
	if got := cfg.ChatAPIKey(); got != "gateway-key" {
		t.Fatalf("ChatAPIKey() = %q, want gateway-key", got)
	}
}

func TestConfig_GetDSN(t *testing.T) {
	cfg := &config.Config{Database: config.DatabaseConfig{
		Host: "db", Port: 3307, User: "app", Password: "secret", Name: "chapavet",
	}}
	want := "app:secret@tcp(db:3307)/chapavet?parseTime=true&loc=UTC"
	if got := cfg.GetDSN(); got != want {
		t.Fatalf("GetDSN() = %s, want %s", got, want)
	}
}
