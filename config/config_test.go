package config

import "testing"

func TestLoadConfigEnvOnly(t *testing.T) {
	t.Setenv("DARKAI_LLM_API_KEY", "env-key")
	t.Setenv("DARKAI_SERVER_JWT_SECRET", "env-secret")
	t.Setenv("DARKAI_SEARCH_API_KEY", "env-search")

	cfg := LoadConfig("")

	if cfg.LLM.APIKey != "env-key" {
		t.Fatalf("llm.api_key = %q", cfg.LLM.APIKey)
	}
	if cfg.Server.JWTSecret != "env-secret" {
		t.Fatalf("server.jwt_secret = %q", cfg.Server.JWTSecret)
	}
	if cfg.Search.APIKey != "env-search" {
		t.Fatalf("search.api_key = %q", cfg.Search.APIKey)
	}

	// defaults still apply alongside env overrides
	if cfg.Chat.Temperature != 0.7 || cfg.Chat.TopP != 1.0 {
		t.Fatalf("chat defaults = %v/%v", cfg.Chat.Temperature, cfg.Chat.TopP)
	}
	if cfg.Server.Address != ":10002" {
		t.Fatalf("server.address = %q", cfg.Server.Address)
	}
	if cfg.Session.Store != "inmemory" {
		t.Fatalf("session.store = %q", cfg.Session.Store)
	}
}

func TestLoadConfigEnvOverridesDefault(t *testing.T) {
	t.Setenv("DARKAI_LLM_API_KEY", "env-key")
	t.Setenv("DARKAI_LLM_MODEL", "gpt-4o-mini")

	cfg := LoadConfig("")

	if cfg.LLM.Model != "gpt-4o-mini" {
		t.Fatalf("llm.model = %q", cfg.LLM.Model)
	}
}
