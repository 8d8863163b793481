package config

import "testing"

func TestLoadFailsWithoutRequiredVars(t *testing.T) {
	t.Setenv("XAI_API_KEY", "")
	t.Setenv("SECRET_KEY", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected an error when required vars are missing")
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	t.Setenv("XAI_API_KEY", "test-key")
	t.Setenv("SECRET_KEY", "test-secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.XAIAPIBase != "https://api.x.ai/v1" {
		t.Errorf("unexpected default base URL: %q", cfg.XAIAPIBase)
	}
	if cfg.RequestTimeoutSeconds != 60 {
		t.Errorf("expected default timeout 60, got %d", cfg.RequestTimeoutSeconds)
	}
	if cfg.UpstreamRateLimitRPS != 20 {
		t.Errorf("expected default rps 20, got %v", cfg.UpstreamRateLimitRPS)
	}
}

func TestLoadCollectsCollectionIDPrefixedVars(t *testing.T) {
	t.Setenv("XAI_API_KEY", "test-key")
	t.Setenv("SECRET_KEY", "test-secret")
	t.Setenv("COLLECTION_ID_PROMPTS", "col_123")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	found := false
	for _, id := range cfg.CollectionIDs {
		if id == "col_123" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected col_123 among collection ids, got %v", cfg.CollectionIDs)
	}
}
