package internal

import (
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func TestAuthConfig_DisabledMode(t *testing.T) {
	cfg := AuthConfig{Mode: "disabled", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("disabled mode should pass: %v", err)
	}
	if cfg.AuthEnabled() {
		t.Error("disabled mode should not be enabled")
	}
}

func TestAuthConfig_EmptyModeDefaultsDisabled(t *testing.T) {
	cfg := AuthConfig{Mode: "", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty mode should default to disabled: %v", err)
	}
	if cfg.Mode != AuthModeDisabled {
		t.Errorf("mode = %q, want %q", cfg.Mode, AuthModeDisabled)
	}
}

func TestAuthConfig_TokenModeValid(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: "mysecret"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("token mode with token should pass: %v", err)
	}
	if !cfg.AuthEnabled() {
		t.Error("token mode should be enabled")
	}
}

func TestAuthConfig_TokenModeEmptyToken(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: ""}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("token mode with empty token should fail")
	}
	if !strings.Contains(err.Error(), "token is empty") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestAuthConfig_InvalidMode(t *testing.T) {
	cfg := AuthConfig{Mode: "magic", Token: "x"}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("invalid mode should fail validation")
	}
}

func TestFullConfig_AuthValidationCalled(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Auth.Mode = "token"
	cfg.Auth.Token = ""
	err := cfg.Validate()
	if err == nil {
		t.Fatal("full config validate should catch auth error")
	}
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestFullConfig_JournalValidationCalled(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Journal.Formats.Day = "xx"
	err := cfg.Validate()
	if err == nil {
		t.Fatal("full config validate should catch journal format error")
	}
	if !strings.Contains(err.Error(), "journal") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestDurationYAML(t *testing.T) {
	var sc SyncConfig
	if err := yaml.Unmarshal([]byte("quiet_period: 750ms\nmax_wait: 1m\n"), &sc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if time.Duration(sc.QuietPeriod) != 750*time.Millisecond {
		t.Errorf("quiet_period = %v", time.Duration(sc.QuietPeriod))
	}
	if time.Duration(sc.MaxWait) != time.Minute {
		t.Errorf("max_wait = %v", time.Duration(sc.MaxWait))
	}

	out, err := yaml.Marshal(SyncConfig{QuietPeriod: Duration(2 * time.Second)})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(out), "2s") {
		t.Errorf("marshalled duration = %s", out)
	}

	var bad SyncConfig
	if err := yaml.Unmarshal([]byte("quiet_period: soon\n"), &bad); err == nil {
		t.Error("expected error for unparseable duration")
	}
}

func TestSyncConfig_NegativeDurations(t *testing.T) {
	cfg := SyncConfig{WaitForSync: true, QuietPeriod: -1}
	if err := cfg.Validate(); err == nil {
		t.Fatal("negative quiet period should fail")
	}
}
