package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// isolate points HOME and the working directory at empty temp dirs so no
// real config file or .env leaks into the test.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv(EnvAPIKey, "")
	t.Setenv(EnvBaseURL, "")
	t.Setenv(EnvModel, "")
	t.Setenv(EnvWorkspaceRoot, "")
	return dir
}

func TestValidateMissingAPIKey(t *testing.T) {
	isolate(t)

	cfg := NewConfig()
	err := cfg.Validate()
	if !errors.Is(err, ErrAPIKeyNotFound) {
		t.Fatalf("err = %v, want ErrAPIKeyNotFound", err)
	}
}

func TestValidateDefaults(t *testing.T) {
	dir := isolate(t)
	t.Setenv(EnvAPIKey, "sk-test")

	cfg := NewConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	if cfg.APIKey != "sk-test" {
		t.Errorf("api key = %q", cfg.APIKey)
	}
	if cfg.Model != DefaultModel {
		t.Errorf("model = %q, want %q", cfg.Model, DefaultModel)
	}
	if cfg.BaseURL != DefaultBaseURL {
		t.Errorf("base url = %q, want %q", cfg.BaseURL, DefaultBaseURL)
	}
	if !cfg.WebSearch {
		t.Error("web search should default on")
	}

	// Workspace defaults to the working directory, made absolute
	resolved, _ := filepath.EvalSymlinks(dir)
	got, _ := filepath.EvalSymlinks(cfg.WorkspaceRoot)
	if got != resolved {
		t.Errorf("workspace = %q, want %q", cfg.WorkspaceRoot, dir)
	}
}

func TestValidateEnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv(EnvAPIKey, "sk-test")
	t.Setenv(EnvBaseURL, "https://proxy.example/v1/")
	t.Setenv(EnvModel, "gpt-5-mini")

	cfg := NewConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	if cfg.BaseURL != "https://proxy.example/v1" {
		t.Errorf("base url = %q, want trailing slash stripped", cfg.BaseURL)
	}
	if cfg.Model != "gpt-5-mini" {
		t.Errorf("model = %q, want gpt-5-mini", cfg.Model)
	}
}

func TestValidateFlagBeatsEnv(t *testing.T) {
	isolate(t)
	t.Setenv(EnvAPIKey, "sk-test")
	t.Setenv(EnvModel, "env-model")

	cfg := NewConfig()
	cfg.Model = "flag-model"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if cfg.Model != "flag-model" {
		t.Errorf("model = %q, flags must beat the environment", cfg.Model)
	}
}

func TestValidateDotEnvFile(t *testing.T) {
	dir := isolate(t)
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("OPENAI_API_KEY=sk-from-dotenv\n"), 0600); err != nil {
		t.Fatal(err)
	}

	cfg := NewConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if cfg.APIKey != "sk-from-dotenv" {
		t.Errorf("api key = %q, want the .env value", cfg.APIKey)
	}
}

func TestValidateInvalidWorkspace(t *testing.T) {
	isolate(t)
	t.Setenv(EnvAPIKey, "sk-test")

	cfg := NewConfig()
	cfg.WorkspaceRoot = "/nonexistent/path/for/sure"
	err := cfg.Validate()
	if !errors.Is(err, ErrInvalidWorkspace) {
		t.Fatalf("err = %v, want ErrInvalidWorkspace", err)
	}
}

func TestLoadConfigFileFromWorkingDirectory(t *testing.T) {
	dir := isolate(t)
	confDir := filepath.Join(dir, ".chat-agent")
	if err := os.MkdirAll(confDir, 0755); err != nil {
		t.Fatal(err)
	}
	yaml := "model: gpt-5-nano\nbase_url: https://gw.example/v1\ndefaults:\n  render: true\n  web_search: false\n"
	if err := os.WriteFile(filepath.Join(confDir, ConfigFileName), []byte(yaml), 0600); err != nil {
		t.Fatal(err)
	}

	fc, err := LoadConfigFile()
	if err != nil {
		t.Fatalf("LoadConfigFile: %v", err)
	}
	if fc.Model != "gpt-5-nano" {
		t.Errorf("model = %q", fc.Model)
	}
	if fc.Defaults == nil || !fc.Defaults.Render {
		t.Error("defaults.render not parsed")
	}
	if fc.Defaults.WebSearch == nil || *fc.Defaults.WebSearch {
		t.Error("defaults.web_search not parsed as false")
	}
}

func TestApplyFileConfigPriority(t *testing.T) {
	off := false
	fc := &FileConfig{
		Model:   "file-model",
		BaseURL: "https://file.example/v1",
		Defaults: &DefaultsConfig{
			Render:    true,
			WebSearch: &off,
		},
	}

	cfg := NewConfig()
	cfg.Model = "flag-model" // already set, file must not override
	cfg.ApplyFileConfig(fc)

	if cfg.Model != "flag-model" {
		t.Errorf("model = %q, file config must not override flags", cfg.Model)
	}
	if cfg.BaseURL != "https://file.example/v1" {
		t.Errorf("base url = %q, want the file value", cfg.BaseURL)
	}
	if !cfg.Render {
		t.Error("render default not applied")
	}
	if cfg.WebSearch {
		t.Error("web_search=false from the file not applied")
	}
}

func TestLoadConfigFileMissing(t *testing.T) {
	isolate(t)

	fc, err := LoadConfigFile()
	if err != nil {
		t.Fatalf("LoadConfigFile: %v", err)
	}
	if fc.Model != "" || fc.BaseURL != "" || fc.Defaults != nil {
		t.Errorf("expected an empty config, got %+v", fc)
	}
}
