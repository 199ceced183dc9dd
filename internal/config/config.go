// Package config loads application configuration from a YAML config file,
// environment variables, and a local .env file, in increasing priority.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/quocvuong92/chat-agent-cli/internal/constants"
)

// Environment variable names
const (
	// OpenAI settings
	EnvAPIKey  = "OPENAI_API_KEY"
	EnvBaseURL = "OPENAI_BASE_URL"
	EnvModel   = "CHAT_AGENT_MODEL"

	// Workspace root for file tools
	EnvWorkspaceRoot = "CHAT_AGENT_WORKDIR"
)

// Defaults - re-exported from constants for convenience
const (
	DefaultModel   = constants.DefaultModel
	DefaultBaseURL = constants.DefaultBaseURL
)

// Errors
var (
	ErrAPIKeyNotFound   = errors.New("OPENAI_API_KEY not found. Set it in the environment or a local .env file")
	ErrInvalidWorkspace = errors.New("workspace root does not exist or is not a directory")
)

// Config holds the application configuration
type Config struct {
	// OpenAI settings
	APIKey  string
	BaseURL string
	Model   string

	// WorkspaceRoot confines the file tools (create/move/edit) to a
	// single directory tree. Defaults to the current working directory.
	WorkspaceRoot string

	// Flags
	WebSearch bool // Offer the provider-side web_search tool
	Render    bool // Render markdown with colors and formatting
	Debug     bool // Log HTTP requests/responses
}

// NewConfig creates a new Config with defaults
func NewConfig() *Config {
	return &Config{WebSearch: true}
}

// Validate loads configuration from the config file, .env, and environment,
// then checks that everything required to enter the chat loop is present.
// A missing API key is fatal by design: it must be reported before the
// input loop starts.
func (c *Config) Validate() error {
	// A local .env file supplements the environment but never overrides it
	_ = godotenv.Load()

	// Config file has the lowest priority; errors loading it are ignored
	if fileConfig, err := LoadConfigFile(); err == nil {
		c.ApplyFileConfig(fileConfig)
	}

	if c.APIKey == "" {
		c.APIKey = strings.TrimSpace(os.Getenv(EnvAPIKey))
	}
	if c.APIKey == "" {
		return ErrAPIKeyNotFound
	}

	if c.BaseURL == "" {
		c.BaseURL = os.Getenv(EnvBaseURL)
	}
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	c.BaseURL = strings.TrimSuffix(c.BaseURL, "/")

	if c.Model == "" {
		c.Model = os.Getenv(EnvModel)
	}
	if c.Model == "" {
		c.Model = DefaultModel
	}

	if c.WorkspaceRoot == "" {
		c.WorkspaceRoot = os.Getenv(EnvWorkspaceRoot)
	}
	if c.WorkspaceRoot == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return err
		}
		c.WorkspaceRoot = cwd
	}

	abs, err := filepath.Abs(c.WorkspaceRoot)
	if err != nil {
		return ErrInvalidWorkspace
	}
	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		return ErrInvalidWorkspace
	}
	c.WorkspaceRoot = abs

	return nil
}
