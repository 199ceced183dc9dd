package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/quocvuong92/chat-agent-cli/internal/api"
	"github.com/quocvuong92/chat-agent-cli/internal/config"
	"github.com/quocvuong92/chat-agent-cli/internal/display"
	"github.com/quocvuong92/chat-agent-cli/internal/logging"
)

// App holds the application state
type App struct {
	cfg     *config.Config
	logger  *logging.Logger
	verbose bool
}

// NewApp creates a new App instance with default configuration
func NewApp() *App {
	return &App{
		cfg: config.NewConfig(),
	}
}

// Execute runs the root command
func Execute() {
	app := NewApp()

	rootCmd := &cobra.Command{
		Use:   "chat-agent [query]",
		Short: "A chat CLI built on the OpenAI Responses and Conversations APIs",
		Long: `chat-agent is a command-line chat client with persistent server-side
conversation state, local file tools (create/move/edit), optional web
search, and inline @file references.

Examples:
  chat-agent                            # Interactive chat mode
  chat-agent "What is Kubernetes?"      # One-shot query
  chat-agent -r "Summarize @README.md"  # One-shot with markdown rendering
  chat-agent --no-websearch             # Interactive, web search off`,
		Args: cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			app.run(cmd, args)
		},
	}

	var noWebSearch bool
	rootCmd.Flags().BoolVarP(&app.verbose, "verbose", "v", false, "Log API requests and responses")
	rootCmd.Flags().BoolVarP(&app.cfg.Render, "render", "r", false, "Render markdown with colors and formatting")
	rootCmd.Flags().StringVarP(&app.cfg.Model, "model", "m", "", "Model name (e.g., gpt-5)")
	rootCmd.Flags().StringVar(&app.cfg.WorkspaceRoot, "workdir", "", "Workspace root for file tools (default: current directory)")
	rootCmd.Flags().BoolVar(&noWebSearch, "no-websearch", false, "Start with web search disabled")

	rootCmd.PreRun = func(cmd *cobra.Command, args []string) {
		if noWebSearch {
			app.cfg.WebSearch = false
		}
	}

	rootCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create a starter config file",
		Run: func(cmd *cobra.Command, args []string) {
			path, err := config.CreateDefaultConfigFile()
			if err != nil {
				display.ShowError(err.Error())
				os.Exit(1)
			}
			fmt.Printf("Created %s\n", path)
		},
	})

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func (app *App) run(cmd *cobra.Command, args []string) {
	app.cfg.Debug = app.verbose
	app.logger = logging.New(logging.Options{
		Level:  logging.LevelNone,
		Format: logging.FormatText,
	})
	if app.verbose {
		app.logger.SetLevel(logging.LevelDebug)
	}

	// Missing API key must be reported before the input loop starts
	if err := app.cfg.Validate(); err != nil {
		display.ShowError(err.Error())
		os.Exit(1)
	}

	if app.cfg.Render {
		if err := display.InitRenderer(); err != nil {
			app.logger.Warn("renderer init failed", logging.Fields{"error": err.Error()})
		}
	}

	client, err := api.NewClient(app.cfg)
	if err != nil {
		display.ShowError(err.Error())
		os.Exit(1)
	}
	defer client.Close()

	// One-shot mode: a single turn through the same pipeline
	if len(args) > 0 {
		chat := app.newSession(client)
		chat.sendTurn(args[0])
		return
	}

	app.runInteractive(client)
}
