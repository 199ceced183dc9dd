package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	prompt "github.com/elk-language/go-prompt"
	istrings "github.com/elk-language/go-prompt/strings"

	"github.com/quocvuong92/chat-agent-cli/internal/api"
	"github.com/quocvuong92/chat-agent-cli/internal/constants"
	"github.com/quocvuong92/chat-agent-cli/internal/display"
	"github.com/quocvuong92/chat-agent-cli/internal/executor"
	"github.com/quocvuong92/chat-agent-cli/internal/logging"
	"github.com/quocvuong92/chat-agent-cli/internal/resolver"
	"github.com/quocvuong92/chat-agent-cli/internal/session"
)

// ChatSession holds the state for one chat run, interactive or one-shot
type ChatSession struct {
	app      *App
	client   api.Client
	exec     *executor.Executor
	resolver *resolver.Resolver
	sess     *session.Session
	exitFlag bool
}

// newSession wires a chat session against the validated configuration
func (app *App) newSession(client api.Client) *ChatSession {
	sess := session.New()
	sess.WebSearchEnabled = app.cfg.WebSearch

	return &ChatSession{
		app:      app,
		client:   client,
		exec:     executor.NewExecutor(app.cfg.WorkspaceRoot),
		resolver: resolver.New(),
		sess:     sess,
	}
}

// completer provides auto-completion for slash commands and @file references
func (s *ChatSession) completer(d prompt.Document) ([]prompt.Suggest, istrings.RuneNumber, istrings.RuneNumber) {
	text := d.TextBeforeCursor()
	endIndex := d.CurrentRuneIndex()
	w := d.GetWordBeforeCursor()
	startIndex := endIndex - istrings.RuneCountInString(w)

	// @path completion works anywhere in the line
	if strings.HasPrefix(w, "@") {
		return completeFileReference(w), startIndex, endIndex
	}

	// Slash commands complete only at the start of the line
	if !strings.HasPrefix(text, "/") {
		return []prompt.Suggest{}, startIndex, endIndex
	}

	suggestions := []prompt.Suggest{
		{Text: "/help", Description: "Show available commands"},
		{Text: "/history", Description: "Show the conversation transcript"},
		{Text: "/stats", Description: "Show session statistics"},
		{Text: "/new", Description: "Start a fresh conversation"},
		{Text: "/websearch", Description: "Toggle web search on/off"},
		{Text: "/tools", Description: "List available tools"},
		{Text: "/clear", Description: "Clear the screen"},
		{Text: "/exit", Description: "Exit the chat"},
		{Text: "/quit", Description: "Exit the chat"},
	}

	return prompt.FilterHasPrefix(suggestions, w, true), startIndex, endIndex
}

// completeFileReference suggests paths for a partial @reference
func completeFileReference(w string) []prompt.Suggest {
	partial := strings.TrimPrefix(w, "@")

	dir := filepath.Dir(partial)
	base := filepath.Base(partial)
	if partial == "" || strings.HasSuffix(partial, string(filepath.Separator)) {
		dir = partial
		if dir == "" {
			dir = "."
		}
		base = ""
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var suggestions []prompt.Suggest
	for _, entry := range entries {
		name := entry.Name()
		if base != "" && !strings.HasPrefix(name, base) {
			continue
		}
		full := filepath.Join(dir, name)
		if dir == "." && !strings.HasPrefix(partial, "./") {
			full = name
		}
		if entry.IsDir() {
			full += string(filepath.Separator)
		}
		suggestions = append(suggestions, prompt.Suggest{Text: "@" + full})
		if len(suggestions) >= 30 {
			break
		}
	}
	return suggestions
}

// runInteractive starts the interactive chat REPL. It reads user input until
// the session is terminated via /exit, /quit, Ctrl+C, or Ctrl+D.
func (app *App) runInteractive(client api.Client) {
	chat := app.newSession(client)
	chat.showWelcome()

	p := prompt.New(
		chat.executor,
		prompt.WithCompleter(chat.completer),
		prompt.WithPrefix("> "),
		prompt.WithTitle("chat-agent"),
		prompt.WithPrefixTextColor(prompt.Green),
		prompt.WithSuggestionBGColor(prompt.DarkBlue),
		prompt.WithSuggestionTextColor(prompt.White),
		prompt.WithSelectedSuggestionBGColor(prompt.Cyan),
		prompt.WithSelectedSuggestionTextColor(prompt.Black),
		prompt.WithMaxSuggestion(15),
		prompt.WithCompletionOnDown(),
		prompt.WithExitChecker(func(in string, breakline bool) bool {
			return chat.exitFlag
		}),
		prompt.WithKeyBind(prompt.KeyBind{
			Key: prompt.ControlC,
			Fn: func(p *prompt.Prompt) bool {
				fmt.Println("\nGoodbye!")
				chat.exitFlag = true
				return false
			},
		}),
		prompt.WithKeyBind(prompt.KeyBind{
			Key: prompt.ControlD,
			Fn: func(p *prompt.Prompt) bool {
				if p.Buffer().Text() == "" {
					fmt.Println("Goodbye!")
					chat.exitFlag = true
				}
				return false
			},
		}),
	)

	p.Run()
}

// showWelcome prints the startup banner
func (s *ChatSession) showWelcome() {
	webSearch := "enabled"
	if !s.sess.WebSearchEnabled {
		webSearch = "disabled"
	}
	fmt.Println("=== Chat Agent CLI ===")
	fmt.Printf("Model: %s | Web search: %s\n", s.app.cfg.Model, webSearch)
	fmt.Println("Reference files inline with @path. Type /help for commands.")
	fmt.Println()
}

// executor processes one line of user input
func (s *ChatSession) executor(input string) {
	input = strings.TrimSpace(input)
	if input == "" {
		return
	}

	if strings.HasPrefix(input, "/") {
		s.handleCommand(input)
		return
	}

	s.sendTurn(input)
}

// sendTurn runs one user turn end to end: expand @references, ensure the
// server-side conversation exists, drive the tool loop, and commit the
// results to the session. A failed remote call leaves the session untouched.
func (s *ChatSession) sendTurn(input string) {
	ctx := context.Background()

	expanded, resolutions := s.resolver.Expand(input)
	for _, res := range resolutions {
		name := strings.TrimPrefix(res.RawToken, "@")
		if res.Err != nil {
			display.ShowWarning(fmt.Sprintf("could not attach %s: %v", name, res.Err))
			continue
		}
		display.ShowNote(fmt.Sprintf("Attached %s", name))
	}

	if err := s.ensureConversation(ctx); err != nil {
		display.ShowError(fmt.Sprintf("failed to create conversation: %v", err))
		return
	}

	sp := display.NewSpinner("Thinking...")
	sp.Start()

	resp, records, usage, err := runToolLoop(
		ctx,
		s.client,
		s.exec,
		s.app.cfg.Model,
		s.sess.ConversationID(),
		s.sess.WebSearchEnabled,
		[]api.Item{api.UserMessage(expanded)},
	)

	sp.Stop()

	if err != nil {
		display.ShowError(err.Error())
		return
	}

	// Commit the turn only after the whole exchange succeeded
	s.sess.AddTurn(session.RoleUser, expanded)
	for _, rec := range records {
		s.sess.AddTurn(session.RoleTool, rec.Name+": "+rec.Output)
	}
	answer := resp.OutputText()
	s.sess.AddTurn(session.RoleAssistant, answer)
	s.sess.AddUsage(usage.InputTokens, usage.OutputTokens)
	s.sess.CountMessage()

	fmt.Println()
	if s.app.cfg.Render {
		display.ShowContentRendered(answer)
	} else {
		display.ShowContent(answer)
	}

	for _, rec := range records {
		if rec.IsErr {
			display.ShowNote(fmt.Sprintf("note: %s failed: %s", rec.Name, rec.Output))
		}
	}

	if s.sess.WebSearchEnabled {
		sources := resp.WebSearchSources()
		out := make([]display.Source, 0, len(sources))
		for _, src := range sources {
			out = append(out, display.Source{Title: src.Title, URL: src.URL})
		}
		display.ShowSources(out)
	}
}

// ensureConversation lazily creates the server-side conversation on the
// first message. The id is bound once and reused for every later call.
func (s *ChatSession) ensureConversation(ctx context.Context) error {
	if s.sess.ConversationID() != "" {
		return nil
	}

	conv, err := s.client.CreateConversation(ctx, map[string]string{
		constants.SessionMetadataKey: s.sess.ID,
	})
	if err != nil {
		return err
	}
	if err := s.sess.BindConversation(conv.ID); err != nil {
		return err
	}

	s.app.logger.Debug("conversation created", logging.Fields{"conversation_id": conv.ID})
	display.ShowNote(fmt.Sprintf("Conversation: %s", conv.ID))
	return nil
}
