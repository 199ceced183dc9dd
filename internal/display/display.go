// Package display handles terminal output: markdown rendering, inline
// notices, and progress feedback for the chat CLI.
package display

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/quocvuong92/chat-agent-cli/internal/session"
)

// renderer is the shared glamour markdown renderer, nil until InitRenderer
var renderer *glamour.TermRenderer

// InitRenderer initializes the markdown renderer.
// Call once at startup when rendered output is requested.
func InitRenderer() error {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return fmt.Errorf("failed to initialize markdown renderer: %w", err)
	}
	renderer = r
	return nil
}

// ShowContent prints content as plain text
func ShowContent(content string) {
	fmt.Println(content)
}

// ShowContentRendered prints content as rendered markdown,
// falling back to plain text if the renderer is unavailable.
func ShowContentRendered(content string) {
	if renderer == nil {
		fmt.Println(content)
		return
	}
	out, err := renderer.Render(content)
	if err != nil {
		fmt.Println(content)
		return
	}
	fmt.Print(out)
}

// ShowError prints an error message to stderr
func ShowError(msg string) {
	fmt.Fprintf(os.Stderr, "Error: %s\n", msg)
}

// ShowWarning prints a warning message to stderr
func ShowWarning(msg string) {
	fmt.Fprintf(os.Stderr, "Warning: %s\n", msg)
}

// ShowNote prints a dimmed informational line (attachments, tool activity)
func ShowNote(msg string) {
	fmt.Printf("  %s\n", msg)
}

// ShowToolCall announces a tool the model asked to run
func ShowToolCall(name, summary string) {
	if summary != "" {
		fmt.Printf("→ %s %s\n", name, summary)
	} else {
		fmt.Printf("→ %s\n", name)
	}
}

// ShowStats renders the session statistics block
func ShowStats(stats session.Stats) {
	var sb strings.Builder
	sb.WriteString("\nSession Statistics\n")
	sb.WriteString(fmt.Sprintf("  Messages:       %d\n", stats.Messages))
	sb.WriteString(fmt.Sprintf("  Input tokens:   %d\n", stats.InputTokens))
	sb.WriteString(fmt.Sprintf("  Output tokens:  %d\n", stats.OutputTokens))
	sb.WriteString(fmt.Sprintf("  Total tokens:   %d\n", stats.TotalTokens))
	webSearch := "disabled"
	if stats.WebSearch {
		webSearch = "enabled"
	}
	sb.WriteString(fmt.Sprintf("  Web search:     %s\n", webSearch))
	if stats.ConversationID != "" {
		sb.WriteString(fmt.Sprintf("  Conversation:   %s\n", stats.ConversationID))
	} else {
		sb.WriteString("  Conversation:   (none yet)\n")
	}
	sb.WriteString(fmt.Sprintf("  Session:        %s\n", stats.SessionID))
	fmt.Println(sb.String())
}

// Source is one consulted web source shown after an answer
type Source struct {
	Title string
	URL   string
}

// ShowSources lists the web sources the model consulted
func ShowSources(sources []Source) {
	if len(sources) == 0 {
		return
	}
	fmt.Println("\nWeb sources used:")
	for i, s := range sources {
		title := s.Title
		if title == "" {
			title = "Untitled"
		}
		fmt.Printf("  %d. %s\n", i+1, title)
		if s.URL != "" {
			fmt.Printf("     %s\n", s.URL)
		}
	}
	fmt.Println()
}

// ClearScreen clears the terminal
func ClearScreen() {
	fmt.Print("\033[2J\033[H")
}
