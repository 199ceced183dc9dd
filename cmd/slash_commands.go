package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/quocvuong92/chat-agent-cli/internal/api"
	"github.com/quocvuong92/chat-agent-cli/internal/constants"
	"github.com/quocvuong92/chat-agent-cli/internal/display"
)

const helpText = `## Commands

| Command | Description |
|---------|-------------|
| /help | Show this help |
| /history | Show the conversation transcript |
| /stats | Show session statistics |
| /new | Start a fresh conversation |
| /websearch | Toggle web search on/off |
| /tools | List available tools |
| /clear | Clear the screen |
| /exit, /quit | Exit the chat |

Reference local files inline with ` + "`@path`" + ` (e.g. "summarize @notes.md").
The model can create, move, and edit files inside the workspace.`

// parseCommand splits a line into its command name and argument remainder.
// ok is false when the line is not a slash command at all.
func parseCommand(input string) (name, args string, ok bool) {
	input = strings.TrimSpace(input)
	if !strings.HasPrefix(input, "/") {
		return "", "", false
	}
	parts := strings.SplitN(input, " ", 2)
	name = strings.ToLower(parts[0])
	if len(parts) > 1 {
		args = strings.TrimSpace(parts[1])
	}
	return name, args, true
}

// handleCommand routes a slash command. Unknown commands print a hint and
// are never sent to the model.
func (s *ChatSession) handleCommand(input string) {
	name, _, ok := parseCommand(input)
	if !ok {
		return
	}

	switch name {
	case "/help":
		if s.app.cfg.Render {
			display.ShowContentRendered(helpText)
		} else {
			display.ShowContent(helpText)
		}

	case "/history":
		s.showHistory()

	case "/stats":
		display.ShowStats(s.sess.Stats())

	case "/new":
		s.sess.Reset()
		s.sess.WebSearchEnabled = s.app.cfg.WebSearch
		fmt.Println("Started a new conversation. Previous context is gone.")

	case "/websearch":
		if s.sess.ToggleWebSearch() {
			fmt.Println("Web search enabled")
		} else {
			fmt.Println("Web search disabled")
		}

	case "/tools":
		listing := buildToolsListing(s.sess.WebSearchEnabled)
		if s.app.cfg.Render {
			display.ShowContentRendered(listing)
		} else {
			display.ShowContent(listing)
		}

	case "/clear":
		display.ClearScreen()
		s.showWelcome()

	case "/exit", "/quit":
		fmt.Println("Goodbye!")
		s.exitFlag = true

	default:
		fmt.Printf("Unknown command: %s. Type /help for available commands.\n", name)
	}
}

// showHistory fetches the transcript from the Conversations API and prints
// the message items in chronological order.
func (s *ChatSession) showHistory() {
	if s.sess.ConversationID() == "" {
		fmt.Println("No conversation yet. Send a message first.")
		return
	}

	list, err := s.client.ListConversationItems(context.Background(), s.sess.ConversationID(), constants.MaxHistoryItems)
	if err != nil {
		display.ShowError(fmt.Sprintf("failed to fetch history: %v", err))
		return
	}

	fmt.Println("\nConversation history:")
	shown := 0
	for _, item := range list.Data {
		if item.Type != api.ItemTypeMessage {
			continue
		}
		text := itemText(item)
		if text == "" {
			continue
		}
		fmt.Printf("\n[%s]\n%s\n", item.Role, text)
		shown++
	}
	if shown == 0 {
		fmt.Println("(no messages)")
	}
	if list.HasMore {
		fmt.Printf("\n(showing the first %d items)\n", constants.MaxHistoryItems)
	}
}

// itemText joins the text parts of a message item
func itemText(item api.Item) string {
	var sb strings.Builder
	for _, part := range item.Content {
		if part.Text != "" {
			sb.WriteString(part.Text)
		}
	}
	return sb.String()
}

// buildToolsListing renders the current tool set as markdown. The file tools
// are always present; web search appears only while the toggle is on.
func buildToolsListing(webSearchEnabled bool) string {
	var sb strings.Builder
	sb.WriteString("## Available tools\n\n")

	for _, tool := range api.FileTools() {
		sb.WriteString(fmt.Sprintf("- **%s**: %s\n", tool.Name, tool.Description))
	}

	if webSearchEnabled {
		sb.WriteString("- **web_search**: Search the web (runs on the provider side)\n")
	} else {
		sb.WriteString("\nWeb search is disabled. Toggle it with /websearch.\n")
	}

	return sb.String()
}
