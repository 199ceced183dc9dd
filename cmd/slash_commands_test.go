package cmd

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/quocvuong92/chat-agent-cli/internal/api"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantName string
		wantArgs string
		wantOK   bool
	}{
		{
			name:     "bare command",
			input:    "/help",
			wantName: "/help",
			wantOK:   true,
		},
		{
			name:     "command with argument",
			input:    "/websearch on",
			wantName: "/websearch",
			wantArgs: "on",
			wantOK:   true,
		},
		{
			name:     "command name is case-insensitive",
			input:    "/EXIT",
			wantName: "/exit",
			wantOK:   true,
		},
		{
			name:     "surrounding whitespace is trimmed",
			input:    "  /stats  ",
			wantName: "/stats",
			wantOK:   true,
		},
		{
			name:   "plain text is not a command",
			input:  "hello world",
			wantOK: false,
		},
		{
			name:   "slash in the middle is not a command",
			input:  "what does a/b mean",
			wantOK: false,
		},
		{
			name:   "file reference is not a command",
			input:  "summarize @notes.md",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, args, ok := parseCommand(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("parseCommand(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if name != tt.wantName {
				t.Errorf("name = %q, want %q", name, tt.wantName)
			}
			if args != tt.wantArgs {
				t.Errorf("args = %q, want %q", args, tt.wantArgs)
			}
		})
	}
}

func TestBuildToolsListingWebSearchDisabled(t *testing.T) {
	listing := buildToolsListing(false)

	for _, tool := range api.FileTools() {
		if !strings.Contains(listing, tool.Name) {
			t.Errorf("listing missing file tool %q", tool.Name)
		}
	}
	if strings.Contains(listing, "**web_search**") {
		t.Error("listing should not offer web_search while disabled")
	}
	if !strings.Contains(listing, "disabled") {
		t.Error("listing should say web search is disabled")
	}
}

func TestBuildToolsListingWebSearchEnabled(t *testing.T) {
	listing := buildToolsListing(true)

	if !strings.Contains(listing, "**web_search**") {
		t.Error("listing should include web_search while enabled")
	}
}

func TestItemText(t *testing.T) {
	item := api.Item{
		Type: api.ItemTypeMessage,
		Role: "assistant",
		Content: []api.ContentPart{
			{Type: "output_text", Text: "first"},
			{Type: "output_text", Text: " second"},
		},
	}

	if got := itemText(item); got != "first second" {
		t.Errorf("itemText = %q, want %q", got, "first second")
	}

	if got := itemText(api.Item{Type: api.ItemTypeMessage}); got != "" {
		t.Errorf("itemText on empty item = %q, want empty", got)
	}
}

func TestSummarizeToolCall(t *testing.T) {
	tests := []struct {
		name      string
		arguments string
		want      string
	}{
		{
			name:      "path argument",
			arguments: `{"path":"notes.txt","content":"hi"}`,
			want:      "notes.txt",
		},
		{
			name:      "move arguments",
			arguments: `{"source":"a.txt","destination":"b.txt"}`,
			want:      "a.txt -> b.txt",
		},
		{
			name:      "invalid json",
			arguments: `{not json`,
			want:      "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			call := api.Item{Type: api.ItemTypeFunctionCall, Arguments: tt.arguments}
			if got := summarizeToolCall(call); got != tt.want {
				t.Errorf("summarizeToolCall = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMarshalToolOutputs(t *testing.T) {
	var result map[string]string
	if err := json.Unmarshal([]byte(marshalToolResult("Created a.txt")), &result); err != nil {
		t.Fatalf("result output is not valid JSON: %v", err)
	}
	if result["result"] != "Created a.txt" {
		t.Errorf("result = %q, want %q", result["result"], "Created a.txt")
	}

	var failure map[string]string
	if err := json.Unmarshal([]byte(marshalToolError("boom")), &failure); err != nil {
		t.Fatalf("error output is not valid JSON: %v", err)
	}
	if failure["error"] != "boom" {
		t.Errorf("error = %q, want %q", failure["error"], "boom")
	}
}
