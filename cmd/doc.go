// Package cmd implements the chat-agent command-line interface.
//
// The package wires the pieces together:
//
//   - root.go: cobra command, flags, config validation, one-shot mode
//   - interactive.go: the go-prompt REPL and the per-turn pipeline
//   - slash_commands.go: local /commands that never reach the model
//   - tool_handlers.go: the bounded tool-call loop and file tool dispatch
//
// A user turn flows through: @reference expansion, lazy conversation
// creation, the Responses API tool loop, then transcript and usage commit.
// Session state only changes after the whole exchange succeeds.
package cmd
