package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/quocvuong92/chat-agent-cli/internal/api"
	"github.com/quocvuong92/chat-agent-cli/internal/constants"
	"github.com/quocvuong92/chat-agent-cli/internal/display"
	"github.com/quocvuong92/chat-agent-cli/internal/executor"
)

// errToolLoopLimit aborts a turn whose tool-call chain never converges.
// The limit bounds total remote calls per user turn, not calls per batch.
var errToolLoopLimit = fmt.Errorf("tool-call loop exceeded %d iterations without a final answer", constants.MaxToolIterations)

// toolRecord captures one executed tool call for the local transcript
type toolRecord struct {
	Name   string
	Output string
	IsErr  bool
}

// runToolLoop drives one user turn to completion: send the input, execute
// any function calls the model requests, feed the outputs back, and repeat
// until the model answers with no pending calls. The iteration counter is
// explicit so a model that keeps requesting tools cannot spin forever.
func runToolLoop(ctx context.Context, client api.Client, exec *executor.Executor, model, conversationID string, webSearch bool, input []api.Item) (*api.Response, []toolRecord, api.Usage, error) {
	var records []toolRecord
	var usage api.Usage

	for iteration := 0; iteration < constants.MaxToolIterations; iteration++ {
		req := &api.ResponseRequest{
			Model:        model,
			Input:        input,
			Tools:        api.BuildToolPayload(webSearch),
			Conversation: conversationID,
		}
		if webSearch {
			req.Include = []string{api.IncludeWebSearchSources}
		}

		resp, err := client.CreateResponse(ctx, req)
		if err != nil {
			return nil, records, usage, err
		}

		usage.InputTokens += resp.Usage.InputTokens
		usage.OutputTokens += resp.Usage.OutputTokens
		usage.TotalTokens += resp.Usage.TotalTokens

		calls := resp.FunctionCalls()
		if len(calls) == 0 {
			return resp, records, usage, nil
		}

		// The conversation already holds the model's output items; only the
		// function outputs go back as new input.
		input = make([]api.Item, 0, len(calls))
		for _, call := range calls {
			display.ShowToolCall(call.Name, summarizeToolCall(call))
			rec := executeToolCall(exec, call)
			records = append(records, rec)
			input = append(input, api.FunctionOutput(call.CallID, rec.Output))
		}
	}

	return nil, records, usage, errToolLoopLimit
}

// executeToolCall dispatches one function call to its handler. Every failure
// path returns a result the model can read; nothing here aborts the loop.
func executeToolCall(exec *executor.Executor, call api.Item) toolRecord {
	if !api.IsFunctionTool(call.Name) {
		return toolRecord{
			Name:   call.Name,
			Output: marshalToolError(fmt.Sprintf("tool %q is not available", call.Name)),
			IsErr:  true,
		}
	}

	var result executor.FileToolResult
	var err error

	switch call.Name {
	case api.CreateFileTool.Name:
		result, err = handleCreateFile(exec, call.Arguments)
	case api.MoveFileTool.Name:
		result, err = handleMoveFile(exec, call.Arguments)
	case api.EditFileTool.Name:
		result, err = handleEditFile(exec, call.Arguments)
	}

	if err != nil {
		return toolRecord{
			Name:   call.Name,
			Output: marshalToolError(err.Error()),
			IsErr:  true,
		}
	}
	if !result.Success {
		return toolRecord{
			Name:   call.Name,
			Output: marshalToolError(result.Output),
			IsErr:  true,
		}
	}
	return toolRecord{
		Name:   call.Name,
		Output: marshalToolResult(result.Output),
	}
}

func handleCreateFile(exec *executor.Executor, arguments string) (executor.FileToolResult, error) {
	var args struct {
		Path    string `json:"path"`
		Content string `json:"content"`
	}
	if err := json.Unmarshal([]byte(arguments), &args); err != nil {
		return executor.FileToolResult{}, fmt.Errorf("invalid create_file arguments: %w", err)
	}
	if args.Path == "" {
		return executor.FileToolResult{}, errors.New("create_file requires a path")
	}
	return exec.CreateFile(args.Path, args.Content), nil
}

func handleMoveFile(exec *executor.Executor, arguments string) (executor.FileToolResult, error) {
	var args struct {
		Source      string `json:"source"`
		Destination string `json:"destination"`
	}
	if err := json.Unmarshal([]byte(arguments), &args); err != nil {
		return executor.FileToolResult{}, fmt.Errorf("invalid move_file arguments: %w", err)
	}
	if args.Source == "" || args.Destination == "" {
		return executor.FileToolResult{}, errors.New("move_file requires source and destination")
	}
	return exec.MoveFile(args.Source, args.Destination), nil
}

func handleEditFile(exec *executor.Executor, arguments string) (executor.FileToolResult, error) {
	var args struct {
		Path    string `json:"path"`
		OldText string `json:"old_text"`
		NewText string `json:"new_text"`
	}
	if err := json.Unmarshal([]byte(arguments), &args); err != nil {
		return executor.FileToolResult{}, fmt.Errorf("invalid edit_file arguments: %w", err)
	}
	if args.Path == "" {
		return executor.FileToolResult{}, errors.New("edit_file requires a path")
	}
	return exec.EditFile(args.Path, args.OldText, args.NewText), nil
}

// summarizeToolCall extracts the path-ish argument for the tool notice line
func summarizeToolCall(call api.Item) string {
	var args map[string]string
	if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
		return ""
	}
	if p, ok := args["path"]; ok {
		return p
	}
	if s, ok := args["source"]; ok {
		return s + " -> " + args["destination"]
	}
	return ""
}

// marshalToolResult wraps a successful tool output for the model
func marshalToolResult(output string) string {
	data, err := json.Marshal(map[string]string{"result": output})
	if err != nil {
		return `{"result": ""}`
	}
	return string(data)
}

// marshalToolError wraps a tool failure for the model
func marshalToolError(message string) string {
	data, err := json.Marshal(map[string]string{"error": message})
	if err != nil {
		return `{"error": "tool execution failed"}`
	}
	return string(data)
}
