package api

// Tool represents a tool offered to the model. Function tools carry a name
// and JSON-schema parameters; the built-in web_search tool is type-only.
type Tool struct {
	Type        string                 `json:"type"`
	Name        string                 `json:"name,omitempty"`
	Description string                 `json:"description,omitempty"`
	Parameters  map[string]interface{} `json:"parameters,omitempty"`
}

// WebSearchTool is the provider-side web search capability. The CLI can only
// enable or disable it; execution happens inside the API.
var WebSearchTool = Tool{Type: "web_search"}

// IncludeWebSearchSources asks the API to attach consulted sources to
// web_search_call output items.
const IncludeWebSearchSources = "web_search_call.action.sources"

// CreateFileTool writes a new file inside the workspace
var CreateFileTool = Tool{
	Type:        "function",
	Name:        "create_file",
	Description: "Create a new file with the given content. Parent directories are created as needed. Fails if the file already exists.",
	Parameters: map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"path": map[string]interface{}{
				"type":        "string",
				"description": "File path relative to the workspace root",
			},
			"content": map[string]interface{}{
				"type":        "string",
				"description": "Content to write to the file",
			},
		},
		"required": []string{"path", "content"},
	},
}

// MoveFileTool renames or moves a file inside the workspace
var MoveFileTool = Tool{
	Type:        "function",
	Name:        "move_file",
	Description: "Move or rename a file. Both source and destination must stay inside the workspace root. Fails if the destination already exists.",
	Parameters: map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"source": map[string]interface{}{
				"type":        "string",
				"description": "Current file path",
			},
			"destination": map[string]interface{}{
				"type":        "string",
				"description": "New file path",
			},
		},
		"required": []string{"source", "destination"},
	},
}

// EditFileTool performs an exact search and replace in a file
var EditFileTool = Tool{
	Type:        "function",
	Name:        "edit_file",
	Description: "Edit a file by finding and replacing text. The old_text must match exactly (including whitespace and indentation). Replaces the first occurrence only.",
	Parameters: map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"path": map[string]interface{}{
				"type":        "string",
				"description": "File path relative to the workspace root",
			},
			"old_text": map[string]interface{}{
				"type":        "string",
				"description": "Exact text to find and replace",
			},
			"new_text": map[string]interface{}{
				"type":        "string",
				"description": "Text to replace with",
			},
		},
		"required": []string{"path", "old_text", "new_text"},
	},
}

// FileTools returns the file-utility tools, always offered to the model
func FileTools() []Tool {
	return []Tool{CreateFileTool, MoveFileTool, EditFileTool}
}

// BuildToolPayload returns the tool list for one request. The file tools are
// always present; web_search is appended only while the toggle is on.
func BuildToolPayload(webSearchEnabled bool) []Tool {
	tools := FileTools()
	if webSearchEnabled {
		tools = append(tools, WebSearchTool)
	}
	return tools
}

// IsFunctionTool reports whether name identifies one of the local function
// tools the CLI executes itself (as opposed to provider-side tools).
func IsFunctionTool(name string) bool {
	for _, t := range FileTools() {
		if t.Name == name {
			return true
		}
	}
	return false
}
