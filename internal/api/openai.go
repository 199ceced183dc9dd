package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/quocvuong92/chat-agent-cli/internal/config"
	"github.com/quocvuong92/chat-agent-cli/internal/constants"
	"github.com/quocvuong92/chat-agent-cli/internal/logging"
)

// Item type discriminators used by the Responses API
const (
	ItemTypeMessage            = "message"
	ItemTypeFunctionCall       = "function_call"
	ItemTypeFunctionCallOutput = "function_call_output"
	ItemTypeWebSearchCall      = "web_search_call"
)

// ContentPart is one piece of a message item's content
type ContentPart struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// Item is a single input or output item of the Responses API.
// The Type field selects which of the remaining fields are meaningful.
type Item struct {
	Type    string        `json:"type,omitempty"`
	ID      string        `json:"id,omitempty"`
	Status  string        `json:"status,omitempty"`
	Role    string        `json:"role,omitempty"`
	Content []ContentPart `json:"content,omitempty"`

	// function_call fields
	Name      string `json:"name,omitempty"`
	CallID    string `json:"call_id,omitempty"`
	Arguments string `json:"arguments,omitempty"`

	// function_call_output field
	Output string `json:"output,omitempty"`

	// web_search_call field
	Action *WebSearchAction `json:"action,omitempty"`
}

// WebSearchAction describes a provider-side web search performed by the model
type WebSearchAction struct {
	Type    string            `json:"type,omitempty"`
	Query   string            `json:"query,omitempty"`
	Sources []WebSearchSource `json:"sources,omitempty"`
}

// WebSearchSource is one source consulted during a web search
type WebSearchSource struct {
	Title string `json:"title,omitempty"`
	URL   string `json:"url,omitempty"`
}

// UserMessage builds a user message input item from plain text
func UserMessage(text string) Item {
	return Item{
		Type:    ItemTypeMessage,
		Role:    "user",
		Content: []ContentPart{{Type: "input_text", Text: text}},
	}
}

// FunctionOutput builds a function_call_output input item for a call id
func FunctionOutput(callID, output string) Item {
	return Item{
		Type:   ItemTypeFunctionCallOutput,
		CallID: callID,
		Output: output,
	}
}

// ResponseRequest is the Responses API request body
type ResponseRequest struct {
	Model        string   `json:"model"`
	Input        []Item   `json:"input"`
	Tools        []Tool   `json:"tools,omitempty"`
	Include      []string `json:"include,omitempty"`
	Conversation string   `json:"conversation,omitempty"`
}

// Usage reports token consumption for one response
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
	TotalTokens  int `json:"total_tokens"`
}

// Response is the Responses API response body
type Response struct {
	ID     string `json:"id"`
	Status string `json:"status,omitempty"`
	Model  string `json:"model,omitempty"`
	Output []Item `json:"output"`
	Usage  Usage  `json:"usage"`
}

// OutputText extracts the assistant's text from the output items
func (r *Response) OutputText() string {
	for _, item := range r.Output {
		if item.Type != ItemTypeMessage {
			continue
		}
		for _, part := range item.Content {
			if part.Type == "output_text" && part.Text != "" {
				return part.Text
			}
		}
	}
	return ""
}

// FunctionCalls returns the function_call output items, if any
func (r *Response) FunctionCalls() []Item {
	var calls []Item
	for _, item := range r.Output {
		if item.Type == ItemTypeFunctionCall {
			calls = append(calls, item)
		}
	}
	return calls
}

// WebSearchSources collects the sources of every web_search_call in the output
func (r *Response) WebSearchSources() []WebSearchSource {
	var sources []WebSearchSource
	for _, item := range r.Output {
		if item.Type == ItemTypeWebSearchCall && item.Action != nil {
			sources = append(sources, item.Action.Sources...)
		}
	}
	return sources
}

// Conversation is a server-side conversation resource
type Conversation struct {
	ID        string            `json:"id"`
	CreatedAt int64             `json:"created_at,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// conversationRequest is the Conversations API create request body
type conversationRequest struct {
	Metadata map[string]string `json:"metadata,omitempty"`
}

// ConversationItemList is a page of items from a conversation
type ConversationItemList struct {
	Data    []Item `json:"data"`
	HasMore bool   `json:"has_more,omitempty"`
}

// ErrorResponse represents an OpenAI API error body
type ErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}

// APIError represents an error with status code
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// OpenAIClient is the OpenAI API client
type OpenAIClient struct {
	httpClient *http.Client
	config     *config.Config
}

// NewOpenAIClient creates a new OpenAI client.
// With cfg.Debug set, every request/response is logged through the
// structured logger with sensitive headers redacted.
func NewOpenAIClient(cfg *config.Config) *OpenAIClient {
	transport := http.DefaultTransport

	if cfg.Debug {
		logger := logging.New(logging.Options{
			Level:  logging.LevelDebug,
			Format: logging.FormatJSON,
		})
		transport = logging.NewLoggingRoundTripper(http.DefaultTransport, logging.NewHTTPLogger(logger), true)
	}

	return &OpenAIClient{
		httpClient: &http.Client{
			Timeout:   constants.DefaultAPITimeout,
			Transport: transport,
		},
		config: cfg,
	}
}

// CreateResponse sends input items to the Responses API and returns the
// model's response (assistant message, function calls, usage).
func (c *OpenAIClient) CreateResponse(ctx context.Context, req *ResponseRequest) (*Response, error) {
	if req.Model == "" {
		req.Model = c.config.Model
	}

	jsonData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	// Retry transient failures before giving up on the turn
	return WithRetry(ctx, func() (*Response, error) {
		var resp Response
		if err := c.post(ctx, "/responses", jsonData, &resp); err != nil {
			return nil, err
		}
		return &resp, nil
	})
}

// CreateConversation creates a server-side conversation and returns its id
func (c *OpenAIClient) CreateConversation(ctx context.Context, metadata map[string]string) (*Conversation, error) {
	jsonData, err := json.Marshal(conversationRequest{Metadata: metadata})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	return WithRetry(ctx, func() (*Conversation, error) {
		var conv Conversation
		if err := c.post(ctx, "/conversations", jsonData, &conv); err != nil {
			return nil, err
		}
		return &conv, nil
	})
}

// ListConversationItems lists the items of a conversation in ascending order
func (c *OpenAIClient) ListConversationItems(ctx context.Context, conversationID string, limit int) (*ConversationItemList, error) {
	if limit <= 0 {
		limit = constants.MaxHistoryItems
	}

	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))
	params.Set("order", "asc")
	path := fmt.Sprintf("/conversations/%s/items?%s", url.PathEscape(conversationID), params.Encode())

	return WithRetry(ctx, func() (*ConversationItemList, error) {
		var items ConversationItemList
		if err := c.get(ctx, path, &items); err != nil {
			return nil, err
		}
		return &items, nil
	})
}

// Close is a no-op for OpenAIClient as it doesn't hold any resources
func (c *OpenAIClient) Close() {
	// No resources to clean up
}

// post sends a JSON POST request and decodes the response into out
func (c *OpenAIClient) post(ctx context.Context, path string, body []byte, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+path, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)

	return c.do(req, out)
}

// get sends a GET request and decodes the response into out
func (c *OpenAIClient) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)

	return c.do(req, out)
}

func (c *OpenAIClient) do(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp ErrorResponse
		errMsg := fmt.Sprintf("status code %d", resp.StatusCode)
		if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
			errMsg = errResp.Error.Message
		}
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("OpenAI API error: %s", errMsg),
		}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	return nil
}
