// Package api provides a typed HTTP client for the OpenAI Responses and
// Conversations APIs.
//
// # Architecture
//
//   - client.go: Client interface and provider construction
//   - openai.go: wire types and the OpenAI implementation
//   - tools.go: tool definitions offered to the model
//   - retry.go: retry logic for transient failures
//
// The Responses API is the single request/response surface: it accepts a
// list of input items (user messages, tool outputs), and returns a list of
// output items (assistant messages, function calls, web search calls) plus
// token usage. Server-side conversation state is keyed by an opaque
// conversation id created through the Conversations API; the client never
// inspects or fabricates that id.
//
// # Error Handling
//
// HTTP-level failures surface as *APIError carrying the status code, which
// retry logic uses to distinguish transient errors (429, 5xx) from permanent
// ones. All requests accept a context for cancellation.
package api
