// Package llm talks to hosted language models. Every backend implements
// Provider; decorators add retries and request logging on top.
package llm

import (
	"context"
	"encoding/json"
)

// Provider generates one response for one request.
type Provider interface {
	// Generate sends req and returns the model's answer. With req.Schema set
	// the provider asks for structured output and Content is JSON that has
	// been validated against the schema.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model the provider sends requests to.
	ModelID() string
}

// ImageGenerator renders a picture from a text prompt.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, req ImageRequest) (*Image, error)
}

// Request is a prompt plus generation settings.
type Request struct {
	System   string
	Messages []Message

	// Schema, when set, constrains the answer to JSON matching it. Without
	// a schema the answer is free text.
	Schema *Schema

	MaxTokens int

	// Temperature in [0, 1]. Zero leaves the provider default.
	Temperature float64
}

// Message is one turn of the conversation.
type Message struct {
	Role    Role
	Content string
}

// Role is the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// UserPrompt builds a single-turn request.
func UserPrompt(system, prompt string) Request {
	return Request{
		System:   system,
		Messages: []Message{{Role: RoleUser, Content: prompt}},
	}
}

// Schema describes the JSON a structured request expects back.
type Schema struct {
	// Name is a kebab-case identifier, e.g. "book-recommendations". It doubles
	// as the schema cache key.
	Name        string
	Description string
	Definition  map[string]any
}

// Response is the model's answer.
type Response struct {
	// Content is validated JSON for structured requests and the raw answer
	// otherwise.
	Content    json.RawMessage
	Usage      Usage
	Model      string
	StopReason string // "end" or "max_tokens"
}

// Text returns Content as plain text. A JSON string is unquoted; anything
// else is returned as is.
func (r *Response) Text() string {
	if r == nil {
		return ""
	}
	var s string
	if err := json.Unmarshal(r.Content, &s); err == nil {
		return s
	}
	return string(r.Content)
}

// Usage is the token count of one request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// ImageRequest asks for a single image.
type ImageRequest struct {
	Prompt      string
	AspectRatio string // e.g. "3:4"
	MIMEType    string // e.g. "image/jpeg"
}

// Image is a rendered picture.
type Image struct {
	Data     []byte
	MIMEType string
	Model    string
}
