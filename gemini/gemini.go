// Package gemini implements [parley.Completer] for the Google Gemini API.
//
// It wraps the google.golang.org/genai SDK, translating a thread's messages
// into Gemini turns and mapping SDK failures onto the
// [parley.CompletionError] taxonomy. Each call is a single attempt.
package gemini

const (
	defaultModel = "gemini-2.0-flash"

	// Generation settings attached to every request.
	temperature     = 0.9
	topP            = 1
	topK            = 1
	maxOutputTokens = 2048

	// defaultServiceMessage is used when an error payload carries no message.
	defaultServiceMessage = "Failed to get response from chatbot"
)
