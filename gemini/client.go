package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/fwojciec/parley"
	"google.golang.org/genai"
)

// Interface compliance check.
var _ parley.Completer = (*Client)(nil)

// Client implements [parley.Completer] for the Google Gemini API.
type Client struct {
	client *genai.Client
	model  string
}

// Option configures a [Client].
type Option func(*options)

type options struct {
	model      string
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
}

// WithModel sets the model ID. Default is gemini-2.0-flash.
func WithModel(model string) Option {
	return func(o *options) { o.model = model }
}

// WithBaseURL points the client at a different API endpoint.
func WithBaseURL(url string) Option {
	return func(o *options) { o.baseURL = url }
}

// WithHTTPClient sets the HTTP client used for requests. Its transport is
// wrapped to add the API key to every request.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) { o.httpClient = hc }
}

// WithTimeout bounds each request at the transport layer. Zero means no
// timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// New creates a new Gemini [Client] with the given API key and options.
func New(ctx context.Context, apiKey string, opts ...Option) (*Client, error) {
	o := options{model: defaultModel}
	for _, opt := range opts {
		opt(&o)
	}

	hc := &http.Client{}
	if o.httpClient != nil {
		*hc = *o.httpClient
	}
	if o.timeout > 0 {
		hc.Timeout = o.timeout
	}
	base := hc.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	hc.Transport = &keyTransport{key: apiKey, base: base}

	cfg := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: hc,
	}
	if o.baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: o.baseURL}
	}
	gc, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}
	return &Client{client: gc, model: o.model}, nil
}

// Complete sends history followed by userText and returns the first
// candidate's text unmodified.
func (c *Client) Complete(ctx context.Context, history []parley.Message, userText string) (string, error) {
	contents := ConvertMessages(history, userText)
	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, GenerationConfig())
	if err != nil {
		return "", classify(err)
	}
	text, ok := firstText(resp)
	if !ok {
		return "", &parley.CompletionError{
			Kind:    parley.ErrMalformedResponse,
			Message: "response has no candidate text",
		}
	}
	return text, nil
}

// ConvertMessages converts a thread's messages plus the new user text into
// genai Contents, oldest first. Exported for testing.
func ConvertMessages(history []parley.Message, userText string) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history)+1)
	for _, m := range history {
		role := genai.Role(genai.RoleUser)
		if m.Sender == parley.SenderBot {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Text, role))
	}
	return append(contents, genai.NewContentFromText(userText, genai.RoleUser))
}

// GenerationConfig returns the fixed generation settings sent with every
// request. Exported for testing.
func GenerationConfig() *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		Temperature:     genai.Ptr[float32](temperature),
		TopP:            genai.Ptr[float32](topP),
		TopK:            genai.Ptr[float32](topK),
		MaxOutputTokens: maxOutputTokens,
	}
}

func firstText(resp *genai.GenerateContentResponse) (string, bool) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", false
	}
	cand := resp.Candidates[0]
	if cand == nil || cand.Content == nil || len(cand.Content.Parts) == 0 || cand.Content.Parts[0] == nil {
		return "", false
	}
	part := cand.Content.Parts[0]
	if part.Text == "" {
		return "", false
	}
	return part.Text, true
}

// classify maps an SDK error onto the completion failure taxonomy.
func classify(err error) *parley.CompletionError {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return serviceError(apiErr, err)
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return serviceError(*apiErrPtr, err)
	}
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return &parley.CompletionError{Kind: parley.ErrMalformedResponse, Err: err}
	}
	return &parley.CompletionError{Kind: parley.ErrTransport, Err: err}
}

func serviceError(apiErr genai.APIError, err error) *parley.CompletionError {
	msg := apiErr.Message
	if msg == "" {
		msg = defaultServiceMessage
	}
	return &parley.CompletionError{Kind: parley.ErrService, Message: msg, Err: err}
}

// keyTransport delivers the API key as the "key" query parameter.
type keyTransport struct {
	key  string
	base http.RoundTripper
}

func (t *keyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	q := req.URL.Query()
	q.Set("key", t.key)
	req.URL.RawQuery = q.Encode()
	return t.base.RoundTrip(req)
}
