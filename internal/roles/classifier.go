package roles

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"golang.org/x/time/rate"
)

// ErrMalformedResponse marks a classifier response that could not be parsed
// into a classification. Callers substitute a fallback annotation for it
// instead of aborting the batch.
var ErrMalformedResponse = errors.New("malformed classifier response")

// Classification is one classifier verdict.
type Classification struct {
	Role       Role    `json:"role"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason"`
}

// Request carries the citing/cited text a classifier sees.
type Request struct {
	CitingTitle    string
	CitingAbstract string
	CitedTitle     string
	CitedAbstract  string
}

// Classifier classifies the rhetorical role of one citation edge.
type Classifier interface {
	Classify(ctx context.Context, req Request) (Classification, error)
}

const (
	// OpenAIBaseURL is the default chat-completions endpoint base.
	OpenAIBaseURL = "https://api.openai.com"

	// DefaultModel is the default classification model.
	DefaultModel = "gpt-4.1-mini"

	// DefaultTimeout is the per-request HTTP timeout.
	DefaultTimeout = 60 * time.Second

	// RateLimit is 2 requests per second between classification calls.
	RateLimit = 2.0
)

// OpenAIClassifier classifies edges via an OpenAI-compatible chat-completions
// endpoint in JSON mode. Construct one per pipeline invocation and pass it in;
// there is no process-wide client.
type OpenAIClassifier struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	apiKey     string
	baseURL    string
	model      string
}

// OpenAIOption configures an OpenAIClassifier.
type OpenAIOption func(*OpenAIClassifier)

// WithAPIKey sets the API key.
func WithAPIKey(key string) OpenAIOption {
	return func(c *OpenAIClassifier) {
		c.apiKey = key
	}
}

// WithBaseURL sets a custom endpoint base URL (for testing or compatible
// providers).
func WithBaseURL(u string) OpenAIOption {
	return func(c *OpenAIClassifier) {
		c.baseURL = u
	}
}

// WithModel sets the model name.
func WithModel(model string) OpenAIOption {
	return func(c *OpenAIClassifier) {
		c.model = model
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) OpenAIOption {
	return func(c *OpenAIClassifier) {
		c.httpClient = hc
	}
}

// WithRateLimit overrides the requests-per-second limit.
func WithRateLimit(rps float64) OpenAIOption {
	return func(c *OpenAIClassifier) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// NewOpenAIClassifier creates a classifier. OPENAI_API_KEY and
// OPENAI_BASE_URL are picked up from the environment when set.
func NewOpenAIClassifier(opts ...OpenAIOption) *OpenAIClassifier {
	c := &OpenAIClassifier{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(RateLimit), 1),
		baseURL:    OpenAIBaseURL,
		model:      DefaultModel,
	}

	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		c.apiKey = key
	}
	if u := os.Getenv("OPENAI_BASE_URL"); u != "" {
		c.baseURL = u
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

const systemPrompt = `You are an expert assistant that classifies the rhetorical relationship between two academic papers. Paper A cites Paper B.

You are given the titles and abstracts of both papers. Infer how A most likely uses B in its argument.

Allowed roles:
- SUPPORT: A agrees with, confirms, extends, or relies positively on B's findings.
- DISPUTE: A disagrees with, challenges, contradicts, or shows opposing results to B.
- BACKGROUND: A mainly cites B as background, context, a general reference, or neutral mention without clear support or dispute.
- METHOD: A mainly uses, adapts, or evaluates methods from B, independent of whether it supports or disputes B's substantive claims.

If you cannot clearly infer support or dispute from A's abstract, prefer BACKGROUND or METHOD.

Return a JSON object with fields:
{
  "role": "SUPPORT" | "DISPUTE" | "BACKGROUND" | "METHOD",
  "confidence": number between 0 and 1,
  "reason": short explanation (1-3 sentences)
}`

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	Temperature    float64        `json:"temperature"`
	ResponseFormat responseFormat `json:"response_format"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Classify sends one edge to the chat-completions endpoint and parses the
// verdict. A response whose content cannot be parsed returns a zero
// Classification and an error wrapping ErrMalformedResponse.
func (c *OpenAIClassifier) Classify(ctx context.Context, req Request) (Classification, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return Classification{}, err
	}

	userPrompt := fmt.Sprintf(
		"Classify the relationship between these two papers.\n\n"+
			"Paper A (citing):\nTITLE: %s\nABSTRACT: %s\n\n"+
			"Paper B (cited):\nTITLE: %s\nABSTRACT: %s\n",
		req.CitingTitle, req.CitingAbstract, req.CitedTitle, req.CitedAbstract,
	)

	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Temperature:    0.2,
		ResponseFormat: responseFormat{Type: "json_object"},
	})
	if err != nil {
		return Classification{}, fmt.Errorf("encoding request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return Classification{}, fmt.Errorf("building request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return Classification{}, fmt.Errorf("classification request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return Classification{}, fmt.Errorf("classification request: status %d: %s", resp.StatusCode, respBody)
	}

	var chat chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chat); err != nil {
		return Classification{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if len(chat.Choices) == 0 {
		return Classification{}, fmt.Errorf("%w: no choices", ErrMalformedResponse)
	}

	return ParseClassification(chat.Choices[0].Message.Content)
}

// ParseClassification parses the model's JSON content into a Classification.
// Unknown roles coerce to BACKGROUND and confidence is clamped to [0,1];
// content that is not a JSON object at all returns ErrMalformedResponse.
func ParseClassification(content string) (Classification, error) {
	var raw struct {
		Role       string          `json:"role"`
		Confidence json.RawMessage `json:"confidence"`
		Reason     string          `json:"reason"`
	}
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return Classification{}, fmt.Errorf("%w: %q", ErrMalformedResponse, content)
	}

	role := Role(raw.Role)
	if !ValidRole(role) {
		role = RoleBackground
	}

	confidence := 0.5
	if len(raw.Confidence) > 0 {
		var f float64
		if err := json.Unmarshal(raw.Confidence, &f); err == nil {
			confidence = f
		}
	}
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}

	return Classification{Role: role, Confidence: confidence, Reason: raw.Reason}, nil
}
