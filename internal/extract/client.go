package extract

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2/google"

	"github.com/umehtaji1981-tech/samaj-setu/internal/retry"
)

const (
	requestTimeout  = 90 * time.Second
	generativeScope = "https://www.googleapis.com/auth/generative-language"
	maxErrorBody    = 2048
)

// Part is one piece of a prompt: text or inline file data
type Part struct {
	Text     string
	MIMEType string
	Data     []byte
}

// Generator produces a JSON reply for a prompt
type Generator interface {
	Generate(ctx context.Context, model string, parts []Part, schema map[string]any) (string, error)
}

// ClientOptions configures the Gemini client
type ClientOptions struct {
	BaseURL string
	// APIKey authenticates with a key. When empty, Google application
	// default credentials are used.
	APIKey     string
	HTTPClient *http.Client
	Policy     retry.Policy
	Logger     *zap.SugaredLogger
}

// Client calls the Gemini generateContent REST endpoint
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	policy     retry.Policy
	logger     *zap.SugaredLogger
}

// NewClient creates a Gemini client
func NewClient(ctx context.Context, opts ClientOptions) (*Client, error) {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		if opts.APIKey != "" {
			httpClient = &http.Client{Timeout: requestTimeout}
		} else {
			c, err := google.DefaultClient(ctx, generativeScope)
			if err != nil {
				return nil, fmt.Errorf("failed to load application default credentials: %w", err)
			}
			c.Timeout = requestTimeout
			httpClient = c
		}
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		apiKey:     opts.APIKey,
		httpClient: httpClient,
		policy:     opts.Policy,
		logger:     logger,
	}, nil
}

type inlineData struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"`
}

type wirePart struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type content struct {
	Role  string     `json:"role,omitempty"`
	Parts []wirePart `json:"parts"`
}

type generationConfig struct {
	ResponseMIMEType string         `json:"responseMimeType"`
	ResponseSchema   map[string]any `json:"responseSchema,omitempty"`
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
}

// Generate sends the prompt and returns the text of the first candidate.
// Rate-limit failures are retried per the client's policy; anything else,
// or running out of retries, gives an *ExternalServiceError.
func (c *Client) Generate(ctx context.Context, model string, parts []Part, schema map[string]any) (string, error) {
	body, err := json.Marshal(buildRequest(parts, schema))
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	policy := c.policy
	policy.OnRetry = func(attempt int, delay time.Duration, err error) {
		c.logger.Warnw("AI call rate limited, retrying", "model", model, "attempt", attempt, "delay", delay, "error", err)
	}

	text, err := retry.Do(ctx, policy, func(ctx context.Context) (string, error) {
		return c.post(ctx, model, body)
	})
	if err != nil {
		return "", &ExternalServiceError{Op: "generate " + model, Err: err}
	}
	return text, nil
}

func buildRequest(parts []Part, schema map[string]any) generateRequest {
	wire := make([]wirePart, 0, len(parts))
	for _, p := range parts {
		if len(p.Data) > 0 {
			wire = append(wire, wirePart{InlineData: &inlineData{
				MIMEType: p.MIMEType,
				Data:     base64.StdEncoding.EncodeToString(p.Data),
			}})
			continue
		}
		wire = append(wire, wirePart{Text: p.Text})
	}
	return generateRequest{
		Contents: []content{{Role: "user", Parts: wire}},
		GenerationConfig: generationConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   schema,
		},
	}
}

func (c *Client) post(ctx context.Context, model string, body []byte) (string, error) {
	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, url.PathEscape(model))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	// The key stays out of the URL so transport errors never carry it
	if c.apiKey != "" {
		req.Header.Set("x-goog-api-key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call model: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return "", fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	var b strings.Builder
	if len(out.Candidates) > 0 {
		for _, p := range out.Candidates[0].Content.Parts {
			b.WriteString(p.Text)
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("model returned no content")
	}
	return b.String(), nil
}
