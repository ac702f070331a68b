package genclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"quizkit/internal/archive"
	"quizkit/internal/quiz"
)

const (
	DefaultTimeout = 60 * time.Second

	ModeExam = "exam"
)

var (
	ErrServiceUnavailable = errors.New("quiz service unavailable")
	ErrInvalidEndpoint    = errors.New("invalid endpoint")
	ErrGenerationFailed   = errors.New("generation failed")
)

type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if strings.TrimSpace(e.Message) == "" {
		return fmt.Sprintf("request failed with status %d", e.StatusCode)
	}
	return e.Message
}

// GenerateRequest is the body posted to the chat endpoint. Count travels as a
// string, the way the generation backend expects form values.
type GenerateRequest struct {
	Mode       string `json:"mode"`
	Query      string `json:"query"`
	Difficulty string `json:"difficulty"`
	Count      int    `json:"count,string"`
}

// Envelope is the generation response. Data is left raw and Body keeps the
// whole decoded object, since generators differ in where they put content.
type Envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	Body    map[string]any  `json:"-"`
}

// Content returns the quiz content of e. The data payload is searched first,
// then the rest of the envelope. A top-level string message is status text
// and never counts as content.
func (e Envelope) Content() string {
	if content := quiz.ExtractContent(e.Data); content != "" {
		return content
	}
	rest := make(map[string]any, len(e.Body))
	for key, value := range e.Body {
		if key == "success" {
			continue
		}
		if _, isText := value.(string); isText && key == "message" {
			continue
		}
		rest[key] = value
	}
	return quiz.ExtractContent(rest)
}

// envelopeWire tolerates a non-string message, which some generators use for
// the reply itself.
type envelopeWire struct {
	Success bool            `json:"success"`
	Message json.RawMessage `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decodeEnvelope(raw []byte) (Envelope, error) {
	var wire envelopeWire
	if err := json.Unmarshal(raw, &wire); err != nil {
		return Envelope{}, err
	}
	envelope := Envelope{Success: wire.Success, Data: wire.Data}
	if len(wire.Message) > 0 {
		_ = json.Unmarshal(wire.Message, &envelope.Message)
	}
	if err := json.Unmarshal(raw, &envelope.Body); err != nil {
		return Envelope{}, err
	}
	return envelope, nil
}

type loadResponse struct {
	Success bool               `json:"success"`
	Message string             `json:"message,omitempty"`
	Data    *archive.SavedQuiz `json:"data,omitempty"`
}

type pagesResponse struct {
	Success bool                  `json:"success"`
	Pages   []archive.PageSummary `json:"pages"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type Client struct {
	endpoint   string
	httpClient *http.Client
}

// New validates endpoint eagerly so a misconfigured host fails at startup.
func New(endpoint string, httpClient *http.Client) (*Client, error) {
	if _, err := BuildAPIURL(endpoint, ""); err != nil {
		return nil, err
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &Client{
		endpoint:   endpoint,
		httpClient: httpClient,
	}, nil
}

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// BuildAPIURL resolves endpoint relative to base. Markup tags and HTML
// entities that leak in from templated page attributes are removed first.
// Query and fragment of base are dropped.
func BuildAPIURL(base, endpoint string) (string, error) {
	clean := strings.TrimSpace(html.UnescapeString(tagPattern.ReplaceAllString(base, "")))
	if !strings.HasPrefix(clean, "http://") && !strings.HasPrefix(clean, "https://") {
		return "", fmt.Errorf("%w: %q", ErrInvalidEndpoint, clean)
	}

	parsed, err := url.Parse(clean)
	if err != nil || parsed.Host == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidEndpoint, clean)
	}

	path := strings.TrimRight(parsed.Path, "/")
	if endpoint = strings.Trim(endpoint, "/"); endpoint != "" {
		path += "/" + endpoint
	}
	return parsed.Scheme + "://" + parsed.Host + path, nil
}

// Generate asks the backend for new quiz content.
func (c *Client) Generate(ctx context.Context, request GenerateRequest) (Envelope, error) {
	if request.Mode == "" {
		request.Mode = ModeExam
	}

	var raw json.RawMessage
	if err := c.doJSON(ctx, http.MethodPost, "chat", nil, request, &raw); err != nil {
		return Envelope{}, err
	}
	envelope, err := decodeEnvelope(raw)
	if err != nil {
		return Envelope{}, fmt.Errorf("decode generation response: %w", err)
	}
	if !envelope.Success {
		message := strings.TrimSpace(envelope.Message)
		if message == "" {
			message = "no content returned"
		}
		return Envelope{}, fmt.Errorf("%w: %s", ErrGenerationFailed, message)
	}
	return envelope, nil
}

func (c *Client) Save(ctx context.Context, saved archive.SavedQuiz) error {
	return c.doJSON(ctx, http.MethodPost, "save", nil, saved, nil)
}

// Load returns the content saved for pageURL, or nil when nothing was saved.
func (c *Client) Load(ctx context.Context, pageURL string) (*archive.SavedQuiz, error) {
	query := url.Values{}
	query.Set("pageUrl", pageURL)

	var payload loadResponse
	err := c.doJSON(ctx, http.MethodGet, "load", query, nil, &payload)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}
	if !payload.Success || payload.Data == nil || payload.Data.Content == "" {
		return nil, nil
	}
	return payload.Data, nil
}

func (c *Client) Pages(ctx context.Context, limit int) ([]archive.PageSummary, error) {
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	var payload pagesResponse
	if err := c.doJSON(ctx, http.MethodGet, "pages", query, nil, &payload); err != nil {
		return nil, err
	}
	return payload.Pages, nil
}

func (c *Client) doJSON(ctx context.Context, method, endpoint string, query url.Values, requestBody any, responseBody any) error {
	fullURL, err := BuildAPIURL(c.endpoint, endpoint)
	if err != nil {
		return err
	}
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	var body io.Reader
	if requestBody != nil {
		encoded, err := json.Marshal(requestBody)
		if err != nil {
			return err
		}
		body = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return err
	}
	request.Header.Set("Accept", "application/json")
	if requestBody != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer response.Body.Close()

	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		apiErr := APIError{StatusCode: response.StatusCode}
		var payload errorResponse
		if err := json.NewDecoder(response.Body).Decode(&payload); err == nil {
			apiErr.Message = strings.TrimSpace(payload.Error)
			if apiErr.Message == "" {
				apiErr.Message = strings.TrimSpace(payload.Message)
			}
		}
		if apiErr.Message == "" {
			apiErr.Message = response.Status
		}
		return &apiErr
	}

	if responseBody == nil {
		return nil
	}
	return json.NewDecoder(response.Body).Decode(responseBody)
}
