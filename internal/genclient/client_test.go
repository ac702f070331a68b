package genclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"quizkit/internal/archive"
)

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func newTestClient(t *testing.T, endpoint string, httpClient *http.Client) *Client {
	t.Helper()
	client, err := New(endpoint, httpClient)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return client
}

func TestBuildAPIURL(t *testing.T) {
	cases := []struct {
		base, endpoint, want string
	}{
		{"https://api.test", "chat", "https://api.test/chat"},
		{"https://api.test/", "chat", "https://api.test/chat"},
		{"https://api.test/v1/", "/save", "https://api.test/v1/save"},
		{"  https://api.test/v1  ", "load", "https://api.test/v1/load"},
		{"https://api.test/v1?key=1#frag", "chat", "https://api.test/v1/chat"},
		{"<span>https://api.test</span>", "chat", "https://api.test/chat"},
		{"https://api.test:8443/base", "pages", "https://api.test:8443/base/pages"},
		{"http://api.test/x", "", "http://api.test/x"},
	}
	for _, tc := range cases {
		got, err := BuildAPIURL(tc.base, tc.endpoint)
		if err != nil {
			t.Fatalf("BuildAPIURL(%q, %q) failed: %v", tc.base, tc.endpoint, err)
		}
		if got != tc.want {
			t.Fatalf("BuildAPIURL(%q, %q) = %q, want %q", tc.base, tc.endpoint, got, tc.want)
		}
	}
}

func TestBuildAPIURLUnescapesEntities(t *testing.T) {
	got, err := BuildAPIURL("https://api.test/a&amp;b", "chat")
	if err != nil {
		t.Fatalf("BuildAPIURL failed: %v", err)
	}
	if got != "https://api.test/a&b/chat" {
		t.Fatalf("got %q", got)
	}
}

func TestBuildAPIURLRejectsNonHTTP(t *testing.T) {
	for _, base := range []string{"", "api.test/chat", "ftp://api.test", "//api.test", "https://"} {
		if _, err := BuildAPIURL(base, "chat"); !errors.Is(err, ErrInvalidEndpoint) {
			t.Fatalf("BuildAPIURL(%q) err = %v, want ErrInvalidEndpoint", base, err)
		}
	}
}

func TestNewRejectsInvalidEndpoint(t *testing.T) {
	if _, err := New("not a url", nil); !errors.Is(err, ErrInvalidEndpoint) {
		t.Fatalf("err = %v, want ErrInvalidEndpoint", err)
	}
}

func TestDoJSONReturnsServiceUnavailable(t *testing.T) {
	client := newTestClient(t, "http://example.test", &http.Client{
		Transport: roundTripperFunc(func(*http.Request) (*http.Response, error) {
			return nil, errors.New("dial error")
		}),
	})

	err := client.doJSON(context.Background(), http.MethodGet, "healthz", nil, nil, nil)
	if !errors.Is(err, ErrServiceUnavailable) {
		t.Fatalf("expected ErrServiceUnavailable wrapper, got %v", err)
	}
}

func TestDoJSONReturnsAPIErrorMessageFromBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(errorResponse{Error: "bad request payload"})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, server.Client())
	err := client.doJSON(context.Background(), http.MethodGet, "anything", nil, nil, nil)

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T (%v)", err, err)
	}
	if apiErr.StatusCode != http.StatusBadRequest {
		t.Fatalf("status code = %d, want %d", apiErr.StatusCode, http.StatusBadRequest)
	}
	if apiErr.Message != "bad request payload" {
		t.Fatalf("message = %q, want %q", apiErr.Message, "bad request payload")
	}
}

func TestGeneratePostsExamRequest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/chat" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Fatalf("content type = %q", ct)
		}
		raw, _ := io.ReadAll(r.Body)
		var body map[string]any
		if err := json.Unmarshal(raw, &body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body["mode"] != "exam" || body["query"] != "" || body["difficulty"] != "hard" || body["count"] != "5" {
			t.Fatalf("unexpected body: %s", raw)
		}

		_, _ = w.Write([]byte(`{"success":true,"data":{"choices":[{"message":{"content":"{{< quiz >}}{{< /quiz >}}"}}]}}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL+"/api/", server.Client())
	envelope, err := client.Generate(context.Background(), GenerateRequest{Difficulty: "hard", Count: 5})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if !envelope.Success || !strings.Contains(string(envelope.Data), "choices") {
		t.Fatalf("unexpected envelope: %+v", envelope)
	}
}

func TestGenerateKeepsTopLevelContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"choices":[{"message":{"content":"{{<quiz id=\"q\">}}{{</quiz>}}"}}]}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, server.Client())
	envelope, err := client.Generate(context.Background(), GenerateRequest{Difficulty: "medium", Count: 3})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if got := envelope.Content(); got != `{{<quiz id="q">}}{{</quiz>}}` {
		t.Fatalf("content = %q", got)
	}
}

func TestEnvelopeContent(t *testing.T) {
	cases := map[string]struct {
		body string
		want string
	}{
		"data payload":          {`{"success":true,"message":"ok","data":{"content":"from data"}}`, "from data"},
		"top-level result":      {`{"success":true,"result":{"output":"from result"}}`, "from result"},
		"top-level content":     {`{"success":true,"content":"direct"}`, "direct"},
		"message object":        {`{"success":true,"message":{"content":"from message"}}`, "from message"},
		"status message only":   {`{"success":true,"message":"done"}`, ""},
		"data wins over others": {`{"success":true,"data":"first","output":"second"}`, "first"},
	}
	for name, tc := range cases {
		envelope, err := decodeEnvelope([]byte(tc.body))
		if err != nil {
			t.Fatalf("%s: decode failed: %v", name, err)
		}
		if got := envelope.Content(); got != tc.want {
			t.Fatalf("%s: content = %q, want %q", name, got, tc.want)
		}
	}

	envelope, err := decodeEnvelope([]byte(`{"success":false,"message":"model overloaded"}`))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if envelope.Success || envelope.Message != "model overloaded" {
		t.Fatalf("unexpected envelope: %+v", envelope)
	}
}

func TestGenerateUnsuccessfulEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"success":false,"message":"model overloaded"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, server.Client())
	_, err := client.Generate(context.Background(), GenerateRequest{Difficulty: "easy", Count: 1})
	if !errors.Is(err, ErrGenerationFailed) {
		t.Fatalf("err = %v, want ErrGenerationFailed", err)
	}
	if err.Error() != "generation failed: model overloaded" {
		t.Fatalf("err = %q", err.Error())
	}
}

func TestSaveSendsPayload(t *testing.T) {
	var got archive.SavedQuiz
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/save" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, server.Client())
	err := client.Save(context.Background(), archive.SavedQuiz{
		Content:  "content",
		Metadata: archive.Metadata{Difficulty: "medium", Count: 3, PageURL: "https://blog.test/p"},
	})
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if got.Content != "content" || got.Metadata.PageURL != "https://blog.test/p" || got.Metadata.Count != 3 {
		t.Fatalf("unexpected payload: %+v", got)
	}
}

func TestLoadBuildsQueryAndParsesResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/load" {
			t.Fatalf("path = %q", r.URL.Path)
		}
		if page := r.URL.Query().Get("pageUrl"); page != "https://blog.test/p?x=1" {
			t.Fatalf("pageUrl query = %q", page)
		}
		_, _ = w.Write([]byte(`{"success":true,"data":{"content":"saved","metadata":{"pageUrl":"https://blog.test/p?x=1","difficulty":"hard"}}}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, server.Client())
	saved, err := client.Load(context.Background(), "https://blog.test/p?x=1")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if saved == nil || saved.Content != "saved" || saved.Metadata.Difficulty != "hard" {
		t.Fatalf("unexpected saved quiz: %+v", saved)
	}
}

func TestLoadNotFoundIsEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"success":false,"message":"not found"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, server.Client())
	saved, err := client.Load(context.Background(), "https://blog.test/none")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if saved != nil {
		t.Fatalf("expected nil, got %+v", saved)
	}
}

func TestLoadServerErrorSurfaces(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, server.Client())
	_, err := client.Load(context.Background(), "https://blog.test/p")
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusInternalServerError {
		t.Fatalf("err = %v, want 500 APIError", err)
	}
}

func TestPagesParsesList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("limit") != "2" {
			t.Fatalf("limit query = %q", r.URL.Query().Get("limit"))
		}
		_, _ = w.Write([]byte(`{"success":true,"pages":[{"pageUrl":"https://a.test/1"},{"pageUrl":"https://a.test/2"}]}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, server.Client())
	pages, err := client.Pages(context.Background(), 2)
	if err != nil {
		t.Fatalf("Pages failed: %v", err)
	}
	if len(pages) != 2 || pages[1].PageURL != "https://a.test/2" {
		t.Fatalf("unexpected pages: %+v", pages)
	}
}
