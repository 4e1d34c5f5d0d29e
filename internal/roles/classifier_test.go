package roles

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func chatContent(content string) string {
	resp := map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	}
	b, _ := json.Marshal(resp)
	return string(b)
}

func TestOpenAIClassifierClassify(t *testing.T) {
	var gotAuth string
	var gotReq chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		w.Write([]byte(chatContent(`{"role":"DISPUTE","confidence":0.8,"reason":"contradicts"}`)))
	}))
	defer srv.Close()

	c := NewOpenAIClassifier(
		WithBaseURL(srv.URL),
		WithAPIKey("sk-test"),
		WithModel("test-model"),
		WithRateLimit(1000),
	)

	cls, err := c.Classify(context.Background(), Request{
		CitingTitle: "A", CitingAbstract: "a-abs",
		CitedTitle: "B", CitedAbstract: "b-abs",
	})
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if cls.Role != RoleDispute || cls.Confidence != 0.8 {
		t.Errorf("Classify() = %+v", cls)
	}

	if gotAuth != "Bearer sk-test" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotReq.Model != "test-model" {
		t.Errorf("model = %q", gotReq.Model)
	}
	if gotReq.ResponseFormat.Type != "json_object" {
		t.Errorf("response_format = %+v, want json_object", gotReq.ResponseFormat)
	}
	if len(gotReq.Messages) != 2 || gotReq.Messages[0].Role != "system" {
		t.Errorf("messages = %+v", gotReq.Messages)
	}
}

func TestOpenAIClassifierMalformedContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(chatContent(`sorry, I cannot respond in JSON today`)))
	}))
	defer srv.Close()

	c := NewOpenAIClassifier(WithBaseURL(srv.URL), WithRateLimit(1000))
	_, err := c.Classify(context.Background(), Request{CitingTitle: "A", CitedTitle: "B"})
	if !errors.Is(err, ErrMalformedResponse) {
		t.Errorf("error = %v, want ErrMalformedResponse", err)
	}
}

func TestOpenAIClassifierServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewOpenAIClassifier(WithBaseURL(srv.URL), WithRateLimit(1000))
	_, err := c.Classify(context.Background(), Request{CitingTitle: "A", CitedTitle: "B"})
	if err == nil {
		t.Fatal("expected error on 429")
	}
	if errors.Is(err, ErrMalformedResponse) {
		t.Error("transport-level failure must not look like a malformed response")
	}
}
