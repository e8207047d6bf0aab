package ai

import (
	"context"
	"encoding/json"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/openai/openai-go/option"

	"github.com/kozaktomas/roster-sync/internal/constants"
)

var tatum = PronunciationRequest{
	League:      "NBA",
	PlayerName:  "Jayson Tatum",
	TeamID:      "boston-celtics",
	OriginLabel: "College",
	Origin:      "Duke",
}

const tatumJSON = `{"phonetic": "JAY-sun TAY-tum", "ipa": "/ˈdʒeɪsən ˈteɪtəm/", "chinese": "杰森·塔图姆"}`

// --- helpers tests ---

func TestBuildPronunciationPrompt(t *testing.T) {
	prompt := buildPronunciationPrompt(tatum)
	for _, want := range []string{"NBA player", "Name: Jayson Tatum", "Team: boston-celtics", "College: Duke"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
	if strings.Contains(prompt, "%!") {
		t.Errorf("prompt has formatting errors:\n%s", prompt)
	}
}

func TestBuildPronunciationPrompt_Defaults(t *testing.T) {
	prompt := buildPronunciationPrompt(PronunciationRequest{PlayerName: "Nikita Kucherov", TeamID: "tampa-bay-lightning"})
	if !strings.Contains(prompt, "Origin: N/A") {
		t.Errorf("expected N/A origin, got:\n%s", prompt)
	}
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"plain", `{"a":"b"}`, `{"a":"b"}`},
		{"code fence", "```json\n{\"a\":\"b\"}\n```", `{"a":"b"}`},
		{"prose around", `Sure! {"a":"b"} Hope this helps.`, `{"a":"b"}`},
		{"nested", `{"a":{"b":"c"}} tail`, `{"a":{"b":"c"}}`},
		{"brace in string", `{"a":"x}y"} tail`, `{"a":"x}y"}`},
		{"escaped quote", `{"a":"say \"}\""} tail`, `{"a":"say \"}\""}`},
		{"no object", "no json here", "no json here"},
		{"unterminated", `{"a":"b"`, `{"a":"b"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractJSON(tt.content); got != tt.want {
				t.Errorf("extractJSON() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParsePronunciation(t *testing.T) {
	p, err := parsePronunciation("```json\n" + tatumJSON + "\n```")
	if err != nil {
		t.Fatalf("parsePronunciation failed: %v", err)
	}
	if p.Phonetic != "JAY-sun TAY-tum" || p.IPA != "/ˈdʒeɪsən ˈteɪtəm/" || p.Chinese != "杰森·塔图姆" {
		t.Errorf("unexpected pronunciation: %+v", p)
	}
}

func TestParsePronunciation_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"not json", "I cannot help with that"},
		{"object value", `{"phonetic": {"en": "JAY-sun"}, "ipa": "x", "chinese": "y"}`},
		{"missing phonetic", `{"ipa": "x", "chinese": "y"}`},
		{"blank phonetic", `{"phonetic": "  ", "ipa": "x"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parsePronunciation(tt.content); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestUsage_Add(t *testing.T) {
	var u Usage
	u.add(1_000_000, 500_000, RequestPricing{Input: 0.40, Output: 1.60})
	u.add(0, 0, RequestPricing{Input: 0.40, Output: 1.60})

	if u.InputTokens != 1_000_000 || u.OutputTokens != 500_000 {
		t.Errorf("unexpected tokens: %+v", u)
	}
	if math.Abs(u.TotalCost-1.20) > 1e-9 {
		t.Errorf("expected cost 1.20, got %f", u.TotalCost)
	}
}

// --- OpenAI tests ---

func openAICompletion(content string) map[string]any {
	return map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": 1700000000,
		"model":   "gpt-4.1-mini",
		"choices": []map[string]any{{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]any{"role": "assistant", "content": content},
		}},
		"usage": map[string]any{"prompt_tokens": 100, "completion_tokens": 20, "total_tokens": 120},
	}
}

// scriptedServer answers successive requests with the given bodies and records request bodies.
type scriptedServer struct {
	mu       sync.Mutex
	answers  []any
	requests []string
}

func (s *scriptedServer) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		body, _ := io.ReadAll(r.Body)
		s.requests = append(s.requests, string(body))
		if len(s.answers) == 0 {
			t.Errorf("unexpected request %d", len(s.requests))
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		answer := s.answers[0]
		if len(s.answers) > 1 {
			s.answers = s.answers[1:]
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(answer)
	}
}

func newTestOpenAI(t *testing.T, answers ...any) (*OpenAIProvider, *scriptedServer) {
	t.Helper()
	s := &scriptedServer{answers: answers}
	server := httptest.NewServer(s.handler(t))
	t.Cleanup(server.Close)
	p := NewOpenAIProvider("test-key", RequestPricing{Input: 0.40, Output: 1.60},
		option.WithBaseURL(server.URL+"/"), option.WithMaxRetries(0))
	return p, s
}

func TestOpenAIProvider_Pronounce(t *testing.T) {
	p, s := newTestOpenAI(t, openAICompletion(tatumJSON))

	got, err := p.Pronounce(context.Background(), tatum)
	if err != nil {
		t.Fatalf("Pronounce failed: %v", err)
	}
	if got.Phonetic != "JAY-sun TAY-tum" {
		t.Errorf("unexpected phonetic %q", got.Phonetic)
	}
	if got.HardwareSafe != "JAYSON TATUM" {
		t.Errorf("unexpected hardware safe name %q", got.HardwareSafe)
	}
	if len(s.requests) != 1 {
		t.Fatalf("expected 1 request, got %d", len(s.requests))
	}
	if !strings.Contains(s.requests[0], "json_object") {
		t.Error("expected JSON response format in request")
	}

	usage := p.GetUsage()
	if usage.InputTokens != 100 || usage.OutputTokens != 20 {
		t.Errorf("unexpected usage: %+v", usage)
	}
	if usage.TotalCost <= 0 {
		t.Error("expected positive cost")
	}

	p.ResetUsage()
	if p.GetUsage().InputTokens != 0 {
		t.Error("expected usage reset")
	}
}

func TestOpenAIProvider_RetriesOnBrokenJSON(t *testing.T) {
	p, s := newTestOpenAI(t,
		openAICompletion(`{"phonetic": "JAY-sun TAY-tum", "ipa": "/x/"`),
		openAICompletion(tatumJSON),
	)

	got, err := p.Pronounce(context.Background(), tatum)
	if err != nil {
		t.Fatalf("Pronounce failed: %v", err)
	}
	if got.Chinese != "杰森·塔图姆" {
		t.Errorf("unexpected chinese %q", got.Chinese)
	}
	if len(s.requests) != 2 {
		t.Fatalf("expected 2 requests, got %d", len(s.requests))
	}
	if !strings.Contains(s.requests[1], "JSON parse error") {
		t.Error("expected repair prompt in second request")
	}
	if p.GetUsage().InputTokens != 200 {
		t.Errorf("expected usage from both attempts, got %d", p.GetUsage().InputTokens)
	}
}

func TestOpenAIProvider_GivesUp(t *testing.T) {
	p, s := newTestOpenAI(t, openAICompletion("not json at all"))

	_, err := p.Pronounce(context.Background(), tatum)
	if err == nil {
		t.Fatal("expected error")
	}
	if len(s.requests) != constants.MaxPronunciationRetries {
		t.Errorf("expected %d attempts, got %d", constants.MaxPronunciationRetries, len(s.requests))
	}
	if !strings.Contains(err.Error(), "not json at all") {
		t.Errorf("expected last response in error, got %v", err)
	}
}

// --- Gemini tests ---

func geminiResponse(content string) map[string]any {
	return map[string]any{
		"candidates": []map[string]any{{
			"content":      map[string]any{"role": "model", "parts": []map[string]any{{"text": content}}},
			"finishReason": "STOP",
		}},
		"usageMetadata": map[string]any{"promptTokenCount": 80, "candidatesTokenCount": 30, "totalTokenCount": 110},
	}
}

func TestGeminiProvider_Pronounce(t *testing.T) {
	s := &scriptedServer{answers: []any{geminiResponse("oops"), geminiResponse(tatumJSON)}}
	server := httptest.NewServer(s.handler(t))
	defer server.Close()

	p, err := NewGeminiProvider(context.Background(), "test-key", server.URL, RequestPricing{Input: 0.30, Output: 2.50})
	if err != nil {
		t.Fatalf("NewGeminiProvider failed: %v", err)
	}
	if p.Name() != geminiModel {
		t.Errorf("unexpected name %q", p.Name())
	}

	got, err := p.Pronounce(context.Background(), tatum)
	if err != nil {
		t.Fatalf("Pronounce failed: %v", err)
	}
	if got.IPA != "/ˈdʒeɪsən ˈteɪtəm/" {
		t.Errorf("unexpected ipa %q", got.IPA)
	}
	if len(s.requests) != 2 {
		t.Fatalf("expected 2 requests, got %d", len(s.requests))
	}
	if p.GetUsage().OutputTokens != 60 {
		t.Errorf("unexpected usage: %+v", p.GetUsage())
	}
}

// --- Ollama tests ---

func TestOllamaProvider_Pronounce(t *testing.T) {
	var gotPath string
	var gotReq ollamaRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotReq)
		json.NewEncoder(w).Encode(map[string]any{
			"model":             "llama3.1:8b",
			"message":           map[string]any{"role": "assistant", "content": "Here you go:\n" + tatumJSON},
			"done":              true,
			"prompt_eval_count": 50,
			"eval_count":        25,
		})
	}))
	defer server.Close()

	p := NewOllamaProvider(server.URL+"/", "")
	got, err := p.Pronounce(context.Background(), tatum)
	if err != nil {
		t.Fatalf("Pronounce failed: %v", err)
	}
	if gotPath != "/api/chat" {
		t.Errorf("unexpected path %q", gotPath)
	}
	if gotReq.Format != "json" || gotReq.Stream {
		t.Errorf("unexpected request: %+v", gotReq)
	}
	if got.Phonetic != "JAY-sun TAY-tum" {
		t.Errorf("unexpected phonetic %q", got.Phonetic)
	}
	if p.GetUsage().TotalCost != 0 || p.GetUsage().InputTokens != 50 {
		t.Errorf("unexpected usage: %+v", p.GetUsage())
	}
}

func TestOllamaProvider_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer server.Close()

	_, err := NewOllamaProvider(server.URL, "missing").Pronounce(context.Background(), tatum)
	if err == nil || !strings.Contains(err.Error(), "404") {
		t.Errorf("expected status error, got %v", err)
	}
}

func TestNewOllamaProvider_Defaults(t *testing.T) {
	p := NewOllamaProvider("", "")
	if p.baseURL != defaultOllamaURL || p.Name() != defaultOllamaModel {
		t.Errorf("unexpected defaults: %s %s", p.baseURL, p.Name())
	}
}
