package mockbackend

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"testing"
)

func startTestServer(t *testing.T, opts Options) string {
	t.Helper()
	shutdown, baseURL, err := Start("127.0.0.1:0", opts)
	if err != nil {
		t.Fatalf("start mock: %v", err)
	}
	t.Cleanup(func() { _ = shutdown(context.Background()) })
	return baseURL
}

func postJSON(t *testing.T, url string, body map[string]any) map[string]any {
	t.Helper()
	payload, _ := json.Marshal(body)
	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return out
}

func TestHealthEndpoint(t *testing.T) {
	baseURL := startTestServer(t, Options{})
	resp, err := http.Get(baseURL + "/health")
	if err != nil {
		t.Fatalf("get health: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("health status %d", resp.StatusCode)
	}
}

func TestMediateVerdicts(t *testing.T) {
	baseURL := startTestServer(t, Options{})

	cases := []struct {
		text string
		want string
	}{
		{"see you tomorrow", "safe"},
		{"you are an idiot", "harmful"},
		{"I will kill you", "dangerous"},
	}
	for _, tc := range cases {
		out := postJSON(t, baseURL+"/mediate", map[string]any{"text": tc.text, "tone": "calm", "lang_hint": "auto"})
		if out["risk_level"] != tc.want {
			t.Fatalf("verdict for %q = %v, want %s", tc.text, out["risk_level"], tc.want)
		}
	}
}

func TestMediateLegacyRewriteShape(t *testing.T) {
	baseURL := startTestServer(t, Options{})

	out := postJSON(t, baseURL+"/mediate", map[string]any{
		"text": "shut up", "lang": "en", "tone": "calm", "risk_label": "harmful", "risk_score": 0.6,
	})
	sugs, ok := out["suggestions"].([]any)
	if !ok || len(sugs) != 3 {
		t.Fatalf("expected 3 suggestions, got %v", out)
	}
}

func TestFailureInjection(t *testing.T) {
	baseURL := startTestServer(t, Options{FailEvery: 2})

	payload, _ := json.Marshal(map[string]any{"text": "hi"})
	statuses := make([]int, 0, 4)
	for i := 0; i < 4; i++ {
		resp, err := http.Post(baseURL+"/mediate", "application/json", bytes.NewReader(payload))
		if err != nil {
			t.Fatalf("post: %v", err)
		}
		resp.Body.Close()
		statuses = append(statuses, resp.StatusCode)
	}
	if statuses[0] != http.StatusOK || statuses[1] != http.StatusBadGateway ||
		statuses[2] != http.StatusOK || statuses[3] != http.StatusBadGateway {
		t.Fatalf("unexpected status sequence %v", statuses)
	}
}
