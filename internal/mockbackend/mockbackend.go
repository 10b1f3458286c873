// Package mockbackend is a lightweight stand-in for the remote mediation
// service, used by the interactive console and by integration-style tests.
// Verdicts are keyword-based and deterministic.
package mockbackend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
)

const (
	defaultPort    = 18090
	defaultDelayMS = 50
)

// Options tune the mock's behavior. The zero value serves instantly and never
// fails.
type Options struct {
	Delay      time.Duration
	FailEvery  int // every Nth POST /mediate returns FailStatus; 0 disables
	FailStatus int // defaults to 502
}

// Start launches the mock mediation server. If addr is empty, it listens on
// 127.0.0.1:MOCK_MEDIATION_PORT (default 18090) with MOCK_DELAY_MS applied.
// It returns a shutdown function and the base URL.
func Start(addr string, opts Options) (func(context.Context) error, string, error) {
	if strings.TrimSpace(addr) == "" {
		port := strings.TrimSpace(os.Getenv("MOCK_MEDIATION_PORT"))
		if port == "" {
			port = fmt.Sprintf("%d", defaultPort)
		}
		addr = "127.0.0.1:" + port

		if opts.Delay == 0 {
			delay := defaultDelayMS
			if val := strings.TrimSpace(os.Getenv("MOCK_DELAY_MS")); val != "" {
				if parsed, err := strconv.Atoi(val); err == nil && parsed >= 0 {
					delay = parsed
				}
			}
			opts.Delay = time.Duration(delay) * time.Millisecond
		}
	}
	if opts.FailStatus == 0 {
		opts.FailStatus = http.StatusBadGateway
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, "", fmt.Errorf("listen on %s: %w", addr, err)
	}

	var requests atomic.Int64

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeNotFoundJSON(w)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})
	mux.HandleFunc("/mediate", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeNotFoundJSON(w)
			return
		}

		n := requests.Add(1)
		if opts.FailEvery > 0 && n%int64(opts.FailEvery) == 0 {
			http.Error(w, "mock failure", opts.FailStatus)
			return
		}
		if opts.Delay > 0 {
			time.Sleep(opts.Delay)
		}

		var body struct {
			Text      string `json:"text"`
			Tone      string `json:"tone"`
			LangHint  string `json:"lang_hint"`
			Lang      string `json:"lang"`
			RiskLabel string `json:"risk_label"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if body.RiskLabel != "" {
			// Rewrite contract: the caller already knows the verdict.
			_ = json.NewEncoder(w).Encode(rewriteResponse(body.Text))
			return
		}
		_ = json.NewEncoder(w).Encode(mediateResponse(body.Text, body.LangHint))
	})

	srv := &http.Server{Handler: mux}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("mock mediation server error: %v", err)
		}
	}()

	baseURL := "http://" + ln.Addr().String()
	log.Printf("mock mediation service listening on %s (delay=%s)", baseURL, opts.Delay)
	return srv.Shutdown, baseURL, nil
}

func mediateResponse(text, langHint string) map[string]any {
	level, why := classify(text)
	lang := langHint
	if lang == "" || lang == "auto" || lang == "darija" {
		lang = "en"
	}

	resp := map[string]any{
		"risk_level": level,
		"why":        why,
		"language":   lang,
	}
	switch level {
	case "dangerous":
		resp["rewrite"] = "I'm very upset right now and I need us to talk about this."
	case "harmful":
		resp["rewrite"] = "I didn't like that. Can we talk about it?"
	default:
		resp["rewrite"] = ""
	}
	return resp
}

func rewriteResponse(text string) map[string]any {
	return map[string]any{
		"suggestions": []map[string]string{
			{"text": "I'm upset about this and I'd like to talk it through.", "reason": "Calm approach"},
			{"text": "That wasn't okay with me. Please don't do it again.", "reason": "Clear boundaries"},
			{"text": "When that happened I felt hurt. Here's why it matters to me.", "reason": "Informative tone"},
		},
	}
}

func classify(text string) (level, why string) {
	lower := strings.ToLower(text)
	for _, kw := range []string{"kill", "hurt you", "destroy", "you'll regret"} {
		if strings.Contains(lower, kw) {
			return "dangerous", "Contains a threat of harm."
		}
	}
	for _, kw := range []string{"stupid", "idiot", "hate you", "shut up"} {
		if strings.Contains(lower, kw) {
			return "harmful", "Insulting language directed at the recipient."
		}
	}
	return "safe", ""
}

func writeNotFoundJSON(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"message": "Not found",
		},
	})
}
