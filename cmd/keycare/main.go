package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/keycare-ai/keycare/internal/config"
	"github.com/keycare-ai/keycare/internal/coordinator"
	"github.com/keycare-ai/keycare/internal/events"
	"github.com/keycare-ai/keycare/internal/health"
	"github.com/keycare-ai/keycare/internal/mediation"
	"github.com/keycare-ai/keycare/internal/mockbackend"
	"github.com/keycare-ai/keycare/internal/riskstate"
	"github.com/keycare-ai/keycare/internal/telemetry"
)

const version = "0.1.0"

func main() {
	cfgPath := flag.String("config", "keycare.yaml", "path to config yaml")
	mock := flag.Bool("mock", false, "run against an in-process mock mediation service")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	if *mock {
		shutdown, baseURL, err := mockbackend.Start("127.0.0.1:0", mockbackend.Options{Delay: 50 * time.Millisecond})
		if err != nil {
			log.Fatalf("start mock mediation service: %v", err)
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = shutdown(ctx)
		}()
		cfg.API.BaseURL = baseURL
	}

	if err := config.Validate(cfg); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	tel, err := telemetry.NewProvider(context.Background(), telemetry.Config{
		Enabled:  cfg.Telemetry.Enabled,
		Endpoint: cfg.Telemetry.Endpoint,
		Protocol: cfg.Telemetry.Protocol,
		Service:  "keycare",
		Version:  version,
	})
	if err != nil {
		log.Fatalf("init telemetry: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		tel.Shutdown(ctx)
	}()

	sinks, err := events.BuildSinks(cfg.Events)
	if err != nil {
		log.Fatalf("init event sinks: %v", err)
	}
	var emitter *events.Emitter
	if len(sinks) > 0 {
		emitter = events.NewEmitter(events.EmitterConfig{}, sinks)
		defer emitter.Close(context.Background())
	}

	client := mediation.NewClient(cfg.API.BaseURL, cfg.API.ConnectTimeout(), cfg.API.ReadTimeout(), cfg.API.MaxAttempts, cfg.API.RetryDelay())

	con := &console{}
	coord := coordinator.New(cfg, coordinator.Deps{
		API:       client,
		Presenter: con,
		Listener:  con,
		Emitter:   emitter,
		Telemetry: tel,
	})
	coord.Start()
	defer coord.Stop()

	fmt.Printf("keycare %s against %s\n", version, cfg.API.BaseURL)
	fmt.Println("type a line to simulate keystrokes; /clear resets the field, /rewrite [tone] asks for suggestions, /quit exits")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()

		switch {
		case line == "/quit":
			coord.SessionEnd()
			return
		case line == "/clear":
			coord.FieldReset()
		case strings.HasPrefix(line, "/rewrite"):
			tone := strings.TrimSpace(strings.TrimPrefix(line, "/rewrite"))
			coord.RequestRewrite(tone)
		case line == "":
			coord.FieldReset()
		default:
			// Simulate typing character by character; the trailing space is
			// the trigger point that issues the request immediately.
			for _, r := range line {
				coord.Type(string(r))
			}
			coord.Type(" ")
		}
	}
	if err := scanner.Err(); err != nil {
		log.Fatalf("read stdin: %v", err)
	}
}

// console renders the banner and suggestion output for the terminal. It is
// both the presenter and the coordinator listener; callbacks arrive on the
// coordinator's goroutine so plain printing is fine.
type console struct{}

func (c *console) Show(level riskstate.Level, explanation string, done func()) {
	fmt.Printf("\n[banner] %s", level)
	if explanation != "" {
		fmt.Printf(": %s", explanation)
	}
	fmt.Println()
	done()
}

func (c *console) Update(level riskstate.Level, explanation string) {
	fmt.Printf("\n[banner] %s", level)
	if explanation != "" {
		fmt.Printf(": %s", explanation)
	}
	fmt.Println()
}

func (c *console) Hide(done func()) {
	fmt.Println("\n[banner] cleared")
	done()
}

func (c *console) HideNow() {
	fmt.Println("\n[banner] reset")
}

func (c *console) RiskChanged(st riskstate.State) {
	fmt.Printf("\n[state] %s\n", st)
}

func (c *console) SuggestionsReady(sugs []mediation.Suggestion, source, notice string) {
	if notice != "" {
		fmt.Printf("\n[suggestions] (%s, %s)\n", source, notice)
	} else {
		fmt.Printf("\n[suggestions] (%s)\n", source)
	}
	for i, s := range sugs {
		fmt.Printf("  %d. %s", i+1, s.Text)
		if s.Reason != "" {
			fmt.Printf("  (%s)", s.Reason)
		}
		fmt.Println()
	}
}

func (c *console) HealthChanged(st health.Status) {
	fmt.Printf("\n[service] %s\n", st)
}
