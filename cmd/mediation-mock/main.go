package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/keycare-ai/keycare/internal/mockbackend"
)

func main() {
	addr := flag.String("addr", "127.0.0.1:18090", "listen address for the mock mediation service")
	delayMS := flag.Int("delay-ms", 50, "artificial response delay in milliseconds")
	failEvery := flag.Int("fail-every", 0, "make every Nth /mediate call fail (0 disables)")
	flag.Parse()

	shutdown, baseURL, err := mockbackend.Start(*addr, mockbackend.Options{
		Delay:     time.Duration(*delayMS) * time.Millisecond,
		FailEvery: *failEvery,
	})
	if err != nil {
		log.Fatalf("start mock mediation service: %v", err)
	}
	log.Printf("serving on %s; Ctrl-C to stop", baseURL)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
