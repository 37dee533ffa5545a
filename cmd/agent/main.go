package main

import (
	"context"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	"github.com/UzairFarooq1/NXS-jobcard/internal/client"
	"github.com/UzairFarooq1/NXS-jobcard/internal/config"
	"github.com/UzairFarooq1/NXS-jobcard/internal/handler"
	"github.com/UzairFarooq1/NXS-jobcard/internal/offline"
	"github.com/UzairFarooq1/NXS-jobcard/internal/router"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("Starting NXS job card agent...")

	// Load configuration
	cfg := config.MustLoadAgent()

	// The offline queue core: store, submitter, replayer, monitor
	store := offline.NewStore(cfg.QueuePath)
	submitter := client.NewSubmissionClient(cfg.ServerBaseURL, cfg.SubmitTimeout)
	replayer := offline.NewReplayer(store, submitter)

	probeAddr := cfg.ProbeAddr
	if probeAddr == "" {
		addr, err := probeAddrFromURL(cfg.ServerBaseURL)
		if err != nil {
			log.Fatalf("Cannot derive probe address from %s: %v", cfg.ServerBaseURL, err)
		}
		probeAddr = addr
	}

	replay := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*cfg.SubmitTimeout)
		defer cancel()

		remaining, err := replayer.Run(ctx)
		if err != nil {
			log.Printf("Replay failed: %v", err)
			return
		}
		log.Printf("Replay finished, %d submission(s) still pending", remaining)
	}

	monitor := offline.NewMonitor(
		offline.DialProbe(probeAddr, cfg.ProbeTimeout),
		cfg.ProbeInterval,
		replay,
	)
	monitor.Start()
	defer monitor.Stop()

	// Drain anything left over from a previous session.
	if monitor.Online() {
		go replay()
	}

	// Local API for the wizard UI
	agentHandler := handler.NewAgentHandler(store, monitor, replayer, submitter)
	r := router.NewAgent(router.AgentConfig{AgentHandler: agentHandler})

	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: r,
	}

	go func() {
		log.Printf("Agent listening on %s (submission service: %s)", cfg.ListenAddr, cfg.ServerBaseURL)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Agent server error: %v", err)
		}
	}()

	// Graceful shutdown; queued submissions stay on disk for the next run.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down agent...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Agent shutdown error: %v", err)
	}

	log.Println("Agent stopped")
}

// probeAddrFromURL extracts a dialable host:port from the server base URL.
func probeAddrFromURL(baseURL string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", err
	}
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		if u.Scheme == "https" {
			port = "443"
		} else {
			port = "80"
		}
	}
	return host + ":" + port, nil
}
