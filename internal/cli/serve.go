package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/twisty"
	"github.com/SeamusWaldron/twisty/internal/transport/ws"
)

var (
	serveListen     string
	serveAckTimeout time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the puzzle to a remote renderer over WebSocket",
	Long: `Serve one puzzle on /ws. A single renderer may connect at a time. It
receives the sticker state, plays each queued turn and acknowledges it
before the turn is painted.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveListen, "listen", "", "Listen address (default from config)")
	serveCmd.Flags().DurationVar(&serveAckTimeout, "ack-timeout", 5*time.Second, "Time to wait for the renderer to finish a turn")
}

func runServe(cmd *cobra.Command, args []string) error {
	addr := serveListen
	if addr == "" {
		addr = cfg.Listen
	}

	bridge, err := ws.NewBridge(ws.WithLogger(logger), ws.WithAckTimeout(serveAckTimeout))
	if err != nil {
		return err
	}

	p, sessionID, cleanup, err := newSession("serve", twisty.WithAnimator(bridge.Animator))
	if err != nil {
		return err
	}
	defer cleanup()
	bridge.Attach(p)

	mux := http.NewServeMux()
	mux.Handle("/ws", bridge.Handler())
	mux.HandleFunc("/healthz", func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(http.StatusOK)
		_, _ = rw.Write([]byte("ok\n"))
	})

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	logger.Info("serving", "addr", addr, "session", sessionID, "size", p.Size())

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return p.Wait(shutdownCtx)
}
