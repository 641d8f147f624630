// Command server runs a live racer session and serves it over HTTP and
// websockets. Settings come from RACER_* environment variables, optionally
// loaded from a .env file.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cxd309/racer-engine/internal/config"
	"github.com/cxd309/racer-engine/internal/game"
	"github.com/cxd309/racer-engine/internal/server"
	"github.com/cxd309/racer-engine/internal/track"
	"github.com/cxd309/racer-engine/internal/vehicle"
)

func main() {
	logger := server.NewLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("config: %v", err)
	}

	data := track.Default()
	if cfg.TrackFile != "" {
		if data, err = track.LoadFile(cfg.TrackFile); err != nil {
			logger.Fatalf("track: %v", err)
		}
	}
	curve, err := data.Build()
	if err != nil {
		logger.Fatalf("track: %v", err)
	}
	sampler, err := track.NewSampler(curve)
	if err != nil {
		logger.Fatalf("track: %v", err)
	}
	car, err := vehicle.NewCar(vehicle.Default(), sampler, 0)
	if err != nil {
		logger.Fatalf("vehicle: %v", err)
	}

	host := server.NewHost(game.NewSession(car), sampler, server.Options{
		TickHz:   cfg.TickHz,
		Encoding: cfg.Encoding,
		Logger:   logger,
	})

	assets, err := server.ResolveAssetsDir(cfg.AssetsDir)
	if err != nil {
		if cfg.AssetsDir != "" {
			logger.Fatalf("%v", err)
		}
		logger.Printf("no static assets: %v", err)
		assets = ""
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go host.Run(ctx)

	srv := &http.Server{Addr: cfg.Addr, Handler: server.NewHandler(host, assets)}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Printf("shutdown: %v", err)
		}
	}()

	logger.Printf("track %q (%.0f long), listening on %s", data.Name, sampler.Length(), cfg.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalf("server failed: %v", err)
	}
	<-host.Done()
}
