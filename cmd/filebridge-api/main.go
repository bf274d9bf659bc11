package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/filebridge/filebridge/internal/config"
	"github.com/filebridge/filebridge/internal/logger"
	"github.com/filebridge/filebridge/internal/router"
	"github.com/filebridge/filebridge/internal/setup"
	"github.com/filebridge/filebridge/internal/upstream"
)

func main() {
	log.SetFlags(log.Lshortfile)

	var configFolder string
	flag.StringVar(&configFolder, "config_folder", "config", "path to folder with configs")
	flag.Parse()

	cfg := config.MustLoad(configFolder)
	logger.Initialize(cfg.Public.LogLevel, cfg.Public.LogJSON)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if len(cfg.Public.Sessions) == 0 {
		log.Fatal("at least one session agent must be configured")
	}
	sessions := upstream.NewAgentPool(cfg.Public.Sessions, cfg.Private.SessionToken)

	deps, err := setup.SetupDependencies(ctx, cfg, sessions)
	if err != nil {
		log.Fatal(err)
	}
	defer deps.Storage.Cleanup(context.Background())

	deps.Pending.StartSweeper(ctx, cfg.SweepInterval())

	server := &http.Server{
		Addr:    cfg.Public.ListenAddr,
		Handler: router.New(deps),
	}

	go func() {
		<-ctx.Done()
		log.Print("Shutting down")
		server.Shutdown(context.Background())
	}()

	log.Printf("Server started on %s", cfg.Public.ListenAddr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}
