package main

import (
	"context"
	"log/slog"
	"memograph/app/config"
	"memograph/app/service/fetch"
	"memograph/app/service/graph"
	"memograph/app/service/toolserver"
	"memograph/app/util/mylog"
	"os"
	"os/signal"

	"github.com/gofiber/fiber/v2/log"
	"github.com/samber/do"
)

func main() {
	di := do.New()
	defer di.Shutdown()

	mylog.Preinit()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	do.ProvideValue(di, appCtx)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	do.ProvideValue(di, cfg)

	if err = mylog.Init(cfg); err != nil {
		log.Fatalf("logging init failed: %v", err)
	}

	do.Provide(di, graph.New)
	do.Provide(di, fetch.New)
	do.Provide(di, toolserver.New)

	slog.Info("Service started")

	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt)
		<-sigint

		log.Info("Shutting down...")

		cancel()
	}()

	if err = do.MustInvoke[*toolserver.Service](di).Run(appCtx); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
