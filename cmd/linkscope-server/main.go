// linkscope-server exposes the investigation graph builder over HTTP:
// REST and GraphQL query endpoints, payload caching, focus publishing
// for connected explorers, and case snapshot archiving.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/dmorval/linkscope/pkg/api"
	"github.com/dmorval/linkscope/pkg/archive"
	"github.com/dmorval/linkscope/pkg/auth"
	"github.com/dmorval/linkscope/pkg/config"
	"github.com/dmorval/linkscope/pkg/events"
	"github.com/dmorval/linkscope/pkg/focusbus"
	"github.com/dmorval/linkscope/pkg/graph"
	"github.com/dmorval/linkscope/pkg/logging"
	"github.com/dmorval/linkscope/pkg/metrics"
	"github.com/dmorval/linkscope/pkg/server"
)

func main() {
	configPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	logger := logging.DefaultLogger().With(logging.Component("main"))

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	var store events.Store
	if cfg.Database.DSN != "" {
		pg, err := events.Connect(ctx, cfg.Database.DSN, logger)
		if err != nil {
			logger.Error("database connect failed", logging.Error(err))
			os.Exit(1)
		}
		defer pg.Close()
		store = pg
	} else {
		logger.Warn("no database configured, serving the built-in demo dataset")
		store = events.NewDemoStore()
	}

	reg := metrics.DefaultRegistry()
	builder := graph.NewBuilder(store, graph.WithLogger(logger))

	opts := []api.Option{
		api.WithCache(graph.NewPayloadCache(cfg.Cache.MaxPayloads)),
	}

	if cfg.Auth.JWTSecret != "" {
		jwtManager, err := auth.NewJWTManager(cfg.Auth.JWTSecret, 24*time.Hour)
		if err != nil {
			logger.Error("auth setup failed", logging.Error(err))
			os.Exit(1)
		}
		opts = append(opts, api.WithAuth(jwtManager))
	} else {
		logger.Warn("auth disabled, API is open")
	}

	if cfg.FocusBus.Listen != "" {
		pub, err := focusbus.NewPublisher(cfg.FocusBus.Listen, logger)
		if err != nil {
			logger.Error("focus bus listen failed", logging.Error(err))
			os.Exit(1)
		}
		defer pub.Close()
		opts = append(opts, api.WithFocusPublisher(pub))
		logger.Info("focus bus listening", logging.String("addr", cfg.FocusBus.Listen))
	}

	if cfg.Archive.Bucket != "" {
		archiver, err := archive.New(ctx, archive.Options{
			Bucket:    cfg.Archive.Bucket,
			Prefix:    cfg.Archive.Prefix,
			Region:    cfg.Archive.Region,
			Endpoint:  cfg.Archive.Endpoint,
			AccessKey: cfg.Archive.AccessKey,
			SecretKey: cfg.Archive.SecretKey,
		}, logger)
		if err != nil {
			logger.Error("archive setup failed", logging.Error(err))
			os.Exit(1)
		}
		opts = append(opts, api.WithArchiver(archiver))
	}

	apiServer := api.NewServer(store, builder, reg, logger, opts...)

	srv := server.NewGracefulServer(cfg.Listen, apiServer.Handler(), logger)
	if err := srv.Start(); err != nil {
		logger.Error("server failed", logging.Error(err))
		os.Exit(1)
	}
	logger.Info("server stopped")
}
