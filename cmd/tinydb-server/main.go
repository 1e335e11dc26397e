package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tinyDB/internal/config"
	"tinyDB/internal/engine"
	"tinyDB/internal/schema"
	"tinyDB/internal/server"
	"tinyDB/internal/storage"
	"tinyDB/internal/storage/filestore"
	"tinyDB/internal/storage/memstore"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "tinydb-server:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadFromOS()
	if err != nil {
		return err
	}

	lvl, err := cfg.Level()
	if err != nil {
		return err
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(log)

	s, err := schema.LoadFile(cfg.SchemaPath)
	if err != nil {
		return err
	}
	log.Info("schema loaded", "path", cfg.SchemaPath, "tables", s.TableNames())

	store, err := openStore(cfg, s, log)
	if err != nil {
		return err
	}

	eng := engine.New(s, store)
	defer func() {
		if err := eng.Close(); err != nil {
			log.Error("close storage", "err", err)
			return
		}
		log.Info("storage flushed and closed")
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.FlushInterval > 0 {
		go flushLoop(ctx, eng, cfg.FlushInterval, log)
	}

	return server.New(eng, log).ListenAndServe(ctx, cfg.Addr)
}

func openStore(cfg config.Config, s *schema.Schema, log *slog.Logger) (storage.Engine, error) {
	switch cfg.Storage {
	case config.StorageMemory:
		log.Info("using in-memory storage")
		return memstore.New(s), nil
	default:
		log.Info("using file storage", "dir", cfg.DataDir, "cache_pages", cfg.CachePages)
		fs, err := filestore.New(cfg.DataDir, s, filestore.Options{
			CachePages: cfg.CachePages,
			Logger:     log,
		})
		if err != nil {
			return nil, err
		}
		return fs, nil
	}
}

// flushLoop fsyncs storage every interval until ctx is done.
func flushLoop(ctx context.Context, eng *engine.DBEngine, every time.Duration, log *slog.Logger) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if err := eng.Flush(); err != nil {
				log.Error("periodic flush", "err", err)
			}
		}
	}
}
