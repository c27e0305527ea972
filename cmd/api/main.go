package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"

	"github.com/clipdeck/clipdeck/pkg/bootstrap"
	"github.com/clipdeck/clipdeck/pkg/config"
	"github.com/clipdeck/clipdeck/pkg/contentsync"
	"github.com/clipdeck/clipdeck/pkg/database"
	"github.com/clipdeck/clipdeck/pkg/migrations"
	"github.com/clipdeck/clipdeck/pkg/remote"
	"github.com/clipdeck/clipdeck/pkg/server"
	"github.com/clipdeck/clipdeck/pkg/settings"
	"github.com/clipdeck/clipdeck/pkg/version"
	"github.com/clipdeck/clipdeck/pkg/worker"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/robinjoseph08/golib/signals"
)

func main() {
	ctx := context.Background()
	log := logger.New()

	log.Info("starting clipdeck", logger.Data{"version": version.Version})

	cfg, err := config.New()
	if err != nil {
		log.Err(err).Fatal("config error")
	}
	log.Info("config loaded", logger.Data{"config": cfg.String()})

	if err := os.MkdirAll(cfg.SoundsDir, 0o755); err != nil {
		log.Err(err).Fatal("sounds directory error")
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Err(err).Fatal("database error")
	}

	group, err := migrations.BringUpToDate(ctx, db)
	if err != nil {
		log.Err(err).Fatal("migrations error")
	}
	if group.ID == 0 {
		log.Info("no new migrations to run")
	} else {
		log.Info("migrated to new group", logger.Data{"group_id": group.ID, "migration_names": group.Migrations.String()})
	}

	memory, err := settings.NewService(db).EnsureAppMemory(ctx, cfg.InstallID)
	if err != nil {
		log.Err(err).Fatal("app memory error")
	}
	log.Info("install ready", logger.Data{"install_id": memory.InstallID})

	if cfg.BundledDataDir != "" {
		result, err := bootstrap.NewImporter(db, os.DirFS(cfg.BundledDataDir), cfg).Run(ctx)
		if err != nil {
			log.Err(err).Error("bundled data import error")
		} else if !result.Skipped {
			log.Info("bundled data imported", logger.Data{
				"sounds": result.Sounds.Imported,
				"songs":  result.Songs.Imported,
			})
		}
	}

	client := remote.NewClient(cfg, remote.NewCallLogService(db))
	engine := contentsync.NewEngine(db, client, cfg)

	wrkr := worker.New(cfg, engine, nil)

	srv, err := server.New(cfg, db, engine)
	if err != nil {
		log.Err(err).Fatal("server error")
	}

	graceful := signals.Setup()

	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort)
		lc := net.ListenConfig{}
		listener, err := lc.Listen(ctx, "tcp", addr)
		if err != nil {
			log.Err(err).Fatal("failed to bind port")
		}
		log.Info("server started", logger.Data{"addr": listener.Addr().String()})

		err = srv.Serve(listener)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Err(err).Fatal("server stopped")
		}
		log.Info("server stopped")
	}()

	wrkr.Start()
	log.Info("worker started", logger.Data{"task": worker.TaskIdentifier, "interval": cfg.SyncInterval().String()})

	<-graceful
	log.Info("starting graceful shutdown")

	err = srv.Shutdown(ctx)
	if err != nil {
		log.Err(err).Error("server shutdown error")
	}
	log.Info("server shutdown")

	wrkr.Shutdown()
	log.Info("worker shutdown")

	err = db.Close()
	if err != nil {
		log.Err(err).Error("database close error")
	}
	log.Info("database closed")
}
