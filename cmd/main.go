// @title        Portfolio API
// @version      1.0
// @description  Theme preference and local clock endpoints behind the portfolio page.
// @BasePath     /
package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/djessicatony/my-portfolio/docs"
	"github.com/djessicatony/my-portfolio/internal/config"
	"github.com/djessicatony/my-portfolio/internal/handlers"
	"github.com/djessicatony/my-portfolio/internal/logger"
	"github.com/djessicatony/my-portfolio/internal/repository"
	"github.com/djessicatony/my-portfolio/internal/repository/db"
	"github.com/djessicatony/my-portfolio/internal/server"
	"github.com/djessicatony/my-portfolio/internal/service"

	"github.com/jonboulle/clockwork"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// load configs/config.yml (+ .env, PORTFOLIO_* env)
	cfg, err := config.Load("configs")
	if err != nil {
		logger.Get(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}

	// init logger
	log := logger.Get(cfg.Log.Level)

	// open storage
	repos, conn, err := openRepository(cfg, log)
	if err != nil {
		log.Fatalw("failed to init storage", "storage", cfg.Storage, "err", err)
	}
	if conn != nil {
		defer func() {
			if cerr := conn.Close(); cerr != nil {
				log.Errorw("failed to close sqlite", "err", cerr)
			}
		}()
	}

	// wire dependencies
	services := service.NewService(repos, clockwork.NewRealClock(), service.Options{
		DefaultTheme: cfg.DefaultTheme(),
		Clock: service.ClockOptions{
			OffsetHours: cfg.Clock.OffsetHours,
			Interval:    cfg.Clock.Interval,
			HourCycle:   cfg.Clock.HourCycle,
			Location:    cfg.Clock.Location,
		},
	})
	apiHandler := handlers.NewHandler(services, log.Named("http"), handlers.PageOptions{
		Profile:           cfg.Profile,
		ThemeCookieMaxAge: cfg.Theme.CookieMaxAge,
	})

	// start HTTP server
	srv := server.New(cfg.Port, apiHandler.InitRoutes())
	// live channels are hijacked; end them (and their clock widgets) on shutdown
	srv.RegisterOnShutdown(apiHandler.Close)
	runHTTPServer(srv, log)

	// graceful shutdown
	waitForShutdown(srv, apiHandler, log)
}

// openRepository picks the preference backend. The returned *sql.DB is nil for
// the in-memory backend.
func openRepository(cfg config.Config, log *logger.Logger) (*repository.Repository, *sql.DB, error) {
	if cfg.Storage == config.StorageMemory {
		log.Infow("using in-memory preference storage; preferences are lost on restart")
		return repository.NewMemoryRepository(), nil, nil
	}
	conn, err := db.InitDB(cfg.DB.Path)
	if err != nil {
		return nil, nil, err
	}
	log.Infow("sqlite ready", "path", cfg.DB.Path)
	return repository.NewRepository(conn), conn, nil
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, log *logger.Logger) {
	go func() {
		log.Infow("listening", "addr", srv.Addr())
		if err := srv.Run(); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(srv *server.Server, apiHandler *handlers.Handler, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}

	// Shutdown does not wait for its hooks; block until every widget is unmounted
	apiHandler.Close()
	log.Infow("live channels closed")
}
