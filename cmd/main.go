package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"nasa/pkg/config"
	"nasa/pkg/forwarder"
	"nasa/pkg/handler"
	repo "nasa/pkg/repository"
	srvc "nasa/pkg/service"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

func main() {
	logrus.SetFormatter(new(logrus.JSONFormatter))

	cnf, err := config.Load()
	if err != nil {
		logrus.Fatalf("failed to load config: %s", err.Error())
	}
	logrus.SetLevel(cnf.LogLevel)

	var db *sqlx.DB
	if cnf.ArchiveEnabled() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		db, err = repo.NewPostgresDB(ctx, cnf.DB)
		cancel()
		if err != nil {
			logrus.Fatalf("failed to initialize db: %s", err.Error())
		}

		if err := repo.Migrate(db); err != nil {
			logrus.Fatalf("failed to migrate db: %s", err.Error())
		}
	}

	client := &http.Client{Timeout: cnf.ClientTimeout}

	services := srvc.NewService(forwarder.New(cnf.ApiKey, client), repo.NewRepository(db), srvc.Options{
		NasaURL:   cnf.NasaURL,
		EpicURL:   cnf.EpicURL,
		NeoLookup: cnf.NeoLookup,
	})

	if cnf.ArchiveSchedule != "" {
		c, err := srvc.StartScheduler(cnf.ArchiveSchedule, services.Archive, time.Minute)
		if err != nil {
			logrus.Fatalf("failed to schedule apod archive: %s", err.Error())
		}
		defer c.Stop()
	}

	handlers := handler.NewHandler(services).WithRateLimit(cnf.RateLimitRPS, cnf.RateLimitBurst)

	srv := new(server)
	go func() {
		if err := srv.Run(cnf.Port, handlers.InitRoutes()); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("error occured while running http server: %s", err.Error())
		}
	}()

	logrus.WithFields(logrus.Fields{
		"port":       cnf.Port,
		"neo_lookup": cnf.NeoLookup.String(),
		"archive":    cnf.ArchiveEnabled(),
	}).Info("nasa gateway started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logrus.Printf("nasa gateway shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logrus.Errorf("error occured on server shutting down: %s", err.Error())
	}

	if db != nil {
		if err := db.Close(); err != nil {
			logrus.Errorf("error occured on db connection close: %s", err.Error())
		}
	}
}

type server struct {
	httpSrv *http.Server
}

func (s *server) Run(port string, h http.Handler) error {
	s.httpSrv = &http.Server{
		Addr:           ":" + port,
		Handler:        h,
		MaxHeaderBytes: 1 << 20,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   60 * time.Second,
		IdleTimeout:    10 * time.Second,
	}

	return s.httpSrv.ListenAndServe()
}

func (s *server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}
