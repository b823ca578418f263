package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"playgrounds/internal/config"
	"playgrounds/internal/events"
	"playgrounds/internal/http-server/handlers/event/cancelEvent"
	"playgrounds/internal/http-server/handlers/event/createEvent"
	"playgrounds/internal/http-server/handlers/event/getEvent"
	"playgrounds/internal/http-server/handlers/event/joinEvent"
	"playgrounds/internal/http-server/handlers/event/leaveEvent"
	"playgrounds/internal/http-server/handlers/event/listEvents"
	"playgrounds/internal/http-server/handlers/event/updateEvent"
	"playgrounds/internal/http-server/handlers/space/canRate"
	"playgrounds/internal/http-server/handlers/space/getRatings"
	"playgrounds/internal/http-server/handlers/space/rateSpace"
	"playgrounds/internal/http-server/middleware/identity"
	"playgrounds/internal/http-server/middleware/mwlogger"
	"playgrounds/internal/lib/logger/handlers/slogpretty"
	"playgrounds/internal/lib/logger/sl"
	"playgrounds/internal/notifier"
	"playgrounds/internal/storage/postgres"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	cfg := config.MustLoad()

	log := setupLogger(cfg.Env)

	log.Info("Starting playgrounds", slog.String("env", cfg.Env))
	log.Debug("Debug messages are enabled")

	storage, err := postgres.InitDB(&cfg.Database)
	if err != nil {
		log.Error("failed to init storage", sl.Err(err))
		os.Exit(1)
	}

	rmq, err := notifier.NewClient(log, cfg.Rabbit.URL, cfg.Rabbit.Exchange, cfg.Rabbit.Queue)
	if err != nil {
		log.Error("failed to init RabbitMQ", sl.Err(err))
		os.Exit(1)
	}
	defer rmq.Close()

	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()

	worker := notifier.NewWorker(log, rmq, notifier.NewMailer(cfg.SMTP))
	worker.Start(workerCtx)

	publisher := notifier.NewPublisher(log, rmq)
	eventService := events.NewService(log, storage, storage, publisher)

	reconciler := events.NewReconciler(log, storage, publisher, cfg.Reconciler.Interval)
	go reconciler.Run(workerCtx)

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(mwlogger.New(log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.URLFormat)

	router.Route("/events", func(r chi.Router) {
		r.Get("/", listEvents.New(log, eventService))
		r.Get("/{id}", getEvent.New(log, eventService))

		r.Group(func(r chi.Router) {
			r.Use(identity.New())
			r.Post("/", createEvent.New(log, eventService))
			r.Put("/{id}", updateEvent.New(log, eventService))
			r.Put("/{id}/join", joinEvent.New(log, eventService))
			r.Put("/{id}/leave", leaveEvent.New(log, eventService))
			r.Delete("/{id}", cancelEvent.New(log, eventService))
		})
	})

	router.Route("/spaces/{id}", func(r chi.Router) {
		r.Get("/ratings", getRatings.New(log, storage))

		r.Group(func(r chi.Router) {
			r.Use(identity.New())
			r.Post("/ratings", rateSpace.New(log, storage))
			r.Get("/can-rate", canRate.New(log, storage))
		})
	})

	log.Info("starting server", slog.String("address", cfg.HTTPServer.Address))

	srv := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGTERM, syscall.SIGINT, os.Interrupt)

	go func() {
		if err = srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("failed to start server", sl.Err(err))
			stop <- syscall.SIGTERM
		}
	}()

	sign := <-stop

	log.Info("application stopping", slog.String("signal", sign.String()))

	cancelWorkers()
	worker.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTPServer.Timeout)
	defer shutdownCancel()
	if err = srv.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to shutdown server", sl.Err(err))
	}

	log.Info("application stopped")

	if err = storage.Close(); err != nil {
		log.Error("failed to close postgres connection", sl.Err(err))
	}

	log.Info("postgres connection closed")
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = setupPrettySlog()
	case envDev:
		log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envProd:
		log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}

	return log
}

func setupPrettySlog() *slog.Logger {
	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: slog.LevelDebug,
		},
	}

	h := opts.NewPrettyHandler(os.Stdout)

	return slog.New(h)
}
