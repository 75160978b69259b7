package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"krampus/internal/api"
	"krampus/internal/auth"
	"krampus/internal/config"
	"krampus/internal/database"
	"krampus/internal/events"
	"krampus/internal/metrics"
	"krampus/internal/model"
	"krampus/internal/notify"
	"krampus/internal/pdf"
	"krampus/internal/service"
	"krampus/internal/sheets"
)

func main() {
	// Initialize logger
	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	logger := zerolog.New(output).With().Timestamp().Logger()

	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("KRAMPUS_CONFIG_PATH"))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := database.New(cfg.Database.Path)
	if err != nil {
		logger.Fatal().Err(err).Msg("open db error")
	}
	defer db.Close()

	if cfg.Redis.Address == "" {
		logger.Fatal().Msg("set redis.address in config; sessions need it")
	}
	rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Address, Password: cfg.Redis.Password, DB: cfg.Redis.DB})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sessions := auth.NewSessionStore(rdb, cfg.SessionIdleTimeout())
	authSvc := auth.NewService(db, sessions, logger)

	bus := events.NewEventBus()
	reservations := service.NewReservationService(db, bus, logger)
	staff := service.NewStaffService(db, logger)
	if err := reservations.Refresh(ctx); err != nil {
		logger.Fatal().Err(err).Msg("load reservations")
	}
	if err := staff.Refresh(ctx); err != nil {
		logger.Fatal().Err(err).Msg("load staff")
	}
	bootstrapAdmin(ctx, staff, &logger)

	dispatcher := notify.NewDispatcher(notify.Options{
		Instant:       messengerFor(cfg.Telegram.BotToken, cfg.Telegram.MessagesPerSec, "instant", &logger),
		InstantChatID: cfg.Telegram.ChatID,
		Daily:         messengerFor(cfg.Telegram.DailyBotToken, cfg.Telegram.MessagesPerSec, "daily", &logger),
		DailyChatID:   cfg.Telegram.DailyChatID,
	}, db, db, logger)

	// Post-commit hooks. The reservation write has already committed when
	// these run; failures are logged and never bubble back to the API call.
	bus.Subscribe(events.TypeReservationCreated, func(event events.Event) error {
		r, ok := event.Payload.(*model.Reservation)
		if !ok {
			return nil
		}
		go func() {
			hookCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			artist := ""
			if r.ArtistID != "" {
				if m, err := staff.Get(hookCtx, r.ArtistID); err == nil {
					artist = m.Name
				}
			}
			if err := dispatcher.NotifyNewReservation(hookCtx, r, artist); err != nil {
				logger.Error().Err(err).Int("reservation_number", r.ReservationNumber).Msg("new reservation alert")
			}
		}()
		return nil
	})

	if cfg.Sheets.Enabled {
		sheetSvc, err := sheets.New(ctx, cfg.Sheets.CredentialsFile, cfg.Sheets.SpreadsheetID, cfg.Sheets.SheetName, logger)
		if err != nil {
			logger.Error().Err(err).Msg("sheets mirror disabled")
		} else {
			mirror := func(events.Event) error {
				go func() {
					hookCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
					defer cancel()
					names := make(map[string]string)
					for _, m := range staff.List() {
						names[m.ID] = m.Name
					}
					if err := sheetSvc.SyncReservations(hookCtx, reservations.List(), names); err != nil {
						logger.Error().Err(err).Msg("sheets sync")
					}
				}()
				return nil
			}
			bus.Subscribe(events.TypeReservationCreated, mirror)
			bus.Subscribe(events.TypeReservationUpdated, mirror)
			bus.Subscribe(events.TypeReservationDeleted, mirror)
		}
	}

	if cfg.Digest.Enabled {
		scheduler := notify.NewScheduler(dispatcher, logger)
		scheduler.Start()
		defer scheduler.Stop()
	}

	backup := database.NewBackupService(cfg, &logger)
	go backup.Start(ctx)

	if cfg.Monitoring.HealthCheckPort == 0 {
		cfg.Monitoring.HealthCheckPort = 8090
	}
	go startHealthServer(ctx, cfg.Monitoring.HealthCheckPort, db, rdb, &logger)

	if cfg.Monitoring.PrometheusEnabled {
		if cfg.Monitoring.PrometheusPort == 0 {
			cfg.Monitoring.PrometheusPort = 9090
		}
		metrics.Register()
		go startMetricsServer(ctx, cfg.Monitoring.PrometheusPort, &logger)
	}

	httpServer := api.NewHTTPServer(reservations, staff, authSvc, dispatcher, pdf.NewClient(cfg.PDF.WebhookURL), logger)
	srv := &http.Server{Addr: fmt.Sprintf(":%d", cfg.Server.Port), Handler: httpServer.Handler()}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()

	logger.Info().Int("port", cfg.Server.Port).Msg("studio server started")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal().Err(err).Msg("http server error")
	}
}

// bootstrapAdmin creates the first admin account on an empty staff table so
// the dashboard is reachable after a fresh install. Credentials come from the
// environment; without them the step is skipped.
func bootstrapAdmin(ctx context.Context, staff *service.StaffService, logger *zerolog.Logger) {
	if len(staff.List()) > 0 {
		return
	}
	username := os.Getenv("KRAMPUS_ADMIN_USERNAME")
	password := os.Getenv("KRAMPUS_ADMIN_PASSWORD")
	if username == "" || password == "" {
		logger.Warn().Msg("no staff accounts and no KRAMPUS_ADMIN_USERNAME/KRAMPUS_ADMIN_PASSWORD set")
		return
	}
	if _, err := staff.Add(ctx, "Administrator", username, password, model.RoleAdmin); err != nil {
		logger.Error().Err(err).Msg("bootstrap admin")
		return
	}
	logger.Info().Str("username", username).Msg("bootstrap admin created")
}

func messengerFor(token string, messagesPerSec float64, kind string, logger *zerolog.Logger) notify.Messenger {
	if token == "" {
		logger.Warn().Str("kind", kind).Msg("telegram bot token not set; notifications disabled")
		return nil
	}
	m, err := notify.NewTelegramMessenger(token, messagesPerSec)
	if err != nil {
		logger.Error().Err(err).Str("kind", kind).Msg("telegram bot init failed; notifications disabled")
		return nil
	}
	return m
}

func startHealthServer(ctx context.Context, port int, db *database.DB, rdb *redis.Client, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		ctxPing, cancel := context.WithTimeout(ctx, time.Second)
		defer cancel()
		if err := db.PingContext(ctxPing); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		if err := rdb.Ping(ctxPing).Err(); err != nil {
			http.Error(w, "redis not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("health server error")
	}
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
