package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/SavioSoares07/MeuAppDeRemedio/internal/config"
	"github.com/SavioSoares07/MeuAppDeRemedio/internal/notify"
	"github.com/SavioSoares07/MeuAppDeRemedio/internal/scheduler"
	"github.com/SavioSoares07/MeuAppDeRemedio/internal/service"
	"github.com/SavioSoares07/MeuAppDeRemedio/internal/store"
	"github.com/SavioSoares07/MeuAppDeRemedio/internal/telegram"
)

type App struct {
	cfg     config.Config
	log     *zap.Logger
	bot     *tgbotapi.BotAPI
	httpSrv *http.Server

	kv       store.KV
	runtime  *scheduler.Runtime
	calendar *scheduler.CalendarStrategy // nil in interval mode
	router   *telegram.Router
}

func New(cfg config.Config, log *zap.Logger) (*App, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, err
	}
	bot.Debug = false

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      mux,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}

	return &App{cfg: cfg, log: log, bot: bot, httpSrv: srv}, nil
}

func (a *App) Run(ctx context.Context) error {
	a.log.Info("starting medication reminder bot",
		zap.String("store", a.cfg.StoreBackend),
		zap.String("trigger", a.cfg.TriggerMode),
		zap.String("http", a.cfg.HTTPAddr),
	)

	loc, err := time.LoadLocation(a.cfg.Timezone)
	if err != nil {
		a.log.Warn("invalid timezone, falling back to Local", zap.String("tz", a.cfg.Timezone))
		loc = time.Local
	}

	kv, err := a.openStore(ctx)
	if err != nil {
		a.log.Error("open store failed", zap.Error(err))
		return err
	}
	a.kv = kv
	a.log.Info("store ready")

	var notifier notify.Notifier = notify.NewLogNotifier(a.log)
	if a.cfg.NotifyChatID != 0 {
		notifier = notify.NewTelegramNotifier(a.bot, a.cfg.NotifyChatID)
	}

	var strategy scheduler.TriggerStrategy
	switch a.cfg.TriggerMode {
	case "interval":
		strategy = scheduler.NewIntervalStrategy(func() time.Time { return time.Now().In(loc) })
	default:
		a.calendar = scheduler.NewCalendarStrategy(loc)
		strategy = a.calendar
	}

	a.runtime = scheduler.NewRuntime(strategy, notifier, a.log)
	svc := service.New(store.NewReminderStore(kv, a.log), scheduler.New(a.runtime, a.log), a.log)

	// Triggers are in-process; re-register everything persisted before
	// accepting commands.
	if err := svc.Resync(ctx); err != nil {
		a.log.Error("resync failed", zap.Error(err))
		return err
	}

	a.router = telegram.NewRouter(a.bot, a.log, svc)

	go func() {
		if err := a.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error("http server error", zap.Error(err))
		}
	}()

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updCh := a.bot.GetUpdatesChan(u)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	for {
		select {
		case <-ctx.Done():
			a.log.Info("shutdown signal received")
			a.shutdown()
			return nil

		case upd := <-updCh:
			a.router.HandleUpdate(ctx, upd)
		}
	}
}

func (a *App) openStore(ctx context.Context) (store.KV, error) {
	switch a.cfg.StoreBackend {
	case "diskv":
		return store.OpenDiskv(filepath.Join(a.cfg.DataDir, "kv"))
	case "sqlite":
		return store.OpenSQLite(ctx, filepath.Join(a.cfg.DataDir, "reminders.db"))
	default:
		return nil, fmt.Errorf("unknown store backend %q", a.cfg.StoreBackend)
	}
}

func (a *App) shutdown() {
	shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	err := a.httpSrv.Shutdown(shCtx)
	cancel()
	if err != nil {
		a.log.Warn("http server shutdown error", zap.Error(err))
	}

	if a.runtime != nil {
		a.runtime.Stop()
	}
	if a.calendar != nil {
		a.calendar.Stop()
	}
	if a.kv != nil {
		_ = a.kv.Close()
	}
}
