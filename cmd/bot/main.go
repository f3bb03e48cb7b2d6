package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"ladderbot/internal/config"
	"ladderbot/internal/engine"
	"ladderbot/internal/exchange/ataix/rest"
	"ladderbot/internal/logger"
	"ladderbot/internal/store"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
)

const usage = `Использование: bot [флаги] <plan|reconcile|run>

  plan       выставить сетку лимитных ордеров и сохранить её
  reconcile  один проход сверки сохранённых ордеров с биржей
  run        сверка по расписанию с отдачей метрик

Флаги:
`

var errUsage = errors.New("Некорректный вызов")

var commands = map[string]struct{}{
	"plan":      {},
	"reconcile": {},
	"run":       {},
}

func main() {
	flags := newFlagSet(os.Stderr)
	command, err := parseCommand(flags, os.Args[1:])
	if err != nil {
		if !errors.Is(err, pflag.ErrHelp) {
			fmt.Fprintln(os.Stderr, err)
			flags.Usage()
		}
		os.Exit(2)
	}

	cfg, err := config.Load(flags)
	if err != nil {
		panic(err)
	}

	log := logger.New(logger.Config{
		Level:      cfg.Runtime.Log.Level,
		Format:     cfg.Runtime.Log.Format,
		Output:     cfg.Runtime.Log.File,
		MaxSize:    cfg.Runtime.Log.MaxSize,
		MaxBackups: cfg.Runtime.Log.MaxBackups,
		MaxAge:     cfg.Runtime.Log.MaxAge,
		Compress:   cfg.Runtime.Log.Compress,
	})

	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("Некорректная конфигурация.")
	}

	st := store.NewOS(cfg.Store.Path)
	eng := newEngine(cfg, st, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.WithFields(map[string]interface{}{
		"command": command,
		"store":   st.Path(),
		"dry_run": cfg.Runtime.DryRun,
	}).Info("Бот запущен.")

	if err := execute(ctx, command, cfg, eng, log); err != nil {
		log.WithError(err).WithField("command", command).Fatal("Команда завершилась с ошибкой.")
	}

	log.Info("Бот остановлен.")
}

func newFlagSet(out io.Writer) *pflag.FlagSet {
	flags := pflag.NewFlagSet("bot", pflag.ContinueOnError)
	flags.SetOutput(out)
	flags.String("config", "", "путь к файлу конфигурации")
	flags.Bool("dry-run", false, "не выставлять и не отменять ордера")
	flags.Bool("force", false, "выставить сетку, даже если есть активные ордера")
	flags.String("log-level", "", "уровень логирования")
	flags.String("store", "", "путь к файлу ордеров")
	flags.String("schedule", "", "расписание сверки для команды run")
	flags.Usage = func() {
		fmt.Fprint(out, usage)
		flags.PrintDefaults()
	}
	return flags
}

// parseCommand parses flags and returns the single command argument.
func parseCommand(flags *pflag.FlagSet, args []string) (string, error) {
	if err := flags.Parse(args); err != nil {
		return "", err
	}
	if flags.NArg() != 1 {
		return "", fmt.Errorf("%w: ожидается одна команда, получено %d", errUsage, flags.NArg())
	}
	command := flags.Arg(0)
	if _, ok := commands[command]; !ok {
		return "", fmt.Errorf("%w: неизвестная команда %q", errUsage, command)
	}
	return command, nil
}

func newEngine(cfg *config.Config, st *store.Store, log *logger.Logger) *engine.Engine {
	client := rest.New(cfg.Exchange.BaseUrl, cfg.Exchange.ApiKey, log,
		rest.WithTimeout(cfg.Exchange.Timeout),
		rest.WithRetry(cfg.Exchange.MaxRetries, 0),
	)
	return engine.New(cfg, client, st, log)
}

func execute(ctx context.Context, command string, cfg *config.Config, eng *engine.Engine, log *logger.Logger) error {
	switch command {
	case "plan":
		_, err := eng.PlanRun(ctx)
		return err
	case "reconcile":
		_, err := eng.ReconcileRun(ctx)
		return err
	case "run":
		return serve(ctx, cfg.Runtime.MetricsAddr, eng, log)
	default:
		return fmt.Errorf("%w: неизвестная команда %q", errUsage, command)
	}
}

func serve(ctx context.Context, addr string, eng *engine.Engine, log *logger.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", eng.Metrics().Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("Сервер метрик остановился.")
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	return eng.Start(ctx)
}
