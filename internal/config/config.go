package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	Exchange ExchangeConfig
	Bot      BotConfig
	Store    StoreConfig
	Runtime  RuntimeConfig
}

type ExchangeConfig struct {
	BaseUrl    string
	ApiKey     string
	Timeout    time.Duration
	MaxRetries int
}

type BotConfig struct {
	Base         string
	Quote        string
	Percents     []float64
	MaxDeviation float64
	RepriceStep  float64
	TickSize     float64
	MinTradeSize float64
	QueryDelay   time.Duration
}

type StoreConfig struct {
	Path string
}

type RuntimeConfig struct {
	DryRun      bool
	Force       bool
	Schedule    string
	MetricsAddr string
	Log         LogConfig
}

type LogConfig struct {
	Level      string
	Format     string
	File       string
	MaxSize    int
	MaxBackups int
	MaxAge     int
	Compress   bool
}

var flagKeys = map[string]string{
	"dry-run":   "runtime.dry_run",
	"force":     "runtime.force",
	"log-level": "runtime.log.level",
	"store":     "store.path",
	"schedule":  "runtime.schedule",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("exchange.base_url", "https://api.ataix.kz")
	v.SetDefault("exchange.timeout", "15s")
	v.SetDefault("exchange.max_retries", 3)

	v.SetDefault("bot.base", "IMX")
	v.SetDefault("bot.quote", "USDT")
	v.SetDefault("bot.percents", []string{"0.02", "0.05", "0.08"})
	v.SetDefault("bot.max_deviation", 0.05)
	v.SetDefault("bot.reprice_step", 0.01)
	v.SetDefault("bot.tick_size", 0.001)
	v.SetDefault("bot.min_trade_size", 0.01)
	v.SetDefault("bot.query_delay", "500ms")

	v.SetDefault("store.path", "orders.json")

	v.SetDefault("runtime.schedule", "@every 5m")
	v.SetDefault("runtime.metrics_addr", ":9100")
	v.SetDefault("runtime.log.level", "info")
	v.SetDefault("runtime.log.format", "text")
	v.SetDefault("runtime.log.max_size", 50)
	v.SetDefault("runtime.log.max_backups", 5)
	v.SetDefault("runtime.log.max_age", 30)
}

// Load reads configs/config.yaml (or the file named by --config), the process
// environment with the LADDERBOT_ prefix, an optional .env file and the given
// command line flags, in increasing order of precedence.
func Load(flags *pflag.FlagSet) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("LADDERBOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	configFile := ""
	if flags != nil {
		if f := flags.Lookup("config"); f != nil {
			configFile = f.Value.String()
		}
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("Не удалось привязать флаг %s: %w", name, err)
				}
			}
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.AddConfigPath("configs")
		v.SetConfigName("config")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("Не удалось прочитать конфигурацию: %w", err)
		}
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	percents, err := floatSlice(v, "bot.percents")
	if err != nil {
		return nil, err
	}

	cfg := &Config{}

	cfg.Exchange = ExchangeConfig{
		BaseUrl:    strings.TrimRight(v.GetString("exchange.base_url"), "/"),
		ApiKey:     envSub(v, "exchange.api_key"),
		Timeout:    v.GetDuration("exchange.timeout"),
		MaxRetries: v.GetInt("exchange.max_retries"),
	}

	cfg.Bot = BotConfig{
		Base:         strings.ToUpper(v.GetString("bot.base")),
		Quote:        strings.ToUpper(v.GetString("bot.quote")),
		Percents:     percents,
		MaxDeviation: v.GetFloat64("bot.max_deviation"),
		RepriceStep:  v.GetFloat64("bot.reprice_step"),
		TickSize:     v.GetFloat64("bot.tick_size"),
		MinTradeSize: v.GetFloat64("bot.min_trade_size"),
		QueryDelay:   v.GetDuration("bot.query_delay"),
	}

	cfg.Store = StoreConfig{
		Path: v.GetString("store.path"),
	}

	cfg.Runtime = RuntimeConfig{
		DryRun:      v.GetBool("runtime.dry_run"),
		Force:       v.GetBool("runtime.force"),
		Schedule:    v.GetString("runtime.schedule"),
		MetricsAddr: v.GetString("runtime.metrics_addr"),
		Log: LogConfig{
			Level:      v.GetString("runtime.log.level"),
			Format:     v.GetString("runtime.log.format"),
			File:       v.GetString("runtime.log.file"),
			MaxSize:    v.GetInt("runtime.log.max_size"),
			MaxBackups: v.GetInt("runtime.log.max_backups"),
			MaxAge:     v.GetInt("runtime.log.max_age"),
			Compress:   v.GetBool("runtime.log.compress"),
		},
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Exchange.BaseUrl == "" {
		return fmt.Errorf("Не задан exchange.base_url")
	}
	if c.Exchange.ApiKey == "" {
		return fmt.Errorf("Не задан exchange.api_key")
	}
	if c.Bot.Base == "" || c.Bot.Quote == "" {
		return fmt.Errorf("Не задана торговая пара: base=%q quote=%q", c.Bot.Base, c.Bot.Quote)
	}
	if len(c.Bot.Percents) == 0 {
		return fmt.Errorf("Пустой список отступов bot.percents")
	}
	for _, p := range c.Bot.Percents {
		if p < 0 || p >= 1 {
			return fmt.Errorf("Отступ вне диапазона [0, 1): %v", p)
		}
	}
	if c.Bot.MaxDeviation < 0 || c.Bot.MaxDeviation >= 1 {
		return fmt.Errorf("bot.max_deviation вне диапазона [0, 1): %v", c.Bot.MaxDeviation)
	}
	if c.Bot.TickSize <= 0 {
		return fmt.Errorf("bot.tick_size должен быть положительным: %v", c.Bot.TickSize)
	}
	if c.Bot.RepriceStep < 0 {
		return fmt.Errorf("bot.reprice_step не может быть отрицательным: %v", c.Bot.RepriceStep)
	}
	if c.Store.Path == "" {
		return fmt.Errorf("Не задан store.path")
	}
	return nil
}

// floatSlice accepts a YAML list or a comma/space separated string from the
// environment.
func floatSlice(v *viper.Viper, key string) ([]float64, error) {
	var items []string
	for _, item := range v.GetStringSlice(key) {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				items = append(items, part)
			}
		}
	}

	out := make([]float64, 0, len(items))
	for _, item := range items {
		f, err := strconv.ParseFloat(item, 64)
		if err != nil {
			return nil, fmt.Errorf("Некорректное значение %s=%q: %w", key, item, err)
		}
		out = append(out, f)
	}
	return out, nil
}

var envRef = regexp.MustCompile(`\$\{(\w+)\}`)

func envSub(v *viper.Viper, key string) string {
	val := v.GetString(key)
	if val == "" {
		return ""
	}

	return envRef.ReplaceAllStringFunc(val, func(match string) string {
		envKey := strings.TrimSuffix(strings.TrimPrefix(match, "${"), "}")
		return os.Getenv(envKey)
	})
}
