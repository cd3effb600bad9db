// Package config loads client settings from a TOML file with environment
// overrides layered on top.
package config

import (
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"

	"github.com/ircbot/ircclient/ircprotocol"
)

const (
	EnvServer      = "IRC_SERVER"
	EnvNick        = "IRC_NICK"
	EnvPassword    = "IRC_PASSWORD"
	EnvChannels    = "IRC_CHANNELS"
	EnvMetricsAddr = "IRC_METRICS_ADDR"
	EnvRedisAddr   = "IRC_REDIS_ADDR"
)

const (
	OutputPlain = "plain"
	OutputJSON  = "json"
)

type EventLog struct {
	Path       string `toml:"path"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days"`
}

type Redis struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Stream   string `toml:"stream"`
	MaxLen   int64  `toml:"max_len"`
}

type Config struct {
	Server      string   `toml:"server"`
	Nick        string   `toml:"nick"`
	User        string   `toml:"user"`
	Realname    string   `toml:"realname"`
	Password    string   `toml:"password"`
	Channels    []string `toml:"channels"`
	Suppress    []string `toml:"suppress"`
	Output      string   `toml:"output"`
	MetricsAddr string   `toml:"metrics_addr"`
	// MetricsCORS lists browser origins allowed to read the metrics listener.
	MetricsCORS []string `toml:"metrics_cors_origins"`
	EventLog    EventLog `toml:"event_log"`
	Redis       Redis    `toml:"redis"`
}

func Default() Config {
	return Config{
		Server:   "localhost:" + ircprotocol.DefaultPort,
		Channels: []string{},
		Suppress: []string{},
		Output:   OutputPlain,
		EventLog: EventLog{
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		Redis: Redis{
			Stream: "irc:events",
			MaxLen: 10000,
		},
	}
}

// Load reads path over the defaults, then applies environment overrides.
// An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if err := decodeFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}
	applyEnv(&cfg, os.Getenv)
	return cfg, nil
}

func decodeFile(path string, cfg *Config) error {
	var raw Config
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return errors.Wrapf(err, "load config %s", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return errors.Errorf("load config %s: unknown key %q", path, undecoded[0].String())
	}

	setString := func(dst *string, v string, key ...string) {
		if meta.IsDefined(key...) {
			*dst = strings.TrimSpace(v)
		}
	}
	setString(&cfg.Server, raw.Server, "server")
	setString(&cfg.Nick, raw.Nick, "nick")
	setString(&cfg.User, raw.User, "user")
	setString(&cfg.Realname, raw.Realname, "realname")
	setString(&cfg.Password, raw.Password, "password")
	setString(&cfg.Output, raw.Output, "output")
	setString(&cfg.MetricsAddr, raw.MetricsAddr, "metrics_addr")
	if meta.IsDefined("channels") {
		cfg.Channels = normalizeList(raw.Channels)
	}
	if meta.IsDefined("metrics_cors_origins") {
		cfg.MetricsCORS = normalizeList(raw.MetricsCORS)
	}
	if meta.IsDefined("suppress") {
		cfg.Suppress = normalizeList(raw.Suppress)
	}

	setString(&cfg.EventLog.Path, raw.EventLog.Path, "event_log", "path")
	if meta.IsDefined("event_log", "max_size_mb") {
		cfg.EventLog.MaxSizeMB = raw.EventLog.MaxSizeMB
	}
	if meta.IsDefined("event_log", "max_backups") {
		cfg.EventLog.MaxBackups = raw.EventLog.MaxBackups
	}
	if meta.IsDefined("event_log", "max_age_days") {
		cfg.EventLog.MaxAgeDays = raw.EventLog.MaxAgeDays
	}

	setString(&cfg.Redis.Addr, raw.Redis.Addr, "redis", "addr")
	setString(&cfg.Redis.Password, raw.Redis.Password, "redis", "password")
	setString(&cfg.Redis.Stream, raw.Redis.Stream, "redis", "stream")
	if meta.IsDefined("redis", "db") {
		cfg.Redis.DB = raw.Redis.DB
	}
	if meta.IsDefined("redis", "max_len") {
		cfg.Redis.MaxLen = raw.Redis.MaxLen
	}
	return nil
}

func applyEnv(cfg *Config, getenv func(string) string) {
	if v := strings.TrimSpace(getenv(EnvServer)); v != "" {
		cfg.Server = v
	}
	if v := strings.TrimSpace(getenv(EnvNick)); v != "" {
		cfg.Nick = v
	}
	if v := getenv(EnvPassword); v != "" {
		cfg.Password = v
	}
	if v := getenv(EnvChannels); strings.TrimSpace(v) != "" {
		cfg.Channels = normalizeList(strings.Split(v, ","))
	}
	if v := strings.TrimSpace(getenv(EnvMetricsAddr)); v != "" {
		cfg.MetricsAddr = v
	}
	if v := strings.TrimSpace(getenv(EnvRedisAddr)); v != "" {
		cfg.Redis.Addr = v
	}
}

// Validate reports the first setting that would keep the client from
// starting.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Server) == "" {
		return errors.New("config: server is required")
	}
	if strings.TrimSpace(c.Nick) == "" {
		return errors.New("config: nick is required")
	}
	if strings.ContainsAny(c.Nick, " \r\n") {
		return errors.Errorf("config: invalid nick %q", c.Nick)
	}
	switch c.Output {
	case OutputPlain, OutputJSON:
	default:
		return errors.Errorf("config: output must be %q or %q, got %q", OutputPlain, OutputJSON, c.Output)
	}
	for _, name := range c.Suppress {
		if _, ok := ircprotocol.ParseEventType(name); !ok {
			return errors.Errorf("config: unknown event type %q in suppress", name)
		}
	}
	for _, ch := range c.Channels {
		if !strings.HasPrefix(ch, ircprotocol.ChannelPrefix) {
			return errors.Errorf("config: channel %q must start with %q", ch, ircprotocol.ChannelPrefix)
		}
	}
	if c.Redis.Addr != "" && c.Redis.Stream == "" {
		return errors.New("config: redis stream is required when redis addr is set")
	}
	return nil
}

// SuppressSet resolves Suppress into event types. Unknown names are skipped;
// Validate reports them.
func (c Config) SuppressSet() map[ircprotocol.EventType]bool {
	set := make(map[ircprotocol.EventType]bool, len(c.Suppress))
	for _, name := range c.Suppress {
		if typ, ok := ircprotocol.ParseEventType(name); ok {
			set[typ] = true
		}
	}
	return set
}

func normalizeList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}
