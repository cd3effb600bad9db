// =============================================================================
// main.go - IRC Client Entry Point
// =============================================================================
//
// Startup order:
//   1. Parse arguments and load the TOML config with env and flag overrides.
//   2. Start the metrics listener and open event sinks, if configured.
//   3. Connect, register, join channels.
//   4. Run the client read loop and the REPL side by side until either the
//      connection ends or the user quits.
//
// Only main decides the process exit code.
//
// =============================================================================

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/ircbot/ircclient/internal/config"
	"github.com/ircbot/ircclient/internal/eventlog"
	"github.com/ircbot/ircclient/internal/logging"
	"github.com/ircbot/ircclient/internal/observability"
	"github.com/ircbot/ircclient/ircprotocol"
)

const (
	version = "0.3.0"
	appName = "ircclient"

	// quitGrace is how long to wait for the server to close after QUIT.
	quitGrace = 2 * time.Second
)

func fullTitle() string {
	return fmt.Sprintf("%s v%s", appName, version)
}

func welcomeBanner(server string) string {
	return fmt.Sprintf(`%s
Connected to %s.

Type '/help' for available commands.
Type '/quit' to exit.
`, fullTitle(), server)
}

type arguments struct {
	configPath  string
	server      string
	nick        string
	join        []string
	json        bool
	showHelp    bool
	showVersion bool
}

func parseArguments(argv []string) (arguments, error) {
	var args arguments
	remaining := argv

	value := func(flag string) (string, error) {
		if len(remaining) == 0 {
			return "", fmt.Errorf("%s requires an argument", flag)
		}
		v := remaining[0]
		remaining = remaining[1:]
		return v, nil
	}

	for len(remaining) > 0 {
		arg := remaining[0]
		remaining = remaining[1:]

		var err error
		switch arg {
		case "--config":
			args.configPath, err = value(arg)
		case "--server":
			args.server, err = value(arg)
		case "--nick":
			args.nick, err = value(arg)
		case "--join":
			var ch string
			if ch, err = value(arg); err == nil {
				args.join = append(args.join, ch)
			}
		case "--json":
			args.json = true
		case "--help", "-h":
			args.showHelp = true
		case "--version", "-v":
			args.showVersion = true
		default:
			err = fmt.Errorf("unknown argument: %s", arg)
		}
		if err != nil {
			return arguments{}, err
		}
	}
	return args, nil
}

// applyArguments layers command-line flags over the loaded config.
func applyArguments(cfg *config.Config, args arguments) {
	if args.server != "" {
		cfg.Server = args.server
	}
	if args.nick != "" {
		cfg.Nick = args.nick
	}
	for _, ch := range args.join {
		cfg.Channels = append(cfg.Channels, withChannelPrefix(ch))
	}
	if args.json {
		cfg.Output = config.OutputJSON
	}
}

func printUsage() {
	fmt.Print(`USAGE: irc [options]

OPTIONS:
  --config <path>     Load settings from a TOML file
  --server <addr>     Server address: host[:port], irc://host:port or ws://host/path
  --nick <nick>       Nickname
  --join <#channel>   Join a channel after registering (repeatable)
  --json              Print events as JSON documents
  --help, -h          Show this help
  --version, -v       Show version

ENVIRONMENT:
  IRC_SERVER, IRC_NICK, IRC_PASSWORD, IRC_CHANNELS (comma separated),
  IRC_METRICS_ADDR, IRC_REDIS_ADDR override the config file.
  IRC_LOG_LEVEL, IRC_LOG_JSON, IRC_LOG_NOCOLOR, IRC_LOG_TIMESTAMP control logging.

EXAMPLES:
  irc --server irc.libera.chat --nick gopher --join go-nuts
  irc --config ~/.config/irc.toml --json
`)
}

func printVersion() {
	fmt.Println(fullTitle())
}

func printError(message string) {
	fmt.Fprintf(os.Stderr, "Error: %s\n", message)
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(argv []string) int {
	args, err := parseArguments(argv)
	if err != nil {
		printError(err.Error())
		printUsage()
		return 1
	}
	if args.showHelp {
		printUsage()
		return 0
	}
	if args.showVersion {
		printVersion()
		return 0
	}

	logging.ConfigureRuntime()
	logger := logging.Logger("irc")

	cfg, err := config.Load(args.configPath)
	if err != nil {
		printError(err.Error())
		return 1
	}
	applyArguments(&cfg, args)
	if err := cfg.Validate(); err != nil {
		printError(err.Error())
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.MetricsAddr != "" {
		go func() {
			if err := observability.Serve(ctx, cfg.MetricsAddr, cfg.MetricsCORS, logging.Logger("metrics")); err != nil {
				logger.Error().Err(err).Msg("metrics listener failed")
			}
		}()
	}

	sinks, history, err := openSinks(ctx, cfg, logger)
	if err != nil {
		printError(err.Error())
		return 1
	}
	defer sinks.Close()

	client := ircprotocol.NewClient(
		ircprotocol.WithLogger(logging.Logger("client")),
		ircprotocol.WithObserver(observability.NewMetrics()),
	)

	fmt.Printf("Connecting to %s...\n", cfg.Server)
	if err := client.Connect(ctx, cfg.Server); err != nil {
		printError(fmt.Sprintf("Failed to connect: %v", err))
		return 1
	}
	defer client.Disconnect()

	if err := client.Register(ircprotocol.Identity{
		Nick:     cfg.Nick,
		User:     cfg.User,
		Realname: cfg.Realname,
		Password: cfg.Password,
	}); err != nil {
		printError(fmt.Sprintf("Failed to register: %v", err))
		return 1
	}

	editor := NewLineEditor()
	defer editor.Close()

	sess := &session{
		ctx:      ctx,
		client:   client,
		logger:   logger,
		suppress: cfg.SuppressSet(),
		json:     cfg.Output == config.OutputJSON,
		out:      editor.Stdout(),
	}
	if sinks.Len() > 0 {
		sess.sink = sinks
	}
	if history != nil {
		sess.history = history
	}

	for _, ch := range cfg.Channels {
		if err := client.Join(ch, ""); err != nil {
			printError(fmt.Sprintf("Failed to join %s: %v", ch, err))
			return 1
		}
		if sess.current == "" {
			sess.current = ch
		}
	}

	runErr := make(chan error, 1)
	go func() { runErr <- client.Run(ctx, sess.handleEvent) }()

	if editor.IsInteractive() {
		fmt.Print(welcomeBanner(cfg.Server))
	}

	replDone := make(chan bool, 1)
	go func() { replDone <- runREPL(editor, sess) }()

	select {
	case err = <-runErr:
	case quit := <-replDone:
		if !quit {
			client.Quit("")
		}
		select {
		case err = <-runErr:
		case <-time.After(quitGrace):
			client.Disconnect()
			err = <-runErr
		}
	}
	return exitCode(err, logger)
}

// exitCode maps the end of the read loop onto a process status.
func exitCode(err error, logger zerolog.Logger) int {
	switch {
	case err == nil,
		errors.Is(err, ircprotocol.ErrTransportClosed),
		errors.Is(err, context.Canceled):
		fmt.Println("Disconnected.")
		return 0
	default:
		logger.Error().Err(err).Msg("connection failed")
		printError(err.Error())
		return 1
	}
}

// openSinks opens the configured event sinks. A Redis server that cannot be
// reached disables the Redis sink rather than aborting startup.
func openSinks(ctx context.Context, cfg config.Config, logger zerolog.Logger) (*eventlog.Multi, *eventlog.RedisSink, error) {
	var sinks []eventlog.Sink
	var history *eventlog.RedisSink

	if cfg.EventLog.Path != "" {
		fs, err := eventlog.NewFileSink(eventlog.FileOptions{
			Path:       cfg.EventLog.Path,
			MaxSizeMB:  cfg.EventLog.MaxSizeMB,
			MaxBackups: cfg.EventLog.MaxBackups,
			MaxAgeDays: cfg.EventLog.MaxAgeDays,
		})
		if err != nil {
			return nil, nil, err
		}
		sinks = append(sinks, fs)
	}

	if cfg.Redis.Addr != "" {
		rs, err := eventlog.NewRedisSink(ctx, eventlog.RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Stream:   cfg.Redis.Stream,
			MaxLen:   cfg.Redis.MaxLen,
		})
		if err != nil {
			logger.Warn().Err(err).Msg("redis event log disabled")
		} else {
			sinks = append(sinks, rs)
			history = rs
		}
	}

	return eventlog.NewMulti(logging.Logger("eventlog"), sinks...), history, nil
}
