// Thalamus routes natural-language messages to tools without a language
// model: rule-based detectors score each message against their domain
// vocabularies and a fixed pipeline picks the winner or asks for
// clarification. The CLI wraps the engine in one-shot routing, decision
// reports, an interactive console, and a WebSocket observer feed.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/muesli/termenv"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/normanking/thalamus/internal/bus"
	"github.com/normanking/thalamus/internal/config"
	"github.com/normanking/thalamus/internal/console"
	"github.com/normanking/thalamus/internal/convo"
	"github.com/normanking/thalamus/internal/intent"
	"github.com/normanking/thalamus/internal/logging"
	"github.com/normanking/thalamus/internal/selector"
	"github.com/normanking/thalamus/internal/server"
	"github.com/normanking/thalamus/internal/usage"
	"github.com/normanking/thalamus/pkg/theme"
)

// Set at build time via -ldflags.
var (
	version = "0.1.0"
	commit  = "dev"
	date    = "unknown"
)

var (
	cfgPath string
	dataDir string
	verbose bool

	log *logging.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "thalamus",
		Short: "Deterministic intent routing for natural-language messages",
		Long: `Thalamus decides which tool a natural-language message is asking for.
Seventeen rule-based detectors score the message against their domain
vocabularies; a fixed pipeline filters, ranks, and either commits to a
tool or asks a clarifying question. No language model is involved, so
the same message always routes the same way.

Running without a subcommand opens the interactive console.

Examples:
  thalamus                           # interactive console
  thalamus route "play the beatles"  # one-shot decision
  thalamus explain "check my email"  # full decision report
  thalamus serve --addr :8781        # WebSocket observer feed`,
		PersistentPreRunE: initLogging,
		RunE:              runConsole,
	}

	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "Path to config file (default ~/.thalamus/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "Data directory for the usage store and logs (default ~/.thalamus)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose debug logging")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("Thalamus v%s (commit %s, built %s)\n", version, commit, date)
		},
	})

	rootCmd.AddCommand(routeCmd())
	rootCmd.AddCommand(explainCmd())
	rootCmd.AddCommand(consoleCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(detectorsCmd())
	rootCmd.AddCommand(usageCmd())
	rootCmd.AddCommand(configCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// ═══════════════════════════════════════════════════════════════════════════════
// LOGGING SETUP
// ═══════════════════════════════════════════════════════════════════════════════

func initLogging(cmd *cobra.Command, args []string) error {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}

	logDir := filepath.Join(home, ".thalamus", "logs")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to create log directory: %v\n", err)
	}

	timestamp := time.Now().Format("2006-01-02_15-04-05")
	logFile := filepath.Join(logDir, fmt.Sprintf("thalamus_%s.log", timestamp))

	var cfg *logging.Config
	if verbose {
		cfg = logging.VerboseConfig()
	} else {
		cfg = logging.DefaultConfig()
	}
	cfg.FilePath = logFile

	log = logging.New(cfg)
	logging.SetGlobal(log)

	log.Info("Thalamus v%s session started - logging to %s", version, logFile)
	if verbose {
		log.Debug("Verbose logging enabled")
		log.Debug("Config path: %s", getConfigPath())
	}

	return nil
}

// ═══════════════════════════════════════════════════════════════════════════════
// ENGINE INITIALIZATION
// ═══════════════════════════════════════════════════════════════════════════════

// initializeEngine assembles a selector from the config: the detector
// registry with the lexicon overlay applied, an optional event bus, and
// the sqlite usage store when asked for. The returned cleanup closes
// whatever was opened.
func initializeEngine(cfg *config.Config, b *bus.Bus, withUsage bool) (*selector.Selector, *usage.Store, func(), error) {
	registry, err := cfg.ToRegistry()
	if err != nil {
		return nil, nil, nil, err
	}

	opts := []selector.Option{
		selector.WithLogger(log.WithComponent("selector")),
		selector.WithRegistry(registry),
	}
	if b != nil {
		opts = append(opts, selector.WithBus(b))
	}

	var store *usage.Store
	if withUsage && cfg.Usage.Enabled {
		if err := cfg.EnsureDirectories(); err != nil {
			return nil, nil, nil, err
		}
		store, err = usage.Open(cfg.Usage.DBPath)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to open usage store: %w", err)
		}
		opts = append(opts, selector.WithUsage(usage.NewTally(context.Background(), store)))
	}

	cleanup := func() {
		if store != nil {
			if err := store.Close(); err != nil {
				log.Warn("Failed to close usage store: %v", err)
			}
		}
	}

	return selector.New(opts...), store, cleanup, nil
}

// ═══════════════════════════════════════════════════════════════════════════════
// CONSOLE MODE (default)
// ═══════════════════════════════════════════════════════════════════════════════

func consoleCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "console",
		Aliases: []string{"c"},
		Short:   "Open the interactive routing console",
		RunE:    runConsole,
	}
}

func runConsole(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	engine, store, cleanup, err := initializeEngine(cfg, nil, true)
	if err != nil {
		return err
	}
	defer cleanup()

	usageLabel := "memory"
	usageCounts := counterCounts(engine)
	if store != nil {
		usageLabel = "sqlite"
		usageCounts = func() (map[intent.Tool]int64, error) {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return store.Counts(ctx)
		}
	}

	log.Info("Starting interactive console...")

	// Keep log lines off the terminal while the console owns it. The
	// usage store and server log through zerolog, so that stream moves
	// to a file as well.
	logging.DisableConsoleOutput()
	defer logging.EnableConsoleOutput()

	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	logDir := filepath.Join(home, ".thalamus", "logs")
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	zerologPath := filepath.Join(logDir, fmt.Sprintf("thalamus_zerolog_%s.log", timestamp))

	zerologFile, err := os.OpenFile(zerologPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		log.Warn("Failed to redirect zerolog: %v", err)
	} else {
		defer zerologFile.Close()
		zerologWriter := zerolog.ConsoleWriter{Out: zerologFile, NoColor: true}
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		fileLogger := zerolog.New(zerologWriter).With().Timestamp().Logger()
		zerolog.DefaultContextLogger = &fileLogger
		zlog.Logger = fileLogger
	}

	return console.Run(&console.Config{
		Engine:      engine,
		Theme:       cfg.Console.Theme,
		VimMode:     cfg.Console.VimMode,
		Version:     version,
		UsageLabel:  usageLabel,
		UsageCounts: usageCounts,
	})
}

// counterCounts exposes the in-memory fallback recorder to /usage when
// no sqlite store is wired.
func counterCounts(engine *selector.Selector) func() (map[intent.Tool]int64, error) {
	rec, ok := engine.Usage().(*selector.CounterRecorder)
	if !ok {
		return nil
	}
	return func() (map[intent.Tool]int64, error) {
		return rec.Counts(), nil
	}
}

// ═══════════════════════════════════════════════════════════════════════════════
// ROUTE COMMAND (one-shot decision)
// ═══════════════════════════════════════════════════════════════════════════════

func routeCmd() *cobra.Command {
	var historyPath string
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "route [message]",
		Short: "Route a message and print the decision",
		Long: `Route a single message through the engine and print the outcome.

Examples:
  thalamus route "play the beatles"
  thalamus route "search for tax documents" --json
  thalamus route "skip this song" --history turns.json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			message := strings.Join(args, " ")

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			history, err := loadHistory(historyPath)
			if err != nil {
				return err
			}

			engine, _, cleanup, err := initializeEngine(cfg, nil, false)
			if err != nil {
				return err
			}
			defer cleanup()

			res := engine.Select(message, history)

			if jsonOut {
				data, err := json.MarshalIndent(res, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to marshal result: %w", err)
				}
				fmt.Println(string(data))
				return nil
			}

			st := console.NewStyles(theme.Get(cfg.Console.Theme))
			printResult(res, &st)
			return nil
		},
	}

	cmd.Flags().StringVar(&historyPath, "history", "", "Path to a JSON file of prior conversation turns")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print the full result as JSON")

	return cmd
}

func printResult(res *selector.Result, st *console.Styles) {
	if res.Primary == nil {
		if convo.ShouldSkip(res.Message) {
			fmt.Println("Conversational message, nothing to route.")
		} else {
			fmt.Println("No tool matched.")
			if res.CompoundRequest {
				fmt.Println("The message looks compound; try one request at a time.")
			}
		}
		return
	}

	if res.NeedsDisambiguation {
		options := append([]intent.Intent{*res.Primary}, res.Alternatives...)
		if len(options) > intent.MaxDisambiguationOptions {
			options = options[:intent.MaxDisambiguationOptions]
		}

		fmt.Println("Too close to call.")
		fmt.Printf("\n%s\n\n", res.DisambiguationPrompt)
		for i, opt := range options {
			fmt.Printf("  %d. %s (%.2f)\n", i+1, opt.Tool, opt.Confidence)
		}
		return
	}

	fmt.Println(console.RankTable(res, st, 100))
	if res.Primary.Params != nil {
		params, _ := json.Marshal(res.Primary.Params)
		fmt.Printf("Params:  %s\n", params)
	}
	if res.CompoundRequest {
		fmt.Println("Compound request; routed on the strongest signal.")
	}
	fmt.Printf("Elapsed: %s\n", res.Elapsed)
}

// ═══════════════════════════════════════════════════════════════════════════════
// EXPLAIN COMMAND (decision report)
// ═══════════════════════════════════════════════════════════════════════════════

func explainCmd() *cobra.Command {
	var historyPath string
	var plain bool
	var width int

	cmd := &cobra.Command{
		Use:   "explain [message]",
		Short: "Route a message and print the full decision report",
		Long: `Route a message and print a markdown report of the decision: every
viable interpretation, the extracted arguments, negative signals, and
the pipeline annotations.

Examples:
  thalamus explain "play the beatles"
  thalamus explain "search for the report" --plain`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			message := strings.Join(args, " ")

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			history, err := loadHistory(historyPath)
			if err != nil {
				return err
			}

			engine, _, cleanup, err := initializeEngine(cfg, nil, false)
			if err != nil {
				return err
			}
			defer cleanup()

			res := engine.Select(message, history)
			markdown := console.ExplainMarkdown(res)

			if plain {
				fmt.Println(markdown)
				return nil
			}

			style := theme.Get(cfg.Console.Theme).GlamourStyle
			if termenv.ColorProfile() == termenv.Ascii {
				style = "notty"
			}
			fmt.Println(console.RenderMarkdown(markdown, style, width))
			return nil
		},
	}

	cmd.Flags().StringVar(&historyPath, "history", "", "Path to a JSON file of prior conversation turns")
	cmd.Flags().BoolVar(&plain, "plain", false, "Print raw markdown without terminal rendering")
	cmd.Flags().IntVar(&width, "width", 100, "Render width in columns")

	return cmd
}

// ═══════════════════════════════════════════════════════════════════════════════
// SERVE COMMAND (observer feed)
// ═══════════════════════════════════════════════════════════════════════════════

func serveCmd() *cobra.Command {
	var addr string
	var token string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the WebSocket observer feed",
		Long: `Start the WebSocket observer server and route messages read from
stdin. Every selection is broadcast to connected observers as a JSON
event; new observers are replayed recent history.

Examples:
  thalamus serve
  thalamus serve --addr 0.0.0.0:8781 --token secret
  tail -f messages.log | thalamus serve`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			if addr != "" {
				cfg.Server.Addr = addr
			}
			tokenHash := cfg.Server.TokenHash
			if token != "" {
				tokenHash, err = server.HashToken(token)
				if err != nil {
					return fmt.Errorf("failed to hash token: %w", err)
				}
			}

			// Long-running mode appends to the stable configured log
			// file instead of the per-session one.
			if cfg.Logging.File != "" {
				if err := log.SetFileOutput(cfg.Logging.File); err != nil {
					log.Warn("Failed to open log file %s: %v", cfg.Logging.File, err)
				}
			}

			b := bus.NewWithHistory(cfg.Server.History)
			defer b.Close()

			engine, _, cleanup, err := initializeEngine(cfg, b, false)
			if err != nil {
				return err
			}
			defer cleanup()

			obs := server.New(b, server.Config{
				Addr:            cfg.Server.Addr,
				TokenHash:       tokenHash,
				HistoryCount:    cfg.Server.History,
				ShutdownTimeout: 5 * time.Second,
			})
			if err := obs.Start(); err != nil {
				return fmt.Errorf("failed to start server: %w", err)
			}

			auth := "disabled (loopback use only)"
			if tokenHash != "" {
				auth = "bearer token"
			}

			fmt.Printf("\n⬡ Thalamus Observer\n")
			fmt.Printf("  Feed:   ws://%s%s\n", obs.Addr(), server.WebSocketEndpoint)
			fmt.Printf("  Health: http://%s%s\n", obs.Addr(), server.HealthEndpoint)
			fmt.Printf("  Auth:   %s\n", auth)
			fmt.Printf("\nType a message to route it; Ctrl+C to stop.\n\n")

			go routeStdin(engine)

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
			<-sigChan

			fmt.Println("\nShutting down...")
			if err := obs.Stop(); err != nil {
				log.Error("Shutdown error: %v", err)
				return err
			}

			log.Info("Observer stopped gracefully")
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config)")
	cmd.Flags().StringVar(&token, "token", "", "Access token observers must present")

	return cmd
}

// routeStdin feeds stdin lines through the engine so observers have a
// live event stream. EOF stops the feed; the server keeps running.
func routeStdin(engine *selector.Selector) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		message := strings.TrimSpace(scanner.Text())
		if message == "" {
			continue
		}

		res := engine.Select(message, nil)
		switch {
		case res.NeedsDisambiguation:
			fmt.Printf("? %s\n", res.DisambiguationPrompt)
		case res.Primary != nil:
			fmt.Printf("→ %s (%.2f)\n", res.Primary.Tool, res.Primary.Confidence)
		case convo.ShouldSkip(res.Message):
			fmt.Println("· conversational")
		default:
			fmt.Println("· no match")
		}
	}
}

// ═══════════════════════════════════════════════════════════════════════════════
// DETECTOR COMMANDS
// ═══════════════════════════════════════════════════════════════════════════════

func detectorsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "detectors",
		Aliases: []string{"d"},
		Short:   "Manage domain detectors",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List detectors and their enabled state",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			registry, err := cfg.ToRegistry()
			if err != nil {
				return err
			}

			states := registry.States()
			names := make([]string, 0, len(states))
			for name := range states {
				names = append(names, name)
			}
			sort.Strings(names)

			fmt.Printf("%d detectors:\n\n", len(names))
			for _, name := range names {
				state := "enabled"
				if !states[name] {
					state = "disabled"
				}
				fmt.Printf("  %-15s %s\n", name, state)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "enable [name]",
		Short: "Enable a detector",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setDetector(args[0], true)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "disable [name]",
		Short: "Disable a detector",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setDetector(args[0], false)
		},
	})

	return cmd
}

// setDetector flips one detector's enabled state in the config file so
// every later session picks it up.
func setDetector(name string, enabled bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if cfg.Detectors == nil {
		cfg.Detectors = make(map[string]bool)
	}
	cfg.Detectors[name] = enabled

	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := cfg.SaveToPath(getConfigPath()); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	state := "enabled"
	if !enabled {
		state = "disabled"
	}
	fmt.Printf("✅ Detector %s %s\n", name, state)
	return nil
}

// ═══════════════════════════════════════════════════════════════════════════════
// USAGE COMMAND
// ═══════════════════════════════════════════════════════════════════════════════

func usageCmd() *cobra.Command {
	var reset bool
	var top int

	cmd := &cobra.Command{
		Use:   "usage",
		Short: "Show recorded tool usage",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			if !cfg.Usage.Enabled {
				fmt.Println("Usage tracking is disabled in the config.")
				return nil
			}

			if err := cfg.EnsureDirectories(); err != nil {
				return err
			}
			store, err := usage.Open(cfg.Usage.DBPath)
			if err != nil {
				return fmt.Errorf("failed to open usage store: %w", err)
			}
			defer store.Close()

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if reset {
				if err := store.Reset(ctx); err != nil {
					return fmt.Errorf("failed to reset usage: %w", err)
				}
				fmt.Println("✅ Usage counters reset")
				return nil
			}

			counts, err := store.Top(ctx, top)
			if err != nil {
				return fmt.Errorf("failed to read usage: %w", err)
			}

			if len(counts) == 0 {
				fmt.Println("No successful executions recorded yet.")
				return nil
			}

			fmt.Printf("%d tools with recorded executions:\n\n", len(counts))
			for i, tc := range counts {
				fmt.Printf("  %d. %-22s %d\n", i+1, tc.Tool, tc.Count)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&reset, "reset", false, "Clear all usage counters")
	cmd.Flags().IntVar(&top, "top", 10, "How many tools to list")

	return cmd
}

// ═══════════════════════════════════════════════════════════════════════════════
// CONFIG COMMANDS
// ═══════════════════════════════════════════════════════════════════════════════

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			var disabled []string
			for name, enabled := range cfg.Detectors {
				if !enabled {
					disabled = append(disabled, name)
				}
			}
			sort.Strings(disabled)

			fmt.Println("Thalamus Configuration:")
			fmt.Println("───────────────────────")
			fmt.Printf("Usage Store:   %s (enabled: %t)\n", cfg.Usage.DBPath, cfg.Usage.Enabled)
			fmt.Printf("Server Addr:   %s\n", cfg.Server.Addr)
			fmt.Printf("Server Auth:   %t\n", cfg.Server.TokenHash != "")
			fmt.Printf("Console Theme: %s\n", cfg.Console.Theme)
			fmt.Printf("Vim Mode:      %t\n", cfg.Console.VimMode)
			fmt.Printf("Log Level:     %s\n", cfg.Logging.Level)
			if len(disabled) > 0 {
				fmt.Printf("Disabled:      %s\n", strings.Join(disabled, ", "))
			}
			if len(cfg.Lexicon.ExtraArtists) > 0 || len(cfg.Lexicon.ExtraGenres) > 0 {
				fmt.Printf("Lexicon:       +%d artists, +%d genres\n",
					len(cfg.Lexicon.ExtraArtists), len(cfg.Lexicon.ExtraGenres))
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(getConfigPath())
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := getConfigPath()
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("config already exists at %s", path)
			}

			if err := config.Default().SaveToPath(path); err != nil {
				return err
			}
			fmt.Printf("✅ Wrote default config to %s\n", path)
			return nil
		},
	})

	return cmd
}

// ═══════════════════════════════════════════════════════════════════════════════
// HELPERS
// ═══════════════════════════════════════════════════════════════════════════════

func loadConfig() (*config.Config, error) {
	path := getConfigPath()
	log.Debug("Loading config from: %s", path)

	cfg, err := config.LoadFromPath(path)
	if err != nil {
		return nil, err
	}

	if dataDir != "" {
		log.Debug("Overriding data paths from CLI flag: %s", dataDir)
		cfg.Usage.DBPath = filepath.Join(dataDir, "usage.db")
		cfg.Logging.File = filepath.Join(dataDir, "logs", "thalamus.log")
	}

	// The verbose flag wins over the configured level.
	if !verbose {
		logging.SetLevel(logging.ParseLevel(cfg.Logging.Level))
	}

	return cfg, nil
}

func getConfigPath() string {
	if cfgPath != "" {
		return cfgPath
	}
	if dataDir != "" {
		return filepath.Join(dataDir, "config.yaml")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ".thalamus/config.yaml"
	}
	return filepath.Join(home, ".thalamus", "config.yaml")
}

func loadHistory(path string) ([]convo.Turn, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read history file: %w", err)
	}

	var turns []convo.Turn
	if err := json.Unmarshal(data, &turns); err != nil {
		return nil, fmt.Errorf("failed to parse history file: %w", err)
	}
	return turns, nil
}
