package cli

import (
	"fmt"
	"io"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"memorymatch/internal/app"
	"memorymatch/internal/bot"
	"memorymatch/internal/config"
	"memorymatch/internal/platform/logger"
	"memorymatch/internal/ports/terminal"

	"github.com/spf13/cobra"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in the terminal.",
	Long: "`play` starts a game in the terminal. Settings come from --config, " +
		"MEMORYMATCH_* environment variables and flags, in increasing precedence.",
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	rootCmd.AddCommand(playCmd)

	defaults := config.Default()
	playCmd.Flags().Int("pairs", defaults.PairCount, "Number of card pairs (1-32)")
	playCmd.Flags().Int("delay-ms", defaults.ResolutionDelayMillis, "Milliseconds before a flipped pair is resolved")
	playCmd.Flags().Int("columns", defaults.Columns, "Cards per row")
	playCmd.Flags().String("log-level", defaults.LogLevel, "Log level: debug, info, warn or error")
	playCmd.Flags().Int64("seed", 0, "Shuffle seed; 0 picks one from the clock")
	playCmd.Flags().String("config", "", "Path to a JSON, YAML or TOML config file")
	playCmd.Flags().String("hints", "smart", "Hint bot level for the h key: good, smart or none")
	playCmd.Flags().String("log-file", "memorymatch.log", "Log file; empty disables logging")
}

func runPlay(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadWithFlags(configPath, cmd.Flags())
	if err != nil {
		return err
	}

	logFile, _ := cmd.Flags().GetString("log-file")
	w, closeLog, err := openLog(logFile)
	if err != nil {
		return err
	}
	defer closeLog()
	log := logger.Setup(cfg.LogLevel, w)

	seed, _ := cmd.Flags().GetInt64("seed")
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	log.Info("starting terminal game",
		"pairs", cfg.PairCount,
		"delay", cfg.ResolutionDelay(),
		"seed", seed)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc := app.NewService(rand.New(rand.NewSource(seed)))
	ctrl := terminal.NewController(*cfg, svc, terminal.TimerScheduler{}, log)
	if level, _ := cmd.Flags().GetString("hints"); level != "none" {
		agent, err := newAgent(level, rand.New(rand.NewSource(seed+1)))
		if err != nil {
			return err
		}
		ctrl.EnableHints(agent)
	}
	if err := terminal.Run(ctx, ctrl, log); err != nil {
		log.Error("terminal game failed", "error", err)
		return err
	}
	return nil
}

func openLog(path string) (io.Writer, func(), error) {
	if path == "" {
		return io.Discard, func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

func newAgent(levelName string, rng *rand.Rand) (*bot.Agent, error) {
	level, err := bot.ParseLevel(levelName)
	if err != nil {
		return nil, err
	}
	brain, err := bot.NewBrain(level, rng)
	if err != nil {
		return nil, err
	}
	return &bot.Agent{ID: "bot-" + level.String(), Name: level.String() + " bot", Strategy: brain}, nil
}
