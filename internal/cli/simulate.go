package cli

import (
	"fmt"
	"math/rand"
	"time"

	"memorymatch/internal/app"
	"memorymatch/internal/bot"
	"memorymatch/internal/config"

	"github.com/spf13/cobra"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Let a bot play games without a terminal.",
	Long:  "`simulate --bot smart --games 100` plays games headlessly and reports the move counts.",
	Args:  cobra.NoArgs,
	RunE:  runSimulate,
}

func init() {
	rootCmd.AddCommand(simulateCmd)

	defaults := config.Default()
	simulateCmd.Flags().Int("pairs", defaults.PairCount, "Number of card pairs (1-32)")
	simulateCmd.Flags().String("bot", "smart", "Bot level: good or smart")
	simulateCmd.Flags().Int("games", 10, "Number of games to play")
	simulateCmd.Flags().Int64("seed", 0, "Shuffle seed; 0 picks one from the clock")
	simulateCmd.Flags().String("config", "", "Path to a JSON, YAML or TOML config file")
}

// SimulationSummary aggregates simulated games.
type SimulationSummary struct {
	Games    int
	MinMoves int
	MaxMoves int
	AvgMoves float64
}

func runSimulate(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadWithFlags(configPath, cmd.Flags())
	if err != nil {
		return err
	}

	games, _ := cmd.Flags().GetInt("games")
	levelName, _ := cmd.Flags().GetString("bot")
	seed, _ := cmd.Flags().GetInt64("seed")
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	summary, err := simulate(levelName, cfg.PairCount, games, seed)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s bot, %d pairs, %d games: moves min %d, max %d, avg %.2f\n",
		levelName, cfg.PairCount, summary.Games, summary.MinMoves, summary.MaxMoves, summary.AvgMoves)
	return nil
}

func simulate(levelName string, pairCount, games int, seed int64) (SimulationSummary, error) {
	if games <= 0 {
		return SimulationSummary{}, fmt.Errorf("games must be positive, got %d", games)
	}
	agent, err := newAgent(levelName, rand.New(rand.NewSource(seed+1)))
	if err != nil {
		return SimulationSummary{}, err
	}
	svc := app.NewService(rand.New(rand.NewSource(seed)))

	summary := SimulationSummary{Games: games}
	total := 0
	for i := 0; i < games; i++ {
		res, err := bot.Simulate(svc, agent, pairCount)
		if err != nil {
			return SimulationSummary{}, err
		}
		total += res.Moves
		if i == 0 || res.Moves < summary.MinMoves {
			summary.MinMoves = res.Moves
		}
		if res.Moves > summary.MaxMoves {
			summary.MaxMoves = res.Moves
		}
	}
	summary.AvgMoves = float64(total) / float64(games)
	return summary, nil
}
