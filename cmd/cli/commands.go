package main

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/spf13/cobra"

	"github.com/AdamBeresnev/pong-tracker/internal/config"
	"github.com/AdamBeresnev/pong-tracker/internal/db"
	"github.com/AdamBeresnev/pong-tracker/internal/logging"
	"github.com/AdamBeresnev/pong-tracker/internal/service"
	"github.com/AdamBeresnev/pong-tracker/internal/store"
)

var (
	seedCount int
	seedValue uint64
	allGames  bool
)

func init() {
	seedCmd.Flags().IntVarP(&seedCount, "count", "n", 10, "Number of players to generate")
	seedCmd.Flags().Uint64Var(&seedValue, "seed", 0, "Random seed, 0 picks one")
	leaderboardCmd.Flags().BoolVar(&allGames, "all", false, "Include games still in progress")

	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(gamesCmd)
	rootCmd.AddCommand(leaderboardCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest(cmd.OutOrStdout(), "/health")
	},
}

var gamesCmd = &cobra.Command{
	Use:   "games",
	Short: "List recorded games",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest(cmd.OutOrStdout(), "/games/")
	},
}

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Show the player leaderboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		endpoint := "/leaderboard/"
		if allGames {
			endpoint += "?scope=all"
		}
		return performGetRequest(cmd.OutOrStdout(), endpoint)
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		database, err := db.InitDB(cfg.DB)
		if err != nil {
			return err
		}
		defer database.Close()

		if err := db.RunMigrations(database.DB, cfg.MigrationsDir); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Migrations applied")
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Register randomly generated players",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		database, err := db.InitDB(cfg.DB)
		if err != nil {
			return err
		}
		defer database.Close()

		if err := db.RunMigrations(database.DB, cfg.MigrationsDir); err != nil {
			return err
		}

		players := service.NewPlayerService(store.NewPlayerStore(database))
		created, err := players.CreateRandomPlayers(cmd.Context(), seedCount, gofakeit.New(seedValue))
		for _, p := range created {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", p.ID, p.Username)
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created %d players\n", len(created))
		return nil
	},
}

func loadConfig() config.Config {
	cfg := config.Load()
	slog.SetDefault(logging.New(os.Stderr, cfg.Log))
	return cfg
}

func performGetRequest(out io.Writer, endpoint string) error {
	url := host + endpoint
	fmt.Fprintf(out, "Making request to %s\n", url)

	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Fprintf(out, "Status Code: %d\n", resp.StatusCode)
	fmt.Fprintln(out, "Response Body:")
	fmt.Fprintln(out, string(body))

	return nil
}
