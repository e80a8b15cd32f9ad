package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/Ashfaaq98/docket-console/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile   string
	envFile   string
	apiURL    string
	statePath string
	redisURL  string
	logLevel  string
	theme     string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "docket",
	Short: "Terminal console for a legal practice's case-management backend",
	Long: `Docket is a terminal administration console for a case-management REST
backend. It lists, searches and edits cases, keeps the reference lists
(courts, companies, case types, police stations) and daily notes, and shows
the dashboard counters.

Run "docket console" for the full-screen interface, or use the headless
commands (list, dashboard, lookup, notes, import, export) from scripts.

Configuration is read from flags, DOCKET_* environment variables, a .env
file and $HOME/.docket.yaml, in that order of precedence.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.docket.yaml)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading DOCKET_* variables")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", config.DefaultBaseURL, "Backend base URL")
	rootCmd.PersistentFlags().StringVar(&statePath, "state-db", "./data/docket.db", "SQLite file for local state")
	rootCmd.PersistentFlags().StringVar(&redisURL, "redis", "", "Redis URL for the shared cache and change feed (optional)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&theme, "theme", "dark", "Console theme (dark, light, neon, cb-safe, high-contrast)")

	// Bind flags to viper
	viper.BindPFlag("api.base_url", rootCmd.PersistentFlags().Lookup("api-url"))
	viper.BindPFlag("state.path", rootCmd.PersistentFlags().Lookup("state-db"))
	viper.BindPFlag("redis.url", rootCmd.PersistentFlags().Lookup("redis"))
	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("ui.theme", rootCmd.PersistentFlags().Lookup("theme"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	used, err := config.Init(viper.GetViper(), cfgFile, envFile)
	cobra.CheckErr(err)
	if used != "" {
		fmt.Fprintln(os.Stderr, "Using config file:", used)
	}
}
