package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	configcmd "github.com/Iron-Ham/intake/internal/cmd/config"
	"github.com/Iron-Ham/intake/internal/config"
	"github.com/Iron-Ham/intake/internal/errors"
)

var rootCmd = newRootCmd()

// Execute runs the root command
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return execute(ctx, rootCmd)
}

// execute runs root and reports any error that was not already printed as a
// notice.
func execute(ctx context.Context, root *cobra.Command) error {
	err := root.ExecuteContext(ctx)
	if err != nil {
		report(root.ErrOrStderr(), err)
	}
	return err
}

func report(w io.Writer, err error) {
	var syncErr *errors.SyncError
	switch {
	case errors.As(err, &syncErr):
		// Published on the bus and printed by the notice subscriber.
	case errors.IsUserFacing(err):
		fmt.Fprintln(w, "Error:", errors.Notice(err))
	default:
		fmt.Fprintln(w, "Error:", err)
	}
}

func newRootCmd() *cobra.Command {
	var cfgFile string

	root := &cobra.Command{
		Use:   "intake",
		Short: "Daily nutrition intake ledger",
		Long: `Intake keeps a per-day ledger of the meals you ate, grouped by meal
category, and compares the day's calorie and macronutrient totals against
your goals. All data lives on a remote nutrition API; intake caches the
days it has fetched and only refreshes when asked to.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(cfgFile)
		},
	}

	// Global flags
	root.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is $HOME/.config/intake/config.yaml)")

	root.AddCommand(
		newDayCmd(),
		newMealCmd(),
		newMealsCmd(),
		newGoalsCmd(),
		newStatsCmd(),
		newTUICmd(),
	)
	configcmd.Register(root)

	return root
}

func initConfig(cfgFile string) error {
	// Set defaults first so they're available even without a config file
	config.SetDefaults()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath(".")
	}

	// .env never overrides variables already set in the environment
	loadDotEnv()

	viper.SetEnvPrefix("INTAKE")
	// e.g., INTAKE_API_TOKEN for api.token
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}
	return nil
}

// loadDotEnv loads .env from the working directory and the config directory,
// in that order, when present.
func loadDotEnv() {
	for _, path := range []string{".env", filepath.Join(config.ConfigDir(), ".env")} {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		_ = godotenv.Load(path)
	}
}
