package main

import (
	"fmt"
	"github.com/litetable/litetable-sink/internal/cdc"
	"github.com/litetable/litetable-sink/internal/config"
	"github.com/litetable/litetable-sink/internal/translator"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

var cfgFile string

var rootCmd = &cobra.Command{
	Use:           "litetable-sink",
	Short:         "Stream table changes into LiteTable",
	Long:          `Translates row-level change events into LiteTable point writes and deletes.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path (default ~/.litetable/sink.yaml)")
	rootCmd.AddCommand(runCmd, replayCmd, tailCmd, versionCmd)

	tailCmd.Flags().String("family", "", "only print events of this family")
	tailCmd.Flags().Bool("replay", false, "ask the server to replay past events")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("litetable-sink failed")
		os.Exit(1)
	}
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the sink from the configured source",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		application, err := initialize(cfg)
		if err != nil {
			return err
		}
		return application.Run(cmd.Context())
	},
}

var replayCmd = &cobra.Command{
	Use:   "replay <file>",
	Short: "Replay change events from a JSON lines file, - for stdin",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(config.WithJSONLSource(args[0]))
		if err != nil {
			return err
		}

		application, err := initialize(cfg)
		if err != nil {
			return err
		}
		return application.Run(cmd.Context())
	},
}

var tailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Print the LiteTable change stream as JSON lines",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		family, _ := cmd.Flags().GetString("family")
		replay, _ := cmd.Flags().GetBool("replay")

		follower, err := cdc.New(&cdc.Config{
			Address: cfg.Store.CDCAddress,
			Replay:  replay,
			Family:  family,
			Auth:    authFrom(cfg),
		})
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return follower.Follow(ctx, cdc.JSONWriter(cmd.OutOrStdout()))
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "litetable-sink "+version)
	},
}

func loadConfig(opts ...config.Option) (*config.Config, error) {
	cfg, err := config.Load(cfgFile, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	initLog(cfg)
	return cfg, nil
}

func initLog(cfg *config.Config) {
	zerolog.SetGlobalLevel(cfg.LogLevel())
	zerolog.TimeFieldFormat = time.RFC3339Nano
	if cfg.Log.Format == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
		return
	}
	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
}

func authFrom(cfg *config.Config) translator.Auth {
	return translator.Auth{
		CredentialFile: cfg.Store.Auth.CredentialFile,
		Principal:      cfg.Store.Auth.Principal,
		RealmConfig:    cfg.Store.Auth.RealmConfig,
		ClientSecurity: cfg.Store.Auth.ClientSecurity,
	}
}
