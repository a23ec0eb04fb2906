package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/quantmind-br/rentwatch-go/internal/app"
	"github.com/quantmind-br/rentwatch-go/internal/config"
	"github.com/quantmind-br/rentwatch-go/internal/renderer"
	"github.com/quantmind-br/rentwatch-go/internal/utils"
	"github.com/quantmind-br/rentwatch-go/pkg/version"
)

var (
	cfgFile string
	verbose bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "rentwatch",
	Short: "Watch rental listing pages for unit and price changes",
	Long: `Rentwatch scrapes a configured set of floor-plan listing pages,
compares what it finds against the previous observation, and reports
new units, removed units, and price changes.

Every run appends its observation to an on-disk history, so consecutive
runs diff against real data rather than guesses. Pages are rendered with
headless Chrome when available; otherwise a stealth HTTP client fetches
the raw HTML.`,
	Version: version.Short(),
	Args:    cobra.NoArgs,
	RunE:    run,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.rentwatch/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	rootCmd.Flags().String("plans", "", "Tracked plans file (default is ~/.rentwatch/plans.yaml)")
	rootCmd.Flags().String("history-backend", "file", "History backend: file or badger")
	rootCmd.Flags().Duration("timeout", 45*time.Second, "Page render timeout")
	rootCmd.Flags().String("wait-for", "", "CSS selector to wait for before extracting")
	rootCmd.Flags().Bool("no-browser", false, "Fetch raw HTML without headless Chrome")
	rootCmd.Flags().Bool("notify", false, "Send an email report")
	rootCmd.Flags().Bool("always-notify", false, "Send the report even when nothing changed")

	_ = viper.BindPFlag("plans_file", rootCmd.Flags().Lookup("plans"))
	_ = viper.BindPFlag("history.backend", rootCmd.Flags().Lookup("history-backend"))
	_ = viper.BindPFlag("rendering.timeout", rootCmd.Flags().Lookup("timeout"))
	_ = viper.BindPFlag("rendering.wait_for", rootCmd.Flags().Lookup("wait-for"))
	_ = viper.BindPFlag("rendering.no_browser", rootCmd.Flags().Lookup("no-browser"))
	_ = viper.BindPFlag("notify.enabled", rootCmd.Flags().Lookup("notify"))
	_ = viper.BindPFlag("notify.always_notify", rootCmd.Flags().Lookup("always-notify"))

	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}
}

func run(cmd *cobra.Command, args []string) error {
	logLevel := ""
	if verbose {
		logLevel = "debug"
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}

	logger := utils.NewLogger(utils.LoggerOptions{
		Level:   cfg.Logging.Level,
		Format:  cfg.Logging.Format,
		Verbose: verbose,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info().Msg("Shutting down gracefully...")
		cancel()
	}()

	orchestrator, err := app.NewOrchestrator(app.OrchestratorOptions{
		Config: cfg,
		Logger: logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create orchestrator: %w", err)
	}
	defer orchestrator.Close()

	_, err = orchestrator.Run(ctx)
	return err
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check system dependencies",
	Long:  "Verifies that the browser, history location, and notification settings are usable.",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("Checking system dependencies...")
		allPassed := true

		fmt.Print("  Chrome/Chromium: ")
		if path, ok := renderer.BrowserPath(); ok {
			fmt.Printf("OK (%s)\n", path)
		} else {
			fmt.Println("NOT FOUND (pages will be fetched without JavaScript)")
		}

		fmt.Print("  Config file: ")
		cfg, err := config.Load()
		if err != nil {
			fmt.Printf("FAILED (%v)\n", err)
			allPassed = false
		} else {
			fmt.Println("OK")
		}

		if cfg != nil {
			fmt.Print("  Plans file: ")
			if _, err := config.LoadPlans(cfg.PlansFile); err != nil {
				fmt.Printf("WARN (%v)\n", err)
			} else {
				fmt.Println("OK")
			}

			fmt.Print("  History location: ")
			if checkHistoryWritable(cfg) {
				fmt.Println("OK")
			} else {
				fmt.Println("FAILED")
				allPassed = false
			}

			fmt.Print("  Notifications: ")
			if !cfg.Notify.Enabled {
				fmt.Println("disabled")
			} else {
				fmt.Printf("OK (%s:%d, %d recipients)\n",
					cfg.Notify.SMTPServer, cfg.Notify.SMTPPort, len(cfg.Notify.To))
			}
		}

		fmt.Println()
		if allPassed {
			fmt.Println("All critical checks passed!")
		} else {
			fmt.Println("Some checks failed. Please resolve the issues above.")
		}
		return nil
	},
}

// checkHistoryWritable verifies the history location's parent directory can
// be created and written.
func checkHistoryWritable(cfg *config.Config) bool {
	var dir string
	switch cfg.History.Backend {
	case "badger":
		dir = cfg.History.Directory
	default:
		dir = filepath.Dir(cfg.History.Path)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return false
	}
	probe := filepath.Join(dir, ".rentwatch_write_check")
	f, err := os.Create(probe)
	if err != nil {
		return false
	}
	f.Close()
	os.Remove(probe)
	return true
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.Full())
	},
}
