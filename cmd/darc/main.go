package main

import (
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/darc-project/darc/internal/config"
	"github.com/darc-project/darc/internal/logger"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func main() {
	Execute()
}

// cfg is loaded once flags are parsed
var cfg *config.Config

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "darc",
	Short: "Code analysis, review and profiling from the terminal",
	Long: `darc sends your code to the DARC analysis service and shows what comes back:
static analysis suggestions, a complexity score, review comments, an optimized
version and a performance report.

Run it without a command for the interactive dashboard.`,
	SilenceUsage: true,
	RunE:         runTUI,
}

// interactive commands own the terminal, so they log to a file instead
var interactive = map[string]bool{"darc": true, "tui": true}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		versionFlag, _ := cmd.Flags().GetBool("version")
		if versionFlag {
			pterm.Info.Println(config.GetVersionInfo())
			os.Exit(0)
		}

		loaded, err := config.Load(cmd.Flags())
		if err != nil {
			return err
		}
		cfg = loaded

		if interactive[cmd.Name()] {
			if cfg.Logging.OutputPath == "" {
				cfg.Logging.OutputPath = filepath.Join(config.DefaultDataDir(), "darc.log")
				cfg.Logging.AppendToFile = true
			}
			cfg.Logging.DisableConsole = true
		}
		return logger.InitLogger(&cfg.Logging)
	}
	rootCmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	}

	defer func() {
		if r := recover(); r != nil {
			pterm.Error.Printf("\nCaught panic: %v\n", r)
			pterm.Error.Printf("%s\n", debug.Stack())
			os.Exit(2)
		}
	}()

	if err := rootCmd.Execute(); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}

func init() {
	config.InitFlags(rootCmd.PersistentFlags())
	rootCmd.PersistentFlags().BoolP("version", "v", false, "Show version information")
	rootCmd.Flags().String("page", "landing", "Page to open first (landing, signup, login, dashboard)")

	rootCmd.AddCommand(
		tuiCmd,
		webCmd,
		signupCmd,
		loginCmd,
		tokenCmd,
		logoutCmd,
		versionCmd,
	)
	rootCmd.AddCommand(actionCommands()...)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	// version needs no config
	PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
	Run: func(cmd *cobra.Command, args []string) {
		pterm.Info.Println(config.GetVersionInfo())
	},
}
