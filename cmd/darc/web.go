package main

import (
	"github.com/darc-project/darc/internal/analysis"
	"github.com/darc-project/darc/internal/config"
	"github.com/darc-project/darc/internal/logger"
	"github.com/darc-project/darc/internal/requester"
	"github.com/darc-project/darc/internal/web"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

var webCmd = &cobra.Command{
	Use:   "web",
	Short: "Serve the web front end",
	Long: `Serve the landing, signup, login and dashboard pages over HTTP and proxy
POST /api/{action} to the analysis backend. Tokens live in browser cookies.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		pterm.Info.Printfln("Serving DARC on http://%s", cfg.Web.Addr())

		// no local storage: every browser brings its own token
		app := fx.New(
			config.Module(cfg),
			logger.Module,
			requester.Module,
			analysis.Module,
			web.Module,
		)
		app.Run()
		return app.Err()
	},
}

func init() {
	config.InitWebFlags(webCmd.Flags())
}
