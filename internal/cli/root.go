// Package cli is the posctl administration tool. It talks to the same
// store as the API server and covers the setup the HTTP surface leaves out.
package cli

import (
	"context"
	"fmt"

	"github.com/sangkips/retailpos-api/internal/application/service"
	"github.com/sangkips/retailpos-api/internal/bootstrap"
	"github.com/sangkips/retailpos-api/internal/config"
	"github.com/sangkips/retailpos-api/pkg/logger"
	"github.com/spf13/cobra"
)

var (
	cfg     *config.Config
	backend *bootstrap.Backend
)

var rootCmd = &cobra.Command{
	Use:           "posctl",
	Short:         "Administer the retail POS engine",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if backend != nil {
			return nil
		}
		cfg = config.Load()
		logger.InitLogger(cfg.Log.Level)

		var err error
		backend, err = bootstrap.Open(cfg, false)
		return err
	},
}

// Execute runs the command line
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func admin() *service.AdminService {
	return service.NewAdminService(backend.Repos, backend.Tx)
}

func settings() *service.SettingsService {
	return service.NewSettingsService(backend.Repos.Settings)
}

func printf(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}
