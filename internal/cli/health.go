package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(healthCmd)
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the catalog API",
	Long:  `Call the catalog API health endpoint and report its status.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		profile, err := ResolveProfile()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		status, err := newCatalogClient(profile).Health(cmd.Context())
		if err != nil {
			return fmt.Errorf("catalog API at %s is unavailable: %w", profile.APIURL, err)
		}

		return RenderHealth(cmd.OutOrStdout(), status, viper.GetString("output"))
	},
}
