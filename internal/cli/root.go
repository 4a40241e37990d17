// Package cli provides the catalogctl command-line interface for the catalog.
package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ericfisherdev/simple-catalog/internal/logging"
)

const (
	applicationName = "catalogctl"
	version         = "1.0.0"
	configFileName  = ".catalogctl.yaml"
)

var (
	cfgFile      string
	outputFormat string
	verbose      bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   applicationName,
	Short: "Catalog CLI - browse and add catalog items from the command line",
	Long: `catalogctl is a command-line interface for the catalog application.

It lists and shows items through the catalog API, signs in through the web
front end, and adds items once a valid session is stored in the active profile.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/"+configFileName+")")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table", "output format (table, json, yaml, csv)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().String("api-url", "", "catalog API URL (overrides the profile)")
	rootCmd.PersistentFlags().String("web-url", "", "web front end URL (overrides the profile)")
	rootCmd.PersistentFlags().String("profile", "", "profile to use instead of the default")
	rootCmd.PersistentFlags().Duration("timeout", 10*time.Second, "per-request timeout")
	rootCmd.PersistentFlags().Uint("retries", 3, "attempts for retryable API failures")

	// Bind flags to viper
	_ = viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("api_url", rootCmd.PersistentFlags().Lookup("api-url"))
	_ = viper.BindPFlag("web_url", rootCmd.PersistentFlags().Lookup("web-url"))
	_ = viper.BindPFlag("profile", rootCmd.PersistentFlags().Lookup("profile"))
	_ = viper.BindPFlag("timeout", rootCmd.PersistentFlags().Lookup("timeout"))
	_ = viper.BindPFlag("retries", rootCmd.PersistentFlags().Lookup("retries"))

	_ = viper.BindEnv("api_url", "CATALOG_API_URL")
	_ = viper.BindEnv("web_url", "CATALOG_WEB_URL")
	_ = viper.BindEnv("session_ttl", "SESSION_TTL")
	viper.SetDefault("session_ttl", "24h")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".catalogctl" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".catalogctl")
	}

	viper.AutomaticEnv() // read in environment variables that match

	// Read config if available
	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
		}
	}
}

// getConfigPath returns the path to the configuration file
func getConfigPath() (string, error) {
	if cfgFile != "" {
		// Convert to absolute path
		absPath, err := filepath.Abs(cfgFile)
		if err != nil {
			return "", fmt.Errorf("failed to resolve absolute path for config file: %w", err)
		}
		return absPath, nil
	}

	// Try user home directory first
	home, err := os.UserHomeDir()
	if err == nil {
		return filepath.Join(home, configFileName), nil
	}

	// Fallback to user config directory
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine config directory: both UserHomeDir and UserConfigDir failed")
	}

	return filepath.Join(configDir, configFileName), nil
}

// cliLogger reports client retries on stderr when --verbose is set.
func cliLogger() *slog.Logger {
	level := "error"
	if viper.GetBool("verbose") {
		level = "debug"
	}
	return logging.NewWithWriter(os.Stderr, level)
}
