package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	defaultProfileName = "default"
	defaultAPIURL      = "http://localhost:5000"
	defaultWebURL      = "http://localhost:3000"
)

// Config represents the CLI configuration
type Config struct {
	DefaultProfile string             `json:"default_profile" yaml:"default_profile"`
	Profiles       map[string]Profile `json:"profiles" yaml:"profiles"`
}

// Profile represents a configuration profile for different environments
type Profile struct {
	Name          string `json:"name" yaml:"name"`
	APIURL        string `json:"api_url" yaml:"api_url"`
	WebURL        string `json:"web_url" yaml:"web_url"`
	Email         string `json:"email,omitempty" yaml:"email,omitempty"`
	SessionCookie string `json:"session_cookie,omitempty" yaml:"session_cookie,omitempty"`
}

// validateConfigPath validates that the config path is safe
func validateConfigPath(path string) error {
	// Clean the path
	cleanPath := filepath.Clean(path)

	// Check for path traversal attempts
	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("invalid config path: path traversal not allowed")
	}

	// Ensure it's an absolute path or within user home
	if !filepath.IsAbs(cleanPath) {
		return fmt.Errorf("invalid config path: must be absolute path")
	}

	return nil
}

// LoadConfig loads the configuration from file
func LoadConfig() (*Config, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}

	config := &Config{
		Profiles: make(map[string]Profile),
	}

	// Validate config path for security
	if validateErr := validateConfigPath(configPath); validateErr != nil {
		return nil, fmt.Errorf("config path validation failed: %w", validateErr)
	}

	// If config file doesn't exist, return empty config
	if _, statErr := os.Stat(configPath); os.IsNotExist(statErr) {
		return config, nil
	}

	data, err := os.ReadFile(configPath) //nolint:gosec // Path is validated by validateConfigPath
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if config.Profiles == nil {
		config.Profiles = make(map[string]Profile)
	}

	return config, nil
}

// SaveConfig saves the configuration to file
func SaveConfig(config *Config) error {
	configPath, err := getConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	// Validate config path for security
	if validateErr := validateConfigPath(configPath); validateErr != nil {
		return fmt.Errorf("config path validation failed: %w", validateErr)
	}

	// Create config directory if it doesn't exist
	if mkdirErr := os.MkdirAll(filepath.Dir(configPath), 0750); mkdirErr != nil {
		return fmt.Errorf("failed to create config directory: %w", mkdirErr)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// The file holds session cookies.
	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// currentProfileName returns the --profile override or the configured default.
func currentProfileName(config *Config) string {
	if name := viper.GetString("profile"); name != "" {
		return name
	}
	if config.DefaultProfile != "" {
		return config.DefaultProfile
	}
	return defaultProfileName
}

// GetCurrentProfile returns the current active profile
func GetCurrentProfile() (*Profile, error) {
	config, err := LoadConfig()
	if err != nil {
		return nil, err
	}

	profileName := currentProfileName(config)
	profile, exists := config.Profiles[profileName]
	if !exists {
		return nil, fmt.Errorf("profile '%s' not found", profileName)
	}

	return &profile, nil
}

// ResolveProfile returns the active profile with flag and environment
// overrides applied. A missing profile resolves to the local defaults.
func ResolveProfile() (*Profile, error) {
	config, err := LoadConfig()
	if err != nil {
		return nil, err
	}

	name := currentProfileName(config)
	profile, exists := config.Profiles[name]
	if !exists {
		profile = Profile{Name: name}
	}

	if apiURL := viper.GetString("api_url"); apiURL != "" {
		profile.APIURL = apiURL
	}
	if webURL := viper.GetString("web_url"); webURL != "" {
		profile.WebURL = webURL
	}
	if profile.APIURL == "" {
		profile.APIURL = defaultAPIURL
	}
	if profile.WebURL == "" {
		profile.WebURL = defaultWebURL
	}
	profile.APIURL = strings.TrimRight(profile.APIURL, "/")
	profile.WebURL = strings.TrimRight(profile.WebURL, "/")

	return &profile, nil
}

// SetCurrentProfile sets the default profile
func SetCurrentProfile(profileName string) error {
	config, err := LoadConfig()
	if err != nil {
		return err
	}

	if _, exists := config.Profiles[profileName]; !exists {
		return fmt.Errorf("profile '%s' not found", profileName)
	}

	config.DefaultProfile = profileName
	return SaveConfig(config)
}

// AddProfile adds or replaces a profile in the configuration
func AddProfile(profile Profile) error {
	config, err := LoadConfig()
	if err != nil {
		return err
	}

	config.Profiles[profile.Name] = profile

	// Set as default if it's the first profile
	if config.DefaultProfile == "" {
		config.DefaultProfile = profile.Name
	}

	return SaveConfig(config)
}

// ClearSession drops the stored session of a profile, keeping its URLs.
func ClearSession(profileName string) error {
	config, err := LoadConfig()
	if err != nil {
		return err
	}

	profile, exists := config.Profiles[profileName]
	if !exists {
		return fmt.Errorf("profile '%s' not found", profileName)
	}

	profile.Email = ""
	profile.SessionCookie = ""
	config.Profiles[profileName] = profile

	return SaveConfig(config)
}

// RemoveProfile removes a profile from the configuration
func RemoveProfile(profileName string) error {
	config, err := LoadConfig()
	if err != nil {
		return err
	}

	if _, exists := config.Profiles[profileName]; !exists {
		return fmt.Errorf("profile '%s' not found", profileName)
	}

	delete(config.Profiles, profileName)

	// Clear default if removing default profile
	if config.DefaultProfile == profileName {
		config.DefaultProfile = ""
		for _, name := range sortedProfileNames(config) {
			config.DefaultProfile = name
			break
		}
	}

	return SaveConfig(config)
}

// ListProfiles returns all available profiles ordered by name
func ListProfiles() ([]Profile, error) {
	config, err := LoadConfig()
	if err != nil {
		return nil, err
	}

	profiles := make([]Profile, 0, len(config.Profiles))
	for _, name := range sortedProfileNames(config) {
		profiles = append(profiles, config.Profiles[name])
	}

	return profiles, nil
}

func sortedProfileNames(config *Config) []string {
	names := make([]string, 0, len(config.Profiles))
	for name := range config.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ValidateProfile validates a profile configuration
func ValidateProfile(profile *Profile) error {
	if profile.Name == "" {
		return fmt.Errorf("profile name is required")
	}

	if profile.APIURL == "" {
		return fmt.Errorf("API URL is required")
	}

	if profile.WebURL == "" {
		return fmt.Errorf("web URL is required")
	}

	return nil
}

// maskSecret keeps the first and last four characters of long values.
func maskSecret(value string) string {
	if value == "" {
		return "Not set"
	}
	if len(value) <= 12 {
		return "***masked***"
	}
	return value[:4] + strings.Repeat("*", len(value)-8) + value[len(value)-4:]
}

// GetConfigAsJSON returns configuration as JSON string for debugging
func GetConfigAsJSON() (string, error) {
	config, err := LoadConfig()
	if err != nil {
		return "", err
	}

	// Mask sensitive information
	maskedConfig := *config
	maskedConfig.Profiles = make(map[string]Profile)

	for name, profile := range config.Profiles {
		maskedProfile := profile
		if maskedProfile.SessionCookie != "" {
			maskedProfile.SessionCookie = "***masked***"
		}
		maskedConfig.Profiles[name] = maskedProfile
	}

	data, err := json.MarshalIndent(maskedConfig, "", "  ")
	if err != nil {
		return "", err
	}

	return string(data), nil
}
