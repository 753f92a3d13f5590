package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ConfigSource represents where the configuration was loaded from
type ConfigSource string

const (
	SourceCLI         ConfigSource = "cli"          // From command line arguments
	SourceConfigFile  ConfigSource = "config-file"  // From ~/.config/natter/config.yaml
	SourceNATSContext ConfigSource = "nats-context" // From NATS CLI contexts
	SourceDefault     ConfigSource = "default"      // Default configuration
)

// Config represents the application configuration
type Config struct {
	Profiles        []Profile `yaml:"profiles"`
	DefaultProfile  string    `yaml:"default_profile"`
	RefreshInterval string    `yaml:"refresh_interval"`
	Theme           string    `yaml:"theme,omitempty"`
	Locale          string    `yaml:"locale,omitempty"`
	currentProfile  *Profile
	source          ConfigSource // Where this config was loaded from
	sourcePath      string       // Specific file path or context name
}

// Profile represents one chat server connection plus the identity used on it
type Profile struct {
	Name          string `yaml:"name"`
	Server        string `yaml:"server"`
	Username      string `yaml:"username,omitempty"`
	Token         string `yaml:"token,omitempty"`
	Creds         string `yaml:"creds,omitempty"`
	MetricsPlugin string `yaml:"metrics_plugin,omitempty"`
}

// natsContext represents the NATS CLI context JSON format
type natsContext struct {
	URL      string `json:"url"`
	Token    string `json:"token"`
	Creds    string `json:"creds"`
	User     string `json:"user"`
	Password string `json:"password"`
	NKey     string `json:"nkey"`
}

// defaultUsername picks the chat identity when a profile does not set one:
// $NATTER_USER beats $USER beats "guest".
func defaultUsername() string {
	if u := os.Getenv("NATTER_USER"); u != "" {
		return u
	}
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "guest"
}

// expandPath expands environment variables, tilde, and relative paths
// Supports:
// - Environment variables: $HOME, ${HOME}, $VAR_NAME
// - Tilde expansion: ~/path or ~
// - Relative paths: ./creds/file.creds or ../creds/file.creds (relative to configDir)
func expandPath(path string, configDir string) (string, error) {
	if path == "" {
		return "", nil
	}

	// First, expand environment variables
	expanded := os.ExpandEnv(path)

	// Handle tilde expansion for home directory
	if strings.HasPrefix(expanded, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		expanded = filepath.Join(homeDir, expanded[2:])
	} else if expanded == "~" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		expanded = homeDir
	}

	// If the path is not absolute, make it relative to config directory
	if !filepath.IsAbs(expanded) && configDir != "" {
		expanded = filepath.Join(configDir, expanded)
	}

	// Clean the path to normalize it
	expanded = filepath.Clean(expanded)

	return expanded, nil
}

// Dir returns the natter config directory.
func Dir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "natter"), nil
}

// LocalesDir returns the directory holding user-provided locale bundles.
func LocalesDir() string {
	dir, err := Dir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "locales")
}

// getNATSContextDir returns the NATS CLI context directory path
func getNATSContextDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "nats", "context"), nil
}

// getCurrentNATSContext reads the current NATS CLI context name from context.txt
func getCurrentNATSContext() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	contextFile := filepath.Join(homeDir, ".config", "nats", "context.txt")
	data, err := os.ReadFile(contextFile)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(string(data)), nil
}

// readNATSContext reads a NATS CLI context JSON file and converts it to a Profile
func readNATSContext(name string) (*Profile, error) {
	contextDir, err := getNATSContextDir()
	if err != nil {
		return nil, err
	}

	contextPath := filepath.Join(contextDir, name+".json")
	data, err := os.ReadFile(contextPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read NATS context '%s': %w", name, err)
	}

	var natsCtx natsContext
	if err := json.Unmarshal(data, &natsCtx); err != nil {
		return nil, fmt.Errorf("failed to parse NATS context '%s': %w", name, err)
	}

	// Expand paths in the NATS context
	creds := natsCtx.Creds
	if creds != "" {
		creds, err = expandPath(creds, contextDir)
		if err != nil {
			return nil, fmt.Errorf("failed to expand creds path: %w", err)
		}
	}

	// Expand environment variables in token if present
	token := natsCtx.Token
	if token != "" && strings.Contains(token, "$") {
		token = os.ExpandEnv(token)
	}

	username := natsCtx.User
	if username == "" {
		username = defaultUsername()
	}

	return &Profile{
		Name:     name,
		Server:   natsCtx.URL,
		Username: username,
		Token:    token,
		Creds:    creds,
	}, nil
}

// listNATSContexts returns all readable NATS CLI contexts as profiles
func listNATSContexts() ([]Profile, error) {
	contextDir, err := getNATSContextDir()
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(contextDir)
	if err != nil {
		return nil, err
	}

	var profiles []Profile
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		// Skip backup files
		if strings.HasSuffix(entry.Name(), ".bak") {
			continue
		}

		name := strings.TrimSuffix(entry.Name(), ".json")
		profile, err := readNATSContext(name)
		if err != nil {
			// Skip contexts that can't be read
			continue
		}
		profiles = append(profiles, *profile)
	}

	return profiles, nil
}

// loadFromNATSContexts creates a config from NATS CLI contexts
func loadFromNATSContexts() (*Config, error) {
	profiles, err := listNATSContexts()
	if err != nil || len(profiles) == 0 {
		return nil, fmt.Errorf("no NATS contexts found")
	}

	// Get the current context
	currentCtx, err := getCurrentNATSContext()
	if err != nil {
		// If no current context, use the first one
		currentCtx = profiles[0].Name
	}

	contextDir, _ := getNATSContextDir()

	cfg := &Config{
		Profiles:        profiles,
		DefaultProfile:  currentCtx,
		RefreshInterval: "2s",
		source:          SourceNATSContext,
		sourcePath:      filepath.Join(contextDir, currentCtx+".json"),
	}

	// Set current profile
	for i := range cfg.Profiles {
		if cfg.Profiles[i].Name == currentCtx {
			cfg.currentProfile = &cfg.Profiles[i]
			break
		}
	}

	if cfg.currentProfile == nil {
		cfg.currentProfile = &cfg.Profiles[0]
	}

	return cfg, nil
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Profiles: []Profile{
			{
				Name:     "local",
				Server:   "nats://localhost:4222",
				Username: defaultUsername(),
			},
		},
		DefaultProfile:  "local",
		RefreshInterval: "2s",
		source:          SourceDefault,
		sourcePath:      "built-in default",
	}
}

// Load loads configuration from file, NATS contexts, or creates default
func Load(configPath, serverURL string) (*Config, error) {
	var cfg *Config

	// If server URL is provided via command line, use it
	if serverURL != "" {
		cfg = &Config{
			Profiles: []Profile{
				{
					Name:     "cli",
					Server:   serverURL,
					Username: defaultUsername(),
				},
			},
			DefaultProfile:  "cli",
			RefreshInterval: "2s",
			source:          SourceCLI,
			sourcePath:      serverURL,
		}
		cfg.currentProfile = &cfg.Profiles[0]
		return cfg, nil
	}

	// Try to load from config file
	if configPath == "" {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		configPath = filepath.Join(dir, "config.yaml")
	}

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		// Try to load from NATS CLI contexts as fallback
		cfg, err = loadFromNATSContexts()
		if err == nil {
			return cfg, nil
		}

		// If NATS contexts also not found, create default config
		cfg = DefaultConfig()
		if err := cfg.Save(configPath); err != nil {
			return nil, fmt.Errorf("failed to save default config: %w", err)
		}
	} else {
		// Load from file
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		cfg = &Config{}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}

		// Set source information
		cfg.source = SourceConfigFile
		cfg.sourcePath = configPath

		// Expand credential paths and fill identity defaults
		configDir := filepath.Dir(configPath)
		for i := range cfg.Profiles {
			if cfg.Profiles[i].Creds != "" {
				expanded, err := expandPath(cfg.Profiles[i].Creds, configDir)
				if err != nil {
					return nil, fmt.Errorf("failed to expand creds path for profile '%s': %w", cfg.Profiles[i].Name, err)
				}
				cfg.Profiles[i].Creds = expanded
			}
			// Also expand token if it looks like it might be an env var reference
			if cfg.Profiles[i].Token != "" && strings.Contains(cfg.Profiles[i].Token, "$") {
				cfg.Profiles[i].Token = os.ExpandEnv(cfg.Profiles[i].Token)
			}
			if cfg.Profiles[i].Username == "" {
				cfg.Profiles[i].Username = defaultUsername()
			}
		}
	}

	// Set current profile
	for i := range cfg.Profiles {
		if cfg.Profiles[i].Name == cfg.DefaultProfile {
			cfg.currentProfile = &cfg.Profiles[i]
			break
		}
	}

	if cfg.currentProfile == nil && len(cfg.Profiles) > 0 {
		cfg.currentProfile = &cfg.Profiles[0]
	}

	return cfg, nil
}

// Save saves the configuration to file
func (c *Config) Save(configPath string) error {
	// Create config directory if it doesn't exist
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// CurrentProfile returns the active profile
func (c *Config) CurrentProfile() *Profile {
	if c.currentProfile != nil {
		return c.currentProfile
	}
	// Return a usable fallback
	return &Profile{
		Name:     "default",
		Server:   "nats://localhost:4222",
		Username: defaultUsername(),
	}
}

// CurrentProfileName returns the active profile name
func (c *Config) CurrentProfileName() string {
	if c.currentProfile != nil {
		return c.currentProfile.Name
	}
	return "unknown"
}

// SetProfile switches to a different profile
func (c *Config) SetProfile(name string) error {
	for i := range c.Profiles {
		if c.Profiles[i].Name == name {
			c.currentProfile = &c.Profiles[i]
			c.DefaultProfile = name
			return nil
		}
	}
	return fmt.Errorf("profile '%s' not found", name)
}

// AddProfile adds a new profile
func (c *Config) AddProfile(name, server, username string) error {
	// Check if profile already exists
	for _, p := range c.Profiles {
		if p.Name == name {
			return fmt.Errorf("profile '%s' already exists", name)
		}
	}

	if username == "" {
		username = defaultUsername()
	}
	c.Profiles = append(c.Profiles, Profile{
		Name:     name,
		Server:   server,
		Username: username,
	})

	return nil
}

// RemoveProfile removes a profile
func (c *Config) RemoveProfile(name string) error {
	for i, p := range c.Profiles {
		if p.Name == name {
			c.Profiles = append(c.Profiles[:i], c.Profiles[i+1:]...)
			// If we removed the current profile, switch to first available
			if c.currentProfile != nil && c.currentProfile.Name == name {
				if len(c.Profiles) > 0 {
					c.currentProfile = &c.Profiles[0]
					c.DefaultProfile = c.Profiles[0].Name
				} else {
					c.currentProfile = nil
					c.DefaultProfile = ""
				}
			}
			return nil
		}
	}
	return fmt.Errorf("profile '%s' not found", name)
}

// GetRefreshInterval returns the refresh interval as duration
func (c *Config) GetRefreshInterval() time.Duration {
	d, err := time.ParseDuration(c.RefreshInterval)
	if err != nil {
		return 2 * time.Second
	}
	return d
}

// GetTheme returns the configured theme name, empty meaning default.
func (c *Config) GetTheme() string {
	return c.Theme
}

// GetLocale returns the configured locale, empty meaning English.
func (c *Config) GetLocale() string {
	return c.Locale
}

// GetConfigSource returns where the configuration was loaded from
func (c *Config) GetConfigSource() ConfigSource {
	return c.source
}

// GetConfigSourcePath returns the specific path or identifier for the config source
func (c *Config) GetConfigSourcePath() string {
	return c.sourcePath
}

// GetConfigSourceDescription returns a human-readable description of the config source
func (c *Config) GetConfigSourceDescription() string {
	switch c.source {
	case SourceCLI:
		return fmt.Sprintf("Command line: %s", c.sourcePath)
	case SourceConfigFile:
		// Show just the path, can be shortened by caller if needed
		return fmt.Sprintf("Config file: %s", c.sourcePath)
	case SourceNATSContext:
		// Extract just the context name from the path
		contextName := filepath.Base(c.sourcePath)
		contextName = strings.TrimSuffix(contextName, ".json")
		return fmt.Sprintf("NATS context: %s", contextName)
	case SourceDefault:
		return "Built-in default (no config found)"
	default:
		return "Unknown source"
	}
}
