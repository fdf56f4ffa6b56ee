package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/persistorai/graphconsole/client"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Build-time variables set via ldflags.
var (
	version   = "0.3.0"
	commit    = ""
	buildDate = ""
)

const defaultURL = "http://localhost:8080"

var (
	apiClient   *client.Client
	flagURL     string
	flagSession string
	flagFmt     string
)

func versionString() string {
	if commit != "" && buildDate != "" {
		return fmt.Sprintf("graphconsole version %s (commit: %s, built: %s)", version, commit, buildDate)
	}
	return fmt.Sprintf("graphconsole version %s-dev", version)
}

type configFile struct {
	// Flat format
	URL     string `yaml:"url"`
	Session string `yaml:"session"`
	// Profile format
	Profiles      map[string]configProfile `yaml:"profiles"`
	ActiveProfile string                   `yaml:"active_profile"`
}

type configProfile struct {
	URL     string `yaml:"url"`
	Session string `yaml:"session"`
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "graphconsole",
		Short:   "Graph console CLI: run Cypher and share console graphs",
		Version: versionString(),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			resolveConfig()
			var opts []client.Option
			if flagSession != "" {
				opts = append(opts, client.WithSessionID(flagSession))
			}
			apiClient = client.New(flagURL, opts...)
		},
		SilenceUsage: true,
	}
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	rootCmd.PersistentFlags().StringVar(&flagURL, "url", defaultURL, "Console server URL (env: GRAPHCONSOLE_URL)")
	rootCmd.PersistentFlags().StringVar(&flagSession, "session", "", "Console session id (env: GRAPHCONSOLE_SESSION)")
	rootCmd.PersistentFlags().StringVar(&flagFmt, "format", "json", "Output format: json|table|quiet")

	configureCmd := newConfigureCmd()
	configureCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {} // skip client setup

	rootCmd.AddCommand(configureCmd)
	rootCmd.AddCommand(newQueryCmd())
	rootCmd.AddCommand(newGraphCmd())
	rootCmd.AddCommand(newInitCmd())
	rootCmd.AddCommand(newRestCmd())
	rootCmd.AddCommand(newImportCmd())
	rootCmd.AddCommand(newShareCmd())
	rootCmd.AddCommand(newStatusCmd())

	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func configPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".graphconsole", "config.yaml"), nil
}

func resolveConfig() {
	// Flag takes precedence, then env, then config file.
	if flagURL == defaultURL {
		if v := os.Getenv("GRAPHCONSOLE_URL"); v != "" {
			flagURL = v
		}
	}
	if flagSession == "" {
		flagSession = os.Getenv("GRAPHCONSOLE_SESSION")
	}

	cfgPath, err := configPath()
	if err != nil {
		return
	}
	data, err := os.ReadFile(cfgPath)
	if err != nil {
		return
	}
	var cfg configFile
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return
	}
	// Resolve from profiles if available, fall back to flat format
	resolvedURL := cfg.URL
	resolvedSession := cfg.Session
	if cfg.Profiles != nil {
		profileName := cfg.ActiveProfile
		if profileName == "" {
			profileName = "default"
		}
		if p, ok := cfg.Profiles[profileName]; ok {
			if p.URL != "" {
				resolvedURL = p.URL
			}
			if p.Session != "" {
				resolvedSession = p.Session
			}
		}
	}
	if flagURL == defaultURL && resolvedURL != "" {
		flagURL = resolvedURL
	}
	if flagSession == "" && resolvedSession != "" {
		flagSession = resolvedSession
	}
}

// readInput returns the contents of path, or stdin when path is "-".
func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

// reportSession prints the session the server assigned when none was configured,
// so later invocations can continue the same console.
func reportSession() {
	if flagSession == "" && apiClient != nil && apiClient.SessionID() != "" {
		fmt.Fprintf(os.Stderr, "session: %s (pass --session to continue it)\n", apiClient.SessionID())
	}
}

func fatal(msg string, err error) {
	fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
	os.Exit(1)
}
