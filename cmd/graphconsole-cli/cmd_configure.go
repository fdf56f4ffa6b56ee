package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/persistorai/graphconsole/client"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newConfigureCmd() *cobra.Command {
	var (
		profile        string
		nonInteractive bool
		skipCheck      bool
	)

	cmd := &cobra.Command{
		Use:   "configure",
		Short: "Set up graphconsole CLI configuration",
		Long: `Create or update a profile in ~/.graphconsole/config.yaml. Each profile
stores a server URL and a console session id, so successive commands keep
working on the same session graph. A session id is generated when none is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigure(profile, nonInteractive, skipCheck)
		},
	}

	cmd.Flags().StringVar(&profile, "profile", "default", "Profile name to write")
	cmd.Flags().BoolVar(&nonInteractive, "yes", false, "Use --url and --session without prompting")
	cmd.Flags().BoolVar(&skipCheck, "skip-check", false, "Do not test the connection")
	return cmd
}

func runConfigure(profile string, nonInteractive, skipCheck bool) error {
	url := flagURL
	session := flagSession

	if !nonInteractive {
		fmt.Println("\n  Graph Console Setup")
		fmt.Println("  ───────────────────")
		fmt.Println()

		reader := bufio.NewReader(os.Stdin)

		fmt.Printf("  Server URL [%s]: ", url)
		line, _ := reader.ReadString('\n')
		if line = strings.TrimSpace(line); line != "" {
			url = line
		}

		fmt.Print("  Session id [new]: ")
		line, _ = reader.ReadString('\n')
		if line = strings.TrimSpace(line); line != "" {
			session = line
		}
	}

	if session == "" {
		session = uuid.NewString()
	}

	if !skipCheck {
		ver, err := testConnection(url)
		if err != nil {
			return fmt.Errorf("connection failed: %w", err)
		}
		fmt.Printf("Connected to %s (v%s)\n", url, ver)
	}

	cfgPath, err := writeProfile(profile, configProfile{URL: url, Session: session})
	if err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	fmt.Printf("Profile %q saved to %s\n", profile, cfgPath)
	return nil
}

func testConnection(url string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	health, err := client.New(url).Health(ctx)
	if err != nil {
		return "", err
	}
	if health.Version == "" {
		return "unknown", nil
	}
	return health.Version, nil
}

// writeProfile stores p under name and makes it the active profile. Other
// profiles in an existing config file are kept.
func writeProfile(name string, p configProfile) (string, error) {
	cfgPath, err := configPath()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(cfgPath), 0o700); err != nil {
		return "", err
	}

	var cfg configFile
	if data, err := os.ReadFile(cfgPath); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return "", fmt.Errorf("parsing %s: %w", cfgPath, err)
		}
	}
	if cfg.Profiles == nil {
		cfg.Profiles = make(map[string]configProfile)
	}
	cfg.Profiles[name] = p
	cfg.ActiveProfile = name

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(cfgPath, data, 0o600); err != nil {
		return "", err
	}

	return cfgPath, nil
}
