package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stretchlp/stretchboard/internal/config"
	"github.com/stretchlp/stretchboard/internal/tui/theme"
)

func (a *App) configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "View or edit configuration",
		Long: `Interactive configuration management.

If no config file exists, creates one with default values.
Otherwise, displays current config and allows editing.

Example:
  stretchboard config`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigInteractive(a.configPath(), cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			printConfig(cmd.OutOrStdout(), a.config)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), a.configPath())
		},
	})

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with default values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := a.configPath()
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("config file already exists: %s (use --force to overwrite)", path)
			}
			if err := config.Default().SaveTo(path); err != nil {
				return fmt.Errorf("saving config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")
	cmd.AddCommand(initCmd)

	return cmd
}

func (a *App) configPath() string {
	if a.cfgPath != "" {
		return a.cfgPath
	}
	return config.DefaultConfigPath()
}

func runConfigInteractive(configPath string, in io.Reader, out io.Writer) error {
	fmt.Fprintf(out, "Config file: %s\n\n", configPath)

	// Load existing config or create defaults
	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Check if file exists
	_, fileErr := os.Stat(configPath)
	isNew := os.IsNotExist(fileErr)

	if isNew {
		fmt.Fprintln(out, "No config file found. Creating with default values...")
		if err := cfg.SaveTo(configPath); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Fprintf(out, "Created %s\n\n", configPath)
	}

	// Display current config
	printConfig(out, cfg)

	reader := bufio.NewReader(in)
	p := prompter{reader: reader, out: out}

	// Ask if user wants to edit
	if !p.yesNo("\nWould you like to edit the configuration?") {
		return nil
	}

	// Interactive editing
	cfg.Schedule.StartHour = p.number("Day start hour", cfg.Schedule.StartHour)
	cfg.Schedule.EndHour = p.number("Day end hour", cfg.Schedule.EndHour)
	cfg.Schedule.Grouping = p.choice("Overlap grouping", cfg.Schedule.Grouping, "first-neighbor", "connected")
	cfg.Schedule.Columns = p.choice("Columns", cfg.Schedule.Columns, "per-booking", "packed")
	cfg.Storage.Source = p.choice("Booking source", cfg.Storage.Source, config.SourceAPI, config.SourceSQLite)
	if cfg.Storage.Source == config.SourceAPI {
		cfg.API.BaseURL = p.value("API base URL", cfg.API.BaseURL)
		cfg.Cache.RedisAddr = p.value("Redis address (empty to disable cache)", cfg.Cache.RedisAddr)
	}
	cfg.Storage.DBPath = p.value("Database path", cfg.Storage.DBPath)
	cfg.UI.Theme = p.themeName(cfg.UI.Theme)
	cfg.UI.RowLines = p.number("Lines per row (0 fits the terminal)", cfg.UI.RowLines)

	// Validate before saving
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// Save
	if err := cfg.SaveTo(configPath); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Fprintln(out, "\nConfiguration saved!")
	return nil
}

func printConfig(out io.Writer, cfg *config.Config) {
	token := "(not set)"
	if cfg.API.Token != "" {
		token = "********"
	}
	cache := cfg.Cache.RedisAddr
	if cache == "" {
		cache = "(disabled)"
	}

	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintln(out, "──────────────────────")
	fmt.Fprintln(out, "[schedule]")
	fmt.Fprintf(out, "  start_hour       = %d\n", cfg.Schedule.StartHour)
	fmt.Fprintf(out, "  end_hour         = %d\n", cfg.Schedule.EndHour)
	fmt.Fprintf(out, "  grouping         = %s\n", cfg.Schedule.Grouping)
	fmt.Fprintf(out, "  columns          = %s\n", cfg.Schedule.Columns)
	fmt.Fprintln(out, "\n[api]")
	fmt.Fprintf(out, "  base_url         = %s\n", cfg.API.BaseURL)
	fmt.Fprintf(out, "  token            = %s\n", token)
	fmt.Fprintf(out, "  timeout_seconds  = %d\n", cfg.API.TimeoutSeconds)
	fmt.Fprintf(out, "  rps              = %g\n", cfg.API.RPS)
	fmt.Fprintln(out, "\n[storage]")
	fmt.Fprintf(out, "  source           = %s\n", cfg.Storage.Source)
	fmt.Fprintf(out, "  db_path          = %s\n", cfg.Storage.DBPath)
	fmt.Fprintln(out, "\n[cache]")
	fmt.Fprintf(out, "  redis_addr       = %s\n", cache)
	fmt.Fprintf(out, "  ttl_seconds      = %d\n", cfg.Cache.TTLSeconds)
	fmt.Fprintln(out, "\n[ui]")
	fmt.Fprintf(out, "  theme            = %s\n", cfg.UI.Theme)
	fmt.Fprintf(out, "  row_lines        = %d\n", cfg.UI.RowLines)
	fmt.Fprintln(out, "\n[server]")
	fmt.Fprintf(out, "  addr             = %s\n", cfg.Server.Addr)
	fmt.Fprintln(out, "\n[export]")
	fmt.Fprintf(out, "  dir              = %s\n", cfg.Export.Dir)
}

// prompter reads answers line by line. Empty answers keep the current value.
type prompter struct {
	reader *bufio.Reader
	out    io.Writer
}

func (p prompter) yesNo(question string) bool {
	fmt.Fprintf(p.out, "%s [y/N]: ", question)
	input, _ := p.reader.ReadString('\n')
	input = strings.TrimSpace(strings.ToLower(input))
	return input == "y" || input == "yes"
}

func (p prompter) value(label, current string) string {
	if current == "" {
		fmt.Fprintf(p.out, "  %s: ", label)
	} else {
		fmt.Fprintf(p.out, "  %s [%s]: ", label, current)
	}
	input, _ := p.reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return current
	}
	return input
}

func (p prompter) number(label string, current int) int {
	for {
		value := p.value(label, strconv.Itoa(current))
		n, err := strconv.Atoi(value)
		if err == nil {
			return n
		}
		fmt.Fprintf(p.out, "  Invalid number %q\n", value)
	}
}

func (p prompter) choice(label, current string, options ...string) string {
	joined := strings.Join(options, ", ")
	for {
		value := strings.ToLower(p.value(fmt.Sprintf("%s (%s)", label, joined), current))
		for _, o := range options {
			if value == o {
				return value
			}
		}
		fmt.Fprintf(p.out, "  Invalid value %q. Available: %s\n", value, joined)
	}
}

func (p prompter) themeName(current string) string {
	options := strings.Join(theme.Available(), ", ")
	label := fmt.Sprintf("UI theme (%s)", options)
	for {
		value := strings.ToLower(p.value(label, current))
		if theme.IsAvailable(value) {
			return value
		}
		fmt.Fprintf(p.out, "  Invalid theme %q. Available: %s\n", value, options)
	}
}
