package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"stitchsync/internal/catalog"
	"stitchsync/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigInitCommand())
	configCmd.AddCommand(newConfigShowCommand(ctx))
	configCmd.AddCommand(newConfigSetCommand(ctx))
	configCmd.AddCommand(newConfigClearCommand(ctx))

	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Create a sample configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(targetPath)
			if target == "" {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return fmt.Errorf("determine default config path: %w", err)
				}
				target = defaultPath
			} else {
				expanded, err := config.ExpandPath(target)
				if err != nil {
					return fmt.Errorf("resolve config path: %w", err)
				}
				target = expanded
			}

			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
				} else if !os.IsNotExist(err) {
					return fmt.Errorf("check config path: %w", err)
				}
			}

			if err := config.CreateSample(target); err != nil {
				return fmt.Errorf("create sample config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintln(out, "Edit the file to set your watch directory and machine before running stitch-sync watch.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	return cmd
}

func newConfigShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the active configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, exists, err := config.Load(configFlagValue(ctx))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config path: %s\n", path)
			if !exists {
				fmt.Fprintln(out, "Config file does not exist; showing defaults")
			}
			fmt.Fprintf(out, "Watch directory: %s\n", orUnset(cfg.Watch.Dir))
			fmt.Fprintf(out, "Machine:         %s\n", orUnset(cfg.Watch.Machine))
			fmt.Fprintf(out, "Output format:   %s\n", orUnset(cfg.Watch.OutputFormat))
			fmt.Fprintf(out, "Log level:       %s\n", cfg.Logging.Level)
			return nil
		},
	}
}

// configKeys maps CLI key names onto config fields.
var configKeys = map[string]func(cfg *config.Config, value string) error{
	"watch-dir": func(cfg *config.Config, value string) error {
		if value == "" {
			cfg.Watch.Dir = ""
			return nil
		}
		expanded, err := config.ExpandPath(value)
		if err != nil {
			return err
		}
		cfg.Watch.Dir = expanded
		return nil
	},
	"machine": func(cfg *config.Config, value string) error {
		cfg.Watch.Machine = strings.TrimSpace(value)
		return nil
	},
	"output-format": func(cfg *config.Config, value string) error {
		value = strings.ToLower(strings.TrimSpace(value))
		if value != "" {
			if _, err := catalog.LookupFormat(value); err != nil {
				return err
			}
		}
		cfg.Watch.OutputFormat = value
		return nil
	},
}

func newConfigSetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set a configuration value (watch-dir, machine, output-format)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return updateConfigKey(cmd, ctx, args[0], args[1])
		},
	}
}

func newConfigClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear KEY",
		Short: "Clear a configuration value (watch-dir, machine, output-format)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return updateConfigKey(cmd, ctx, args[0], "")
		},
	}
}

func updateConfigKey(cmd *cobra.Command, ctx *commandContext, key, value string) error {
	setter, ok := configKeys[strings.ToLower(strings.TrimSpace(key))]
	if !ok {
		return fmt.Errorf("unknown config key %q (valid keys: %s)", key, strings.Join(configKeyNames(), ", "))
	}

	cfg, path, _, err := config.Load(configFlagValue(ctx))
	if err != nil {
		return err
	}
	if err := setter(cfg, value); err != nil {
		return err
	}
	if err := config.Save(cfg, path); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", path)
	return nil
}

func configKeyNames() []string {
	names := make([]string, 0, len(configKeys))
	for name := range configKeys {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func configFlagValue(ctx *commandContext) string {
	if ctx.configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*ctx.configFlag)
}

func orUnset(value string) string {
	if strings.TrimSpace(value) == "" {
		return "(not set)"
	}
	return value
}
