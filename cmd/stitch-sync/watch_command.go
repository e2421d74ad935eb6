package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"stitchsync/internal/config"
	"stitchsync/internal/inkscape"
	"stitchsync/internal/pipeline"
	"stitchsync/internal/policy"
	"stitchsync/internal/session"
	"stitchsync/internal/volumes"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	var dirFlag string
	var machineFlag string
	var outputFormatFlag string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch a directory and sync new designs to the machine's USB stick",
		Long: "Watch a directory for new embroidery designs. Files in an accepted " +
			"format are copied straight to a removable volume; everything else is " +
			"converted to the preferred format first via Inkscape with Ink/Stitch.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			settings, err := resolveWatchSettings(cfg, dirFlag, machineFlag, outputFormatFlag)
			if err != nil {
				return err
			}

			registry, err := ctx.ensureRegistry()
			if err != nil {
				return err
			}
			resolved, err := policy.Resolve(settings, registry)
			if err != nil {
				return err
			}

			logger, err := ctx.newLogger()
			if err != nil {
				return err
			}

			gateway := inkscape.NewGateway(logger,
				inkscape.WithTimeout(time.Duration(cfg.Watch.ConvertTimeoutSeconds)*time.Second))
			reportAvailability(cmd, gateway.Availability())

			locator := volumes.NewLocator(logger)
			proc := pipeline.New(logger, resolved, gateway, locator,
				pipeline.WithStabilization(time.Duration(cfg.Watch.StabilizationMillis)*time.Millisecond))

			sess, err := session.New(logger, settings.WatchDir, proc,
				session.WithShutdownGrace(time.Duration(cfg.Watch.ShutdownGraceSeconds)*time.Second),
				session.WithVolumeControl(locator))
			if err != nil {
				return err
			}

			printSessionSummary(cmd, settings, resolved)

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return sess.Run(runCtx)
		},
	}

	cmd.Flags().StringVarP(&dirFlag, "dir", "d", "", "Directory to watch for new designs")
	cmd.Flags().StringVarP(&machineFlag, "machine", "m", "", "Target machine profile name")
	cmd.Flags().StringVarP(&outputFormatFlag, "output-format", "o", "", "Explicit output format (e.g. dst, jef, pes)")
	return cmd
}

// resolveWatchSettings applies flag > config > default precedence.
func resolveWatchSettings(cfg *config.Config, dir, machine, outputFormat string) (policy.Settings, error) {
	settings := policy.Settings{
		WatchDir:     cfg.Watch.Dir,
		Machine:      cfg.Watch.Machine,
		OutputFormat: cfg.Watch.OutputFormat,
	}
	if trimmed := strings.TrimSpace(dir); trimmed != "" {
		expanded, err := config.ExpandPath(trimmed)
		if err != nil {
			return policy.Settings{}, err
		}
		settings.WatchDir = expanded
	}
	if trimmed := strings.TrimSpace(machine); trimmed != "" {
		settings.Machine = trimmed
	}
	if trimmed := strings.TrimSpace(outputFormat); trimmed != "" {
		settings.OutputFormat = strings.ToLower(trimmed)
	}

	if settings.WatchDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return policy.Settings{}, errors.New("no watch directory configured and the home directory is unknown; pass --dir")
		}
		settings.WatchDir = defaultWatchDir(home)
	}
	return settings, nil
}

func printSessionSummary(cmd *cobra.Command, settings policy.Settings, resolved *policy.Resolved) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Watching %s\n", settings.WatchDir)
	if resolved.Machine != nil {
		fmt.Fprintf(out, "Machine: %s\n", resolved.Machine.Name)
		if resolved.Machine.USBPath != "" {
			fmt.Fprintf(out, "USB destination: %s\n", resolved.Machine.USBPath)
		}
	}
	fmt.Fprintf(out, "Accepted formats: %s\n", strings.Join(resolved.AcceptedCodes(), ", "))
	fmt.Fprintf(out, "Preferred format: %s\n", resolved.Preferred.Code)
	fmt.Fprintln(out, "Press 'q' to quit, 'u' to eject the USB stick")
}

func reportAvailability(cmd *cobra.Command, avail inkscape.Availability) {
	out := cmd.OutOrStdout()
	switch {
	case avail.Path == "":
		fmt.Fprintln(out, "Inkscape not found; designs will be copied without conversion.")
		fmt.Fprintf(out, "Install it from %s to enable conversion.\n", inkscape.DownloadURL)
	case !avail.HasExtension:
		fmt.Fprintln(out, "Ink/Stitch extension not found; designs will be copied without conversion.")
		fmt.Fprintf(out, "Install it from %s to enable conversion.\n", inkscape.ExtensionInstallURL)
	}
}
