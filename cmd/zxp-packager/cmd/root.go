package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/zxp-packager/internal/service/packager"
	"github.com/oshokin/zxp-packager/internal/version"
)

// usageLine is printed to stdout whenever the arguments are wrong.
const usageLine = "Usage: zxp-packager <extension_folder> <output.zxp>"

// errUsage marks errors caused by a violated argument contract.
var errUsage = errors.New("invalid usage")

// newRootCommand builds the zxp-packager command writing to the given streams.
func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	var (
		// configPath to the optional settings YAML file.
		configPath string
		// logLevel overrides the level from the settings file.
		logLevel string
	)

	rootCmd := &cobra.Command{
		Use:   "zxp-packager <extension_folder> <output.zxp>",
		Short: "Package a CEP extension folder into a ZXP archive.",
		Long: `Packs every file of a CEP extension folder into a deflate-compressed ZIP archive.

Entries are stored relative to the folder's parent, so the archive unpacks into
a folder named after the extension. An existing archive at the output path is
replaced only after the new one has been written completely.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.ExactArgs(2)(cmd, args); err != nil {
				return fmt.Errorf("%w: %w", errUsage, err)
			}

			return nil
		},
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			options := &packager.Options{
				ConfigPath: configPath,
				LogLevel:   logLevel,
				SourceDir:  args[0],
				OutputPath: args[1],
				Output:     cmd.OutOrStdout(),
			}

			return packager.Run(ctx, options)
		},
	}

	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", errUsage, err)
	})

	// Setup command flags with consistent naming and descriptions.
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "path to an optional settings file")
	rootCmd.Flags().StringVarP(&logLevel, "log-level", "l", "", "log level: debug, info, warn or error")

	version.AttachCobraVersionCommand(rootCmd)

	return rootCmd
}

// run executes the CLI with args and returns the process exit status.
func run(args []string, stdout, stderr io.Writer) int {
	rootCmd := newRootCommand(stdout, stderr)
	rootCmd.SetArgs(args)

	executed, err := rootCmd.ExecuteC()
	if err == nil {
		// Help is printed to stdout but never counts as a packaging run.
		if helpRequested(executed) {
			return 1
		}

		return 0
	}

	if errors.Is(err, errUsage) {
		_, _ = fmt.Fprintln(stdout, usageLine)
		_, _ = fmt.Fprint(stdout, rootCmd.UsageString())
	}

	return 1
}

// helpRequested reports whether cobra answered with help instead of running cmd.
func helpRequested(cmd *cobra.Command) bool {
	if cmd == nil {
		return false
	}

	if cmd.Name() == "help" && cmd.Parent() != nil && !cmd.Parent().HasParent() {
		return true
	}

	help, err := cmd.Flags().GetBool("help")

	return err == nil && help
}

// Execute runs the zxp-packager CLI and exits with non-zero status on error.
func Execute() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
