package app

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/andyballingall/swagger-mock-validator/internal/config"
	"github.com/andyballingall/swagger-mock-validator/internal/fs"
	"github.com/andyballingall/swagger-mock-validator/internal/loader"
)

// Version is the current version of smv, set at build time.
var Version = "dev"

const VersionCmdName = "version"

// Banner with colour codes.
var Banner = "\033[32m" + `
   _____ __  ____    __
  / ___//  |/  / |  / /
  \__ \/ /|_/ /| | / /
 ___/ / /  / / | |/ /
/____/_/  /_/  |___/
` + "\033[0m"

var LongDescription = `
smv checks that the interactions recorded in a pact file are compatible with
the operations described by a swagger 2 file. Use it in a provider build to
catch consumer expectations the provider's contract does not support, before
either side is deployed.
`

// NewRootCmd creates the root command and wires up dependencies.
func NewRootCmd(lazy *LazyManager, ll *slog.LevelVar, stdout, stderr io.Writer,
	envProvider fs.EnvProvider,
) *cobra.Command {
	var debug bool
	var noColour bool
	configPath := pathValue("")

	rootCmd := &cobra.Command{
		Use:           "smv",
		Short:         "Validate pact mocks against swagger files",
		Version:       Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		Long:          Banner + "\n" + LongDescription,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip initialization for help, completion and version commands
			if cmd.Name() == "help" || isCompletionCommand(cmd) || cmd.Name() == VersionCmdName {
				return nil
			}

			// 1. Setup Logging
			if debug {
				ll.Set(slog.LevelDebug)
			}

			// Skip if already initialised (e.g., in tests)
			if lazy.HasInner() {
				return nil
			}

			// 2. Build Dependencies
			cfg, err := config.New(cmd.Context(), configPath.String(), envProvider)
			if err != nil {
				return fmt.Errorf("configuration failed: %w", err)
			}

			logger, _, err := setupLogger(stderr, ll, envProvider, !noColour && cfg.UseColour())
			if err != nil {
				logger.Warn("logging to file disabled", "error", err)
			}

			ld := loader.New(loader.Config{
				Attempts: cfg.Fetch.Attempts,
				Delay:    cfg.Fetch.Delay,
				Timeout:  cfg.Fetch.Timeout,
			})

			// 3. Hydrate the Lazy Wrapper
			realMgr := NewCLIManager(logger, cfg, ld)
			realMgr.reporterWriter = stdout
			lazy.SetInner(realMgr)

			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	// Global flags
	rootCmd.PersistentFlags().Var(&configPath, "config",
		fmt.Sprintf("path to config file (default ./%s if present)", config.ConfigFile))
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "Enable debug logging")

	rootCmd.PersistentFlags().BoolVarP(&noColour, "nocolour", "c", false, "Disable colour in output")
	// Support alternate spellings
	rootCmd.PersistentFlags().BoolVar(&noColour, "nocolor", false, "")
	rootCmd.PersistentFlags().BoolVar(&noColour, "noColor", false, "")
	rootCmd.PersistentFlags().BoolVar(&noColour, "noColour", false, "")
	_ = rootCmd.PersistentFlags().MarkHidden("nocolor")
	_ = rootCmd.PersistentFlags().MarkHidden("noColor")
	_ = rootCmd.PersistentFlags().MarkHidden("noColour")

	// Subcommands
	rootCmd.AddCommand(NewValidateCmd(lazy))
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// isCompletionCommand returns true if the command or any of its parents is the "completion" command.
func isCompletionCommand(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Name() == "completion" {
			return true
		}
	}
	return false
}
