package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/andyballingall/swagger-mock-validator/internal/config"
)

func NewValidateCmd(mgr Manager) *cobra.Command {
	var verbose bool
	var failOnWarning bool
	var skipSpecValidation bool
	var parallelism int
	var watch bool

	cmd := &cobra.Command{
		Use:   "validate <swagger> <pact>",
		Short: "Validate a pact file against a swagger file",
		Args:  cobra.ExactArgs(2),
		Example: `
LOCAL FILES
  smv validate ./swagger.yaml ./pacts/consumer-provider.json

URLS
  smv validate https://api.myorg.com/swagger.json ./pacts/consumer-provider.json

MACHINE READABLE OUTPUT
  smv validate -o json ./swagger.json ./pact.json

RE-RUN ON CHANGE
  smv validate --watch ./swagger.json ./pact.json`,
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show the mock and spec values behind each result")
	outputVal := formatValue(config.OutputText)
	cmd.Flags().VarP(&outputVal, "output", "o", "Output format (text, json)")
	cmd.Flags().IntVarP(&parallelism, "parallelism", "p", 0,
		"Number of interactions validated concurrently (0 uses one per CPU)")
	cmd.Flags().BoolVar(&failOnWarning, "fail-on-warning", false, "Fail when validation produces warnings")
	cmd.Flags().BoolVar(&skipSpecValidation, "skip-spec-validation", false,
		"Skip structural validation of the swagger file")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Watch local files for changes and rerun validation")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		cfg := mgr.Config()
		opts := ValidateOptions{
			Output:             cfg.Output,
			Verbose:            verbose,
			UseColour:          cfg.UseColour(),
			FailOnWarning:      cfg.FailOnWarning,
			SkipSpecValidation: skipSpecValidation,
			Parallelism:        cfg.Parallelism,
		}

		// Flags override the configuration only when given.
		if cmd.Flags().Changed("output") {
			opts.Output = config.Output(outputVal)
		}
		if cmd.Flags().Changed("parallelism") {
			if parallelism < 0 {
				return fmt.Errorf("invalid --parallelism %d: must not be negative", parallelism)
			}
			opts.Parallelism = parallelism
		}
		if cmd.Flags().Changed("fail-on-warning") {
			opts.FailOnWarning = failOnWarning
		}
		if noColour, _ := cmd.Flags().GetBool("nocolour"); noColour {
			opts.UseColour = false
		}

		if watch {
			return mgr.WatchValidation(cmd.Context(), args[0], args[1], opts, nil)
		}

		return mgr.ValidateMock(cmd.Context(), args[0], args[1], opts)
	}

	return cmd
}
