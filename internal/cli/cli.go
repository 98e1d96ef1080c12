package cli

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/specialistvlad/detgeo/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
// Running without a subcommand is the same as "build".
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	defaults, err := app.DefaultConfig()
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	var (
		cfg    = defaults
		parsed *app.Config
	)
	capture := func(command string) func(*cobra.Command, []string) error {
		return func(_ *cobra.Command, _ []string) error {
			cfg.Command = command
			validated, err := app.NewConfig(cfg)
			if err != nil {
				return err
			}
			parsed = validated
			return nil
		}
	}

	root := &cobra.Command{
		Use:   "detgeo",
		Short: "detgeo builds the neutrino detector geometry",
		Long: `detgeo constructs the layered cylindrical target, the collimator and the
downstream detector inside a world box, prints a summary of the result and can
serve it together with metrics over HTTP.

Parameters come from built-in defaults, then from .hcl files (-c), then from
--set overrides. Lengths accept unit expressions such as "25*m" or "3 * cm".`,
		Args:          cobra.NoArgs,
		RunE:          capture(app.CommandBuild),
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.SetArgs(args)
	root.SetOut(output)
	root.SetErr(output)

	flags := root.PersistentFlags()
	flags.StringSliceVarP(&cfg.ConfigPaths, "config", "c", defaults.ConfigPaths, "Path to a .hcl file or a directory of .hcl files. Repeatable.")
	flags.StringArrayVar(&cfg.Overrides, "set", nil, "Detector parameter override as key=value, e.g. world_size_z=25*m. Repeatable.")
	flags.StringVar(&cfg.Format, "format", defaults.Format, "Output format. Options: 'text' or 'yaml'.")
	flags.BoolVar(&cfg.PrintMaterials, "print-materials", defaults.PrintMaterials, "Append the material table to the build output.")
	flags.IntVar(&cfg.HealthcheckPort, "healthcheck-port", defaults.HealthcheckPort, "Port for the health, metrics and geometry server. 0 is disabled.")
	flags.StringVar(&cfg.LogFormat, "log-format", defaults.LogFormat, "Log output format. Options: 'text' or 'json'.")
	flags.StringVar(&cfg.LogLevel, "log-level", defaults.LogLevel, "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	build := &cobra.Command{
		Use:   "build",
		Short: "Construct the detector and print its summary",
		Args:  cobra.NoArgs,
		RunE:  capture(app.CommandBuild),
	}
	build.Flags().StringVar(&cfg.WorldMaterial, "world-material", "", "Change the world material after construction.")
	build.Flags().StringVar(&cfg.WorldSize, "world-size", "", "Change the world axial size after construction and rebuild, e.g. 25*m.")

	materials := &cobra.Command{
		Use:   "materials",
		Short: "Define the material catalog and print the material table",
		Args:  cobra.NoArgs,
		RunE:  capture(app.CommandMaterials),
	}
	root.AddCommand(build, materials)

	if err := root.Execute(); err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	if parsed == nil {
		slog.Debug("No command ran, exiting.")
		return nil, true, nil
	}

	slog.Debug("CLI parser finished successfully.", "config", parsed)
	return parsed, false, nil
}
