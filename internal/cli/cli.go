package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/vk/flowcanvas/internal/app"
)

// EnvPrefix prefixes the environment variables that provide flag defaults.
const EnvPrefix = "FLOWCANVAS_"

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
//
// A flag left off the command line falls back to FLOWCANVAS_<NAME>, with
// dashes turned into underscores. Variables from -env-file never override
// ones already set in the environment.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("flowcanvas", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
FlowCanvas - a node-graph editor engine served over socket.io.

Usage:
  flowcanvas [options]                     serve canvas sessions
  flowcanvas -drive SCRIPT [-url URL]      replay an interaction script

Every option can also be set as FLOWCANVAS_<OPTION>, e.g. FLOWCANVAS_LOG_LEVEL=debug.

Options:
`)
		flagSet.PrintDefaults()
	}

	configFlag := flagSet.String("config", "", "Path to an HCL editor settings file or directory.")
	listenFlag := flagSet.String("listen", app.DefaultListenAddr, "Address for the socket.io server.")
	healthPortFlag := flagSet.Int("healthcheck-port", 0, "Port for the HTTP health check and metrics server. 0 is disabled.")
	logFormatFlag := flagSet.String("log-format", "json", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	envFileFlag := flagSet.String("env-file", "", "Dotenv file to load before reading FLOWCANVAS_* variables.")
	driveFlag := flagSet.String("drive", "", "HCL interaction script to replay against -url instead of serving.")
	urlFlag := flagSet.String("url", "http://localhost:8085", "Server the -drive script is replayed against.")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	if flagSet.NArg() > 0 {
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("unexpected argument: %s", flagSet.Arg(0))}
	}
	slog.Debug("Arguments parsed successfully.")

	if *envFileFlag != "" {
		if err := godotenv.Load(*envFileFlag); err != nil {
			return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("failed to load env file: %v", err)}
		}
		slog.Debug("Env file loaded.", "path", *envFileFlag)
	}
	if err := applyEnv(flagSet); err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	if *healthPortFlag < 0 || *healthPortFlag > 65535 {
		return nil, false, &ExitError{Code: 2, Message: "invalid healthcheck-port: must be between 0 and 65535"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		ConfigPath:      *configFlag,
		ListenAddr:      *listenFlag,
		DrivePath:       *driveFlag,
		URL:             *urlFlag,
		HealthcheckPort: *healthPortFlag,
		LogFormat:       logFormat,
		LogLevel:        logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}

// applyEnv sets every flag not given on the command line from its
// environment variable, when one is set.
func applyEnv(flagSet *flag.FlagSet) error {
	explicit := map[string]bool{}
	flagSet.Visit(func(f *flag.Flag) { explicit[f.Name] = true })

	var err error
	flagSet.VisitAll(func(f *flag.Flag) {
		if err != nil || explicit[f.Name] || f.Name == "env-file" {
			return
		}
		key := EnvName(f.Name)
		val, ok := os.LookupEnv(key)
		if !ok {
			return
		}
		if setErr := flagSet.Set(f.Name, val); setErr != nil {
			err = fmt.Errorf("invalid %s: %v", key, setErr)
		}
	})
	return err
}

// EnvName returns the environment variable backing a flag.
func EnvName(flagName string) string {
	return EnvPrefix + strings.ToUpper(strings.ReplaceAll(flagName, "-", "_"))
}
