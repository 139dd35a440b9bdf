package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/example/restique/internal/config"
	"github.com/example/restique/internal/logging"
	"github.com/example/restique/internal/restic"
	"github.com/example/restique/internal/runner"
)

var (
	configFile string
	workingDir string
	quiet      bool
	verbose    int
	envFiles   []string

	console *logging.Console
)

var rootCmd = &cobra.Command{
	Use:           "restique",
	Short:         "Restic backup orchestrator",
	Long:          `Restique backs up configured locations to one or more restic repositories.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		console = logging.New(quiet, verbose)
		if workingDir != "" {
			if err := os.Chdir(workingDir); err != nil {
				return fmt.Errorf("changing working directory: %w", err)
			}
		}
		return loadEnvFiles()
	},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(logo)
		_ = cmd.Usage()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if console != nil {
			console.Errorf("%v", err)
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "restique.yaml", "Configuration file")
	rootCmd.PersistentFlags().StringVar(&workingDir, "wd", "", "Working directory to switch to before doing anything else")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress all console output")
	rootCmd.PersistentFlags().CountVarP(&verbose, "verbose", "v", "Increase console verbosity (repeatable)")
	rootCmd.PersistentFlags().StringArrayVar(&envFiles, "env-file", nil, "Additional env file to load (repeatable)")
}

// loadEnvFiles loads the well-known env files plus any passed via
// --env-file into the process environment, later files overriding earlier
// ones. Missing files are skipped.
func loadEnvFiles() error {
	files := append([]string{".env", ".restique.env", "restique.env"}, envFiles...)
	for _, file := range files {
		if err := godotenv.Overload(file); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return fmt.Errorf("loading env file %s: %w", file, err)
		}
		console.Debugf("Loaded env file %s.", file)
	}
	return nil
}

func loadConfig() (*config.Config, error) {
	return config.Load(configFile)
}

func newAPI(cfg *config.Config) *restic.Api {
	return restic.New(cfg.Executable, engineVerbosity(), console)
}

// engineVerbosity maps extra -v flags beyond the tool's default onto the
// engine's own --verbose level.
func engineVerbosity() int {
	v := console.Verbosity() - logging.DefaultVerbosity
	if v < 0 {
		return 0
	}
	return v
}

// runHooks executes a guard chain and reports whether the gate passed. A
// spawn failure of a hook is an error; a non-zero exit only closes the
// gate.
func runHooks(name string, hooks []config.CommandSeq) (bool, error) {
	if len(hooks) == 0 {
		return true, nil
	}

	console.Infof("Running %s hooks ...", name)
	cmds := make([]runner.Command, 0, len(hooks))
	for _, hook := range hooks {
		cmds = append(cmds, runner.Command{Program: hook.Program(), Args: hook.Args()})
	}

	result, err := runner.New().RunSequential(cmds, console.Echo())
	if err != nil {
		return false, fmt.Errorf("running %s hooks: %w", name, err)
	}
	return result.Success(), nil
}
