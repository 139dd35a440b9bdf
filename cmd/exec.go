package cmd

import (
	"errors"
	"sort"

	"github.com/spf13/cobra"

	"github.com/example/restique/internal/restic"
)

var execRepos []string

var execCmd = &cobra.Command{
	Use:   "exec [-r REPO]... -- ARG...",
	Short: "Run a native restic command for configured repositories",
	Long: `Run a raw engine command with the connection environment of each selected
repository. Without -r the command runs for every configured repository.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExec,
}

func init() {
	execCmd.Flags().StringArrayVarP(&execRepos, "repo", "r", nil, "Only run the command for this repository (repeatable)")
	rootCmd.AddCommand(execCmd)
}

func runExec(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	repoNames := execRepos
	if len(repoNames) == 0 {
		repoNames = make([]string, 0, len(cfg.Repos))
		for name := range cfg.Repos {
			repoNames = append(repoNames, name)
		}
		sort.Strings(repoNames)
	}

	api := newAPI(cfg)
	failed := false

	for _, repoName := range repoNames {
		repo, ok := restic.ResolveRepository(cfg, repoName, console)
		if !ok {
			console.Warnf("Argument refers to an undefined repository %s.", repoName)
			continue
		}
		if err := api.Exec(repo, args); err != nil {
			console.Errorf("Command failed for repository %s: %v", repoName, err)
			failed = true
		}
	}

	if failed {
		return errors.New("command failed for one or more repositories")
	}
	return nil
}
