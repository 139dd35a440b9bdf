package cmd

import (
	"errors"
	"sort"

	"github.com/spf13/cobra"

	"github.com/example/restique/internal/restic"
)

var verifyInit bool

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Validate the configuration and test access to configured repositories",
	RunE:  runVerify,
}

func init() {
	verifyCmd.Flags().BoolVar(&verifyInit, "init", false, "Create missing repositories")
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	repoNames := make([]string, 0, len(cfg.Repos))
	for name := range cfg.Repos {
		repoNames = append(repoNames, name)
	}
	sort.Strings(repoNames)

	api := newAPI(cfg)
	failed := false

	for _, repoName := range repoNames {
		// Resolution cannot fail here; the names come from the repository
		// configuration itself.
		repo, _ := restic.ResolveRepository(cfg, repoName, console)

		status, err := api.Status(repo)
		if err != nil {
			console.Errorf("Repository %s: %v", repoName, err)
			failed = true
			continue
		}

		switch status {
		case restic.StatusOk:
			console.Infof("Repository %s: OK", repoName)
		case restic.StatusNoRepository:
			if verifyInit {
				console.Debugf("Repository %s not found. Initialize ...", repoName)
				if err := api.Init(repo); err != nil {
					console.Errorf("Repository %s: initialization failed: %v", repoName, err)
					failed = true
					continue
				}
				console.Infof("Repository %s: INITIALIZED", repoName)
			} else {
				console.Errorf("Repository %s: NOT FOUND", repoName)
			}
		case restic.StatusLocked:
			console.Errorf("Repository %s: LOCKED", repoName)
		case restic.StatusInvalidKey:
			console.Errorf("Repository %s: INVALID KEY", repoName)
		}
	}

	if failed {
		return errors.New("verification failed for one or more repositories")
	}
	return nil
}
