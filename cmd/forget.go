package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/example/restique/internal/config"
	"github.com/example/restique/internal/restic"
	"github.com/example/restique/internal/selection"
)

var (
	forgetLocations []string
	forgetDryRun    bool
)

var forgetCmd = &cobra.Command{
	Use:   "forget",
	Short: "Remove snapshots of configured locations from their repositories",
	Long: `Apply the configured retention policy to the snapshots this tool created
for the selected locations.`,
	RunE: runForget,
}

func init() {
	forgetCmd.Flags().StringArrayVarP(&forgetLocations, "locations", "l", nil, "Only remove snapshots of this location (repeatable, LOCATION[@REPOSITORY])")
	forgetCmd.Flags().BoolVar(&forgetDryRun, "dry-run", false, "Do not delete any data, just show what would be done")
	rootCmd.AddCommand(forgetCmd)
}

func runForget(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	tokens, err := selection.ParseTokens(forgetLocations)
	if err != nil {
		return err
	}
	resolved, err := selection.Resolve(tokens, cfg, console)
	if err != nil {
		return err
	}

	api := newAPI(cfg)
	failed := false

	for _, locationName := range selection.Locations(resolved) {
		ok, err := forgetLocation(api, cfg, locationName, resolved[locationName], forgetDryRun)
		if err != nil {
			return err
		}
		if !ok {
			failed = true
		}
	}

	if failed {
		return errors.New("one or more forget operations failed")
	}
	return nil
}

// forgetLocation applies retention for one location across its target
// repositories. The bool return is false when any repository failed; an
// error is returned only for hook spawn failures.
func forgetLocation(api *restic.Api, cfg *config.Config, locationName string, repoNames []string, dryRun bool) (bool, error) {
	opts := cfg.ForgetOptionsFor(locationName)
	tag := restic.Tag(locationName)

	console.Infof("Forget for location %s ...", locationName)

	passed, err := runHooks("IF", opts.Hooks.If)
	if err != nil {
		return false, err
	}
	if !passed {
		console.Infof("IF hook failed. Skip location.")
		return true, nil
	}

	ok := true
	for _, repoName := range repoNames {
		repo, resolvedOk := restic.ResolveRepository(cfg, repoName, console)
		if !resolvedOk {
			console.Warnf("Location %s refers to an undefined repository %s.", locationName, repoName)
			continue
		}
		console.Infof("Forget from repository %s ...", repoName)
		if err := api.Forget(repo, tag, opts, dryRun); err != nil {
			console.Errorf("Forget for %s from repository %s failed: %v", locationName, repoName, err)
			ok = false
			continue
		}
		console.Infof("Forget from repository %s done.", repoName)
	}
	return ok, nil
}
