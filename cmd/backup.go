package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/example/restique/internal/restic"
	"github.com/example/restique/internal/selection"
)

var backupDryRun bool

var backupCmd = &cobra.Command{
	Use:   "backup [LOCATION[@REPOSITORY]]...",
	Short: "Create a new backup of configured locations",
	Long: `Create a new backup of the selected locations. Without arguments every
configured location is backed up to all of its repositories.`,
	RunE: runBackup,
}

func init() {
	backupCmd.Flags().BoolVar(&backupDryRun, "dry-run", false, "Do not upload or write any data, just show what would be done")
	rootCmd.AddCommand(backupCmd)
}

func runBackup(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	tokens, err := selection.ParseTokens(args)
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
		location := cfg.Locations[locationName]
		opts := cfg.BackupOptionsFor(locationName)
		tag := restic.Tag(locationName)

		console.Infof("Backup location %s ...", locationName)

		passed, err := runHooks("IF", opts.Hooks.If)
		if err != nil {
			return err
		}
		if !passed {
			console.Infof("IF hook failed. Skip location.")
			continue
		}

		for _, repoName := range resolved[locationName] {
			repo, ok := restic.ResolveRepository(cfg, repoName, console)
			if !ok {
				console.Warnf("Location %s refers to an undefined repository %s.", locationName, repoName)
				continue
			}
			console.Infof("Backup to repository %s ...", repoName)
			if err := api.Backup(repo, location.Paths, tag, opts, backupDryRun); err != nil {
				console.Errorf("Backup of %s to repository %s failed: %v", locationName, repoName, err)
				failed = true
				continue
			}
			console.Infof("Backup to repository %s done.", repoName)
		}

		if !backupDryRun && opts.Forget {
			ok, err := forgetLocation(api, cfg, locationName, resolved[locationName], false)
			if err != nil {
				return err
			}
			if !ok {
				failed = true
			}
		}
	}

	if failed {
		return errors.New("one or more backup operations failed")
	}
	return nil
}
