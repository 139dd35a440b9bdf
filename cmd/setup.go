package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/example/restique/internal/config"
)

var (
	setupSuccessStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("42"))

	setupErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactively create a starter configuration file",
	Long: `Walk through a short form and write a starter configuration with one
repository and one location to the configured config path.`,
	RunE: runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	if !isatty.IsTerminal(os.Stdin.Fd()) && !isatty.IsCygwinTerminal(os.Stdin.Fd()) {
		return fmt.Errorf("setup requires an interactive terminal")
	}

	fmt.Println(logo)

	if _, err := os.Stat(configFile); err == nil {
		overwrite := false
		confirm := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("%s already exists. Overwrite?", configFile)).
					Affirmative("Yes, overwrite").
					Negative("Cancel").
					Value(&overwrite),
			),
		)
		if err := confirm.Run(); err != nil {
			return err
		}
		if !overwrite {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	var (
		executable   = config.DefaultExecutable
		repoName     = "default"
		repoPath     string
		repoPassword string
		locationName = "home"
		locationPath string
	)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Engine executable").
				Description("Name or path of the restic binary").
				Value(&executable),
			huh.NewInput().
				Title("Repository name").
				Validate(config.ValidateName).
				Value(&repoName),
			huh.NewInput().
				Title("Repository path").
				Description("e.g. /backups/main or s3:s3.amazonaws.com/bucket").
				Validate(required("repository path")).
				Value(&repoPath),
			huh.NewInput().
				Title("Repository password").
				Description("Leave empty to configure a password file or command later").
				EchoMode(huh.EchoModePassword).
				Value(&repoPassword),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Location name").
				Validate(config.ValidateName).
				Value(&locationName),
			huh.NewInput().
				Title("Location path").
				Description("Directory to back up").
				Validate(required("location path")).
				Value(&locationPath),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}

	cfg := config.Config{
		Executable: executable,
		Repos: map[string]*config.Repo{
			repoName: {Path: repoPath, Password: repoPassword},
		},
		Locations: map[string]*config.Location{
			locationName: {Paths: []string{locationPath}, Repos: []string{repoName}},
		},
	}

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("rendering configuration: %w", err)
	}
	// The file may hold a repository password.
	if err := os.WriteFile(configFile, data, 0o600); err != nil {
		fmt.Println(setupErrorStyle.Render(fmt.Sprintf("Failed to write %s", configFile)))
		return err
	}

	fmt.Println(setupSuccessStyle.Render(fmt.Sprintf("Wrote %s", configFile)))
	fmt.Printf("Next: run 'restique verify --init' to create the repository,\nthen 'restique backup' for a first snapshot.\n")
	return nil
}

func required(what string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s must not be empty", what)
		}
		return nil
	}
}
