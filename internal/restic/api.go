// Package restic drives the external backup engine through subprocess
// invocations with per-repository environment isolation.
package restic

import (
	"os"
	"strconv"

	"github.com/example/restique/internal/config"
	"github.com/example/restique/internal/logging"
	"github.com/example/restique/internal/runner"
)

// TagPrefix marks snapshots created by restique so retention operations can
// select exactly this tool's snapshots.
const TagPrefix = "_restique_"

// Tag returns the snapshot tag for a location.
func Tag(location string) string {
	return TagPrefix + location
}

// Repository is a fully resolved backup destination: connection, credential
// and the merged environment overlay for its invocations.
type Repository struct {
	Name            string
	Path            string
	Password        string
	PasswordFile    string
	PasswordCommand string
	RetryLock       string
	Options         []string
	Environment     map[string]string
}

// ResolveRepository looks up a configured repository and materializes its
// environment overlay (global block first, repository block on top). The
// second return is false for undeclared names.
func ResolveRepository(cfg *config.Config, name string, log logging.Logger) (Repository, bool) {
	repoCfg, ok := cfg.Repos[name]
	if !ok {
		return Repository{}, false
	}

	env := LoadEnvironment(cfg.Environment, log)
	for key, value := range LoadEnvironment(repoCfg.Environment, log) {
		env[key] = value
	}

	return Repository{
		Name:            name,
		Path:            repoCfg.Path,
		Password:        repoCfg.Password,
		PasswordFile:    repoCfg.PasswordFile,
		PasswordCommand: repoCfg.PasswordCommand,
		RetryLock:       repoCfg.RetryLock,
		Options:         repoCfg.Options,
		Environment:     env,
	}, true
}

// Api executes engine operations for resolved repositories.
type Api struct {
	exe       string
	verbosity int
	run       *runner.Runner
	log       *logging.Console
}

// New builds an Api around the configured engine executable. verbosity is
// forwarded to the engine (0 keeps the engine at its default chattiness).
func New(exe string, verbosity int, log *logging.Console) *Api {
	return &Api{
		exe:       exe,
		verbosity: verbosity,
		run:       runner.New(),
		log:       log,
	}
}

// Backup snapshots the given paths into the repository under tag. The
// engine's partial-read exit code is deliberately treated as success so a
// handful of unreadable files does not fail the whole run.
func (a *Api) Backup(repo Repository, paths []string, tag string, opts config.BackupOptions, dryRun bool) error {
	args := backupArgs(tag, paths, opts, dryRun)
	result, err := a.exec(repo, args, a.log.Echo())
	if err != nil {
		return err
	}
	if result.ExitCode == readErrorExitCode {
		a.log.Warnf("Some source files could not be read; the snapshot was completed without them.")
		return nil
	}
	return a.statusError(result)
}

// Forget applies the retention options to the snapshots tagged for one
// location.
func (a *Api) Forget(repo Repository, tag string, opts config.ForgetOptions, dryRun bool) error {
	result, err := a.exec(repo, forgetArgs(tag, opts, dryRun), a.log.Echo())
	if err != nil {
		return err
	}
	return a.statusError(result)
}

// Init creates the repository.
func (a *Api) Init(repo Repository) error {
	result, err := a.exec(repo, []string{"init"}, a.log.Echo())
	if err != nil {
		return err
	}
	return a.statusError(result)
}

// Exec runs a raw engine command against the repository.
func (a *Api) Exec(repo Repository, args []string) error {
	result, err := a.exec(repo, args, a.log.Echo())
	if err != nil {
		return err
	}
	return a.statusError(result)
}

// Status probes the repository. Output is never echoed; the probe is
// expected to fail in interesting ways and the exit code carries the
// answer.
func (a *Api) Status(repo Repository) (RepoStatus, error) {
	result, err := a.exec(repo, []string{"cat", "config"}, false)
	if err != nil {
		return 0, err
	}
	if status, ok := classifyStatus(result.ExitCode); ok {
		return status, nil
	}
	return 0, a.statusError(result)
}

// exec composes the invocation for repo and runs it. The returned error
// covers spawn failures only; exit codes travel in the result.
func (a *Api) exec(repo Repository, args []string, echo bool) (runner.Result, error) {
	cmd := runner.Command{
		Program: a.exe,
		Args:    append(a.baseArgs(repo), args...),
		Env: ComposeEnv(os.Environ(), repo.Name,
			repo.Environment,
			connectionEnv(repo),
			tuningEnv(),
		),
	}
	a.log.Debugf("Run command: %s", cmd)

	result, err := a.run.Run(cmd, echo)
	if err != nil {
		return result, err
	}
	a.log.Debugf("Command completed (exit code %d).", result.ExitCode)
	return result, nil
}

// baseArgs are the engine-global arguments prepended to every operation.
func (a *Api) baseArgs(repo Repository) []string {
	var args []string
	if a.verbosity > 0 {
		args = append(args, "--verbose="+strconv.Itoa(a.verbosity))
	}
	if repo.RetryLock != "" {
		args = append(args, "--retry-lock", repo.RetryLock)
	}
	args = append(args, repo.Options...)
	return args
}

func (a *Api) statusError(result runner.Result) error {
	if result.Success() {
		return nil
	}
	return &runner.ExitError{
		Program:  a.exe,
		ExitCode: result.ExitCode,
		Stdout:   result.Stdout,
		Stderr:   result.Stderr,
	}
}

// backupArgs translates backup options into the engine argument vector. The
// emission order is fixed so command lines are reproducible.
func backupArgs(tag string, paths []string, opts config.BackupOptions, dryRun bool) []string {
	args := []string{"backup"}
	if dryRun {
		args = append(args, "--dry-run")
	}
	for _, pattern := range opts.Exclude {
		args = append(args, "--exclude", pattern)
	}
	for _, pattern := range opts.IExclude {
		args = append(args, "--iexclude", pattern)
	}
	for _, file := range opts.ExcludeFile {
		args = append(args, "--exclude-file", file)
	}
	for _, file := range opts.IExcludeFile {
		args = append(args, "--iexclude-file", file)
	}
	if opts.ExcludeCaches {
		args = append(args, "--exclude-caches")
	}
	for _, marker := range opts.ExcludeIfPresent {
		args = append(args, "--exclude-if-present", marker)
	}
	if opts.ExcludeLargerThan != "" {
		args = append(args, "--exclude-larger-than", opts.ExcludeLargerThan)
	}
	if opts.IgnoreCtime {
		args = append(args, "--ignore-ctime")
	}
	if opts.IgnoreInode {
		args = append(args, "--ignore-inode")
	}
	if opts.NoScan {
		args = append(args, "--no-scan")
	}
	if opts.OneFileSystem {
		args = append(args, "--one-file-system")
	}
	if opts.SkipIfUnchanged {
		args = append(args, "--skip-if-unchanged")
	}
	if opts.UseFsSnapshot {
		args = append(args, "--use-fs-snapshot")
	}
	if opts.WithAtime {
		args = append(args, "--with-atime")
	}
	args = append(args, "--tag", tag)
	args = append(args, paths...)
	return args
}

// forgetArgs translates retention options into the engine argument vector.
func forgetArgs(tag string, opts config.ForgetOptions, dryRun bool) []string {
	args := []string{"forget"}
	if dryRun {
		args = append(args, "--dry-run")
	}
	if opts.Prune {
		args = append(args, "--prune")
	}
	appendCount := func(flag string, n *int) {
		if n != nil {
			args = append(args, flag, strconv.Itoa(*n))
		}
	}
	appendCount("--keep-last", opts.KeepLast)
	appendCount("--keep-hourly", opts.KeepHourly)
	appendCount("--keep-daily", opts.KeepDaily)
	appendCount("--keep-weekly", opts.KeepWeekly)
	appendCount("--keep-monthly", opts.KeepMonthly)
	appendCount("--keep-yearly", opts.KeepYearly)
	appendDuration := func(flag, d string) {
		if d != "" {
			args = append(args, flag, d)
		}
	}
	appendDuration("--keep-within", opts.KeepWithin)
	appendDuration("--keep-within-hourly", opts.KeepWithinHourly)
	appendDuration("--keep-within-daily", opts.KeepWithinDaily)
	appendDuration("--keep-within-weekly", opts.KeepWithinWeekly)
	appendDuration("--keep-within-monthly", opts.KeepWithinMonthly)
	appendDuration("--keep-within-yearly", opts.KeepWithinYearly)
	for _, keep := range opts.KeepTag {
		args = append(args, "--keep-tag", keep)
	}
	args = append(args, "--tag", tag)
	return args
}
