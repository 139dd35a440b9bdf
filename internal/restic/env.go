package restic

import (
	"fmt"
	"sort"
	"strings"

	"github.com/joho/godotenv"

	"github.com/example/restique/internal/config"
	"github.com/example/restique/internal/logging"
)

// EnvPrefix is the environment namespace reserved for restique itself.
// Variables carrying it never reach a child process.
const EnvPrefix = "RESTIQUE_"

// Engine connection variables injected per repository.
const (
	envRepository      = "RESTIC_REPOSITORY"
	envPassword        = "RESTIC_PASSWORD"
	envPasswordFile    = "RESTIC_PASSWORD_FILE"
	envPasswordCommand = "RESTIC_PASSWORD_COMMAND"
	envProgressFPS     = "RESTIC_PROGRESS_FPS"
)

// repoScopePrefix returns the per-repository override prefix, e.g.
// RESTIQUE_R_OFFSITE_ for a repository named "offsite".
func repoScopePrefix(repoName string) string {
	return EnvPrefix + "R_" + strings.ToUpper(repoName) + "_"
}

// ComposeEnv builds the complete child environment for one invocation
// against the named repository. The child inherits nothing implicitly; the
// returned list fully replaces its environment.
//
// Inherited variables scoped to this repository (RESTIQUE_R_<NAME>_X) are
// rewritten to their bare name X; everything else in the reserved
// namespace is stripped. The overlays are then merged in order, each layer
// overwriting identically-named variables of the layers before it.
func ComposeEnv(inherited []string, repoName string, overlays ...map[string]string) []string {
	scopePrefix := repoScopePrefix(repoName)

	merged := make(map[string]string, len(inherited))
	for _, kv := range inherited {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		key = strings.TrimPrefix(key, scopePrefix)
		if strings.HasPrefix(key, EnvPrefix) {
			continue
		}
		merged[key] = value
	}

	for _, overlay := range overlays {
		for key, value := range overlay {
			merged[key] = value
		}
	}

	env := make([]string, 0, len(merged))
	for key, value := range merged {
		env = append(env, key+"="+value)
	}
	sort.Strings(env)
	return env
}

// LoadEnvironment materializes an environment block: env files first (later
// files override earlier ones), inline vars last. Unreadable files are
// reported and skipped.
func LoadEnvironment(env config.Environment, log logging.Logger) map[string]string {
	vars := make(map[string]string)
	for _, file := range env.EnvFiles {
		fileVars, err := godotenv.Read(file)
		if err != nil {
			log.Log(logging.LevelWarn, fmt.Sprintf("Failed to read environment file %s: %v", file, err))
			continue
		}
		for key, value := range fileVars {
			vars[key] = value
		}
	}
	for key, value := range env.Vars {
		vars[key] = value
	}
	return vars
}

// connectionEnv returns the engine's required connection variables for a
// repository. Empty credential fields stay unset so the engine can fall
// back to its own resolution order.
func connectionEnv(repo Repository) map[string]string {
	vars := make(map[string]string, 4)
	if repo.Path != "" {
		vars[envRepository] = repo.Path
	}
	if repo.Password != "" {
		vars[envPassword] = repo.Password
	}
	if repo.PasswordFile != "" {
		vars[envPasswordFile] = repo.PasswordFile
	}
	if repo.PasswordCommand != "" {
		vars[envPasswordCommand] = repo.PasswordCommand
	}
	return vars
}

// tuningEnv slows the engine's progress reporting to a rate suitable for
// non-interactive logs.
func tuningEnv() map[string]string {
	return map[string]string{envProgressFPS: "1"}
}
