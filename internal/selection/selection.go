// Package selection resolves user-supplied location[@repository] tokens
// against the configuration.
package selection

import (
	"fmt"
	"sort"
	"strings"

	"github.com/example/restique/internal/config"
	"github.com/example/restique/internal/logging"
)

// Token is one parsed selection entry. Repo is empty for a bare location
// token.
type Token struct {
	Location string
	Repo     string
}

// ParseToken parses "location" or "location@repository".
func ParseToken(s string) (Token, error) {
	location, repo, qualified := strings.Cut(s, "@")
	if err := config.ValidateName(location); err != nil {
		return Token{}, fmt.Errorf("selection %q: %w", s, err)
	}
	if qualified {
		if err := config.ValidateName(repo); err != nil {
			return Token{}, fmt.Errorf("selection %q: %w", s, err)
		}
		return Token{Location: location, Repo: repo}, nil
	}
	return Token{Location: location}, nil
}

// ParseTokens parses a list of raw selection strings.
func ParseTokens(raw []string) ([]Token, error) {
	tokens := make([]Token, 0, len(raw))
	for _, s := range raw {
		t, err := ParseToken(s)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, t)
	}
	return tokens, nil
}

// Resolve maps each selected location to the set of repository names to act
// on, returned as sorted, deduplicated slices.
//
// An empty selection selects every configured location with its full
// repository set. A qualified token naming a repository outside the
// location's declared set is dropped with a warning. Locations whose
// resulting set is empty are removed. An unknown location is a
// configuration error.
func Resolve(tokens []Token, cfg *config.Config, log logging.Logger) (map[string][]string, error) {
	sets := make(map[string]map[string]struct{})

	if len(tokens) == 0 {
		for name, location := range cfg.Locations {
			sets[name] = toSet(location.Repos)
		}
	} else {
		for _, t := range tokens {
			location, ok := cfg.Locations[t.Location]
			if !ok {
				return nil, fmt.Errorf("unknown location %q", t.Location)
			}
			set := sets[t.Location]
			if set == nil {
				set = make(map[string]struct{})
				sets[t.Location] = set
			}
			if t.Repo == "" {
				for _, r := range location.Repos {
					set[r] = struct{}{}
				}
				continue
			}
			if contains(location.Repos, t.Repo) {
				set[t.Repo] = struct{}{}
			} else {
				log.Log(logging.LevelWarn, fmt.Sprintf(
					"Location %s is not backed up to repository %s. Selection ignored.",
					t.Location, t.Repo))
			}
		}
	}

	result := make(map[string][]string, len(sets))
	for name, set := range sets {
		if len(set) == 0 {
			continue
		}
		repos := make([]string, 0, len(set))
		for r := range set {
			repos = append(repos, r)
		}
		sort.Strings(repos)
		result[name] = repos
	}
	return result, nil
}

// Locations returns the resolved location names in sorted order, giving the
// sequential workflow a deterministic iteration order.
func Locations(resolved map[string][]string) []string {
	names := make([]string, 0, len(resolved))
	for name := range resolved {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		set[item] = struct{}{}
	}
	return set
}

func contains(items []string, want string) bool {
	for _, item := range items {
		if item == want {
			return true
		}
	}
	return false
}
