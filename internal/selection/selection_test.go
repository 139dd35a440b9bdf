package selection

import (
	"reflect"
	"testing"

	"github.com/example/restique/internal/config"
	"github.com/example/restique/internal/logging"
)

type recordingLogger struct {
	warnings []string
}

func (r *recordingLogger) Log(level logging.Level, msg string) {
	if level == logging.LevelWarn {
		r.warnings = append(r.warnings, msg)
	}
}

func testConfig() *config.Config {
	return &config.Config{
		Locations: map[string]*config.Location{
			"home": {Paths: []string{"/home"}, Repos: []string{"a", "b"}},
			"etc":  {Paths: []string{"/etc"}, Repos: []string{"a"}},
			"bare": {Paths: []string{"/srv"}},
		},
	}
}

func TestResolve_EmptySelectionSelectsEverything(t *testing.T) {
	log := &recordingLogger{}
	got, err := Resolve(nil, testConfig(), log)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	want := map[string][]string{
		"home": {"a", "b"},
		"etc":  {"a"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Resolve() = %v, want %v", got, want)
	}
	// "bare" has no repositories and must not appear.
	if _, ok := got["bare"]; ok {
		t.Error("location with empty repository set must be dropped")
	}
}

func TestResolve_BareToken(t *testing.T) {
	log := &recordingLogger{}
	got, err := Resolve([]Token{{Location: "home"}}, testConfig(), log)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	want := map[string][]string{"home": {"a", "b"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Resolve() = %v, want %v", got, want)
	}
}

func TestResolve_QualifiedToken(t *testing.T) {
	log := &recordingLogger{}
	got, err := Resolve([]Token{{Location: "home", Repo: "b"}}, testConfig(), log)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	want := map[string][]string{"home": {"b"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Resolve() = %v, want %v", got, want)
	}
}

func TestResolve_InvalidCombinationDropped(t *testing.T) {
	log := &recordingLogger{}
	got, err := Resolve([]Token{{Location: "etc", Repo: "b"}}, testConfig(), log)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Resolve() = %v, want empty map", got)
	}
	if len(log.warnings) != 1 {
		t.Errorf("expected one warning, got %v", log.warnings)
	}
}

func TestResolve_UnknownLocationFails(t *testing.T) {
	log := &recordingLogger{}
	if _, err := Resolve([]Token{{Location: "nope"}}, testConfig(), log); err == nil {
		t.Error("expected error for unknown location")
	}
}

func TestResolve_TokensAccumulate(t *testing.T) {
	log := &recordingLogger{}
	tokens := []Token{
		{Location: "home", Repo: "a"},
		{Location: "home", Repo: "b"},
		{Location: "home", Repo: "a"},
	}
	got, err := Resolve(tokens, testConfig(), log)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	want := map[string][]string{"home": {"a", "b"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Resolve() = %v, want %v", got, want)
	}
}

func TestParseToken(t *testing.T) {
	tests := []struct {
		in      string
		want    Token
		wantErr bool
	}{
		{"home", Token{Location: "home"}, false},
		{"home@offsite", Token{Location: "home", Repo: "offsite"}, false},
		{"home@", Token{}, true},
		{"@offsite", Token{}, true},
		{"bad name", Token{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseToken(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseToken(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseToken(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
