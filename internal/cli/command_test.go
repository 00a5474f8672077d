package cli

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// fakeRunner records the stage invoked by a command
type fakeRunner struct {
	calls []string
}

func (r *fakeRunner) record(call string) error {
	r.calls = append(r.calls, call)
	return nil
}

func (r *fakeRunner) Init(ctx context.Context, name string) error   { return r.record("init " + name) }
func (r *fakeRunner) Themes() error                                 { return r.record("themes") }
func (r *fakeRunner) Providers() error                              { return r.record("providers") }
func (r *fakeRunner) Fetch(ctx context.Context, name string) error  { return r.record("fetch " + name) }
func (r *fakeRunner) Score(ctx context.Context, name string) error  { return r.record("score " + name) }
func (r *fakeRunner) Select(ctx context.Context, name string) error { return r.record("select " + name) }
func (r *fakeRunner) Render(name string) error                      { return r.record("render " + name) }
func (r *fakeRunner) Run(ctx context.Context, name string) error    { return r.record("run " + name) }
func (r *fakeRunner) Archive(name string) error                     { return r.record("archive " + name) }
func (r *fakeRunner) Models(ctx context.Context) error              { return r.record("models") }

func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
}

func TestCreateRootCommand(t *testing.T) {
	flags := NewFlags()
	cmd := CreateRootCommand(flags, &fakeRunner{})

	if cmd.Use != "themegrid" {
		t.Errorf("Expected Use to be 'themegrid', got %s", cmd.Use)
	}

	for _, name := range []string{"init", "themes", "providers", "fetch", "score", "select", "render", "run", "archive", "models"} {
		t.Run("command_"+name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			if err != nil || sub.Name() != name {
				t.Errorf("Expected subcommand %s to exist", name)
			}
		})
	}

	for _, name := range []string{"config", "themes-root", "log-level"} {
		if cmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("Expected persistent flag %s to exist", name)
		}
	}
}

func TestSubcommandFlags(t *testing.T) {
	cmd := CreateRootCommand(NewFlags(), &fakeRunner{})

	tests := []struct {
		command string
		flags   []string
	}{
		{"init", []string{"preset", "words", "title", "columns", "images", "query-prefix", "translate", "target-lang", "label-langs"}},
		{"fetch", []string{"sources", "workers", "max-bytes", "fresh", "dry-run"}},
		{"score", []string{"scorer", "openai-model", "gemini-model", "workers"}},
		{"select", []string{"pick", "gui"}},
		{"render", []string{"lang", "all-langs", "csv", "no-title", "no-borders", "image-width", "output", "dry-run"}},
		{"run", []string{"sources", "scorer", "lang", "csv"}},
	}

	for _, tt := range tests {
		sub, _, err := cmd.Find([]string{tt.command})
		if err != nil {
			t.Fatalf("Failed to find %s: %v", tt.command, err)
		}
		for _, name := range tt.flags {
			if sub.Flags().Lookup(name) == nil {
				t.Errorf("Expected flag --%s on %s", name, tt.command)
			}
		}
	}
}

func TestExecuteDispatchesToRunner(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"init", "meteo"}, "init meteo"},
		{[]string{"themes"}, "themes"},
		{[]string{"providers"}, "providers"},
		{[]string{"fetch", "meteo", "--dry-run"}, "fetch meteo"},
		{[]string{"score", "meteo"}, "score meteo"},
		{[]string{"select", "meteo", "--pick", "soleil=a.jpg"}, "select meteo"},
		{[]string{"render", "meteo"}, "render meteo"},
		{[]string{"run", "meteo"}, "run meteo"},
		{[]string{"archive", "meteo"}, "archive meteo"},
		{[]string{"models"}, "models"},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			resetViper(t)
			runner := &fakeRunner{}
			cmd := CreateRootCommand(NewFlags(), runner)
			cmd.SetArgs(tt.args)

			if err := cmd.Execute(); err != nil {
				t.Fatalf("Execute failed: %v", err)
			}
			if !reflect.DeepEqual(runner.calls, []string{tt.want}) {
				t.Errorf("Expected calls %v, got %v", []string{tt.want}, runner.calls)
			}
		})
	}
}

func TestExecuteRequiresThemeArgument(t *testing.T) {
	resetViper(t)
	runner := &fakeRunner{}
	cmd := CreateRootCommand(NewFlags(), runner)
	cmd.SetArgs([]string{"fetch"})
	cmd.SetErr(&strings.Builder{})

	if err := cmd.Execute(); err == nil {
		t.Error("Expected an error without a theme argument")
	}
	if len(runner.calls) != 0 {
		t.Errorf("Expected no runner calls, got %v", runner.calls)
	}
}

func TestFlagsParsed(t *testing.T) {
	resetViper(t)
	flags := NewFlags()
	cmd := CreateRootCommand(flags, &fakeRunner{})
	cmd.SetArgs([]string{"select", "meteo", "--pick", "soleil=a.jpg", "--pick", "nuage=b.jpg", "--gui"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if !reflect.DeepEqual(flags.Picks, []string{"soleil=a.jpg", "nuage=b.jpg"}) {
		t.Errorf("Expected two picks, got %v", flags.Picks)
	}
	if !flags.GUI {
		t.Error("Expected --gui to be set")
	}
}

func TestConfigFileFillsUnsetFlags(t *testing.T) {
	resetViper(t)

	cfgPath := filepath.Join(t.TempDir(), "themegrid.yaml")
	content := `themes:
  root: /srv/themes
fetch:
  workers: 7
  sources: [pexels, wikipedia]
score:
  scorer: openai
`
	if err := os.WriteFile(cfgPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create test config: %v", err)
	}
	InitConfig(cfgPath)

	flags := NewFlags()
	cmd := CreateRootCommand(flags, &fakeRunner{})
	cmd.SetArgs([]string{"run", "meteo", "--workers", "3"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if flags.ThemesRoot != "/srv/themes" {
		t.Errorf("Expected themes root from config, got %s", flags.ThemesRoot)
	}
	if flags.Workers != 3 {
		t.Errorf("Expected the command line to win for workers, got %d", flags.Workers)
	}
	if !reflect.DeepEqual(flags.Sources, []string{"pexels", "wikipedia"}) {
		t.Errorf("Expected sources from config, got %v", flags.Sources)
	}
	if flags.Scorer != "openai" {
		t.Errorf("Expected scorer from config, got %s", flags.Scorer)
	}
}

func TestInitConfigEnvironment(t *testing.T) {
	resetViper(t)
	InitConfig(filepath.Join(t.TempDir(), "missing.yaml"))

	t.Setenv("THEMEGRID_FETCH_WORKERS", "9")
	if got := viper.GetInt("fetch.workers"); got != 9 {
		t.Errorf("Expected fetch.workers from environment, got %d", got)
	}
}

func TestResolveSplitsEnvironmentSources(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  []string
	}{
		{"comma", "unsplash,pexels", []string{"unsplash", "pexels"}},
		{"comma and space", "unsplash, pexels", []string{"unsplash", "pexels"}},
		{"space", "wikipedia wikimedia", []string{"wikipedia", "wikimedia"}},
		{"single", "pixabay", []string{"pixabay"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetViper(t)
			InitConfig(filepath.Join(t.TempDir(), "missing.yaml"))
			t.Setenv("THEMEGRID_FETCH_SOURCES", tt.value)

			flags := NewFlags()
			flags.resolve()
			if !reflect.DeepEqual(flags.Sources, tt.want) {
				t.Errorf("Expected sources %v, got %v", tt.want, flags.Sources)
			}
		})
	}
}

func TestSplitList(t *testing.T) {
	got := splitList([]string{"unsplash,pexels", " wikipedia ", ",", ""})
	if want := []string{"unsplash", "pexels", "wikipedia"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
	if got := splitList(nil); got != nil {
		t.Errorf("Expected nil for no items, got %v", got)
	}
}

func TestBindFlags(t *testing.T) {
	resetViper(t)
	flags := NewFlags()
	cmd := CreateRootCommand(flags, &fakeRunner{})
	fetch, _, err := cmd.Find([]string{"fetch"})
	if err != nil {
		t.Fatalf("Failed to find fetch: %v", err)
	}

	if err := fetch.Flags().Set("max-bytes", "1024"); err != nil {
		t.Fatalf("Failed to set flag: %v", err)
	}
	if err := bindFlags(fetch); err != nil {
		t.Fatalf("bindFlags failed: %v", err)
	}

	if got := viper.GetInt64("fetch.max_bytes"); got != 1024 {
		t.Errorf("Expected fetch.max_bytes to be 1024, got %d", got)
	}
	if got := viper.GetString("themes.root"); got != "themes" {
		t.Errorf("Expected inherited themes.root default, got %s", got)
	}

	// The persistent --config flag only names the file viper reads
	var unbound []string
	fetch.LocalNonPersistentFlags().VisitAll(func(f *pflag.Flag) {
		if _, ok := viperKeys[f.Name]; !ok {
			unbound = append(unbound, f.Name)
		}
	})
	if !reflect.DeepEqual(unbound, []string{"dry-run", "fresh"}) {
		t.Errorf("Expected only dry-run and fresh to stay unbound, got %v", unbound)
	}
}
