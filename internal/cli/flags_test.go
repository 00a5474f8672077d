package cli

import (
	"reflect"
	"testing"

	"github.com/spf13/viper"

	"codeberg.org/snonux/themegrid/internal/image"
)

func TestNewFlags(t *testing.T) {
	flags := NewFlags()

	tests := []struct {
		name     string
		got      interface{}
		expected interface{}
	}{
		{"ThemesRoot", flags.ThemesRoot, "themes"},
		{"LogLevel", flags.LogLevel, "warn"},
		{"TargetLang", flags.TargetLang, "mk"},
		{"Sources", flags.Sources, image.DefaultSources},
		{"Workers", flags.Workers, 0},
		{"MaxBytes", flags.MaxBytes, image.DefaultMaxBytes},
		{"Scorer", flags.Scorer, "heuristic"},
		{"OpenAIModel", flags.OpenAIModel, "gpt-4o-mini"},
		{"GeminiModel", flags.GeminiModel, "gemini-2.0-flash"},
		{"ImageWidth", flags.ImageWidth, 2.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !reflect.DeepEqual(tt.got, tt.expected) {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.expected)
			}
		})
	}

	boolTests := []struct {
		name  string
		value bool
	}{
		{"DryRun", flags.DryRun},
		{"Translate", flags.Translate},
		{"Fresh", flags.Fresh},
		{"GUI", flags.GUI},
		{"AllLangs", flags.AllLangs},
		{"CSV", flags.CSV},
		{"NoTitle", flags.NoTitle},
		{"NoBorders", flags.NoBorders},
	}

	for _, tt := range boolTests {
		if tt.value {
			t.Errorf("%s should default to false", tt.name)
		}
	}
}

func TestNewFlagsCopiesDefaultSources(t *testing.T) {
	flags := NewFlags()
	flags.Sources[0] = "changed"
	if image.DefaultSources[0] == "changed" {
		t.Error("Expected NewFlags to copy the default sources")
	}
}

func TestLoadKeys(t *testing.T) {
	tests := []struct {
		name   string
		env    map[string]string
		config map[string]string
		want   Keys
	}{
		{
			name:   "from environment",
			env:    map[string]string{"UNSPLASH_API_KEY": "u-env", "OPENAI_API_KEY": "o-env"},
			config: map[string]string{"keys.unsplash": "u-cfg", "keys.pexels": "p-cfg"},
			want:   Keys{Images: image.Keys{Unsplash: "u-env", Pexels: "p-cfg"}, OpenAI: "o-env"},
		},
		{
			name:   "from config when no env",
			config: map[string]string{"keys.gemini": "g-cfg", "keys.wikimedia": "w-cfg"},
			want:   Keys{Images: image.Keys{Wikimedia: "w-cfg"}, Gemini: "g-cfg"},
		},
		{
			name: "empty when neither set",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetViper(t)
			for _, name := range []string{"UNSPLASH_API_KEY", "PEXELS_API_KEY", "PIXABAY_API_KEY", "WIKIMEDIA_API_KEY", "OPENAI_API_KEY", "GEMINI_API_KEY"} {
				t.Setenv(name, tt.env[name])
			}
			for k, v := range tt.config {
				viper.Set(k, v)
			}

			got, err := LoadKeys()
			if err != nil {
				t.Fatalf("LoadKeys failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("LoadKeys() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestGetOpenAIKey(t *testing.T) {
	resetViper(t)
	t.Setenv("OPENAI_API_KEY", "")
	viper.Set("keys.openai", "config-test-key")

	if got := GetOpenAIKey(); got != "config-test-key" {
		t.Errorf("GetOpenAIKey() = %v, want config-test-key", got)
	}
}
