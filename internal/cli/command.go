package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"codeberg.org/snonux/themegrid/internal"
	"codeberg.org/snonux/themegrid/internal/logging"
	"codeberg.org/snonux/themegrid/internal/score"
)

// Runner executes the pipeline stages behind the subcommands
type Runner interface {
	Init(ctx context.Context, name string) error
	Themes() error
	Providers() error
	Fetch(ctx context.Context, name string) error
	Score(ctx context.Context, name string) error
	Select(ctx context.Context, name string) error
	Render(name string) error
	Run(ctx context.Context, name string) error
	Archive(name string) error
	Models(ctx context.Context) error
}

// viperKeys maps flag names to the config keys they are bound to
var viperKeys = map[string]string{
	"themes-root":       "themes.root",
	"log-level":         "log.level",
	"workers":           "fetch.workers",
	"sources":           "fetch.sources",
	"max-bytes":         "fetch.max_bytes",
	"scorer":            "score.scorer",
	"openai-model":      "score.openai_model",
	"gemini-model":      "score.gemini_model",
	"target-lang":       "init.target_lang",
	"translation-model": "init.translation_model",
	"image-width":       "render.image_width",
}

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags, runner Runner) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "themegrid",
		Short: "Themed picture grid document generator",
		Long: `themegrid builds picture vocabulary sheets for a theme.

It fetches candidate images for every word of a theme from several public
image sources, optionally scores them for relevance, lets you pick one image
per word and renders a .docx grid pairing each image with its name.

Examples:
  themegrid init meteo                 # Scaffold a theme from a built-in preset
  themegrid init kitchen --words k.txt # Scaffold a theme from a word list
  themegrid fetch meteo                # Download candidate images
  themegrid score meteo --scorer openai
  themegrid select meteo --gui         # Pick images in a window
  themegrid render meteo --all-langs   # Write one document per language
  themegrid run meteo                  # fetch, score and render in one go`,
		Version:       internal.Version,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := bindFlags(cmd); err != nil {
				return err
			}
			flags.resolve()
			return logging.Setup(logging.Options{Level: flags.LogLevel})
		},
	}

	rootCmd.PersistentFlags().StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.themegrid.yaml)")
	rootCmd.PersistentFlags().StringVar(&flags.ThemesRoot, "themes-root", flags.ThemesRoot, "Directory holding the theme directories")
	rootCmd.PersistentFlags().StringVar(&flags.LogLevel, "log-level", flags.LogLevel, "Diagnostic log level: debug, info, warn, error")

	rootCmd.AddCommand(
		newInitCommand(flags, runner),
		newThemesCommand(runner),
		newProvidersCommand(runner),
		newFetchCommand(flags, runner),
		newScoreCommand(flags, runner),
		newSelectCommand(flags, runner),
		newRenderCommand(flags, runner),
		newRunCommand(flags, runner),
		newArchiveCommand(runner),
		newModelsCommand(runner),
	)

	return rootCmd
}

func newInitCommand(flags *Flags, runner Runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init <theme>",
		Short: "Scaffold a theme config from a preset or a word list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runner.Init(cmd.Context(), args[0])
		},
	}
	cmd.Flags().StringVar(&flags.Preset, "preset", "", "Built-in preset to start from (default: the theme name)")
	cmd.Flags().StringVar(&flags.WordList, "words", "", "Word list file, one 'query = label = target' per line")
	cmd.Flags().StringVar(&flags.Title, "title", "", "Document title")
	cmd.Flags().IntVar(&flags.Columns, "columns", 0, "Images per row")
	cmd.Flags().IntVar(&flags.ImagesPerElement, "images", 0, "Candidates to fetch per element")
	cmd.Flags().StringVar(&flags.QueryPrefix, "query-prefix", "", "Prefix for wikipedia and wikimedia queries")
	cmd.Flags().BoolVar(&flags.Translate, "translate", false, "Translate missing target labels with OpenAI")
	cmd.Flags().StringVar(&flags.TargetLang, "target-lang", flags.TargetLang, "Language code of the target labels")
	cmd.Flags().StringSliceVar(&flags.LabelLangs, "label-langs", nil, "Extra label languages to translate (e.g. en,de)")
	cmd.Flags().StringVar(&flags.TranslationModel, "translation-model", flags.TranslationModel, "OpenAI model used for translations")
	return cmd
}

func newThemesCommand(runner Runner) *cobra.Command {
	return &cobra.Command{
		Use:   "themes",
		Short: "List built-in presets and themes on disk",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runner.Themes()
		},
	}
}

func newProvidersCommand(runner Runner) *cobra.Command {
	return &cobra.Command{
		Use:   "providers",
		Short: "Show which image sources are usable with the configured keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runner.Providers()
		},
	}
}

func addFetchFlags(cmd *cobra.Command, flags *Flags) {
	cmd.Flags().StringSliceVar(&flags.Sources, "sources", flags.Sources, "Image sources to query")
	cmd.Flags().IntVar(&flags.Workers, "workers", flags.Workers, "Concurrent searches and downloads (default: the theme's max_workers)")
	cmd.Flags().Int64Var(&flags.MaxBytes, "max-bytes", flags.MaxBytes, "Largest accepted image payload in bytes")
	cmd.Flags().BoolVar(&flags.Fresh, "fresh", false, "Archive existing photos and artifacts before fetching")
}

func addScoreFlags(cmd *cobra.Command, flags *Flags) {
	cmd.Flags().StringVar(&flags.Scorer, "scorer", flags.Scorer, "Scorer: "+strings.Join(score.Names, ", "))
	cmd.Flags().StringVar(&flags.OpenAIModel, "openai-model", flags.OpenAIModel, "OpenAI vision model")
	cmd.Flags().StringVar(&flags.GeminiModel, "gemini-model", flags.GeminiModel, "Gemini vision model")
}

func addRenderFlags(cmd *cobra.Command, flags *Flags) {
	cmd.Flags().StringVar(&flags.Lang, "lang", "", "Language of labels and title (default: the theme's language)")
	cmd.Flags().BoolVar(&flags.AllLangs, "all-langs", false, "Render one document per language of the theme")
	cmd.Flags().BoolVar(&flags.CSV, "csv", false, "Also export a flashcard CSV next to the document")
	cmd.Flags().BoolVar(&flags.NoTitle, "no-title", false, "Omit the title paragraph")
	cmd.Flags().BoolVar(&flags.NoBorders, "no-borders", false, "Render the grid without borders")
	cmd.Flags().Float64Var(&flags.ImageWidth, "image-width", flags.ImageWidth, "Image width in inches")
	cmd.Flags().StringVarP(&flags.Output, "output", "o", "", "Output file (default: <title>.docx in the theme directory)")
}

func newFetchCommand(flags *Flags, runner Runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch <theme>",
		Short: "Download, filter and normalize candidate images",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runner.Fetch(cmd.Context(), args[0])
		},
	}
	addFetchFlags(cmd, flags)
	cmd.Flags().BoolVar(&flags.DryRun, "dry-run", false, "Show the planned searches without fetching")
	return cmd
}

func newScoreCommand(flags *Flags, runner Runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score <theme>",
		Short: "Score candidates and select the best one per element",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runner.Score(cmd.Context(), args[0])
		},
	}
	addScoreFlags(cmd, flags)
	cmd.Flags().IntVar(&flags.Workers, "workers", flags.Workers, "Concurrent scoring requests (default: the theme's max_workers)")
	return cmd
}

func newSelectCommand(flags *Flags, runner Runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "select <theme>",
		Short: "Choose the image of each element",
		Long: `Choose the image of each element.

Without flags an interactive terminal picker walks through the elements.
--pick sets images directly, --gui opens a picker window.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runner.Select(cmd.Context(), args[0])
		},
	}
	cmd.Flags().StringArrayVar(&flags.Picks, "pick", nil, "Set an element's image as label=file (repeatable)")
	cmd.Flags().BoolVar(&flags.GUI, "gui", false, "Open the picker window")
	return cmd
}

func newRenderCommand(flags *Flags, runner Runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render <theme>",
		Short: "Write the .docx picture grid",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runner.Render(args[0])
		},
	}
	addRenderFlags(cmd, flags)
	cmd.Flags().BoolVar(&flags.DryRun, "dry-run", false, "Print the grid layout without writing a document")
	return cmd
}

func newRunCommand(flags *Flags, runner Runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <theme>",
		Short: "Fetch, score and render in one go",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runner.Run(cmd.Context(), args[0])
		},
	}
	addFetchFlags(cmd, flags)
	addScoreFlags(cmd, flags)
	addRenderFlags(cmd, flags)
	return cmd
}

func newArchiveCommand(runner Runner) *cobra.Command {
	return &cobra.Command{
		Use:   "archive <theme>",
		Short: "Move photos and artifacts into a timestamped archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runner.Archive(args[0])
		},
	}
}

func newModelsCommand(runner Runner) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List OpenAI models usable for scoring and translation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runner.Models(cmd.Context())
		},
	}
}

// bindFlags binds the flags of the executing command to their viper keys.
// Binding happens per run because several subcommands share a key.
func bindFlags(cmd *cobra.Command) error {
	var bindErr error
	bind := func(f *pflag.Flag) {
		key, ok := viperKeys[f.Name]
		if !ok || bindErr != nil {
			return
		}
		if err := viper.BindPFlag(key, f); err != nil {
			bindErr = fmt.Errorf("failed to bind flag %s: %w", f.Name, err)
		}
	}
	cmd.Flags().VisitAll(bind)
	cmd.InheritedFlags().VisitAll(bind)
	return bindErr
}

// resolve copies config file and environment values into flags that were
// not set on the command line
func (f *Flags) resolve() {
	if v := viper.GetString("themes.root"); v != "" {
		f.ThemesRoot = v
	}
	if v := viper.GetString("log.level"); v != "" {
		f.LogLevel = v
	}
	if v := viper.GetInt("fetch.workers"); v > 0 {
		f.Workers = v
	}
	if v := splitList(viper.GetStringSlice("fetch.sources")); len(v) > 0 {
		f.Sources = v
	}
	if v := viper.GetInt64("fetch.max_bytes"); v > 0 {
		f.MaxBytes = v
	}
	if v := viper.GetString("score.scorer"); v != "" {
		f.Scorer = v
	}
	if v := viper.GetString("score.openai_model"); v != "" {
		f.OpenAIModel = v
	}
	if v := viper.GetString("score.gemini_model"); v != "" {
		f.GeminiModel = v
	}
	if v := viper.GetString("init.target_lang"); v != "" {
		f.TargetLang = v
	}
	if v := viper.GetString("init.translation_model"); v != "" {
		f.TranslationModel = v
	}
	if v := viper.GetFloat64("render.image_width"); v > 0 {
		f.ImageWidth = v
	}
}

// splitList splits comma separated items. Environment values reach viper
// as one string, which it only splits on whitespace.
func splitList(items []string) []string {
	var out []string
	for _, item := range items {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// InitConfig initializes viper configuration
func InitConfig(cfgFile string) {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}

		// Search config in home directory and the working directory
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".themegrid")
	}

	// Environment variables, e.g. THEMEGRID_FETCH_WORKERS
	viper.SetEnvPrefix("THEMEGRID")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
