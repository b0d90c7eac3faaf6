package main

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is the application version, set via ldflags.
var version = "dev"

// envPrefix namespaces environment overrides, e.g. LINECOUNT_FAILED_FILES=true.
const envPrefix = "LINECOUNT"

// warnColor marks notices on stderr; the report on stdout stays uncolored.
var warnColor = color.New(color.FgYellow)

// newRootCmd builds the command with its own viper instance so every
// invocation starts from defaults.
func newRootCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "linecount [flags] EXTENSION...",
		Short: "Counts lines of all files in a directory tree.",
		Long: `linecount walks a directory tree and counts the lines of every file whose
name ends with one of the given extensions. It reports the number of files,
total and non-blank lines, and per-file averages.`,
		Version:      version,
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, v, args)
		},
	}

	// --- Flag Definitions & Viper Binding ---
	flags := cmd.Flags()
	flags.StringP("directory", "d", ".", "path to directory")
	v.BindPFlag("directory", flags.Lookup("directory"))
	flags.BoolP("failed-files", "f", false, "if flag is set, all failed files will be printed")
	v.BindPFlag("failed_files", flags.Lookup("failed-files"))
	flags.BoolP("time", "t", false, "if flag is set, used time will be printed")
	v.BindPFlag("time", flags.Lookup("time"))

	flags.Bool("gitignore", false, "skip files and directories matched by the root .gitignore")
	v.BindPFlag("gitignore", flags.Lookup("gitignore"))
	flags.Bool("by-language", false, "break line counts down by language")
	v.BindPFlag("by_language", flags.Lookup("by-language"))
	flags.BoolP("interactive", "i", false, "pick the directory to scan with a fuzzy finder")
	v.BindPFlag("interactive", flags.Lookup("interactive"))
	flags.BoolP("verbose", "v", false, "log every counted and skipped file to stderr")
	v.BindPFlag("verbose", flags.Lookup("verbose"))

	cmd.MarkFlagsMutuallyExclusive("directory", "interactive")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	return cmd
}

// run resolves the configuration, counts and prints the report.
func run(cmd *cobra.Command, v *viper.Viper, args []string) error {
	begin := time.Now()
	logger := newLogger(cmd.ErrOrStderr(), v.GetBool("verbose"))

	cfg := Config{
		Root:             v.GetString("directory"),
		Extensions:       args,
		RecordFailed:     v.GetBool("failed_files"),
		ReportTime:       v.GetBool("time"),
		RespectGitignore: v.GetBool("gitignore"),
		ByLanguage:       v.GetBool("by_language"),
	}

	if v.GetBool("interactive") {
		dir, err := runInteractiveFinder()
		if errors.Is(err, errSelectionAborted) {
			warnColor.Fprintln(cmd.ErrOrStderr(), "Interactive selection aborted.")
			return nil
		}
		if err != nil {
			return err
		}
		cfg.Root = dir
	}

	var langData *LoadedLanguageData
	if cfg.ByLanguage {
		var err error
		langData, err = loadLanguageData()
		if err != nil {
			return err
		}
	}

	stats, err := aggregate(cfg, langData, logger)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printReport(out, stats, cfg)
	if cfg.ReportTime {
		printElapsed(out, time.Since(begin))
	}
	return nil
}

func main() {
	// cobra has already printed the error
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
