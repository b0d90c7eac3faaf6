package main

import (
	"fmt"
	"io"
	"sort"
	"time"
)

// labelWidth is the column the report values start at.
const labelWidth = 28

// printReport writes the summary of a run to w as plain text.
func printReport(w io.Writer, stats *Stats, cfg Config) {
	printRow(w, "Files:", stats.Files)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "---Line Count---")
	printRow(w, "With empty lines:", stats.Lines)
	printRow(w, "Without empty lines:", stats.NonBlank)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "---Average Lines per File---")
	printRow(w, "Lines per file:", stats.AverageLines())
	printRow(w, "Not empty lines per file:", stats.AverageNonBlank())
	fmt.Fprintln(w)

	if cfg.ByLanguage {
		printLanguages(w, stats)
		fmt.Fprintln(w)
	}

	if cfg.RecordFailed {
		printFailedFiles(w, stats.FailedFiles)
	}
}

// printElapsed writes the run time line that follows the report.
func printElapsed(w io.Writer, elapsed time.Duration) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%-*s%s\n", labelWidth, "Time used:", elapsed)
}

func printRow(w io.Writer, label string, value int) {
	fmt.Fprintf(w, "%-*s%d\n", labelWidth, label, value)
}

func printFailedFiles(w io.Writer, failed []string) {
	if len(failed) == 0 {
		fmt.Fprintln(w, "No failed files.")
		return
	}
	fmt.Fprintf(w, "Failed to read %d files:\n", len(failed))
	for _, path := range failed {
		fmt.Fprintln(w, path)
	}
}

// printLanguages lists per-language totals, largest first.
func printLanguages(w io.Writer, stats *Stats) {
	fmt.Fprintln(w, "---Lines per Language---")

	langs := make([]*LanguageStats, 0, len(stats.Languages))
	for _, ls := range stats.Languages {
		langs = append(langs, ls)
	}
	sort.Slice(langs, func(i, j int) bool {
		if langs[i].Lines != langs[j].Lines {
			return langs[i].Lines > langs[j].Lines
		}
		return langs[i].Name < langs[j].Name
	})

	for _, ls := range langs {
		fmt.Fprintf(w, "%-*s%d (%d non-blank, %d files)\n", labelWidth, ls.Name+":", ls.Lines, ls.NonBlank, ls.Files)
	}
}
