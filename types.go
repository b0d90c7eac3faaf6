package main

// Config holds everything a single run needs. It is built once from flags and
// never modified while the walk is in progress.
type Config struct {
	Root         string   // Directory to scan; resolved to an absolute path by aggregate
	Extensions   []string // Suffixes matched against file names, first match wins
	RecordFailed bool     // Collect paths that no encoding could decode
	ReportTime   bool     // Print elapsed wall-clock time after the report

	RespectGitignore bool // Skip entries matched by the root .gitignore
	ByLanguage       bool // Attribute counted files to languages
}

// Stats accumulates the totals of one aggregate call.
type Stats struct {
	Files       int      // Files whose name matched an extension, decoded or not
	Lines       int      // Lines including blank ones
	NonBlank    int      // Lines with content after trimming whitespace
	FailedFiles []string // Only filled when Config.RecordFailed is set

	Languages map[string]*LanguageStats // Only filled when Config.ByLanguage is set
}

// LanguageStats holds the per-language share of Stats.
type LanguageStats struct {
	Name     string
	Files    int
	Lines    int
	NonBlank int
}

// AverageLines returns total lines per examined file, rounded down, or 0 when no
// file matched.
func (s *Stats) AverageLines() int {
	if s.Files == 0 {
		return 0
	}
	return s.Lines / s.Files
}

// AverageNonBlank returns non-blank lines per examined file, rounded down.
func (s *Stats) AverageNonBlank() int {
	if s.Files == 0 {
		return 0
	}
	return s.NonBlank / s.Files
}

func (s *Stats) add(lines, nonBlank int) {
	s.Lines += lines
	s.NonBlank += nonBlank
}

func (s *Stats) addLanguage(name string, lines, nonBlank int) {
	if s.Languages == nil {
		s.Languages = make(map[string]*LanguageStats)
	}
	ls, ok := s.Languages[name]
	if !ok {
		ls = &LanguageStats{Name: name}
		s.Languages[name] = ls
	}
	ls.Files++
	ls.Lines += lines
	ls.NonBlank += nonBlank
}
