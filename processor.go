package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	gitignore "github.com/monochromegane/go-gitignore"
	"github.com/rs/zerolog"
)

// aggregator carries the state of one aggregate call through the recursive walk.
type aggregator struct {
	cfg      Config
	root     string
	langData *LoadedLanguageData
	ignore   gitignore.IgnoreMatcher
	log      zerolog.Logger
	stats    *Stats
}

// aggregate walks cfg.Root depth-first and counts the lines of every file whose
// name ends with one of cfg.Extensions. Files no encoding can decode are counted
// as examined but add no lines. File-system errors abort the walk and are returned.
// langData may be nil unless cfg.ByLanguage is set.
func aggregate(cfg Config, langData *LoadedLanguageData, logger zerolog.Logger) (*Stats, error) {
	root, err := filepath.Abs(cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("error resolving directory %s: %w", cfg.Root, err)
	}

	a := &aggregator{
		cfg:      cfg,
		root:     root,
		langData: langData,
		log:      logger,
		stats:    &Stats{},
	}
	if cfg.RespectGitignore {
		a.ignore = loadGitignore(root, logger)
	}

	logger.Debug().Str("root", root).Strs("extensions", cfg.Extensions).Msg("starting walk")
	if err := a.walkDirectory(root); err != nil {
		return nil, err
	}
	return a.stats, nil
}

// loadGitignore reads root/.gitignore if present. Problems other than absence
// are logged and the walk proceeds unfiltered.
func loadGitignore(root string, logger zerolog.Logger) gitignore.IgnoreMatcher {
	gitIgnorePath := filepath.Join(root, ".gitignore")
	f, err := os.Open(gitIgnorePath)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logger.Warn().Err(err).Str("path", gitIgnorePath).Msg("could not read .gitignore, ignoring it")
		}
		return nil
	}
	defer f.Close()
	// Patterns are matched against root-relative paths, see ignored
	return gitignore.NewGitIgnoreFromReader(".", f)
}

// walkDirectory visits the entries of dir in name order, recursing into
// subdirectories and counting regular files. Symlinks are classified by their
// target; anything that is neither a directory nor a regular file is skipped.
func (a *aggregator) walkDirectory(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("error reading directory %s: %w", dir, err)
	}

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())

		mode := entry.Type()
		if mode&fs.ModeSymlink != 0 {
			info, err := os.Stat(path)
			if err != nil {
				a.log.Debug().Err(err).Str("path", path).Msg("skipping unresolvable symlink")
				continue
			}
			mode = info.Mode()
		}

		switch {
		case mode.IsDir():
			if a.ignored(path, true) {
				continue
			}
			if err := a.walkDirectory(path); err != nil {
				return err
			}
		case mode.IsRegular():
			if a.ignored(path, false) {
				continue
			}
			if err := a.processFile(path, entry.Name()); err != nil {
				return err
			}
		default:
			a.log.Debug().Str("path", path).Stringer("mode", mode).Msg("skipping non-regular entry")
		}
	}
	return nil
}

func (a *aggregator) ignored(path string, isDir bool) bool {
	if a.ignore == nil {
		return false
	}
	// Match relative to the .gitignore location, which is the root
	relPath, err := filepath.Rel(a.root, path)
	if err != nil {
		return false
	}
	if a.ignore.Match(filepath.ToSlash(relPath), isDir) {
		a.log.Debug().Str("path", path).Msg("skipping ignored entry")
		return true
	}
	return false
}

// processFile counts one file if its name matches. Only the first matching
// extension is considered, so a file is never counted twice.
func (a *aggregator) processFile(path, name string) error {
	ext, ok := matchExtension(name, a.cfg.Extensions)
	if !ok {
		return nil
	}
	a.stats.Files++

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("error reading file %s: %w", path, err)
	}

	text, enc, attempts, ok := decodeText(content)
	if !ok {
		ev := a.log.Debug().Str("path", path)
		for _, at := range attempts {
			ev = ev.AnErr(at.Encoding, at.Err)
		}
		ev.Msg("no encoding could decode file")
		if a.cfg.RecordFailed {
			a.stats.FailedFiles = append(a.stats.FailedFiles, path)
		}
		return nil
	}

	lines, nonBlank := countLines(text)
	a.stats.add(lines, nonBlank)
	if a.cfg.ByLanguage {
		a.stats.addLanguage(a.langData.languageName(path), lines, nonBlank)
	}

	a.log.Debug().
		Str("path", path).
		Str("extension", ext).
		Str("encoding", enc).
		Int("lines", lines).
		Int("non_blank", nonBlank).
		Msg("counted file")
	return nil
}

// matchExtension returns the first suffix in exts that name ends with. This is
// a plain suffix test: "s" matches "main.rs" as well as "Makefiles".
func matchExtension(name string, exts []string) (string, bool) {
	for _, ext := range exts {
		if strings.HasSuffix(name, ext) {
			return ext, true
		}
	}
	return "", false
}
