package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTree creates files below root. Parent directories are created as needed.
func writeTree(t *testing.T, root string, files map[string][]byte) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, content, 0644))
	}
}

func runAggregate(t *testing.T, cfg Config) *Stats {
	t.Helper()
	stats, err := aggregate(cfg, nil, zerolog.Nop())
	require.NoError(t, err)
	require.LessOrEqual(t, stats.NonBlank, stats.Lines)
	return stats
}

func TestAggregateTwoFiles(t *testing.T) {
	tmpDir := t.TempDir()
	// 10 lines, 8 of them with content
	code := "a\nb\n\nc\nd\n   \ne\nf\ng\nh\n"
	// 5 whitespace-only lines
	blank := "\n \n\t\n  \n\n"
	writeTree(t, tmpDir, map[string][]byte{
		"one.txt":        []byte(code),
		"nested/two.txt": []byte(blank),
		"skip.md":        []byte("not counted\n"),
	})

	stats := runAggregate(t, Config{Root: tmpDir, Extensions: []string{".txt"}})

	assert.Equal(t, 2, stats.Files)
	assert.Equal(t, 15, stats.Lines)
	assert.Equal(t, 8, stats.NonBlank)
	assert.Equal(t, 7, stats.AverageLines())
	assert.Equal(t, 4, stats.AverageNonBlank())
	assert.Empty(t, stats.FailedFiles)
}

func TestAggregateNoMatches(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, map[string][]byte{"readme.md": []byte("# title\n")})

	stats := runAggregate(t, Config{Root: tmpDir, Extensions: []string{".go"}, RecordFailed: true})

	assert.Equal(t, &Stats{}, stats)
	assert.Equal(t, 0, stats.AverageLines())
	assert.Equal(t, 0, stats.AverageNonBlank())
}

func TestAggregateBinaryFile(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, map[string][]byte{
		"image.dat": binaryContent,
		"notes.dat": []byte("one\ntwo\n"),
	})

	t.Run("recorded", func(t *testing.T) {
		stats := runAggregate(t, Config{Root: tmpDir, Extensions: []string{".dat"}, RecordFailed: true})

		assert.Equal(t, 2, stats.Files)
		assert.Equal(t, 2, stats.Lines)
		assert.Equal(t, 2, stats.NonBlank)
		assert.Equal(t, []string{filepath.Join(tmpDir, "image.dat")}, stats.FailedFiles)
	})

	t.Run("not recorded", func(t *testing.T) {
		stats := runAggregate(t, Config{Root: tmpDir, Extensions: []string{".dat"}})

		assert.Equal(t, 2, stats.Files)
		assert.Nil(t, stats.FailedFiles)
	})
}

func TestAggregateFallbackEncodings(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, map[string][]byte{
		"latin.txt": []byte("caf\xe9\n\\x broken escape\n\n"),
		"wide.txt":  utf16LE("hello\n\nworld\n"),
	})

	stats := runAggregate(t, Config{Root: tmpDir, Extensions: []string{"txt"}, RecordFailed: true})

	assert.Equal(t, 2, stats.Files)
	assert.Equal(t, 6, stats.Lines)
	assert.Equal(t, 4, stats.NonBlank)
	assert.Empty(t, stats.FailedFiles)
}

func TestAggregateFirstExtensionWins(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, map[string][]byte{"main.test.go": []byte("package main\n")})

	stats := runAggregate(t, Config{Root: tmpDir, Extensions: []string{".go", "go", ".test.go"}})

	assert.Equal(t, 1, stats.Files)
	assert.Equal(t, 1, stats.Lines)
}

func TestAggregateSuffixSemantics(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, map[string][]byte{
		"main.rs":   []byte("fn main() {}\n"),
		"app.js":    []byte("x\n"),
		"Makefiles": []byte("all:\n"),
		"script.py": []byte("pass\n"),
	})

	stats := runAggregate(t, Config{Root: tmpDir, Extensions: []string{"s"}})

	assert.Equal(t, 3, stats.Files)
}

func TestAggregateRelativeRoot(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, map[string][]byte{"sub/bad.bin": binaryContent})
	oldWd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(tmpDir))
	t.Cleanup(func() { _ = os.Chdir(oldWd) })

	stats := runAggregate(t, Config{Root: ".", Extensions: []string{".bin"}, RecordFailed: true})

	require.Len(t, stats.FailedFiles, 1)
	assert.True(t, filepath.IsAbs(stats.FailedFiles[0]))
	assert.True(t, strings.HasSuffix(stats.FailedFiles[0], filepath.Join("sub", "bad.bin")))
}

func TestAggregateFollowsSymlinks(t *testing.T) {
	tmpDir := t.TempDir()
	target := t.TempDir()
	writeTree(t, target, map[string][]byte{"f.txt": []byte("a\nb\n")})
	require.NoError(t, os.Symlink(filepath.Join(target, "f.txt"), filepath.Join(tmpDir, "link.txt")))
	require.NoError(t, os.Symlink(target, filepath.Join(tmpDir, "linkdir")))
	require.NoError(t, os.Symlink(filepath.Join(target, "gone.txt"), filepath.Join(tmpDir, "broken.txt")))

	stats := runAggregate(t, Config{Root: tmpDir, Extensions: []string{".txt"}, RecordFailed: true})

	assert.Equal(t, 2, stats.Files)
	assert.Equal(t, 4, stats.Lines)
	assert.Equal(t, 4, stats.NonBlank)
	assert.Empty(t, stats.FailedFiles)
}

func TestAggregateCountsControlCharactersAsText(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, map[string][]byte{
		"old.txt":  []byte("one\ntwo\nthree\n\x1a"),
		"bell.txt": []byte("echo -e '\x07'\n"),
	})

	stats := runAggregate(t, Config{Root: tmpDir, Extensions: []string{".txt"}, RecordFailed: true})

	assert.Equal(t, 2, stats.Files)
	assert.Equal(t, 5, stats.Lines)
	assert.Equal(t, 5, stats.NonBlank)
	assert.Empty(t, stats.FailedFiles)
}

func TestAggregateMissingRoot(t *testing.T) {
	_, err := aggregate(Config{Root: filepath.Join(t.TempDir(), "missing"), Extensions: []string{".go"}}, nil, zerolog.Nop())

	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestAggregateUnreadableFile(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permissions are not enforced for root")
	}
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "secret.txt")
	require.NoError(t, os.WriteFile(path, []byte("x\n"), 0000))

	_, err := aggregate(Config{Root: tmpDir, Extensions: []string{".txt"}}, nil, zerolog.Nop())

	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrPermission)
}

func TestAggregateGitignore(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, map[string][]byte{
		".gitignore":     []byte("*.log\nvendor\n"),
		"keep.txt":       []byte("kept\n"),
		"debug.log":      []byte("noise\nnoise\n"),
		"vendor/dep.txt": []byte("dep\n"),
	})
	cfg := Config{Root: tmpDir, Extensions: []string{".txt", ".log"}}

	stats := runAggregate(t, cfg)
	assert.Equal(t, 3, stats.Files)

	cfg.RespectGitignore = true
	stats = runAggregate(t, cfg)
	assert.Equal(t, 1, stats.Files)
	assert.Equal(t, 1, stats.Lines)
}

func TestAggregateByLanguage(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, map[string][]byte{
		"main.go":      []byte("package main\n\nfunc main() {}\n"),
		"util/util.go": []byte("package util\n"),
		"Makefile":     []byte("all:\n\tgo build\n"),
		"notes.xyz":    []byte("free text\n"),
	})
	langData, err := loadLanguageData()
	require.NoError(t, err)

	stats, err := aggregate(Config{
		Root:       tmpDir,
		Extensions: []string{".go", "file", ".xyz"},
		ByLanguage: true,
	}, langData, zerolog.Nop())
	require.NoError(t, err)

	require.Len(t, stats.Languages, 3)
	assert.Equal(t, &LanguageStats{Name: "Go", Files: 2, Lines: 4, NonBlank: 3}, stats.Languages["Go"])
	assert.Equal(t, &LanguageStats{Name: "Makefile", Files: 1, Lines: 2, NonBlank: 2}, stats.Languages["Makefile"])
	assert.Equal(t, &LanguageStats{Name: otherLanguage, Files: 1, Lines: 1, NonBlank: 1}, stats.Languages[otherLanguage])
}

func TestMatchExtension(t *testing.T) {
	ext, ok := matchExtension("main.go", []string{".py", ".go"})
	assert.True(t, ok)
	assert.Equal(t, ".go", ext)

	_, ok = matchExtension("main.go", []string{".py"})
	assert.False(t, ok)
}
