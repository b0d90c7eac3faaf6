package main

import (
	_ "embed"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// otherLanguage is reported for files no definition claims.
const otherLanguage = "Other"

//go:embed languages.yml
var embeddedLanguages []byte

// LanguageInfo holds the fields of a language definition used for file detection.
type LanguageInfo struct {
	Extensions []string `yaml:"extensions"`
	Filenames  []string `yaml:"filenames"`
}

// LanguageMap maps language names (e.g., "Go") to their details.
type LanguageMap map[string]LanguageInfo

// LoadedLanguageData holds the parsed language map and provides helper methods.
type LoadedLanguageData struct {
	Langs        LanguageMap
	extensionMap map[string]string // Map extension (e.g., ".go") to language name ("Go")
	filenameMap  map[string]string // Map filename (e.g., "Makefile") to language name ("Makefile")
}

// loadLanguageData parses the language definitions compiled into the binary.
func loadLanguageData() (*LoadedLanguageData, error) {
	return parseLanguageData(embeddedLanguages)
}

// parseLanguageData builds lookup maps from a languages.yml document.
func parseLanguageData(raw []byte) (*LoadedLanguageData, error) {
	var langs LanguageMap
	if err := yaml.Unmarshal(raw, &langs); err != nil {
		return nil, fmt.Errorf("error parsing language definitions: %w", err)
	}

	data := &LoadedLanguageData{
		Langs:        langs,
		extensionMap: make(map[string]string),
		filenameMap:  make(map[string]string),
	}

	for langName, info := range langs {
		for _, ext := range info.Extensions {
			lowerExt := strings.ToLower(ext)
			// Keep the alphabetically first claimant so lookups don't depend on map order
			if cur, ok := data.extensionMap[lowerExt]; !ok || langName < cur {
				data.extensionMap[lowerExt] = langName
			}
		}
		for _, fname := range info.Filenames {
			if cur, ok := data.filenameMap[fname]; !ok || langName < cur {
				data.filenameMap[fname] = langName
			}
		}
	}

	return data, nil
}

// GetLanguageForFile determines the language for a given path based on loaded data.
func (ld *LoadedLanguageData) GetLanguageForFile(filePath string) (string, bool) {
	if ld == nil {
		return "", false // No language data loaded
	}

	baseName := filepath.Base(filePath)
	ext := strings.ToLower(filepath.Ext(baseName))

	// 1. Exact filename match first (higher precedence)
	if lang, ok := ld.filenameMap[baseName]; ok {
		return lang, true
	}

	// 2. Extension match
	if ext != "" {
		if lang, ok := ld.extensionMap[ext]; ok {
			return lang, true
		}
	}

	return "", false
}

// languageName is GetLanguageForFile with the fallback bucket applied.
func (ld *LoadedLanguageData) languageName(filePath string) string {
	if lang, ok := ld.GetLanguageForFile(filePath); ok {
		return lang
	}
	return otherLanguage
}
