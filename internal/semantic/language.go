// Package semantic groups the sections of a file diff into language-level
// containers (functions, types, config blocks) and their members by
// consulting a syntax tree of the new file.
package semantic

import (
	"path/filepath"
	"strings"
)

// Language identifies a supported grammar.
type Language int

const (
	LangUnknown Language = iota
	LangRust
	LangKotlin
	LangJava
	LangHCL
	LangPython
	LangMarkdown
	LangYAML
	LangGo
)

var extensions = map[string]Language{
	".rs":       LangRust,
	".kt":       LangKotlin,
	".kts":      LangKotlin,
	".java":     LangJava,
	".hcl":      LangHCL,
	".tf":       LangHCL,
	".tfvars":   LangHCL,
	".py":       LangPython,
	".pyw":      LangPython,
	".md":       LangMarkdown,
	".markdown": LangMarkdown,
	".yaml":     LangYAML,
	".yml":      LangYAML,
	".go":       LangGo,
}

// DetectLanguage maps a file path to a language by its extension.
func DetectLanguage(path string) (Language, bool) {
	lang, ok := extensions[strings.ToLower(filepath.Ext(path))]
	return lang, ok
}

// Name is the display name of the language.
func (l Language) Name() string {
	switch l {
	case LangRust:
		return "Rust"
	case LangKotlin:
		return "Kotlin"
	case LangJava:
		return "Java"
	case LangHCL:
		return "HCL"
	case LangPython:
		return "Python"
	case LangMarkdown:
		return "Markdown"
	case LangYAML:
		return "YAML"
	case LangGo:
		return "Go"
	default:
		return "unknown"
	}
}

func (l Language) String() string {
	return l.Name()
}
