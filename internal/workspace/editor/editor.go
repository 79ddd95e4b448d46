// Package editor holds the code buffer and the per-instance editor settings.
package editor

import (
	"strings"
	"sync"

	"ojspace/pkg/errors"
)

// Language is one of the languages the judge accepts.
type Language string

const (
	LanguageCPP    Language = "cpp"
	LanguageC      Language = "c"
	LanguageJava   Language = "java"
	LanguagePython Language = "python"
)

// Languages lists the accepted languages in menu order.
func Languages() []Language {
	return []Language{LanguageCPP, LanguageC, LanguageJava, LanguagePython}
}

// ParseLanguage accepts the canonical id and a few common spellings.
func ParseLanguage(raw string) (Language, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "cpp", "c++", "cxx", "cc":
		return LanguageCPP, nil
	case "c":
		return LanguageC, nil
	case "java":
		return LanguageJava, nil
	case "python", "python3", "py":
		return LanguagePython, nil
	}
	return "", errors.Newf(errors.LanguageNotSupported, "unsupported language: %s", raw).
		WithDetail("language", raw)
}

const (
	MinFontSize = 8
	MaxFontSize = 32

	DefaultFontSize = 14
	DefaultTabSize  = 4
	DefaultTheme    = "vs-dark"
)

// Themes lists the built-in editor themes.
var Themes = []string{"vs", "vs-dark", "hc-black", "hc-light"}

var templates = map[Language]string{
	LanguageCPP: `#include <bits/stdc++.h>
using namespace std;

int main() {
    return 0;
}
`,
	LanguageC: `#include <stdio.h>

int main(void) {
    return 0;
}
`,
	LanguageJava: `import java.util.*;

public class Main {
    public static void main(String[] args) {
    }
}
`,
	LanguagePython: `def main():
    pass


if __name__ == "__main__":
    main()
`,
}

// Template returns the starter code for a language.
func Template(lang Language) string {
	return templates[lang]
}

// Settings are the visual preferences of one editor instance.
type Settings struct {
	Theme    string
	FontSize int
	TabSize  int
}

// DefaultSettings returns the settings a fresh workspace starts with.
func DefaultSettings() Settings {
	return Settings{Theme: DefaultTheme, FontSize: DefaultFontSize, TabSize: DefaultTabSize}
}

// State is a value copy of the editor, safe to hand to other components.
type State struct {
	Code     string
	Language Language
	Settings
}

// Editor is the code buffer plus its settings. It is independent of layout.
type Editor struct {
	mu       sync.RWMutex
	code     string
	language Language
	settings Settings
	// pristine is true while the buffer still holds the language template.
	pristine bool
}

// New creates an editor primed with the template of lang.
func New(lang Language, settings Settings) *Editor {
	if _, ok := templates[lang]; !ok {
		lang = LanguageCPP
	}
	e := &Editor{language: lang, settings: DefaultSettings(), pristine: true, code: templates[lang]}
	if settings.Theme != "" {
		e.settings.Theme = settings.Theme
	}
	if settings.FontSize != 0 {
		e.settings.FontSize = clampFontSize(settings.FontSize)
	}
	if validTabSize(settings.TabSize) {
		e.settings.TabSize = settings.TabSize
	}
	return e
}

// Snapshot returns a copy of the current state.
func (e *Editor) Snapshot() State {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return State{Code: e.code, Language: e.language, Settings: e.settings}
}

// SetCode replaces the buffer.
func (e *Editor) SetCode(code string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.code = code
	e.pristine = code == templates[e.language]
}

// SetLanguage switches language. An untouched template follows the language;
// edited code is kept.
func (e *Editor) SetLanguage(lang Language) error {
	if _, ok := templates[lang]; !ok {
		return errors.Newf(errors.LanguageNotSupported, "unsupported language: %s", lang)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.language = lang
	if e.pristine {
		e.code = templates[lang]
	}
	return nil
}

// SetTheme selects a theme by name.
func (e *Editor) SetTheme(theme string) error {
	theme = strings.TrimSpace(theme)
	if theme == "" {
		return errors.New(errors.ThemeInvalid).WithDetail("theme", theme)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.settings.Theme = theme
	return nil
}

// SetFontSize clamps size into [MinFontSize, MaxFontSize] and returns the applied value.
func (e *Editor) SetFontSize(size int) int {
	size = clampFontSize(size)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.settings.FontSize = size
	return size
}

// SetTabSize accepts 2, 4, 6 or 8.
func (e *Editor) SetTabSize(size int) error {
	if !validTabSize(size) {
		return errors.New(errors.TabSizeInvalid).WithDetail("tab_size", size)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.settings.TabSize = size
	return nil
}

// Reset restores the template of the current language.
func (e *Editor) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.code = templates[e.language]
	e.pristine = true
}

func clampFontSize(size int) int {
	if size < MinFontSize {
		return MinFontSize
	}
	if size > MaxFontSize {
		return MaxFontSize
	}
	return size
}

func validTabSize(size int) bool {
	switch size {
	case 2, 4, 6, 8:
		return true
	}
	return false
}
