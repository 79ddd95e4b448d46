package editor

import (
	"testing"

	"ojspace/internal/testutil"
	"ojspace/pkg/errors"
)

func TestNew_Defaults(t *testing.T) {
	e := New(LanguagePython, Settings{})
	st := e.Snapshot()

	testutil.AssertEqual(t, st.Language, LanguagePython)
	testutil.AssertEqual(t, st.Code, Template(LanguagePython))
	testutil.AssertEqual(t, st.Settings, DefaultSettings())
}

func TestNew_UnknownLanguageFallsBack(t *testing.T) {
	e := New(Language("brainfuck"), Settings{FontSize: 100, TabSize: 3})
	st := e.Snapshot()

	testutil.AssertEqual(t, st.Language, LanguageCPP)
	testutil.AssertEqual(t, st.FontSize, MaxFontSize)
	testutil.AssertEqual(t, st.TabSize, DefaultTabSize)
}

func TestSetFontSize_Clamps(t *testing.T) {
	e := New(LanguageCPP, Settings{})
	tests := []struct {
		in   int
		want int
	}{
		{-3, MinFontSize},
		{7, MinFontSize},
		{8, 8},
		{20, 20},
		{32, 32},
		{33, MaxFontSize},
	}
	for _, tt := range tests {
		got := e.SetFontSize(tt.in)
		testutil.AssertEqual(t, got, tt.want)
		testutil.AssertEqual(t, e.Snapshot().FontSize, tt.want)
	}
}

func TestSetTabSize(t *testing.T) {
	e := New(LanguageCPP, Settings{})
	for _, size := range []int{2, 4, 6, 8} {
		testutil.AssertNoError(t, e.SetTabSize(size))
		testutil.AssertEqual(t, e.Snapshot().TabSize, size)
	}

	for _, size := range []int{0, 1, 3, 5, 16} {
		err := e.SetTabSize(size)
		if errors.GetCode(err) != errors.TabSizeInvalid {
			t.Errorf("SetTabSize(%d) code = %v, want TabSizeInvalid", size, errors.GetCode(err))
		}
	}
	testutil.AssertEqual(t, e.Snapshot().TabSize, 8)
}

func TestSetTheme(t *testing.T) {
	e := New(LanguageCPP, Settings{})
	testutil.AssertNoError(t, e.SetTheme("vs"))
	testutil.AssertEqual(t, e.Snapshot().Theme, "vs")

	err := e.SetTheme("  ")
	testutil.AssertEqual(t, errors.GetCode(err), errors.ThemeInvalid)
	testutil.AssertEqual(t, e.Snapshot().Theme, "vs")
}

func TestSetLanguage_TemplateFollowsUntouchedBuffer(t *testing.T) {
	e := New(LanguageCPP, Settings{})
	testutil.AssertNoError(t, e.SetLanguage(LanguageJava))
	testutil.AssertEqual(t, e.Snapshot().Code, Template(LanguageJava))

	e.SetCode("print(1)\n")
	testutil.AssertNoError(t, e.SetLanguage(LanguagePython))
	st := e.Snapshot()
	testutil.AssertEqual(t, st.Language, LanguagePython)
	testutil.AssertEqual(t, st.Code, "print(1)\n")

	e.Reset()
	testutil.AssertEqual(t, e.Snapshot().Code, Template(LanguagePython))
}

func TestSetLanguage_Rejected(t *testing.T) {
	e := New(LanguageC, Settings{})
	err := e.SetLanguage(Language("go"))
	testutil.AssertEqual(t, errors.GetCode(err), errors.LanguageNotSupported)
	testutil.AssertEqual(t, e.Snapshot().Language, LanguageC)
}

func TestParseLanguage(t *testing.T) {
	tests := map[string]Language{
		"cpp":     LanguageCPP,
		"C++":     LanguageCPP,
		"c":       LanguageC,
		"Java":    LanguageJava,
		"python3": LanguagePython,
		" py ":    LanguagePython,
	}
	for raw, want := range tests {
		got, err := ParseLanguage(raw)
		testutil.AssertNoError(t, err)
		testutil.AssertEqual(t, got, want)
	}

	if _, err := ParseLanguage("rust"); errors.GetCode(err) != errors.LanguageNotSupported {
		t.Errorf("expected LanguageNotSupported, got %v", err)
	}
}

func TestEveryLanguageHasTemplate(t *testing.T) {
	for _, lang := range Languages() {
		if Template(lang) == "" {
			t.Errorf("language %s has no template", lang)
		}
	}
}
