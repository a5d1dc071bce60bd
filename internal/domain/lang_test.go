package domain

import "testing"

func TestNormalizeLang(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "already canonical", in: "en", want: "en"},
		{name: "uppercase", in: "EN", want: "en"},
		{name: "legacy ukrainian alias", in: "ua", want: "uk"},
		{name: "legacy alias uppercase", in: "UA", want: "uk"},
		{name: "canonical ukrainian untouched", in: "uk", want: "uk"},
		{name: "surrounding whitespace", in: "  fr\n", want: "fr"},
		{name: "invalid characters stripped", in: "p!l", want: "pl"},
		{name: "digits and separators kept", in: "zh-hans_2", want: "zh-hans_2"},
		{name: "only invalid characters", in: "!!", want: ""},
		{name: "empty", in: "", want: ""},
		{name: "whitespace only", in: "   ", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeLang(tt.in); got != tt.want {
				t.Errorf("NormalizeLang(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestLangLabel(t *testing.T) {
	t.Parallel()

	if got := LangLabel("ua"); got != "UK" {
		t.Errorf("LangLabel(ua) = %q, want UK", got)
	}
	if got := LangLabel("fr"); got != "FR" {
		t.Errorf("LangLabel(fr) = %q, want FR", got)
	}
}

func TestDefaultLangsExcludeBase(t *testing.T) {
	t.Parallel()

	for _, l := range DefaultLangs {
		if l == BaseLang {
			t.Fatalf("base language %q must not be a recognized translation language", BaseLang)
		}
		if NormalizeLang(l) != l {
			t.Errorf("default language %q is not canonical", l)
		}
	}
}
