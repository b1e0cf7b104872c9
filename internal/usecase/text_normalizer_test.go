package usecase

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "lowercase and trim", input: "  Tomat, Klass 1 ", want: "tomat, klass 1"},
		{name: "collapse whitespace", input: "krossade\t\ttomater\n", want: "krossade tomater"},
		{name: "non-breaking space", input: "Mjölk\u00a01,5%", want: "mjölk 1,5%"},
		{name: "decomposed umlaut composes", input: "Mjo\u0308lk", want: "mjölk"},
		{name: "empty", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalizeText(tt.input); got != tt.want {
				t.Errorf("normalizeText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSignificantTokens(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "drops short tokens", input: "2 st tomater", want: []string{"tomater"}},
		{name: "trims punctuation", input: "tomat, klass 1", want: []string{"tomat", "klass"}},
		{name: "keeps inner punctuation", input: "crème-fraiche (eko)", want: []string{"crème-fraiche", "eko"}},
		{name: "three runes is enough", input: "ägg ost", want: []string{"ägg", "ost"}},
		{name: "nothing significant", input: "1 kg", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, significantTokens(tt.input)); diff != "" {
				t.Errorf("significantTokens(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestCacheKeyPart(t *testing.T) {
	a := cacheKeyPart([]string{"Tomat ", "MJÖLK"})
	b := cacheKeyPart([]string{"tomat", "mjölk"})
	if a != b {
		t.Errorf("cacheKeyPart not normalized: %q != %q", a, b)
	}

	if cacheKeyPart([]string{"a b"}) == cacheKeyPart([]string{"a", "b"}) {
		t.Error("cacheKeyPart must keep ingredient boundaries")
	}
}
