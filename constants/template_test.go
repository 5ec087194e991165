package constants

import "testing"

func TestCanonicalTemplateForm(t *testing.T) {
	cases := []struct {
		in   string
		want TemplateForm
		ok   bool
	}{
		{"Monarch", Monarch, true},
		{"  monarch  ", Monarch, true},
		{"lloyd sadd", LloydSadd, true},
		{"WESTLAND", Westland, true},
		{"Unknown", UnknownForm, true},
		{"No Such Broker", UnknownForm, false},
		{"", UnknownForm, false},
	}
	for _, c := range cases {
		got, ok := CanonicalTemplateForm(c.in)
		if got != c.want || ok != c.ok {
			t.Errorf("CanonicalTemplateForm(%q) = (%q, %v), want (%q, %v)", c.in, got, ok, c.want, c.ok)
		}
	}
}

func TestTemplateFormStrings(t *testing.T) {
	forms := TemplateFormStrings()
	if len(forms) != len(allTemplateForms) {
		t.Fatalf("expected %d forms, got %d", len(allTemplateForms), len(forms))
	}
	if forms[0] != "Monarch" || forms[len(forms)-1] != "Unknown" {
		t.Fatalf("taxonomy order changed: first=%q last=%q", forms[0], forms[len(forms)-1])
	}
}

func TestMapExtToFormat(t *testing.T) {
	cases := map[string]string{
		".pdf":  PDF,
		"PDF":   PDF,
		".JPG":  IMAGE,
		"jpeg":  IMAGE,
		"png":   IMAGE,
		".heic": "",
		"":      "",
	}
	for in, want := range cases {
		if got := MapExtToFormat(in); got != want {
			t.Errorf("MapExtToFormat(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestIsAllowedExt(t *testing.T) {
	for _, ext := range []string{".pdf", "JPG", ".jpeg", "png"} {
		if !IsAllowedExt(ext) {
			t.Errorf("%q should be allowed", ext)
		}
	}
	for _, ext := range []string{".heic", "txt", ""} {
		if IsAllowedExt(ext) {
			t.Errorf("%q should be rejected", ext)
		}
	}
}
