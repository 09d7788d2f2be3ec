package normalize

import (
	"strings"
	"testing"
)

func TestHashtagCanonicalForms(t *testing.T) {
	n := New()

	cases := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{"plain", "marketing", "marketing", true},
		{"leading hash stripped", "#marketing", "marketing", true},
		{"uppercase folds", "MARKETING", "marketing", true},
		{"diacritics strip", "GESTÃO", "gestao", true},
		{"mixed accent case", "Gestão", "gestao", true},
		{"cedilla", "ALIMENTAÇÃO", "alimentacao", true},
		{"digits survive", "web3", "web3", true},
		{"underscore survives", "social_media", "social_media", true},
		{"inner spaces join", "social media tips", "social_media_tips", true},
		{"whitespace run collapses", "social \t  media", "social_media", true},
		{"edges trimmed", "  fitness  ", "fitness", true},
		{"emoji rejected", "fit💪", "", false},
		{"punctuation rejected", "c++", "", false},
		{"hyphen rejected", "real-estate", "", false},
		{"empty rejected", "", "", false},
		{"bare hash rejected", "#", "", false},
		{"only spaces rejected", "   ", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := n.Hashtag(tc.in)
			if ok != tc.ok {
				t.Fatalf("Hashtag(%q) ok = %v, want %v", tc.in, ok, tc.ok)
			}
			if got != tc.want {
				t.Fatalf("Hashtag(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestHashtagAccentVariantsMerge(t *testing.T) {
	n := New()

	variants := []string{"gestão", "GESTÃO", "Gestao", "gestao", "#Gestão"}
	for _, v := range variants {
		got, ok := n.Hashtag(v)
		if !ok || got != "gestao" {
			t.Fatalf("variant %q normalized to (%q, %v), want (gestao, true)", v, got, ok)
		}
	}
}

func TestHashtagIdempotent(t *testing.T) {
	n := New()

	inputs := []string{"#Marketing Digital", "GESTÃO", "fitness", "social   media"}
	for _, in := range inputs {
		once, ok := n.Hashtag(in)
		if !ok {
			t.Fatalf("first pass rejected %q", in)
		}
		twice, ok := n.Hashtag(once)
		if !ok || twice != once {
			t.Fatalf("not idempotent: %q -> %q -> %q", in, once, twice)
		}
	}
}

func TestManyDedupesPreservingOrder(t *testing.T) {
	n := New()

	got := n.Many([]string{"#Marketing", "marketing", "GESTÃO", "fit💪", "gestao", "sales"})
	want := []string{"marketing", "gestao", "sales"}
	if len(got) != len(want) {
		t.Fatalf("Many returned %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Many[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestHashtagConcurrentUse(t *testing.T) {
	n := New()
	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 200; j++ {
				if got, ok := n.Hashtag("GESTÃO"); !ok || got != "gestao" {
					t.Errorf("concurrent normalize got (%q, %v)", got, ok)
					return
				}
			}
		}()
	}
	for i := 0; i < 8; i++ {
		<-done
	}
}

func TestHashtagLongInput(t *testing.T) {
	n := New()
	long := strings.Repeat("a", 4096)
	got, ok := n.Hashtag(long)
	if !ok || got != long {
		t.Fatalf("long input mangled: len=%d ok=%v", len(got), ok)
	}
}
