package speller

import (
	"testing"

	"github.com/facsearch/faculty-search/internal/index"
)

func testVocab() *index.Vocabulary {
	return &index.Vocabulary{
		DocFreq: map[string]int{
			"biology":   4,
			"chemistry": 2,
			"cell":      3,
			"marine":    1,
			"research":  5,
		},
		DocCount: 6,
	}
}

func TestCorrectTransposition(t *testing.T) {
	c := New(testVocab(), 2)
	// Two substitutions away ("oi" for "io").
	got, ok := c.Correct("boilogy")
	if !ok || got != "biology" {
		t.Fatalf("Correct(boilogy) = (%q, %v), want (biology, true)", got, ok)
	}
}

func TestCorrectSingleEdit(t *testing.T) {
	c := New(testVocab(), 2)
	cases := map[string]string{
		"biologyy": "biology", // insertion
		"bology":   "biology", // deletion
		"biolagy":  "biology", // substitution
		"cel":      "cell",
		"marinee":  "marine",
	}
	for input, want := range cases {
		got, ok := c.Correct(input)
		if !ok || got != want {
			t.Errorf("Correct(%q) = (%q, %v), want (%q, true)", input, got, ok, want)
		}
	}
}

func TestCorrectKnownTermIsItself(t *testing.T) {
	c := New(testVocab(), 2)
	got, ok := c.Correct("biology")
	if !ok || got != "biology" {
		t.Fatalf("Correct(biology) = (%q, %v), want identity", got, ok)
	}
}

func TestCorrectNoCandidateWithinThreshold(t *testing.T) {
	c := New(testVocab(), 2)
	if got, ok := c.Correct("zzzzxqwv"); ok {
		t.Fatalf("Correct(zzzzxqwv) = (%q, true), want no suggestion", got)
	}
	if _, ok := c.Correct(""); ok {
		t.Fatal("Correct(\"\") returned a suggestion")
	}
}

func TestCorrectPrefersSmallerDistance(t *testing.T) {
	vocab := &index.Vocabulary{
		DocFreq: map[string]int{
			"cart": 1,  // distance 1 from "carts"
			"care": 10, // distance 2 from "carts"
		},
		DocCount: 10,
	}
	c := New(vocab, 2)
	got, ok := c.Correct("carts")
	if !ok || got != "cart" {
		t.Fatalf("Correct(carts) = (%q, %v), want (cart, true): distance beats frequency", got, ok)
	}
}

func TestCorrectBreaksDistanceTiesByFrequency(t *testing.T) {
	vocab := &index.Vocabulary{
		DocFreq: map[string]int{
			"gene":  7, // distance 1 from "gane"
			"game":  2, // distance 1 from "gane"
			"gonee": 1,
		},
		DocCount: 8,
	}
	c := New(vocab, 2)
	got, ok := c.Correct("gane")
	if !ok || got != "gene" {
		t.Fatalf("Correct(gane) = (%q, %v), want (gene, true): most frequent wins", got, ok)
	}
}

func TestCorrectBreaksFrequencyTiesLexicographically(t *testing.T) {
	vocab := &index.Vocabulary{
		DocFreq: map[string]int{
			"bat": 3,
			"cat": 3,
		},
		DocCount: 5,
	}
	c := New(vocab, 1)
	got, ok := c.Correct("aat")
	if !ok || got != "bat" {
		t.Fatalf("Correct(aat) = (%q, %v), want (bat, true): lexicographic tie-break", got, ok)
	}
}

func TestCorrectRespectsMaxDistanceOne(t *testing.T) {
	c := New(testVocab(), 1)
	if got, ok := c.Correct("boilogy"); ok {
		t.Fatalf("Correct(boilogy) with maxDistance=1 = (%q, true), want no suggestion", got)
	}
	if got, ok := c.Correct("biologt"); !ok || got != "biology" {
		t.Fatalf("Correct(biologt) with maxDistance=1 = (%q, %v), want (biology, true)", got, ok)
	}
}

func TestLevenshtein(t *testing.T) {
	cases := []struct {
		a, b string
		max  int
		want int
	}{
		{"biology", "biology", 2, 0},
		{"biology", "bology", 2, 1},
		{"boilogy", "biology", 2, 2},
		{"abc", "xyz", 3, 3},
		{"abc", "xyz", 2, -1},
		{"", "ab", 2, 2},
		{"abcdef", "", 2, -1},
	}
	for _, tc := range cases {
		if got := levenshtein(tc.a, tc.b, tc.max); got != tc.want {
			t.Errorf("levenshtein(%q, %q, %d) = %d, want %d", tc.a, tc.b, tc.max, got, tc.want)
		}
	}
}
