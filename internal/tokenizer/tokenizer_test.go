package tokenizer

import (
	"reflect"
	"testing"
)

func TestNormalizeLowercasesAndSplits(t *testing.T) {
	got := Normalize("Cell-Biology,  RESEARCH!")
	want := []string{"cell", "biolog", "research"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Normalize = %v, want %v", got, want)
	}
}

func TestNormalizeDropsStopWordsAndShortTokens(t *testing.T) {
	got := Normalize("the study of a cell in its environment")
	for _, term := range got {
		switch term {
		case "the", "of", "a", "in", "its":
			t.Errorf("stop-word %q survived normalisation", term)
		}
		if len(term) < 2 {
			t.Errorf("single-character token %q survived normalisation", term)
		}
	}
}

func TestNormalizeStemsInflections(t *testing.T) {
	cases := [][2]string{
		{"cells", "cell"},
		{"researching", "research"},
		{"studies", "study"},
		{"computational", "computation"},
	}
	for _, c := range cases {
		a, b := Normalize(c[0]), Normalize(c[1])
		if len(a) != 1 || len(b) != 1 {
			t.Fatalf("Normalize(%q)=%v, Normalize(%q)=%v; want one term each", c[0], a, c[1], b)
		}
		if a[0] != b[0] {
			t.Errorf("%q stems to %q but %q stems to %q; want same term", c[0], a[0], c[1], b[0])
		}
	}
}

func TestNormalizeKeepsDuplicatesInOrder(t *testing.T) {
	got := Normalize("cell cell marine cell")
	want := []string{"cell", "cell", "marin", "cell"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Normalize = %v, want %v", got, want)
	}
}

func TestNormalizeEmptyInput(t *testing.T) {
	for _, input := range []string{"", "   ", "!@# $%^", "a I"} {
		if got := Normalize(input); len(got) != 0 {
			t.Errorf("Normalize(%q) = %v, want no terms", input, got)
		}
	}
}

func TestNormalizeKeepsDigits(t *testing.T) {
	got := Normalize("bio101 lab")
	if len(got) != 2 || got[0] != "bio101" {
		t.Errorf("Normalize = %v, want [bio101 lab]", got)
	}
}

func TestNormalizeMatchesBetweenIngestAndQuery(t *testing.T) {
	doc := Normalize("Marine Biology; field work.")
	query := Normalize("marine BIOLOGY")
	if len(query) != 2 {
		t.Fatalf("query terms = %v, want 2", query)
	}
	indexed := make(map[string]struct{}, len(doc))
	for _, term := range doc {
		indexed[term] = struct{}{}
	}
	for _, term := range query {
		if _, ok := indexed[term]; !ok {
			t.Errorf("query term %q does not match any indexed term %v", term, doc)
		}
	}
}
