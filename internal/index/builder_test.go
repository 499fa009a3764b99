package index

import (
	"context"
	"math"
	"reflect"
	"testing"

	"github.com/facsearch/faculty-search/internal/corpus"
)

func testCorpus() []corpus.Document {
	return []corpus.Document{
		{ID: "doc1", Title: "Dr. Cell", URL: "http://u/1", Tokens: []string{"cell", "biology", "research"}},
		{ID: "doc2", Title: "Dr. Marine", URL: "http://u/2", Tokens: []string{"marine", "biology", "field", "work"}},
		{ID: "doc3", Title: "Dr. Chem", URL: "http://u/3", Tokens: []string{"chemistry", "research", "lab"}},
	}
}

func buildTestArtifact(t *testing.T, docs []corpus.Document) *Artifact {
	t.Helper()
	art, err := NewBuilder(2).Build(context.Background(), docs)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return art
}

func TestDocumentVectorsAreUnitNormalized(t *testing.T) {
	art := buildTestArtifact(t, testCorpus())
	for docID, vec := range art.Vectors {
		if len(vec) == 0 {
			continue
		}
		var sumSquares float64
		for _, w := range vec {
			sumSquares += w * w
		}
		if math.Abs(sumSquares-1) > 1e-9 {
			t.Errorf("doc %s: sum of squared weights = %v, want 1", docID, sumSquares)
		}
	}
}

func TestVectorTermsComeFromDocument(t *testing.T) {
	docs := testCorpus()
	art := buildTestArtifact(t, docs)
	for _, doc := range docs {
		present := make(map[string]struct{}, len(doc.Tokens))
		for _, tok := range doc.Tokens {
			present[tok] = struct{}{}
		}
		for term := range art.Vectors[doc.ID] {
			if _, ok := present[term]; !ok {
				t.Errorf("doc %s: vector contains term %q absent from its tokens", doc.ID, term)
			}
		}
	}
}

func TestInvertedIndexMatchesVectors(t *testing.T) {
	art := buildTestArtifact(t, testCorpus())

	// Every posting must correspond to a vector entry with the same weight.
	for term, postings := range art.Postings {
		for _, p := range postings {
			w, ok := art.Vectors[p.DocID][term]
			if !ok {
				t.Errorf("posting (%s, %s) has no vector entry", term, p.DocID)
				continue
			}
			if w != p.Weight {
				t.Errorf("posting (%s, %s) weight %v != vector weight %v", term, p.DocID, p.Weight, w)
			}
			if p.Weight <= 0 {
				t.Errorf("posting (%s, %s) has non-positive weight %v", term, p.DocID, p.Weight)
			}
		}
	}

	// Every nonzero vector entry must appear in the postings.
	for docID, vec := range art.Vectors {
		for term, w := range vec {
			found := false
			for _, p := range art.Postings[term] {
				if p.DocID == docID && p.Weight == w {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("vector entry (%s, %s) missing from postings", docID, term)
			}
		}
	}
}

func TestPostingListsSortedByWeightThenDocID(t *testing.T) {
	art := buildTestArtifact(t, testCorpus())
	for term, postings := range art.Postings {
		for i := 1; i < len(postings); i++ {
			prev, curr := postings[i-1], postings[i]
			if prev.Weight < curr.Weight {
				t.Errorf("term %s: postings not sorted by weight desc at %d", term, i)
			}
			if prev.Weight == curr.Weight && prev.DocID >= curr.DocID {
				t.Errorf("term %s: tie not broken by doc ID asc at %d", term, i)
			}
		}
	}
}

func TestTermInEveryDocumentIsDropped(t *testing.T) {
	docs := []corpus.Document{
		{ID: "doc1", Tokens: []string{"faculty", "biology"}},
		{ID: "doc2", Tokens: []string{"faculty", "chemistry"}},
	}
	art := buildTestArtifact(t, docs)
	if _, ok := art.Postings["faculty"]; ok {
		t.Error("term with df = N has a posting list; want dropped (idf = 0)")
	}
	for docID, vec := range art.Vectors {
		if _, ok := vec["faculty"]; ok {
			t.Errorf("doc %s: zero-idf term kept in vector", docID)
		}
	}
}

func TestZeroTermDocumentGetsZeroVector(t *testing.T) {
	docs := []corpus.Document{
		{ID: "doc1", Tokens: []string{"biology"}},
		{ID: "doc2", Tokens: nil},
	}
	art := buildTestArtifact(t, docs)
	if len(art.Vectors["doc2"]) != 0 {
		t.Errorf("empty document vector = %v, want empty", art.Vectors["doc2"])
	}
	for term, postings := range art.Postings {
		for _, p := range postings {
			if p.DocID == "doc2" {
				t.Errorf("empty document appears in postings for %q", term)
			}
		}
	}
}

func TestRebuildIsDeterministic(t *testing.T) {
	docs := testCorpus()
	first := buildTestArtifact(t, docs)
	second := buildTestArtifact(t, docs)
	if !reflect.DeepEqual(first, second) {
		t.Error("two builds over the same corpus differ")
	}
}

func TestBuildEmptyCorpusFails(t *testing.T) {
	if _, err := NewBuilder(2).Build(context.Background(), nil); err == nil {
		t.Fatal("Build(empty corpus) succeeded, want error")
	}
}
