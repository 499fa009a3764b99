package index

import (
	"context"
	"errors"
	"testing"

	"github.com/facsearch/faculty-search/internal/corpus"
	apperrors "github.com/facsearch/faculty-search/pkg/errors"
)

func TestBuildVocabularyCountsPresenceNotFrequency(t *testing.T) {
	docs := []corpus.Document{
		{ID: "doc1", Tokens: []string{"cell", "cell", "cell", "biology"}},
		{ID: "doc2", Tokens: []string{"marine", "biology"}},
	}
	vocab, err := BuildVocabulary(context.Background(), docs, 2)
	if err != nil {
		t.Fatalf("BuildVocabulary: %v", err)
	}
	if vocab.DocCount != 2 {
		t.Errorf("DocCount = %d, want 2", vocab.DocCount)
	}
	if got := vocab.DocFreq["cell"]; got != 1 {
		t.Errorf("df(cell) = %d, want 1 (presence, not occurrences)", got)
	}
	if got := vocab.DocFreq["biology"]; got != 2 {
		t.Errorf("df(biology) = %d, want 2", got)
	}
	if got := vocab.DocFreq["marine"]; got != 1 {
		t.Errorf("df(marine) = %d, want 1", got)
	}
}

func TestBuildVocabularyEmptyCorpusFails(t *testing.T) {
	_, err := BuildVocabulary(context.Background(), nil, 4)
	if !errors.Is(err, apperrors.ErrEmptyCorpus) {
		t.Fatalf("BuildVocabulary(empty) error = %v, want ErrEmptyCorpus", err)
	}
}

func TestBuildVocabularyWorkerCountsAgree(t *testing.T) {
	docs := []corpus.Document{
		{ID: "a", Tokens: []string{"alpha", "beta"}},
		{ID: "b", Tokens: []string{"beta", "gamma"}},
		{ID: "c", Tokens: []string{"gamma", "alpha", "alpha"}},
		{ID: "d", Tokens: []string{"delta"}},
		{ID: "e", Tokens: []string{"alpha", "delta"}},
	}
	sequential, err := BuildVocabulary(context.Background(), docs, 1)
	if err != nil {
		t.Fatalf("BuildVocabulary(workers=1): %v", err)
	}
	for _, workers := range []int{2, 3, 8, 100} {
		parallel, err := BuildVocabulary(context.Background(), docs, workers)
		if err != nil {
			t.Fatalf("BuildVocabulary(workers=%d): %v", workers, err)
		}
		if parallel.DocCount != sequential.DocCount {
			t.Errorf("workers=%d DocCount = %d, want %d", workers, parallel.DocCount, sequential.DocCount)
		}
		for term, want := range sequential.DocFreq {
			if got := parallel.DocFreq[term]; got != want {
				t.Errorf("workers=%d df(%s) = %d, want %d", workers, term, got, want)
			}
		}
		if len(parallel.DocFreq) != len(sequential.DocFreq) {
			t.Errorf("workers=%d |vocab| = %d, want %d", workers, len(parallel.DocFreq), len(sequential.DocFreq))
		}
	}
}

func TestAddingDocumentIncreasesDFByOne(t *testing.T) {
	base := []corpus.Document{
		{ID: "doc1", Tokens: []string{"biology", "cell"}},
		{ID: "doc2", Tokens: []string{"chemistry"}},
	}
	before, err := BuildVocabulary(context.Background(), base, 1)
	if err != nil {
		t.Fatalf("BuildVocabulary: %v", err)
	}

	grown := append(base, corpus.Document{ID: "doc3", Tokens: []string{"biology", "biology"}})
	after, err := BuildVocabulary(context.Background(), grown, 1)
	if err != nil {
		t.Fatalf("BuildVocabulary: %v", err)
	}

	if got, want := after.DocFreq["biology"], before.DocFreq["biology"]+1; got != want {
		t.Errorf("df(biology) after add = %d, want %d", got, want)
	}
	if after.IDF("biology") > before.IDF("biology") {
		t.Errorf("idf(biology) increased after adding a document containing it: %v -> %v",
			before.IDF("biology"), after.IDF("biology"))
	}
}

func TestIDFEdgeCases(t *testing.T) {
	vocab := &Vocabulary{
		DocFreq:  map[string]int{"everywhere": 3, "rare": 1},
		DocCount: 3,
	}
	if got := vocab.IDF("everywhere"); got != 0 {
		t.Errorf("idf(df=N) = %v, want 0", got)
	}
	if got := vocab.IDF("missing"); got != 0 {
		t.Errorf("idf(unknown) = %v, want 0", got)
	}
	if got := vocab.IDF("rare"); got <= 0 {
		t.Errorf("idf(rare) = %v, want > 0", got)
	}
}
