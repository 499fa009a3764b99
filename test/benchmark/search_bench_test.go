package benchmark

import (
	"context"
	"fmt"
	"testing"

	"github.com/facsearch/faculty-search/internal/index"
	"github.com/facsearch/faculty-search/internal/search"
	"github.com/facsearch/faculty-search/internal/search/speller"
)

func benchEngine(b *testing.B, n int) *search.Engine {
	b.Helper()
	art, err := index.NewBuilder(4).Build(context.Background(), syntheticCorpus(n))
	if err != nil {
		b.Fatal(err)
	}
	return search.NewEngine(art, speller.New(art.Vocab, speller.DefaultMaxDistance))
}

// BenchmarkSearch measures end-to-end query latency at various corpus sizes.
func BenchmarkSearch(b *testing.B) {
	queries := []string{
		"biology research",
		"organic chemistry",
		"marine ecology coastal",
		"quantum materials physics",
	}
	sizes := []int{100, 1000, 10000}
	for _, n := range sizes {
		engine := benchEngine(b, n)
		b.Run(fmt.Sprintf("docs_%d", n), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				resp, err := engine.Search(context.Background(), queries[i%len(queries)])
				if err != nil {
					b.Fatal(err)
				}
				_ = resp
			}
		})
	}
}

// BenchmarkSearchParallel measures concurrent query throughput over one
// immutable engine.
func BenchmarkSearchParallel(b *testing.B) {
	engine := benchEngine(b, 10000)
	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			resp, err := engine.Search(context.Background(), "biology research methods")
			if err != nil {
				b.Fatal(err)
			}
			_ = resp
		}
	})
}

// BenchmarkSpellCorrection measures suggestion latency for misspelled tokens
// against a full vocabulary.
func BenchmarkSpellCorrection(b *testing.B) {
	art, err := index.NewBuilder(4).Build(context.Background(), syntheticCorpus(10000))
	if err != nil {
		b.Fatal(err)
	}
	corrector := speller.New(art.Vocab, speller.DefaultMaxDistance)
	misspellings := []string{"boilogy", "chemsitry", "ecolgy", "reserch", "statistcs"}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		suggestion, ok := corrector.Correct(misspellings[i%len(misspellings)])
		_, _ = suggestion, ok
	}
}

// BenchmarkCorrectorBuild measures dictionary precomputation cost, paid once
// per index swap.
func BenchmarkCorrectorBuild(b *testing.B) {
	art, err := index.NewBuilder(4).Build(context.Background(), syntheticCorpus(10000))
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c := speller.New(art.Vocab, speller.DefaultMaxDistance)
		_ = c
	}
}
