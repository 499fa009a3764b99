package index

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	apperrors "github.com/facsearch/faculty-search/pkg/errors"
)

func TestArtifactWriteLoadRoundTrip(t *testing.T) {
	art := buildTestArtifact(t, testCorpus())
	path := filepath.Join(t.TempDir(), "index.fsix")

	if err := WriteArtifact(path, art); err != nil {
		t.Fatalf("WriteArtifact: %v", err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temp file left behind after successful write")
	}

	loaded, err := LoadArtifact(path)
	if err != nil {
		t.Fatalf("LoadArtifact: %v", err)
	}
	if !reflect.DeepEqual(art, loaded) {
		t.Error("loaded artifact differs from written artifact")
	}
}

func TestLoadArtifactMissingFile(t *testing.T) {
	_, err := LoadArtifact(filepath.Join(t.TempDir(), "nope.fsix"))
	if !errors.Is(err, apperrors.ErrArtifactNotFound) {
		t.Fatalf("error = %v, want ErrArtifactNotFound", err)
	}
}

func TestLoadArtifactRejectsCorruption(t *testing.T) {
	art := buildTestArtifact(t, testCorpus())
	path := filepath.Join(t.TempDir(), "index.fsix")
	if err := WriteArtifact(path, art); err != nil {
		t.Fatalf("WriteArtifact: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading artifact: %v", err)
	}

	t.Run("bad magic", func(t *testing.T) {
		bad := append([]byte(nil), data...)
		bad[0] ^= 0xFF
		badPath := filepath.Join(t.TempDir(), "bad.fsix")
		if err := os.WriteFile(badPath, bad, 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadArtifact(badPath); !errors.Is(err, apperrors.ErrArtifactCorrupt) {
			t.Errorf("error = %v, want ErrArtifactCorrupt", err)
		}
	})

	t.Run("flipped section byte", func(t *testing.T) {
		bad := append([]byte(nil), data...)
		bad[headerSize+3] ^= 0xFF
		badPath := filepath.Join(t.TempDir(), "bad.fsix")
		if err := os.WriteFile(badPath, bad, 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadArtifact(badPath); !errors.Is(err, apperrors.ErrArtifactCorrupt) {
			t.Errorf("error = %v, want ErrArtifactCorrupt", err)
		}
	})
}

func TestWriteArtifactOverwritesAtomically(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "index.fsix")

	first := buildTestArtifact(t, testCorpus())
	if err := WriteArtifact(path, first); err != nil {
		t.Fatalf("first write: %v", err)
	}

	docs := testCorpus()
	docs = docs[:2]
	second, err := NewBuilder(1).Build(context.Background(), docs)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if err := WriteArtifact(path, second); err != nil {
		t.Fatalf("second write: %v", err)
	}

	loaded, err := LoadArtifact(path)
	if err != nil {
		t.Fatalf("LoadArtifact: %v", err)
	}
	if loaded.DocCount() != 2 {
		t.Errorf("DocCount = %d, want 2 (new artifact should replace old)", loaded.DocCount())
	}
}
