package index

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"hash/crc32"
	"os"
	"path/filepath"
	"time"

	apperrors "github.com/facsearch/faculty-search/pkg/errors"
)

// Artifact file layout: a fixed header, four JSON sections (documents,
// vocabulary, vectors, postings), and a CRC32 footer. Files are written to a
// .tmp sibling and renamed into place, so a crashed or cancelled build never
// replaces the artifact currently being served.
const (
	artifactMagic   uint32 = 0x46534958 // "FSIX"
	artifactVersion uint32 = 1
	headerSize             = 96
	footerSize             = 8
	numSections            = 4
)

type artifactHeader struct {
	Magic     uint32
	Version   uint32
	TermCount uint32
	DocCount  uint32
	CreatedAt int64
	Sections  [numSections]sectionRef
}

type sectionRef struct {
	Offset int64
	Size   int64
}

// WriteArtifact atomically persists an artifact to path.
func WriteArtifact(path string, art *Artifact) error {
	sections, err := encodeSections(art)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating artifact directory: %w", err)
	}
	tmpPath := path + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("creating temp artifact file: %w", err)
	}
	defer f.Close()

	header := artifactHeader{
		Magic:     artifactMagic,
		Version:   artifactVersion,
		TermCount: uint32(art.TermCount()),
		DocCount:  uint32(art.DocCount()),
		CreatedAt: time.Now().Unix(),
	}
	offset := int64(headerSize)
	for i, data := range sections {
		header.Sections[i] = sectionRef{Offset: offset, Size: int64(len(data))}
		offset += int64(len(data))
	}

	if _, err := f.Write(encodeHeader(header)); err != nil {
		return fmt.Errorf("writing artifact header: %w", err)
	}
	checksum := crc32.NewIEEE()
	for i, data := range sections {
		if _, err := f.Write(data); err != nil {
			return fmt.Errorf("writing artifact section %d: %w", i, err)
		}
		checksum.Write(data)
	}
	footer := make([]byte, footerSize)
	binary.LittleEndian.PutUint32(footer[0:4], checksum.Sum32())
	if _, err := f.Write(footer); err != nil {
		return fmt.Errorf("writing artifact footer: %w", err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("syncing artifact file: %w", err)
	}
	f.Close()
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("renaming artifact file: %w", err)
	}
	return nil
}

// LoadArtifact reads and verifies an artifact file.
func LoadArtifact(path string) (*Artifact, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrArtifactNotFound, path)
		}
		return nil, fmt.Errorf("opening artifact file: %w", err)
	}
	defer f.Close()

	headerBytes := make([]byte, headerSize)
	if _, err := f.ReadAt(headerBytes, 0); err != nil {
		return nil, fmt.Errorf("%w: reading header: %v", apperrors.ErrArtifactCorrupt, err)
	}
	header, err := decodeHeader(headerBytes)
	if err != nil {
		return nil, err
	}

	checksum := crc32.NewIEEE()
	sections := make([][]byte, numSections)
	for i, ref := range header.Sections {
		data := make([]byte, ref.Size)
		if _, err := f.ReadAt(data, ref.Offset); err != nil {
			return nil, fmt.Errorf("%w: reading section %d: %v", apperrors.ErrArtifactCorrupt, i, err)
		}
		sections[i] = data
		checksum.Write(data)
	}

	footerOffset := header.Sections[numSections-1].Offset + header.Sections[numSections-1].Size
	footer := make([]byte, footerSize)
	if _, err := f.ReadAt(footer, footerOffset); err != nil {
		return nil, fmt.Errorf("%w: reading footer: %v", apperrors.ErrArtifactCorrupt, err)
	}
	if got := binary.LittleEndian.Uint32(footer[0:4]); got != checksum.Sum32() {
		return nil, fmt.Errorf("%w: checksum mismatch", apperrors.ErrArtifactCorrupt)
	}

	return decodeSections(sections)
}

func encodeSections(art *Artifact) ([][]byte, error) {
	docsJSON, err := json.Marshal(art.Docs)
	if err != nil {
		return nil, fmt.Errorf("marshaling documents section: %w", err)
	}
	vocabJSON, err := json.Marshal(art.Vocab)
	if err != nil {
		return nil, fmt.Errorf("marshaling vocabulary section: %w", err)
	}
	vectorsJSON, err := json.Marshal(art.Vectors)
	if err != nil {
		return nil, fmt.Errorf("marshaling vectors section: %w", err)
	}
	postingsJSON, err := json.Marshal(art.Postings)
	if err != nil {
		return nil, fmt.Errorf("marshaling postings section: %w", err)
	}
	return [][]byte{docsJSON, vocabJSON, vectorsJSON, postingsJSON}, nil
}

func decodeSections(sections [][]byte) (*Artifact, error) {
	art := &Artifact{}
	if err := json.Unmarshal(sections[0], &art.Docs); err != nil {
		return nil, fmt.Errorf("%w: documents section: %v", apperrors.ErrArtifactCorrupt, err)
	}
	if err := json.Unmarshal(sections[1], &art.Vocab); err != nil {
		return nil, fmt.Errorf("%w: vocabulary section: %v", apperrors.ErrArtifactCorrupt, err)
	}
	if err := json.Unmarshal(sections[2], &art.Vectors); err != nil {
		return nil, fmt.Errorf("%w: vectors section: %v", apperrors.ErrArtifactCorrupt, err)
	}
	if err := json.Unmarshal(sections[3], &art.Postings); err != nil {
		return nil, fmt.Errorf("%w: postings section: %v", apperrors.ErrArtifactCorrupt, err)
	}
	return art, nil
}

func encodeHeader(h artifactHeader) []byte {
	buf := make([]byte, headerSize)
	binary.LittleEndian.PutUint32(buf[0:4], h.Magic)
	binary.LittleEndian.PutUint32(buf[4:8], h.Version)
	binary.LittleEndian.PutUint32(buf[8:12], h.TermCount)
	binary.LittleEndian.PutUint32(buf[12:16], h.DocCount)
	binary.LittleEndian.PutUint64(buf[16:24], uint64(h.CreatedAt))
	off := 24
	for _, s := range h.Sections {
		binary.LittleEndian.PutUint64(buf[off:off+8], uint64(s.Offset))
		binary.LittleEndian.PutUint64(buf[off+8:off+16], uint64(s.Size))
		off += 16
	}
	return buf
}

func decodeHeader(buf []byte) (artifactHeader, error) {
	var h artifactHeader
	h.Magic = binary.LittleEndian.Uint32(buf[0:4])
	if h.Magic != artifactMagic {
		return h, fmt.Errorf("%w: bad magic bytes %x", apperrors.ErrArtifactCorrupt, h.Magic)
	}
	h.Version = binary.LittleEndian.Uint32(buf[4:8])
	if h.Version != artifactVersion {
		return h, fmt.Errorf("%w: unsupported version %d", apperrors.ErrArtifactCorrupt, h.Version)
	}
	h.TermCount = binary.LittleEndian.Uint32(buf[8:12])
	h.DocCount = binary.LittleEndian.Uint32(buf[12:16])
	h.CreatedAt = int64(binary.LittleEndian.Uint64(buf[16:24]))
	off := 24
	for i := range h.Sections {
		h.Sections[i].Offset = int64(binary.LittleEndian.Uint64(buf[off : off+8]))
		h.Sections[i].Size = int64(binary.LittleEndian.Uint64(buf[off+8 : off+16]))
		off += 16
	}
	return h, nil
}
