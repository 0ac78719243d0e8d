// Package source loads manuscripts from disk: plain files, .gz or .xz
// compressed files, and tar bundles of either.
package source

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/ulikunitz/xz"
	"github.com/zeebo/blake3"

	"github.com/FocuswithJustin/JuniperCitations/core/errors"
	"github.com/FocuswithJustin/JuniperCitations/internal/validation"
)

// Format is the document format of a source. The values match the
// source_format column of the store.
type Format string

const (
	FormatText Format = "txt"
	FormatThML Format = "thml"
	FormatHTML Format = "html"
)

// Document is a loaded, decompressed source.
type Document struct {
	// Path is where the document came from. For bundle members it is the
	// bundle path joined with the member name.
	Path string
	// Bundle is the archive the document was read from, if any.
	Bundle string
	Format Format
	Data   []byte
	// Hash is the hex BLAKE3 digest of Data.
	Hash string
}

// Text returns the document content as a string, with invalid UTF-8
// sequences replaced by U+FFFD.
func (d *Document) Text() string {
	return strings.ToValidUTF8(string(d.Data), "\uFFFD")
}

// Load reads, decompresses and identifies the file at path.
func Load(path string) (*Document, error) {
	if err := validation.ValidatePath(path); err != nil {
		return nil, errors.NewIO("load", path, err)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewIO("open", path, err)
	}
	defer f.Close()

	br := bufio.NewReaderSize(f, 4096)
	head, err := br.Peek(512)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, errors.NewIO("read", path, err)
	}
	kind, err := validation.ValidateFileType(bytes.NewReader(head), path)
	if err != nil {
		return nil, errors.NewUnsupported("source", fmt.Sprintf("%s: %v", filepath.Base(path), err))
	}
	if kind == validation.FileTypeTarGZ || kind == validation.FileTypeTarXZ {
		return nil, errors.NewUnsupported("source", path+" is a bundle; use LoadBundle")
	}

	return read(path, br)
}

// FromBytes identifies and decompresses data that was read from name.
func FromBytes(name string, data []byte) (*Document, error) {
	return read(name, bytes.NewReader(data))
}

func read(name string, r io.Reader) (*Document, error) {
	inner := name
	switch validation.DetectFileType(name) {
	case validation.FileTypeGzip:
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, errors.NewIO("decompress", name, err)
		}
		defer zr.Close()
		r, inner = zr, Uncompressed(name)
	case validation.FileTypeXZ:
		xr, err := xz.NewReader(r)
		if err != nil {
			return nil, errors.NewIO("decompress", name, err)
		}
		r, inner = xr, Uncompressed(name)
	}

	format, err := DetectFormat(inner)
	if err != nil {
		return nil, err
	}

	data, err := io.ReadAll(io.LimitReader(r, validation.MaxFileSize+1))
	if err != nil {
		return nil, errors.NewIO("read", name, err)
	}
	if err := validation.CheckSize(int64(len(data))); err != nil {
		return nil, errors.NewIO("read", name, err)
	}

	return &Document{
		Path:   name,
		Format: format,
		Data:   data,
		Hash:   Hash(data),
	}, nil
}

// DetectFormat maps a file name to its document format.
func DetectFormat(name string) (Format, error) {
	switch validation.DetectFileType(name) {
	case validation.FileTypeText:
		return FormatText, nil
	case validation.FileTypeThML:
		return FormatThML, nil
	case validation.FileTypeHTML:
		return FormatHTML, nil
	}
	return "", errors.NewUnsupported("source format", filepath.Ext(name))
}

// Hash returns the hex BLAKE3 digest of data.
func Hash(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// CompanionPath is where the linearized text of a structured source is
// written: the source path without compression suffix, with a .txt extension.
func CompanionPath(path string) string {
	path = Uncompressed(path)
	return strings.TrimSuffix(path, filepath.Ext(path)) + ".txt"
}

// Uncompressed strips a .gz or .xz suffix from path.
func Uncompressed(path string) string {
	switch validation.DetectFileType(path) {
	case validation.FileTypeGzip, validation.FileTypeXZ:
		return strings.TrimSuffix(path, filepath.Ext(path))
	}
	return path
}

// WriteCompanion writes text beside path and returns the companion's path.
func WriteCompanion(path, text string) (string, error) {
	out := CompanionPath(path)
	if err := os.WriteFile(out, []byte(text), 0o644); err != nil {
		return "", errors.NewIO("write", out, err)
	}
	return out, nil
}

// Discover lists the parseable sources under dir, skipping documents no
// larger than minSize bytes and the companions of structured sources.
// Bundles are included regardless of size.
func Discover(dir string, minSize int64) ([]string, error) {
	var out []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		kind := validation.DetectFileType(path)
		switch kind {
		case validation.FileTypeUnknown:
			return nil
		case validation.FileTypeTarGZ, validation.FileTypeTarXZ:
			out = append(out, path)
			return nil
		}
		if kind == validation.FileTypeText && IsCompanion(path) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if info.Size() <= minSize {
			return nil
		}
		out = append(out, path)
		return nil
	})
	if err != nil {
		return nil, errors.NewIO("scan", dir, err)
	}
	return out, nil
}

var companionSources = []string{".xml", ".thml", ".html", ".htm", ".xhtml"}

// IsCompanion reports whether a .txt file was written from a ThML or HTML
// source next to it, compressed or not.
func IsCompanion(path string) bool {
	stem := strings.TrimSuffix(path, filepath.Ext(path))
	for _, ext := range companionSources {
		for _, z := range []string{"", ".gz", ".xz"} {
			if _, err := os.Stat(stem + ext + z); err == nil {
				return true
			}
		}
	}
	return false
}

func (d *Document) String() string {
	return fmt.Sprintf("%s (%s, %d bytes)", d.Path, d.Format, len(d.Data))
}

// FallbackIDs derives the author and book identifiers of a structured
// source from its location: the parent directory name and the file stem.
func FallbackIDs(p string) (authorID, bookID string) {
	p = filepath.ToSlash(p)
	base := Uncompressed(path.Base(p))
	bookID = strings.TrimSuffix(base, path.Ext(base))
	if dir := path.Dir(p); dir != "." && dir != "/" {
		authorID = path.Base(dir)
	}
	return authorID, bookID
}
