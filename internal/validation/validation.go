// Package validation checks the paths and files handed to the parser before
// any of their content is read into memory.
package validation

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode"
)

// Limits on what a single source may be.
const (
	// MaxFileSize is the largest document, after decompression, that is parsed (64 MB).
	MaxFileSize = 64 << 20
	// MaxPathLength is the maximum allowed path length.
	MaxPathLength = 4096
)

// Common validation errors.
var (
	ErrPathTraversal    = errors.New("path traversal detected")
	ErrPathTooLong      = errors.New("path too long")
	ErrInvalidCharacter = errors.New("invalid character in path")
	ErrEmptyPath        = errors.New("path cannot be empty")
	ErrTooLarge         = errors.New("file too large")
)

// SanitizePath validates an archive entry or other relative path and ensures
// it does not escape baseDir. It returns the cleaned relative path.
func SanitizePath(baseDir, userPath string) (string, error) {
	if err := ValidatePath(userPath); err != nil {
		return "", err
	}

	cleanPath := filepath.Clean(userPath)
	if filepath.IsAbs(cleanPath) {
		return "", fmt.Errorf("%w: absolute path not allowed", ErrPathTraversal)
	}
	if cleanPath == ".." || strings.HasPrefix(cleanPath, ".."+string(filepath.Separator)) {
		return "", ErrPathTraversal
	}

	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve base directory: %w", err)
	}
	absPath, err := filepath.Abs(filepath.Join(baseDir, cleanPath))
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}
	relPath, err := filepath.Rel(absBase, absPath)
	if err != nil || relPath == ".." || strings.HasPrefix(relPath, ".."+string(filepath.Separator)) {
		return "", ErrPathTraversal
	}

	return cleanPath, nil
}

// ValidatePath checks a path for length limits and control characters.
func ValidatePath(path string) error {
	if path == "" {
		return ErrEmptyPath
	}
	if len(path) > MaxPathLength {
		return ErrPathTooLong
	}
	if strings.Contains(path, "\x00") {
		return fmt.Errorf("%w: null byte not allowed", ErrInvalidCharacter)
	}
	for _, r := range path {
		if unicode.IsControl(r) {
			return fmt.Errorf("%w: control character not allowed", ErrInvalidCharacter)
		}
	}
	return nil
}

// CheckSize rejects sizes above MaxFileSize.
func CheckSize(size int64) error {
	if size > MaxFileSize {
		return fmt.Errorf("%w: %d bytes exceeds %d", ErrTooLarge, size, MaxFileSize)
	}
	return nil
}

// FileType is the container or document type of a source file.
type FileType string

const (
	FileTypeTarXZ FileType = "tar.xz"
	FileTypeTarGZ FileType = "tar.gz"
	FileTypeGzip  FileType = "gzip"
	FileTypeXZ    FileType = "xz"

	FileTypeThML FileType = "thml"
	FileTypeHTML FileType = "html"
	FileTypeText FileType = "text"

	FileTypeUnknown FileType = "unknown"
)

var magicBytes = []struct {
	fileType FileType
	magic    []byte
}{
	{FileTypeGzip, []byte{0x1f, 0x8b}},
	{FileTypeXZ, []byte{0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00}},
}

// ValidateFileType checks that a file's leading bytes agree with its
// extension and returns the type. Compressed files are reported by their
// container type; the caller decompresses and asks again for the inner name.
func ValidateFileType(reader io.Reader, filename string) (FileType, error) {
	buf := make([]byte, 512)
	n, err := io.ReadFull(reader, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return FileTypeUnknown, fmt.Errorf("failed to read file header: %w", err)
	}
	buf = buf[:n]

	detected := detectFileTypeFromMagic(buf)
	expected := DetectFileType(filename)

	switch expected {
	case FileTypeTarXZ, FileTypeXZ:
		if detected == FileTypeXZ {
			return expected, nil
		}
	case FileTypeTarGZ, FileTypeGzip:
		if detected == FileTypeGzip {
			return expected, nil
		}
	case FileTypeThML, FileTypeHTML, FileTypeText:
		if detected == FileTypeUnknown && (len(buf) == 0 || isLikelyText(buf)) {
			return expected, nil
		}
	case FileTypeUnknown:
		return FileTypeUnknown, fmt.Errorf("unrecognized extension on %s", filename)
	}

	return FileTypeUnknown, fmt.Errorf("file type mismatch: extension suggests %s but content is %s", expected, detected)
}

func detectFileTypeFromMagic(buf []byte) FileType {
	for _, sig := range magicBytes {
		if bytes.HasPrefix(buf, sig.magic) {
			return sig.fileType
		}
	}
	return FileTypeUnknown
}

// DetectFileType determines a file's type from its extension.
func DetectFileType(filename string) FileType {
	lower := strings.ToLower(filename)

	if strings.HasSuffix(lower, ".tar.xz") || strings.HasSuffix(lower, ".txz") {
		return FileTypeTarXZ
	}
	if strings.HasSuffix(lower, ".tar.gz") || strings.HasSuffix(lower, ".tgz") {
		return FileTypeTarGZ
	}

	switch filepath.Ext(lower) {
	case ".xz":
		return FileTypeXZ
	case ".gz":
		return FileTypeGzip
	case ".xml", ".thml":
		return FileTypeThML
	case ".html", ".htm", ".xhtml":
		return FileTypeHTML
	case ".txt", ".text":
		return FileTypeText
	default:
		return FileTypeUnknown
	}
}

// isLikelyText reports whether buf looks like UTF-8 or ASCII text.
func isLikelyText(buf []byte) bool {
	if len(buf) == 0 {
		return false
	}
	if bytes.IndexByte(buf, 0) != -1 {
		return false
	}

	printable := 0
	control := 0
	for _, b := range buf {
		if b >= 0x20 && b <= 0x7e || b == '\t' || b == '\n' || b == '\r' {
			printable++
		} else if b < 0x20 {
			control++
		}
	}

	return printable > 0 && float64(printable)/float64(printable+control) > 0.95
}
