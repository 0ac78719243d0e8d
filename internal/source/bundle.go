package source

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/ulikunitz/xz"

	"github.com/FocuswithJustin/JuniperCitations/core/errors"
	"github.com/FocuswithJustin/JuniperCitations/internal/validation"
)

// bundleReader wraps a tar.Reader with automatic decompression handling.
type bundleReader struct {
	*tar.Reader
	file         *os.File
	decompressor io.Closer
}

func openBundle(p string) (*bundleReader, error) {
	f, err := os.Open(p)
	if err != nil {
		return nil, errors.NewIO("open", p, err)
	}

	var r io.Reader
	var decompressor io.Closer

	switch validation.DetectFileType(p) {
	case validation.FileTypeTarXZ:
		xr, err := xz.NewReader(f)
		if err != nil {
			f.Close()
			return nil, errors.NewIO("decompress", p, err)
		}
		r = xr
	case validation.FileTypeTarGZ:
		gr, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, errors.NewIO("decompress", p, err)
		}
		r, decompressor = gr, gr
	default:
		f.Close()
		return nil, errors.NewUnsupported("bundle format", filepath.Base(p))
	}

	return &bundleReader{Reader: tar.NewReader(r), file: f, decompressor: decompressor}, nil
}

func (r *bundleReader) Close() error {
	var first error
	if r.decompressor != nil {
		first = r.decompressor.Close()
	}
	if err := r.file.Close(); err != nil && first == nil {
		first = err
	}
	return first
}

// IsBundle reports whether p names a tar.gz or tar.xz bundle.
func IsBundle(p string) bool {
	switch validation.DetectFileType(p) {
	case validation.FileTypeTarGZ, validation.FileTypeTarXZ:
		return true
	}
	return false
}

// LoadBundle reads every parseable member of a .tar.gz or .tar.xz bundle.
// Members with unknown extensions are skipped; members whose names would
// escape the bundle are rejected.
func LoadBundle(p string) ([]*Document, error) {
	br, err := openBundle(p)
	if err != nil {
		return nil, err
	}
	defer br.Close()

	var docs []*Document
	for {
		hdr, err := br.Next()
		if err == io.EOF {
			return docs, nil
		}
		if err != nil {
			return nil, errors.NewIO("read bundle", p, err)
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}

		name, err := validation.SanitizePath(".", hdr.Name)
		if err != nil {
			return nil, errors.Wrapf(err, "bundle %s member %q", p, hdr.Name)
		}
		if validation.DetectFileType(name) == validation.FileTypeUnknown {
			continue
		}
		if err := validation.CheckSize(hdr.Size); err != nil {
			return nil, errors.NewIO("read bundle", p+"/"+name, err)
		}

		data, err := io.ReadAll(br)
		if err != nil {
			return nil, errors.NewIO("read bundle", p+"/"+name, err)
		}
		doc, err := FromBytes(filepath.ToSlash(name), data)
		if err != nil {
			var unsupported *errors.UnsupportedError
			if errors.As(err, &unsupported) {
				continue
			}
			return nil, err
		}
		doc.Path = path.Join(filepath.ToSlash(p), doc.Path)
		doc.Bundle = p
		docs = append(docs, doc)
	}
}

// CreateBundle packs the sources under srcDir into a .tar.gz or .tar.xz
// bundle at dst, chosen by dst's extension. Member names are relative to
// srcDir.
func CreateBundle(srcDir, dst string) (err error) {
	kind := validation.DetectFileType(dst)
	if kind != validation.FileTypeTarGZ && kind != validation.FileTypeTarXZ {
		return errors.NewUnsupported("bundle format", filepath.Base(dst))
	}

	paths, err := Discover(srcDir, 0)
	if err != nil {
		return err
	}

	out, err := os.Create(dst)
	if err != nil {
		return errors.NewIO("create", dst, err)
	}
	defer func() {
		if cerr := out.Close(); err == nil && cerr != nil {
			err = errors.NewIO("close", dst, cerr)
		}
	}()

	var zw io.WriteCloser
	if kind == validation.FileTypeTarXZ {
		if zw, err = xz.NewWriter(out); err != nil {
			return errors.NewIO("compress", dst, err)
		}
	} else {
		zw = gzip.NewWriter(out)
	}
	tw := tar.NewWriter(zw)

	for _, p := range paths {
		if IsBundle(p) {
			continue
		}
		if err := addFile(tw, srcDir, p); err != nil {
			return fmt.Errorf("adding %s to bundle: %w", p, err)
		}
	}

	if err := tw.Close(); err != nil {
		return errors.NewIO("write", dst, err)
	}
	if err := zw.Close(); err != nil {
		return errors.NewIO("compress", dst, err)
	}
	return nil
}

func addFile(tw *tar.Writer, srcDir, p string) error {
	info, err := os.Stat(p)
	if err != nil {
		return err
	}
	rel, err := filepath.Rel(srcDir, p)
	if err != nil {
		return err
	}

	hdr, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return err
	}
	hdr.Name = filepath.ToSlash(rel)
	if strings.HasPrefix(hdr.Name, "../") {
		return validation.ErrPathTraversal
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}

	f, err := os.Open(p)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(tw, f)
	return err
}
