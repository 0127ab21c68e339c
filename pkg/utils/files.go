// Package utils provides file-loading helpers shared by the command-line
// frontend: decompressing a ROM or boot ROM image regardless of whether
// it arrives raw or wrapped in a zip/7z/gzip archive.
package utils

import (
	"archive/zip"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/sevenzip"
)

// LoadFile reads filename and transparently decompresses it if its
// extension names a supported archive format. Raw .gb/.gbc/.bin images
// and anything with an unrecognized extension are returned unmodified.
func LoadFile(filename string) ([]byte, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}

	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".gz":
		r, err := gzip.NewReader(strings.NewReader(string(data)))
		if err != nil {
			return nil, err
		}
		defer r.Close()
		return io.ReadAll(r)

	case ".zip":
		r, err := zip.NewReader(strings.NewReader(string(data)), int64(len(data)))
		if err != nil {
			return nil, err
		}
		if len(r.File) == 0 {
			return nil, errNoEntries(filename)
		}
		entry, err := r.File[0].Open()
		if err != nil {
			return nil, err
		}
		defer entry.Close()
		return io.ReadAll(entry)

	case ".7z":
		r, err := sevenzip.NewReader(strings.NewReader(string(data)), int64(len(data)))
		if err != nil {
			return nil, err
		}
		if len(r.File) == 0 {
			return nil, errNoEntries(filename)
		}
		entry, err := r.File[0].Open()
		if err != nil {
			return nil, err
		}
		defer entry.Close()
		return io.ReadAll(entry)

	default:
		return data, nil
	}
}

type errNoEntries string

func (e errNoEntries) Error() string { return "utils: archive " + string(e) + " has no entries" }
