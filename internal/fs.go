package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	iofs "io/fs"
	"path/filepath"
	"strings"

	"github.com/mholt/archives"
	"github.com/sirupsen/logrus"
)

const maxArchiveFiles = 10000 // zip-bomb protection

var errArchiveLimit = errors.New("archive file limit reached")

// IsArchive by extension. O(1) map lookup
var archiveExt = map[string]struct{}{
	".zip": {}, ".tar": {}, ".gz": {}, ".bz2": {}, ".xz": {},
	".rar": {}, ".br": {}, ".lz4": {}, ".lz": {}, ".mz": {},
	".sz": {}, ".s2": {}, ".zz": {}, ".zst": {}, ".7z": {},
}

func IsArchive(path string) bool {
	_, ok := archiveExt[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Candidate is a file the finder selected. InnerPath is set for archive entries.
type Candidate struct {
	Path      string
	InnerPath string
}

func (c Candidate) String() string {
	if c.InnerPath == "" {
		return c.Path
	}
	return c.Path + ":" + c.InnerPath
}

// Name is the base name used for filtering and classification.
func (c Candidate) Name() string {
	if c.InnerPath != "" {
		return filepath.Base(c.InnerPath)
	}
	return filepath.Base(c.Path)
}

// fileExt returns the lowercase extension; leading dots belong to the stem,
// so ".bashrc" has none.
func fileExt(name string) string {
	stem := strings.TrimLeft(name, ".")
	return strings.ToLower(filepath.Ext(stem))
}

// walkArchive feeds archive entries accepted by keep to send.
func walkArchive(ctx context.Context, path string, keep func(name string) bool, send func(Candidate) bool) error {
	fsys, err := archives.FileSystem(ctx, path, nil)
	if err != nil {
		return fmt.Errorf("%w: open archive %s: %v", ErrUnreadableFile, path, err)
	}
	if closer, ok := fsys.(io.Closer); ok {
		defer closer.Close()
	}

	count := 0
	stopped := false
	err = iofs.WalkDir(fsys, ".", func(inner string, d iofs.DirEntry, err error) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil || d.IsDir() {
			return nil
		}
		if count >= maxArchiveFiles {
			logrus.Warnf("Archive %s truncated: too many files (>= %d)", path, maxArchiveFiles)
			return errArchiveLimit
		}
		if !keep(filepath.Base(inner)) {
			return nil
		}
		count++
		if !send(Candidate{Path: path, InnerPath: inner}) {
			stopped = true
			return iofs.SkipAll
		}
		return nil
	})
	if stopped || errors.Is(err, errArchiveLimit) {
		return nil
	}
	return err
}

// openArchiveEntry opens one archive entry; closing the returned
// ReadCloser also releases the archive.
func openArchiveEntry(ctx context.Context, c Candidate) (io.ReadCloser, error) {
	fsys, err := archives.FileSystem(ctx, c.Path, nil)
	if err != nil {
		return nil, err
	}
	f, err := fsys.Open(c.InnerPath)
	if err != nil {
		if closer, ok := fsys.(io.Closer); ok {
			closer.Close()
		}
		return nil, err
	}
	return &archiveEntry{File: f, fsys: fsys}, nil
}

type archiveEntry struct {
	iofs.File
	fsys iofs.FS
}

func (e *archiveEntry) Close() error {
	err := e.File.Close()
	if closer, ok := e.fsys.(io.Closer); ok {
		closer.Close()
	}
	return err
}
