package internal

import (
	"context"
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"regexp"
)

// FinderConfig is frozen for the duration of one traversal.
type FinderConfig struct {
	Roots    []string
	Recurse  bool
	MaxDepth int // 0 - unlimited
	Archives bool

	IgnoreDirs map[string]struct{}

	// Empty SearchExtensions means every extension is accepted.
	SearchExtensions map[string]struct{}
	IgnoreExtensions map[string]struct{}

	SearchPatterns []*regexp.Regexp
	IgnorePatterns []*regexp.Regexp
}

// FileFinder walks roots and yields candidate files.
type FileFinder struct {
	cfg FinderConfig
}

func NewFileFinder(cfg FinderConfig) *FileFinder {
	return &FileFinder{cfg: cfg}
}

// Accept reports whether a file name passes the extension and name filters.
func (f *FileFinder) Accept(name string) bool {
	return f.acceptExt(fileExt(name)) && f.acceptName(name)
}

func (f *FileFinder) acceptExt(ext string) bool {
	if len(f.cfg.SearchExtensions) > 0 {
		if _, ok := f.cfg.SearchExtensions[ext]; !ok {
			return false
		}
	}
	_, blocked := f.cfg.IgnoreExtensions[ext]
	return !blocked
}

func (f *FileFinder) acceptName(name string) bool {
	if len(f.cfg.SearchPatterns) > 0 && !anyMatch(f.cfg.SearchPatterns, name) {
		return false
	}
	return !anyMatch(f.cfg.IgnorePatterns, name)
}

func anyMatch(res []*regexp.Regexp, s string) bool {
	for _, re := range res {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

func (f *FileFinder) ignoredDir(name string) bool {
	_, ok := f.cfg.IgnoreDirs[name]
	return ok
}

// Files lazily yields candidates depth-first, root by root. A non-nil error
// reports a path that could not be read; the walk goes on after it.
func (f *FileFinder) Files(ctx context.Context) iter.Seq2[Candidate, error] {
	return func(yield func(Candidate, error) bool) {
		for _, root := range f.cfg.Roots {
			if ctx.Err() != nil {
				return
			}
			st, err := os.Stat(root)
			if err != nil {
				if !yield(Candidate{Path: root}, fmt.Errorf("%w: %v", ErrUnreadableFile, err)) {
					return
				}
				continue
			}
			if !st.IsDir() {
				// explicitly named files bypass every filter
				if f.cfg.Archives && IsArchive(root) {
					if !f.expandArchive(ctx, root, func(string) bool { return true }, yield) {
						return
					}
					continue
				}
				if !yield(Candidate{Path: root}, nil) {
					return
				}
				continue
			}
			if !f.walkDir(ctx, root, 1, yield) {
				return
			}
		}
	}
}

// walkDir returns false once the consumer stopped or ctx is done.
func (f *FileFinder) walkDir(ctx context.Context, dir string, depth int, yield func(Candidate, error) bool) bool {
	if ctx.Err() != nil {
		return false
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if !yield(Candidate{Path: dir}, fmt.Errorf("%w: %v", ErrUnreadableFile, err)) {
			return false
		}
		// ReadDir may still return the entries read before the failure
	}

	var subdirs []string
	for _, e := range entries {
		if ctx.Err() != nil {
			return false
		}
		path := filepath.Join(dir, e.Name())
		isDir, regular := entryKind(path, e)
		if isDir {
			if e.Type()&os.ModeSymlink == 0 {
				subdirs = append(subdirs, path)
			}
			continue
		}
		if !regular {
			continue
		}
		if f.cfg.Archives && IsArchive(e.Name()) {
			if !f.acceptName(e.Name()) {
				continue
			}
			if !f.expandArchive(ctx, path, f.Accept, yield) {
				return false
			}
			continue
		}
		if !f.Accept(e.Name()) {
			continue
		}
		if !yield(Candidate{Path: path}, nil) {
			return false
		}
	}

	if !f.cfg.Recurse || (f.cfg.MaxDepth > 0 && depth >= f.cfg.MaxDepth) {
		return true
	}
	for _, sub := range subdirs {
		if f.ignoredDir(filepath.Base(sub)) {
			continue
		}
		if !f.walkDir(ctx, sub, depth+1, yield) {
			return false
		}
	}
	return true
}

func (f *FileFinder) expandArchive(ctx context.Context, path string, keep func(string) bool, yield func(Candidate, error) bool) bool {
	stopped := false
	err := walkArchive(ctx, path, keep, func(c Candidate) bool {
		if !yield(c, nil) {
			stopped = true
			return false
		}
		return true
	})
	if stopped {
		return false
	}
	if err != nil && ctx.Err() == nil {
		return yield(Candidate{Path: path}, err)
	}
	return ctx.Err() == nil
}

// entryKind resolves symlinks so linked files are searched; linked
// directories are reported as directories but never descended.
func entryKind(path string, e os.DirEntry) (isDir, regular bool) {
	t := e.Type()
	if t&os.ModeSymlink != 0 {
		st, err := os.Stat(path)
		if err != nil {
			return false, false
		}
		return st.IsDir(), st.Mode().IsRegular()
	}
	return t.IsDir(), t.IsRegular()
}
