package internal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/sirupsen/logrus"

	"pss/internal/sink"
)

// FileClass drives how a candidate is matched.
type FileClass int

const (
	KnownType FileClass = iota
	UnknownTypeText
	UnknownTypeBinary
)

func (c FileClass) String() string {
	switch c {
	case KnownType:
		return "known"
	case UnknownTypeText:
		return "text"
	case UnknownTypeBinary:
		return "binary"
	}
	return fmt.Sprintf("FileClass(%d)", int(c))
}

// Searcher wires the finder and the matcher to a sink.
type Searcher struct {
	opts    SearchOptions
	finder  *FileFinder
	matcher *ContentMatcher // nil when only finding files
	known   map[string]struct{}

	Stats RunStats
}

// NewSearcher builds and validates everything up front: a malformed pattern
// or an unknown type fails here, before any traversal.
func NewSearcher(opts SearchOptions) (*Searcher, error) {
	opts.Prepare()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	fcfg, err := opts.FinderConfig()
	if err != nil {
		return nil, err
	}
	s := &Searcher{
		opts:   opts,
		finder: NewFileFinder(fcfg),
		known:  opts.Types.KnownExtensions(),
	}
	if !opts.OnlyFindFiles {
		if s.matcher, err = NewContentMatcher(opts.SearchConfig()); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Classify tells known file types from unknown text and binary files.
// Only unknown types are probed, and the probe is a peek.
func (s *Searcher) Classify(name string, br *bufio.Reader) FileClass {
	if _, ok := s.known[fileExt(name)]; ok {
		return KnownType
	}
	if IsText(br) {
		return UnknownTypeText
	}
	return UnknownTypeBinary
}

type fileResult struct {
	cand    Candidate
	binary  bool
	records []sink.MatchRecord
	err     error
}

// Run is the main pipeline.
func (s *Searcher) Run(ctx context.Context, out sink.Sink) error {
	s.Stats.Start()
	defer s.Stats.Log()

	if s.opts.Threads > 1 && !s.opts.OnlyFindFiles {
		return s.runParallel(ctx, out)
	}

	for c, err := range s.finder.Files(ctx) {
		if err != nil {
			s.reportError(c, err)
			continue
		}
		s.Stats.FilesFound.Add(1)
		if s.opts.OnlyFindFiles {
			out.FoundFilename(c.String())
			continue
		}
		s.emit(out, s.searchFile(ctx, c))
	}
	return ctx.Err()
}

type seqResult struct {
	seq int
	res fileResult
}

// runParallel matches files on a worker pool and emits each file as one
// block, in the order the finder produced them.
func (s *Searcher) runParallel(ctx context.Context, out sink.Sink) error {
	results := make(chan seqResult, s.opts.Threads*2)
	var wg sync.WaitGroup

	pool, err := ants.NewPoolWithFunc(s.opts.Threads, func(i interface{}) {
		defer wg.Done()
		j := i.(seqResult)
		if ctx.Err() != nil {
			j.res.err = ctx.Err()
		} else {
			j.res = s.searchFile(ctx, j.res.cand)
		}
		results <- j
	})
	if err != nil {
		return fmt.Errorf("pool: %w", err)
	}
	defer pool.Release()

	go func() {
		defer func() {
			wg.Wait()
			close(results)
		}()
		seq := 0
		for c, err := range s.finder.Files(ctx) {
			j := seqResult{seq: seq, res: fileResult{cand: c, err: err}}
			seq++
			if err != nil {
				results <- j
				continue
			}
			s.Stats.FilesFound.Add(1)
			wg.Add(1)
			if err := pool.Invoke(j); err != nil {
				wg.Done()
				j.res.err = fmt.Errorf("submit task: %w", err)
				results <- j
			}
		}
	}()

	pending := make(map[int]fileResult)
	next := 0
	for r := range results {
		pending[r.seq] = r.res
		for {
			res, ok := pending[next]
			if !ok {
				break
			}
			delete(pending, next)
			s.emit(out, res)
			next++
		}
	}

	// a task lost to a worker panic leaves a gap; flush what is left in order
	if len(pending) > 0 {
		seqs := make([]int, 0, len(pending))
		for seq := range pending {
			seqs = append(seqs, seq)
		}
		sort.Ints(seqs)
		for _, seq := range seqs {
			s.emit(out, pending[seq])
		}
	}
	return ctx.Err()
}

// searchFile opens, classifies and matches one candidate. The handle is
// closed on every path, including an early stop at the match cap.
func (s *Searcher) searchFile(ctx context.Context, c Candidate) fileResult {
	res := fileResult{cand: c}
	rc, err := s.open(ctx, c)
	if err != nil {
		res.err = fmt.Errorf("%w: %v", ErrUnreadableFile, err)
		return res
	}
	defer rc.Close()
	s.Stats.FilesSearched.Add(1)

	br := bufio.NewReaderSize(rc, readerBufferSize)
	limit := 0
	if s.Classify(c.Name(), br) == UnknownTypeBinary {
		res.binary = true
		limit = 1
	}
	records, err := s.matcher.Collect(br, limit)
	if err != nil {
		res.err = fmt.Errorf("%w: %v", ErrUnreadableFile, err)
		return res
	}
	res.records = records
	return res
}

func (s *Searcher) open(ctx context.Context, c Candidate) (io.ReadCloser, error) {
	if c.InnerPath != "" {
		return openArchiveEntry(ctx, c)
	}
	return os.Open(c.Path)
}

func (s *Searcher) emit(out sink.Sink, res fileResult) {
	if res.err != nil {
		s.reportError(res.cand, res.err)
		return
	}
	if len(res.records) == 0 {
		return
	}
	path := res.cand.String()
	if res.binary {
		s.Stats.BinaryMatches.Add(1)
		out.BinaryFileMatches(fmt.Sprintf("Binary file %s matches\n", path))
		return
	}
	s.Stats.MatchingFiles.Add(1)
	s.Stats.Matches.Add(int64(len(res.records)))
	out.StartMatchesInFile(path)
	for _, rec := range res.records {
		out.MatchingLine(rec)
	}
	out.EndMatchesInFile(path)
}

func (s *Searcher) reportError(c Candidate, err error) {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return
	}
	s.Stats.Errors.Add(1)
	logrus.WithFields(logrus.Fields{"file": c.String(), "err": err}).Warn("Skipping unreadable path")
}
