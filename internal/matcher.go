package internal

import (
	"fmt"
	"io"
	"iter"
	"regexp"

	"pss/internal/sink"
)

// SearchConfig is built once per run and never mutated.
type SearchConfig struct {
	Pattern     string
	IgnoreCase  bool
	InvertMatch bool
	WholeWords  bool
	Literal     bool
	MaxCount    int // 0 - unbounded
}

// ContentMatcher applies a compiled pattern to files. Safe for concurrent use.
type ContentMatcher struct {
	cfg SearchConfig
	re  *regexp.Regexp
}

// NewContentMatcher compiles the pattern up front so a bad pattern fails
// before any file is touched.
func NewContentMatcher(cfg SearchConfig) (*ContentMatcher, error) {
	re, err := CompilePattern(cfg.Pattern, cfg.Literal, cfg.WholeWords, cfg.IgnoreCase)
	if err != nil {
		return nil, err
	}
	return &ContentMatcher{cfg: cfg, re: re}, nil
}

// CompilePattern applies the literal, whole-word and case transforms in that order.
func CompilePattern(pattern string, literal, wholeWords, ignoreCase bool) (*regexp.Regexp, error) {
	expr := pattern
	if literal {
		expr = regexp.QuoteMeta(expr)
	}
	if wholeWords {
		expr = `\b(?:` + expr + `)\b`
	}
	if ignoreCase {
		expr = `(?i)` + expr
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrMalformedPattern, pattern, err)
	}
	return re, nil
}

// EffectiveIgnoreCase combines -i with smart-case.
func EffectiveIgnoreCase(pattern string, ignoreCase, smartCase bool) bool {
	return ignoreCase || (smartCase && !hasUppercase(pattern))
}

// hasUppercase skips the character after a backslash, since \A, \B, \S
// and friends are escapes rather than letters to match.
func hasUppercase(pattern string) bool {
	skip := false
	for _, c := range pattern {
		switch {
		case skip:
			skip = false
		case c == '\\':
			skip = true
		case c >= 'A' && c <= 'Z':
			return true
		}
	}
	return false
}

// MatchFile streams r line by line. limit <= 0 falls back to the configured
// MaxCount. The sequence can be ranged over once.
func (m *ContentMatcher) MatchFile(r io.Reader, limit int) iter.Seq2[sink.MatchRecord, error] {
	if limit <= 0 {
		limit = m.cfg.MaxCount
	}
	return func(yield func(sink.MatchRecord, error) bool) {
		n := 0
		err := readLines(r, func(lineNum int, line []byte) bool {
			rec, ok := m.matchLine(lineNum, line)
			if !ok {
				return true
			}
			n++
			if !yield(rec, nil) {
				return false
			}
			return limit <= 0 || n < limit
		})
		if err != nil {
			yield(sink.MatchRecord{}, err)
		}
	}
}

// Collect drains MatchFile into a slice, stopping at the first read error.
func (m *ContentMatcher) Collect(r io.Reader, limit int) ([]sink.MatchRecord, error) {
	var out []sink.MatchRecord
	for rec, err := range m.MatchFile(r, limit) {
		if err != nil {
			return out, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func (m *ContentMatcher) matchLine(lineNum int, line []byte) (sink.MatchRecord, bool) {
	body := trimEOL(line)
	if m.cfg.InvertMatch {
		if m.re.Match(body) {
			return sink.MatchRecord{}, false
		}
		return sink.MatchRecord{LineNumber: lineNum, Line: string(line)}, true
	}
	locs := m.re.FindAllIndex(body, -1)
	if len(locs) == 0 {
		return sink.MatchRecord{}, false
	}
	spans := make([]sink.Span, len(locs))
	for i, loc := range locs {
		spans[i] = sink.Span{Start: loc[0], End: loc[1]}
	}
	return sink.MatchRecord{LineNumber: lineNum, Line: string(line), Spans: spans}, true
}
