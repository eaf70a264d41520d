package internal

import (
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

// RunStats atomic counters for totals
type RunStats struct {
	start         time.Time
	FilesFound    atomic.Int64
	FilesSearched atomic.Int64
	MatchingFiles atomic.Int64
	Matches       atomic.Int64
	BinaryMatches atomic.Int64
	Errors        atomic.Int64
}

func (s *RunStats) Start() {
	s.start = time.Now()
}

func (s *RunStats) Elapsed() time.Duration {
	return time.Since(s.start)
}

// Log writes the totals at debug level.
func (s *RunStats) Log() {
	logrus.WithFields(logrus.Fields{
		"found":    s.FilesFound.Load(),
		"searched": s.FilesSearched.Load(),
		"matching": s.MatchingFiles.Load(),
		"lines":    s.Matches.Load(),
		"binary":   s.BinaryMatches.Load(),
		"errors":   s.Errors.Load(),
		"elapsed":  s.Elapsed(),
	}).Debug("Search finished")
}
