package sink

// Span is a half-open byte range [Start, End) of a match within a line.
type Span struct {
	Start int
	End   int
}

// MatchRecord represents a single reported line.
type MatchRecord struct {
	LineNumber int    // 1-based
	Line       string // raw text, line terminator included
	Spans      []Span // empty for inverted matches
}

// Sink receives search results in file-traversal order.
type Sink interface {
	FoundFilename(path string)
	StartMatchesInFile(path string)
	MatchingLine(rec MatchRecord)
	EndMatchesInFile(path string)
	BinaryFileMatches(msg string)
}

// EventKind tags a recorded sink call.
type EventKind int

const (
	EventFoundFilename EventKind = iota
	EventStartFile
	EventMatchingLine
	EventEndFile
	EventBinaryMatch
)

// Event is one call made on a Recorder.
type Event struct {
	Kind   EventKind
	Path   string
	Record MatchRecord
	Msg    string
}

// Recorder is a Sink that keeps every call in order.
type Recorder struct {
	Events []Event
}

func (r *Recorder) FoundFilename(path string) {
	r.Events = append(r.Events, Event{Kind: EventFoundFilename, Path: path})
}

func (r *Recorder) StartMatchesInFile(path string) {
	r.Events = append(r.Events, Event{Kind: EventStartFile, Path: path})
}

func (r *Recorder) MatchingLine(rec MatchRecord) {
	r.Events = append(r.Events, Event{Kind: EventMatchingLine, Record: rec})
}

func (r *Recorder) EndMatchesInFile(path string) {
	r.Events = append(r.Events, Event{Kind: EventEndFile, Path: path})
}

func (r *Recorder) BinaryFileMatches(msg string) {
	r.Events = append(r.Events, Event{Kind: EventBinaryMatch, Msg: msg})
}

// Records returns the recorded match records only.
func (r *Recorder) Records() []MatchRecord {
	var out []MatchRecord
	for _, e := range r.Events {
		if e.Kind == EventMatchingLine {
			out = append(out, e.Record)
		}
	}
	return out
}

// Count returns how many events of kind k were recorded.
func (r *Recorder) Count(k EventKind) int {
	n := 0
	for _, e := range r.Events {
		if e.Kind == k {
			n++
		}
	}
	return n
}
