package internal

import (
	"strings"
	"testing"
)

func BenchmarkMatchFile(b *testing.B) {
	var sb strings.Builder
	for i := 0; i < 2000; i++ {
		sb.WriteString("some ordinary line of source code\n")
		if i%100 == 0 {
			sb.WriteString("user=admin token here\n")
		}
	}
	data := sb.String()
	m, err := NewContentMatcher(SearchConfig{Pattern: `user=\w+`, IgnoreCase: true})
	if err != nil {
		b.Fatal(err)
	}

	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		recs, err := m.Collect(strings.NewReader(data), 0)
		if err != nil {
			b.Fatal(err)
		}
		if len(recs) != 20 {
			b.Fatalf("expected 20 matches, got %d", len(recs))
		}
	}
}

func BenchmarkIsTextBytes(b *testing.B) {
	sample := []byte(strings.Repeat("func main() { println(\"héllo\") }\n", 120))[:textSampleSize]
	for i := 0; i < b.N; i++ {
		if !IsTextBytes(sample) {
			b.Fatal("expected text")
		}
	}
}
