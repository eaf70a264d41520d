package internal

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadLines(t *testing.T) {
	var got []string
	var nums []int
	err := readLines(strings.NewReader("a\nb\r\n\nlast"), func(n int, line []byte) bool {
		nums = append(nums, n)
		got = append(got, string(line))
		return true
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a\n", "b\r\n", "\n", "last"}, got)
	assert.Equal(t, []int{1, 2, 3, 4}, nums)
}

func TestReadLines_Stop(t *testing.T) {
	calls := 0
	err := readLines(strings.NewReader("a\nb\nc\n"), func(int, []byte) bool {
		calls++
		return calls < 2
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestReadLines_LongLine(t *testing.T) {
	long := strings.Repeat("z", readerBufferSize*3)
	var got string
	err := readLines(strings.NewReader(long+"\nend\n"), func(n int, line []byte) bool {
		if n == 1 {
			got = string(line)
		}
		return true
	})
	require.NoError(t, err)
	assert.Equal(t, long+"\n", got)
}

func TestReadLines_Error(t *testing.T) {
	err := readLines(&errorReader{}, func(int, []byte) bool { return true })
	assert.Error(t, err)
}

func TestTrimEOL(t *testing.T) {
	assert.Equal(t, "x", string(trimEOL([]byte("x\r\n"))))
	assert.Equal(t, "x", string(trimEOL([]byte("x\n"))))
	assert.Equal(t, "x", string(trimEOL([]byte("x"))))
}
