package comm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRingTrace(t *testing.T) {
	r := NewRing(7)
	testCases := []struct {
		name    string
		enqueue string
		consume int
		longest string
	}{
		{"first byte", "a", 0, "a"},
		{"append", "bc", 0, "abc"},
		{"consume head", "", 2, "c"},
		{"fill to end", "defg", 0, "cdefg"},
		{"wrap one", "h", 0, "cdefg"},
		{"consume across", "", 4, "g"},
		{"wrap and consume", "ij", 1, "hij"},
		{"fill before reserved", "klm", 0, "hijklm"},
		{"consume front", "", 4, "lm"},
		{"wrap split", "nop", 4, "p"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r.Enqueue([]byte(tc.enqueue))
			r.Consume(tc.consume)
			require.Equal(t, tc.longest, string(r.LongestRun()))
		})
	}
	require.Equal(t, 1, r.Consume(200))
	require.True(t, r.Empty())
	require.Empty(t, r.LongestRun())
}

func TestRingOneSlotReserved(t *testing.T) {
	r := NewRing(4)
	require.Equal(t, 3, r.Free())
	require.Equal(t, 3, r.Enqueue([]byte("abcdef")))
	require.Equal(t, 0, r.Free())
	require.Equal(t, 3, r.Len())
	require.Equal(t, "abc", string(r.Bytes()))
	require.False(t, r.EnqueueByte('x'))
	require.Equal(t, 0, r.Enqueue([]byte("z")))
	require.Equal(t, "abc", string(r.LongestRun()))
}

func TestRingOverflowKeepsBufferedBytes(t *testing.T) {
	r := NewRing(8)
	r.Enqueue([]byte("12345"))
	r.Consume(4)
	require.Equal(t, 6, r.Enqueue([]byte("6789abcdef")))
	require.Equal(t, "56789ab", string(r.Bytes()))
	require.Equal(t, 0, r.Free())
}

func TestRingReconstructsSequence(t *testing.T) {
	r := NewRing(5)
	input := []byte("the quick brown fox jumps over the lazy dog")
	var out []byte
	for pos := 0; pos < len(input); {
		n := r.Free()
		if pos+n > len(input) {
			n = len(input) - pos
		}
		require.Equal(t, n, r.Enqueue(input[pos:pos+n]))
		pos += n
		for !r.Empty() {
			run := r.LongestRun()
			out = append(out, run...)
			r.Consume(len(run))
		}
	}
	require.Equal(t, input, out)
}

func TestRingPeekAcrossWrap(t *testing.T) {
	r := NewRing(6)
	r.Enqueue([]byte("abcd"))
	r.Consume(3)
	r.Enqueue([]byte("efg"))

	buf := make([]byte, 3)
	require.Equal(t, 3, r.Peek(buf))
	require.Equal(t, "def", string(buf))
	require.Equal(t, 4, r.Len())

	buf = make([]byte, 8)
	require.Equal(t, 4, r.Peek(buf))
	require.Equal(t, "defg", string(buf[:4]))
	require.Equal(t, 0, NewRing(4).Peek(buf))
}

func TestRingPopAndReset(t *testing.T) {
	r := NewRingOn(make([]byte, 3))
	require.True(t, r.EnqueueByte('a'))
	require.True(t, r.EnqueueByte('b'))
	b, ok := r.PopByte()
	require.True(t, ok)
	require.Equal(t, byte('a'), b)
	r.Reset()
	require.True(t, r.Empty())
	_, ok = r.PopByte()
	require.False(t, ok)
	require.Panics(t, func() { NewRing(1) })
}
