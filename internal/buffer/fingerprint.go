package buffer

import (
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// Fingerprint hashes lines first..last inclusive together with the
// buffer's line count. Out-of-range bounds are clamped.
func Fingerprint(b Buffer, first, last int) uint64 {
	d := xxhash.New()
	n := b.LineCount()
	_, _ = d.Write(strconv.AppendInt(nil, int64(n), 10))
	_, _ = d.Write([]byte{0})
	if first < 0 {
		first = 0
	}
	if last >= n {
		last = n - 1
	}
	for i := first; i <= last; i++ {
		line, _ := b.Line(i)
		_, _ = d.Write(line)
		_, _ = d.Write([]byte{'\n'})
	}
	return d.Sum64()
}

// ContentFingerprint hashes the whole buffer.
func ContentFingerprint(b Buffer) uint64 {
	return Fingerprint(b, 0, b.LineCount()-1)
}
