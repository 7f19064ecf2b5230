package comm

// Ring is a fixed-capacity circular byte buffer over an owned array.
// One slot is always kept empty: readPos == writePos means empty and at
// most Cap()-1 bytes are resident.
type Ring struct {
	storage  []byte
	readPos  int
	writePos int
}

// NewRing allocates a Ring with the given capacity.
func NewRing(capacity int) *Ring {
	return NewRingOn(make([]byte, capacity))
}

// NewRingOn creates a Ring using storage as the backing array.
func NewRingOn(storage []byte) *Ring {
	if len(storage) < 2 {
		panic("ring capacity must be at least 2")
	}
	return &Ring{storage: storage}
}

// Cap returns the capacity of storage, one more than the bytes it can hold.
func (r *Ring) Cap() int {
	return len(r.storage)
}

// Len returns the number of resident bytes.
func (r *Ring) Len() int {
	if r.writePos >= r.readPos {
		return r.writePos - r.readPos
	}
	return len(r.storage) - r.readPos + r.writePos
}

// Free returns how many bytes Enqueue accepts right now.
func (r *Ring) Free() int {
	return len(r.storage) - 1 - r.Len()
}

// Empty indicates no bytes are resident.
func (r *Ring) Empty() bool {
	return r.readPos == r.writePos
}

// Enqueue copies as much of data as fits and silently drops the rest.
// It returns the number of bytes copied.
func (r *Ring) Enqueue(data []byte) int {
	n := len(data)
	if free := r.Free(); n > free {
		n = free
	}
	if n == 0 {
		return 0
	}
	first := n
	if tail := len(r.storage) - r.writePos; first > tail {
		first = tail
	}
	copy(r.storage[r.writePos:], data[:first])
	copy(r.storage, data[first:n])
	r.writePos = (r.writePos + n) % len(r.storage)
	return n
}

// EnqueueByte appends a single byte, reporting whether it fit.
func (r *Ring) EnqueueByte(b byte) bool {
	if r.Free() == 0 {
		return false
	}
	r.storage[r.writePos] = b
	r.writePos = (r.writePos + 1) % len(r.storage)
	return true
}

// Consume advances the read position by min(n, Len()) and returns
// the number of bytes released.
func (r *Ring) Consume(n int) int {
	if resident := r.Len(); n > resident {
		n = resident
	}
	if n <= 0 {
		return 0
	}
	r.readPos = (r.readPos + n) % len(r.storage)
	return n
}

// LongestRun returns the largest contiguous readable span, ending either
// at the write position or at the physical end of storage.
// The slice aliases storage and is valid until the next mutation.
func (r *Ring) LongestRun() []byte {
	if r.writePos >= r.readPos {
		return r.storage[r.readPos:r.writePos]
	}
	return r.storage[r.readPos:]
}

// Peek copies up to len(dst) of the oldest bytes into dst across the
// wrap without consuming them, and returns the number copied.
func (r *Ring) Peek(dst []byte) int {
	n := copy(dst, r.LongestRun())
	if n < len(dst) && r.writePos < r.readPos {
		n += copy(dst[n:], r.storage[:r.writePos])
	}
	return n
}

// PopByte removes and returns the oldest byte.
func (r *Ring) PopByte() (byte, bool) {
	if r.Empty() {
		return 0, false
	}
	b := r.storage[r.readPos]
	r.readPos = (r.readPos + 1) % len(r.storage)
	return b, true
}

// Reset discards all resident bytes.
func (r *Ring) Reset() {
	r.readPos = r.writePos
}

// Bytes copies out all resident bytes in order without consuming them.
func (r *Ring) Bytes() []byte {
	out := make([]byte, 0, r.Len())
	out = append(out, r.LongestRun()...)
	if r.writePos < r.readPos {
		out = append(out, r.storage[:r.writePos]...)
	}
	return out
}
