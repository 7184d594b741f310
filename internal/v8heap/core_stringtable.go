package v8heap

// StringTable owns the decoded snapshot string pool as a single contiguous
// byte buffer plus an offset index, so that individual strings never exist
// as separate heap allocations (spec.md §3, "a single contiguous byte
// buffer plus an offset[] array").
type StringTable struct {
	buf    []byte
	offset []int // offset[i] is the start of string i; offset[len] is the end of the last string
}

// NewStringTable creates an empty string table, optionally pre-sizing its
// backing buffer for an expected total byte count.
func NewStringTable(expectedBytes int) *StringTable {
	if expectedBytes < 0 {
		expectedBytes = 0
	}
	return &StringTable{
		buf:    make([]byte, 0, expectedBytes),
		offset: []int{0},
	}
}

// Add appends s to the table and returns its index.
func (t *StringTable) Add(s string) int {
	idx := len(t.offset) - 1
	t.buf = append(t.buf, s...)
	t.offset = append(t.offset, len(t.buf))
	return idx
}

// Get returns the string at idx. It allocates a string header over the
// shared buffer; callers that only need byte-level comparison should
// prefer Bytes.
func (t *StringTable) Get(idx int) string {
	return string(t.Bytes(idx))
}

// Bytes returns the raw bytes of the string at idx without copying.
func (t *StringTable) Bytes(idx int) []byte {
	if idx < 0 || idx+1 >= len(t.offset) {
		return nil
	}
	return t.buf[t.offset[idx]:t.offset[idx+1]]
}

// Len returns the number of strings in the table.
func (t *StringTable) Len() int {
	return len(t.offset) - 1
}

// Equal reports whether the strings at a and b are byte-identical, without
// allocating Go string headers (spec.md §4.3: "hashes on the byte
// sequence and treats multibyte sequences correctly").
func (t *StringTable) Equal(a, b int) bool {
	ab, bb := t.Bytes(a), t.Bytes(b)
	if len(ab) != len(bb) {
		return false
	}
	for i := range ab {
		if ab[i] != bb[i] {
			return false
		}
	}
	return true
}
