package chatlog

// writeBuffer accumulates pending log writes between flush cycles. Per
// composite key it holds alternating timeKey/message strings in append order;
// the key list preserves first-append order so flushes are deterministic.
//
// The buffer itself is not synchronized. ChatLogger guards every access with
// its mutex, including the wholesale swap performed by a flush.
type writeBuffer struct {
	entries map[string][]string
	keys    []string
}

func newWriteBuffer() *writeBuffer {
	return &writeBuffer{entries: make(map[string][]string)}
}

func (b *writeBuffer) append(key, timeKey, message string) {
	if _, ok := b.entries[key]; !ok {
		b.keys = append(b.keys, key)
	}
	b.entries[key] = append(b.entries[key], timeKey, message)
}

// pending reports the number of buffered composite keys.
func (b *writeBuffer) pending() int {
	return len(b.entries)
}

// pairs converts a key's alternating slice into FieldValue pairs.
func (b *writeBuffer) pairs(key string) []FieldValue {
	vals := b.entries[key]
	out := make([]FieldValue, 0, len(vals)/2)
	for i := 0; i+1 < len(vals); i += 2 {
		out = append(out, FieldValue{Field: vals[i], Value: vals[i+1]})
	}
	return out
}
