package store

// Keyspace helpers for Pebble keys.
//
// Layout:
// - log/{composite}/f/{field}
// - seen/{userid}

var (
	logPrefix  = []byte("log/")
	fieldSeg   = []byte("/f/")
	seenPrefix = []byte("seen/")
)

// logFieldKey builds the key holding one hash field of a composite key.
func logFieldKey(composite, field string) []byte {
	k := make([]byte, 0, len(logPrefix)+len(composite)+len(fieldSeg)+len(field))
	k = append(k, logPrefix...)
	k = append(k, composite...)
	k = append(k, fieldSeg...)
	k = append(k, field...)
	return k
}

// logFieldPrefix builds the scan prefix covering every field of a composite
// key.
func logFieldPrefix(composite string) []byte {
	k := make([]byte, 0, len(logPrefix)+len(composite)+len(fieldSeg))
	k = append(k, logPrefix...)
	k = append(k, composite...)
	k = append(k, fieldSeg...)
	return k
}

// seenKey builds the last-seen key for a user.
func seenKey(userid string) []byte {
	k := make([]byte, 0, len(seenPrefix)+len(userid))
	k = append(k, seenPrefix...)
	k = append(k, userid...)
	return k
}
