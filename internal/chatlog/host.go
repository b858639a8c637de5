package chatlog

// Host is the consulted surface of the embedding application: whether logging
// is switched off globally, and which rooms must not update last-seen
// records.
type Host interface {
	LoggingDisabled() bool
	PrivateRoom(room string) bool
}

// StaticHost is a Host backed by fixed configuration, used by the daemon.
type StaticHost struct {
	disabled bool
	private  map[string]struct{}
}

// NewStaticHost builds a StaticHost from a disable flag and a private-room
// list.
func NewStaticHost(disabled bool, privateRooms []string) *StaticHost {
	h := &StaticHost{disabled: disabled, private: make(map[string]struct{}, len(privateRooms))}
	for _, r := range privateRooms {
		h.private[r] = struct{}{}
	}
	return h
}

// LoggingDisabled implements Host.
func (h *StaticHost) LoggingDisabled() bool { return h.disabled }

// PrivateRoom implements Host.
func (h *StaticHost) PrivateRoom(room string) bool {
	_, ok := h.private[room]
	return ok
}
