package tui

// History is a fixed-size ring of submitted commands with a navigation
// cursor for Up/Down recall.
type History struct {
	ring  []string
	start int // index of the oldest entry
	n     int // number of entries
	// cursor counts back from the newest entry while navigating; 0 means
	// not navigating.
	cursor int
}

// NewHistory creates a history holding at most size commands.
func NewHistory(size int) *History {
	return &History{ring: make([]string, max(size, 1))}
}

// Push records a command and ends any navigation. A command equal to the
// newest entry is not recorded twice.
func (h *History) Push(cmd string) {
	h.cursor = 0
	if h.n > 0 && h.at(h.n-1) == cmd {
		return
	}
	if h.n < len(h.ring) {
		h.ring[(h.start+h.n)%len(h.ring)] = cmd
		h.n++
		return
	}
	h.ring[h.start] = cmd
	h.start = (h.start + 1) % len(h.ring)
}

// Len returns the number of stored commands.
func (h *History) Len() int { return h.n }

// Prev steps to an older command, stopping at the oldest.
func (h *History) Prev() (string, bool) {
	if h.n == 0 {
		return "", false
	}
	if h.cursor < h.n {
		h.cursor++
	}
	return h.at(h.n - h.cursor), true
}

// Next steps to a newer command. Stepping past the newest returns false
// and ends navigation.
func (h *History) Next() (string, bool) {
	if h.cursor <= 1 {
		h.cursor = 0
		return "", false
	}
	h.cursor--
	return h.at(h.n - h.cursor), true
}

// at returns the i-th oldest entry.
func (h *History) at(i int) string {
	return h.ring[(h.start+i)%len(h.ring)]
}
