package dialogue

// History is a bounded FIFO of turn records. Once capacity is exceeded the
// oldest records are dropped and cannot be read again.
type History struct {
	capacity int
	records  []TurnRecord
	total    int
}

func NewHistory(capacity int) *History {
	if capacity < 1 {
		capacity = 1
	}
	return &History{
		capacity: capacity,
		records:  make([]TurnRecord, 0, capacity),
	}
}

func (h *History) Append(r TurnRecord) {
	h.records = append(h.records, r)
	h.total++

	if over := len(h.records) - h.capacity; over > 0 {
		kept := make([]TurnRecord, h.capacity)
		copy(kept, h.records[over:])
		h.records = kept
	}
}

// Recent returns up to n of the newest records, oldest first, along with the
// number of records ever appended since the last Clear. n <= 0 returns all
// retained records.
func (h *History) Recent(n int) ([]TurnRecord, int) {
	if n <= 0 || n > len(h.records) {
		n = len(h.records)
	}
	out := make([]TurnRecord, n)
	copy(out, h.records[len(h.records)-n:])
	return out, h.total
}

func (h *History) Len() int {
	return len(h.records)
}

func (h *History) Capacity() int {
	return h.capacity
}

func (h *History) Clear() {
	h.records = h.records[:0]
	h.total = 0
}
