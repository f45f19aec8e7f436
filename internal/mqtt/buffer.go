package mqtt

// queuedMessage is one serialized publish waiting for the publish
// goroutine.
type queuedMessage struct {
	topic    string
	payload  []byte
	qos      byte
	retained bool
}

// sendQueue is a fixed-capacity FIFO of pending publishes. When full,
// the oldest message is dropped. Not safe for concurrent use; the
// publisher holds its own lock.
type sendQueue struct {
	items   []queuedMessage
	start   int // index of the oldest message
	n       int
	dropped int // discarded to overflow since the last pop or drain
}

func newSendQueue(capacity int) *sendQueue {
	return &sendQueue{items: make([]queuedMessage, capacity)}
}

func (q *sendQueue) push(m queuedMessage) {
	if q.n == len(q.items) {
		// Full: the slot holding the oldest message becomes the newest.
		q.items[q.start] = m
		q.start = (q.start + 1) % len(q.items)
		q.dropped++
		return
	}
	q.items[(q.start+q.n)%len(q.items)] = m
	q.n++
}

// pop removes and returns the oldest message plus how many were
// dropped to overflow since the previous pop or drain. Callers check
// len first; popping an empty queue returns a zero message.
func (q *sendQueue) pop() (queuedMessage, int) {
	dropped := q.dropped
	q.dropped = 0
	if q.n == 0 {
		return queuedMessage{}, dropped
	}

	m := q.items[q.start]
	q.items[q.start] = queuedMessage{}
	q.start = (q.start + 1) % len(q.items)
	q.n--
	return m, dropped
}

// drain returns the queued messages oldest-first plus how many were
// dropped to overflow, then empties the queue.
func (q *sendQueue) drain() ([]queuedMessage, int) {
	dropped := q.dropped
	q.dropped = 0
	if q.n == 0 {
		return nil, dropped
	}

	out := make([]queuedMessage, q.n)
	for i := 0; i < q.n; i++ {
		out[i] = q.items[(q.start+i)%len(q.items)]
	}
	q.start = 0
	q.n = 0
	return out, dropped
}

func (q *sendQueue) len() int {
	return q.n
}
