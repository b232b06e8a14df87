package link

// CommandQueue is a bounded single-producer/single-consumer queue from the
// control context to the audio context. Send drops the newest item when
// full (back-pressure lands on the sender, never the audio consumer) and
// reports whether it dropped so the caller can bump a diagnostics counter.
type CommandQueue struct {
	ch chan Command
}

func NewCommandQueue(depth int) *CommandQueue {
	if depth < 1 {
		depth = 1
	}
	return &CommandQueue{ch: make(chan Command, depth)}
}

// Send is non-blocking: it returns false if the queue was full and the
// command was dropped.
func (q *CommandQueue) Send(c Command) bool {
	select {
	case q.ch <- c:
		return true
	default:
		return false
	}
}

// Drain pulls every currently-queued command in enqueue order, calling fn
// for each. Called once at the top of every render block.
func (q *CommandQueue) Drain(fn func(Command)) {
	for {
		select {
		case c := <-q.ch:
			fn(c)
		default:
			return
		}
	}
}

// FeedbackQueue is the audio-to-control direction. Same bounded,
// drop-on-overflow semantics.
type FeedbackQueue struct {
	ch chan Feedback
}

func NewFeedbackQueue(depth int) *FeedbackQueue {
	if depth < 1 {
		depth = 1
	}
	return &FeedbackQueue{ch: make(chan Feedback, depth)}
}

func (q *FeedbackQueue) Send(f Feedback) bool {
	select {
	case q.ch <- f:
		return true
	default:
		return false
	}
}

// Recv blocks until feedback is available or the channel is closed.
func (q *FeedbackQueue) Recv() (Feedback, bool) {
	f, ok := <-q.ch
	return f, ok
}

// TryRecv is the non-blocking counterpart, for control-context poll loops.
func (q *FeedbackQueue) TryRecv() (Feedback, bool) {
	select {
	case f := <-q.ch:
		return f, true
	default:
		return nil, false
	}
}

// ChunkReassembler accumulates SampleChunk messages per request id into a
// complete PCM buffer, so a large upload can be split into <=32KiB chunks
// without the control context blocking on a single enormous send.
type ChunkReassembler struct {
	pending map[string]*reassembly
}

type reassembly struct {
	meta  SampleMeta
	total int
	got   int
	data  []float32
}

func NewChunkReassembler() *ChunkReassembler {
	return &ChunkReassembler{pending: make(map[string]*reassembly)}
}

// Add folds in one chunk, returning the completed PCM buffer once
// IsLastChunk arrives (nil, false otherwise).
func (r *ChunkReassembler) Add(c SampleChunk) ([]float32, bool) {
	rs, ok := r.pending[c.Req]
	if !ok {
		rs = &reassembly{meta: c.Meta, total: c.TotalSize, data: make([]float32, c.TotalSize)}
		r.pending[c.Req] = rs
	}
	n := copy(rs.data[c.ChunkOffset:], c.Data)
	rs.got += n
	if c.IsLastChunk {
		delete(r.pending, c.Req)
		return rs.data, true
	}
	return nil, false
}
