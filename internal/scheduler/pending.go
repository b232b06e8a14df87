package scheduler

import "github.com/cbegin/voxrender/internal/link"

// pendingItem binds a still-future descriptor to its arrival order, so
// ties in startFrame break in FIFO order per the scheduler's ordering
// guarantee.
type pendingItem struct {
	descriptor link.ScheduleVoice
	arrival    int64
}

// pendingSet is a priority queue keyed by startFrame (ties broken by
// arrival order), kept as an insertion-sorted slice: arrivals are bursty
// but small per block, so insertion sort is both simpler and, in practice,
// no slower than a heap at this scale — the same tradeoff the original
// engine's tick-dispatch queue made for its own note-off list.
type pendingSet struct {
	items []pendingItem
}

func (p *pendingSet) Insert(d link.ScheduleVoice, arrival int64) {
	item := pendingItem{descriptor: d, arrival: arrival}
	i := len(p.items)
	for i > 0 && less(item, p.items[i-1]) {
		i--
	}
	p.items = append(p.items, pendingItem{})
	copy(p.items[i+1:], p.items[i:])
	p.items[i] = item
}

func less(a, b pendingItem) bool {
	if a.descriptor.StartFrame != b.descriptor.StartFrame {
		return a.descriptor.StartFrame < b.descriptor.StartFrame
	}
	return a.arrival < b.arrival
}

// PromoteBefore removes and returns every item whose startFrame is
// strictly less than cutoff, in non-decreasing startFrame order.
func (p *pendingSet) PromoteBefore(cutoff int64) []link.ScheduleVoice {
	n := 0
	for n < len(p.items) && p.items[n].descriptor.StartFrame < cutoff {
		n++
	}
	if n == 0 {
		return nil
	}
	out := make([]link.ScheduleVoice, n)
	for i := 0; i < n; i++ {
		out[i] = p.items[i].descriptor
	}
	p.items = append(p.items[:0], p.items[n:]...)
	return out
}

// RemovePlaybackID drops every pending descriptor for a given playback id
// (used by ClearScheduled/Cleanup).
func (p *pendingSet) RemovePlaybackID(id string) {
	kept := p.items[:0]
	for _, it := range p.items {
		if it.descriptor.PlaybackID != id {
			kept = append(kept, it)
		}
	}
	p.items = kept
}

func (p *pendingSet) Len() int { return len(p.items) }
