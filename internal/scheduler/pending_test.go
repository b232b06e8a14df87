package scheduler

import (
	"testing"

	"pgregory.net/rapid"

	"github.com/cbegin/voxrender/internal/link"
)

func TestPendingSetPromotesInNonDecreasingStartFrameOrder(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		var p pendingSet
		n := rapid.IntRange(0, 30).Draw(rt, "n")
		for i := 0; i < n; i++ {
			start := rapid.Int64Range(0, 1000).Draw(rt, "start")
			p.Insert(link.ScheduleVoice{StartFrame: start}, int64(i))
		}
		out := p.PromoteBefore(1001)
		for i := 1; i < len(out); i++ {
			if out[i].StartFrame < out[i-1].StartFrame {
				rt.Fatalf("promotion order violated at %d: %d < %d", i, out[i].StartFrame, out[i-1].StartFrame)
			}
		}
		if len(out) != n {
			rt.Fatalf("expected all %d items promoted, got %d", n, len(out))
		}
	})
}

func TestPendingSetTiesBreakByArrivalOrder(t *testing.T) {
	var p pendingSet
	p.Insert(link.ScheduleVoice{StartFrame: 10, PlaybackID: "second"}, 2)
	p.Insert(link.ScheduleVoice{StartFrame: 10, PlaybackID: "first"}, 1)
	out := p.PromoteBefore(11)
	if len(out) != 2 || out[0].PlaybackID != "first" || out[1].PlaybackID != "second" {
		t.Fatalf("expected FIFO tie-break, got %+v", out)
	}
}

func TestPendingSetPromoteBeforeLeavesLaterItemsPending(t *testing.T) {
	var p pendingSet
	p.Insert(link.ScheduleVoice{StartFrame: 5}, 1)
	p.Insert(link.ScheduleVoice{StartFrame: 500}, 2)
	out := p.PromoteBefore(10)
	if len(out) != 1 {
		t.Fatalf("expected exactly one item promoted before cutoff 10, got %d", len(out))
	}
	if p.Len() != 1 {
		t.Fatalf("expected one item left pending, got %d", p.Len())
	}
}

func TestPendingSetRemovePlaybackID(t *testing.T) {
	var p pendingSet
	p.Insert(link.ScheduleVoice{StartFrame: 1, PlaybackID: "a"}, 1)
	p.Insert(link.ScheduleVoice{StartFrame: 2, PlaybackID: "b"}, 2)
	p.RemovePlaybackID("a")
	if p.Len() != 1 {
		t.Fatalf("expected one item remaining, got %d", p.Len())
	}
	out := p.PromoteBefore(1000)
	if out[0].PlaybackID != "b" {
		t.Errorf("expected remaining item to be 'b', got %q", out[0].PlaybackID)
	}
}
