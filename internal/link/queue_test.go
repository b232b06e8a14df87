package link

import "testing"

func TestCommandQueueDropsWhenFull(t *testing.T) {
	q := NewCommandQueue(2)
	if !q.Send(ClearScheduled{PlaybackID: "a"}) {
		t.Fatal("expected first send to succeed")
	}
	if !q.Send(ClearScheduled{PlaybackID: "b"}) {
		t.Fatal("expected second send to succeed")
	}
	if q.Send(ClearScheduled{PlaybackID: "c"}) {
		t.Fatal("expected third send to be dropped once the queue is full")
	}
}

func TestCommandQueueDrainPreservesOrder(t *testing.T) {
	q := NewCommandQueue(4)
	q.Send(ClearScheduled{PlaybackID: "1"})
	q.Send(ClearScheduled{PlaybackID: "2"})
	q.Send(ClearScheduled{PlaybackID: "3"})
	var got []string
	q.Drain(func(c Command) {
		got = append(got, c.(ClearScheduled).PlaybackID)
	})
	want := []string{"1", "2", "3"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("drain order = %v, want %v", got, want)
		}
	}
}

func TestFeedbackQueueTryRecvEmpty(t *testing.T) {
	q := NewFeedbackQueue(1)
	if _, ok := q.TryRecv(); ok {
		t.Fatal("expected TryRecv on an empty queue to report false")
	}
	q.Send(PlaybackStopped{})
	f, ok := q.TryRecv()
	if !ok {
		t.Fatal("expected TryRecv to return the sent feedback")
	}
	if _, isStopped := f.(PlaybackStopped); !isStopped {
		t.Errorf("expected PlaybackStopped, got %T", f)
	}
}

func TestChunkReassemblerReassemblesInOrder(t *testing.T) {
	r := NewChunkReassembler()
	meta := SampleMeta{SampleRate: 44100}
	pcm, done := r.Add(SampleChunk{Req: "r1", Meta: meta, TotalSize: 4, ChunkOffset: 0, Data: []float32{1, 2}})
	if done {
		t.Fatal("expected not done after first chunk")
	}
	if pcm != nil {
		t.Fatal("expected nil result before the last chunk")
	}
	pcm, done = r.Add(SampleChunk{Req: "r1", TotalSize: 4, ChunkOffset: 2, Data: []float32{3, 4}, IsLastChunk: true})
	if !done {
		t.Fatal("expected done after the last chunk")
	}
	want := []float32{1, 2, 3, 4}
	for i := range want {
		if pcm[i] != want[i] {
			t.Fatalf("reassembled PCM = %v, want %v", pcm, want)
		}
	}
}

func TestChunkReassemblerTracksIndependentRequests(t *testing.T) {
	r := NewChunkReassembler()
	r.Add(SampleChunk{Req: "a", TotalSize: 2, ChunkOffset: 0, Data: []float32{9}})
	pcm, done := r.Add(SampleChunk{Req: "b", TotalSize: 1, ChunkOffset: 0, Data: []float32{5}, IsLastChunk: true})
	if !done || len(pcm) != 1 || pcm[0] != 5 {
		t.Fatalf("expected request b to complete independently, got pcm=%v done=%v", pcm, done)
	}
}
