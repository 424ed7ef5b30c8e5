package index

import "sync/atomic"

// Holder hands the currently served shard to readers and swaps in newly
// built shards atomically. Readers load a shard once per call and keep that
// snapshot to completion; Publish never blocks them and they never observe
// a partially built shard. The zero Holder is ready to use and holds
// nothing.
type Holder struct {
	current atomic.Pointer[Shard]
}

// Current returns the published shard, or ErrNoShard if no build has ever
// been published.
func (h *Holder) Current() (*Shard, error) {
	shard := h.current.Load()
	if shard == nil {
		return nil, ErrNoShard
	}
	return shard, nil
}

// Publish makes shard the one served to new readers. The previous shard
// stays valid for readers still holding it.
func (h *Holder) Publish(shard *Shard) error {
	if shard == nil {
		return ErrNilShard
	}
	h.current.Store(shard)
	return nil
}

// Loaded reports whether any shard has been published.
func (h *Holder) Loaded() bool {
	return h.current.Load() != nil
}
