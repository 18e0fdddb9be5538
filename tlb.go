package vmsim

import (
	"fmt"

	"github.com/hashicorp/golang-lru/v2/simplelru"
)

type (
	// TLBEntry maps a process's page to the frame holding it.
	TLBEntry struct {
		Page    int `json:"page"`
		Frame   int `json:"frame"`
		Process int `json:"ownerProcessId"`
	}
	tlbKey struct{ page, process int }
	// TLB is a bounded, FIFO evicted, translation cache.
	// Lookups never reorder entries, so the
	// oldest inserted entry is always evicted first.
	// Constructed by [NewTLB].
	TLB struct {
		entries *simplelru.LRU[tlbKey, int]
		size    int
	}
)

// NewTLB creates an empty TLB holding at most size entries.
func NewTLB(size int) (*TLB, error) {
	if size < MinTLBSize || size > MaxTLBSize {
		return nil, rangeError(ErrInvalidConfig,
			"tlbSize", size, MinTLBSize, MaxTLBSize)
	}
	entries, err := simplelru.NewLRU[tlbKey, int](size, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return &TLB{entries: entries, size: size}, nil
}

// Lookup returns the frame mapped to (page, process)
// and the entry's slot (0 is the oldest entry).
func (t *TLB) Lookup(page, process int) (frame, slot int, ok bool) {
	key := tlbKey{page: page, process: process}
	// Peek, not Get; Get would refresh recency and turn FIFO into LRU.
	if frame, ok = t.entries.Peek(key); !ok {
		return None, None, false
	}
	for i, k := range t.entries.Keys() {
		if k == key {
			slot = i
			break
		}
	}
	return frame, slot, true
}

// Insert maps (page, process) to frame,
// evicting the oldest entry when full.
func (t *TLB) Insert(page, frame, process int) {
	key := tlbKey{page: page, process: process}
	if t.entries.Contains(key) {
		t.entries.Remove(key)
	}
	t.entries.Add(key, frame)
}

// EvictFrame removes every entry that references frame.
func (t *TLB) EvictFrame(frame int) int {
	var evicted int
	for _, key := range t.entries.Keys() {
		if mapped, _ := t.entries.Peek(key); mapped == frame {
			t.entries.Remove(key)
			evicted++
		}
	}
	return evicted
}

// Flush removes every entry.
func (t *TLB) Flush() { t.entries.Purge() }

// Len returns the number of entries.
func (t *TLB) Len() int { return t.entries.Len() }

// Size returns the entry limit.
func (t *TLB) Size() int { return t.size }

// Entries returns a copy of the entries, oldest first.
func (t *TLB) Entries() []TLBEntry {
	keys := t.entries.Keys()
	entries := make([]TLBEntry, 0, len(keys))
	for _, key := range keys {
		frame, _ := t.entries.Peek(key)
		entries = append(entries, TLBEntry{
			Page:    key.page,
			Frame:   frame,
			Process: key.process,
		})
	}
	return entries
}

// Clone returns an independent TLB with the same entries in the same order.
func (t *TLB) Clone() *TLB {
	clone, err := NewTLB(t.size)
	if err != nil {
		panic(err) // Size was validated when t was constructed.
	}
	for _, entry := range t.Entries() {
		clone.entries.Add(
			tlbKey{page: entry.Page, process: entry.Process},
			entry.Frame,
		)
	}
	return clone
}
