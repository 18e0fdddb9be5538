// Package vmsim simulates demand-paged virtual memory.
//
// A simulation models a fixed number of physical frames shared by every
// process, a small translation-lookaside buffer (TLB), and one of six
// page-replacement policies. Each reference in a trace is folded into the
// simulation state and produces an immutable [Step]; the ordered steps form a
// [Timeline] which, given the same [Config] and trace, is always identical.
//
// The following is a summary (intended for maintainers)
// of the model and the rules every step must respect.
//
// Glossary and invariants:
//
//   - Frame
//
//     A physical slot capable of holding one virtual page.
//     A frame whose Page is [None] is free.
//
//   - Page table
//
//     Not stored. A process's page table is derived from the frames:
//     page V of process P is valid iff some frame holds (V, P).
//
//   - TLB
//
//     At most TLBSize (page, frame, process) triples. Eviction is strict FIFO
//     and is unrelated to the frame replacement policy.
//     Every entry is backed by an occupied frame holding the same (page, process);
//     entries are dropped whenever their frame is repurposed.
//
//   - Victim
//
//     The frame chosen by the active [Policy] when a fault finds no free frame.
//     Candidates are all occupied frames, regardless of which process owns them.
//
//   - Working set
//
//     Distinct pages among the trailing WorkingSetWindow references.
//
//   - Thrashing
//
//     More than half of all references so far have faulted,
//     after at least seven references.
//
// Counts:
//
//   - PageFaults + PageHits == Step.Index + 1.
//
//     Every reference is either a fault or a hit.
//     A TLB hit is also a page hit.
//
//   - DiskReads == PageFaults.
//
//     Disk traffic is counted, never performed.
//
//   - DiskWrites counts evictions of dirty frames.
//
//     Only references tagged as writes dirty a frame.
//
// Policies:
//
//   - fifo: oldest load time.
//   - lru: oldest last access.
//   - optimal: farthest next use in the remaining trace; never used again wins.
//   - clock: second chance from a persistent hand.
//   - lfu: fewest accesses.
//   - mfu: most accesses.
//
// Ties always go to the lowest frame index.
package vmsim
