package vmsim

import (
	"fmt"
	"math"
	"strings"
)

// Policy selects which occupied frame is evicted
// when a fault finds no free frame.
type Policy int

// The supported policies, in canonical order.
const (
	FIFO Policy = iota
	LRU
	Optimal
	Clock
	LFU
	MFU
	policyCount
)

var policyNames = [...]string{
	FIFO:    "fifo",
	LRU:     "lru",
	Optimal: "optimal",
	Clock:   "clock",
	LFU:     "lfu",
	MFU:     "mfu",
}

// Policies returns every policy in canonical order.
func Policies() []Policy {
	policies := make([]Policy, policyCount)
	for i := range policies {
		policies[i] = Policy(i)
	}
	return policies
}

// ParsePolicy returns the policy named by name (case insensitive).
func ParsePolicy(name string) (Policy, error) {
	for i, policyName := range policyNames {
		if strings.EqualFold(name, policyName) {
			return Policy(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPolicy, name)
}

// Valid reports whether p is one of the supported policies.
func (p Policy) Valid() bool { return p >= 0 && p < policyCount }

func (p Policy) String() string {
	if !p.Valid() {
		return fmt.Sprintf("Policy(%d)", int(p))
	}
	return policyNames[p]
}

func (p Policy) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownPolicy, int(p))
	}
	return []byte(p.String()), nil
}

func (p *Policy) UnmarshalText(text []byte) error {
	policy, err := ParsePolicy(string(text))
	if err != nil {
		return err
	}
	*p = policy
	return nil
}

// Selection is the outcome of [SelectVictim].
type Selection struct {
	// Frame is the victim's frame ID.
	Frame int
	// Hand is the clock hand position to use for the next selection.
	Hand int
	// Cleared lists frames whose referenced bit
	// must be cleared (clock only), in sweep order.
	Cleared []int
}

// SelectVictim chooses a victim among the occupied frames.
// frames must contain at least one occupied frame.
// hand is the clock hand (ignored by other policies).
// future and position are used by [Optimal] to find the next use
// of each page after the reference at position;
// future may be nil for other policies.
//
// SelectVictim does not modify frames.
func SelectVictim(
	frames FrameTable, policy Policy,
	hand int, future *Lookahead, position int,
) Selection {
	if debugging {
		assert(frames.Occupied() > 0,
			"victim selection without occupied frames")
	}
	selection := Selection{Hand: hand}
	switch policy {
	case FIFO:
		selection.Frame = minFrame(frames, func(f Frame) int { return f.LoadTime })
	case LRU:
		selection.Frame = minFrame(frames, func(f Frame) int { return f.LastAccess })
	case LFU:
		selection.Frame = minFrame(frames, func(f Frame) int { return f.AccessCount })
	case MFU:
		selection.Frame = minFrame(frames, func(f Frame) int { return -f.AccessCount })
	case Optimal:
		selection.Frame = farthestUse(frames, future, position)
	case Clock:
		selection = secondChance(frames, hand)
	default:
		panic(fmt.Sprintf("unhandled policy: %v", policy))
	}
	return selection
}

// minFrame returns the first occupied frame with the lowest key.
func minFrame(frames FrameTable, key func(Frame) int) int {
	var (
		victim = None
		lowest int
	)
	for frame := range frames.Resident() {
		if k := key(frame); victim == None || k < lowest {
			victim, lowest = frame.ID, k
		}
	}
	return victim
}

func farthestUse(frames FrameTable, future *Lookahead, position int) int {
	var (
		victim   = None
		farthest int
	)
	for frame := range frames.Resident() {
		next := math.MaxInt
		if future != nil {
			next = future.NextUse(frame.Page, position)
		}
		if victim == None || next > farthest {
			victim, farthest = frame.ID, next
		}
	}
	return victim
}

func secondChance(frames FrameTable, hand int) Selection {
	var (
		count      = len(frames)
		referenced = make([]bool, count)
		selection  Selection
	)
	for i, frame := range frames {
		referenced[i] = frame.Referenced
	}
	hand %= count
	// Two revolutions suffice:
	// the first clears every referenced bit it passes.
	for range 2 * count {
		frame := frames[hand]
		switch {
		case frame.Free():
		case referenced[hand]:
			referenced[hand] = false
			selection.Cleared = append(selection.Cleared, hand)
		default:
			selection.Frame = hand
			selection.Hand = (hand + 1) % count
			return selection
		}
		hand = (hand + 1) % count
	}
	panic("clock sweep found no occupied frame")
}
