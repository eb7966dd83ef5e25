// Package curva holds the pure slot-pool logic: generating the 64-slot
// score space, drawing slots without replacement and classifying a
// purchased slot set against a final score. It has no storage or
// transport dependencies so the invariants can be tested in isolation.
package curva

import (
	"fmt"
	"math/rand"
)

// PoolSize is the number of distinct score slots in one curva: every
// "X.Y" combination with X,Y in [0,7].
const PoolSize = 64

// MaxGoals is the highest goal count a slot can represent per side.
const MaxGoals = 7

// Slot formats the canonical slot string for a score pair.
func Slot(home, away int) string {
	return fmt.Sprintf("%d.%d", home, away)
}

// GeneratePool produces the full 64-slot space in randomized order.
//
// Slots are drawn by rejection sampling: random pairs in [0,7] are
// proposed and duplicates retried until all 64 unique values are
// collected. Since the target count equals the size of the space, the
// result is always the entire space, only its order is random.
func GeneratePool() []string {
	seen := make(map[string]struct{}, PoolSize)
	pool := make([]string, 0, PoolSize)

	for len(pool) < PoolSize {
		candidate := Slot(rand.Intn(MaxGoals+1), rand.Intn(MaxGoals+1))
		if _, dup := seen[candidate]; dup {
			continue
		}
		seen[candidate] = struct{}{}
		pool = append(pool, candidate)
	}

	return pool
}

// Draw picks n slots uniformly at random without replacement from
// available. It returns the drawn slots and the remaining available
// slots. If n exceeds the available count, everything is drawn.
// The input slice is not modified.
func Draw(available []string, n int) (drawn, remaining []string) {
	if n >= len(available) {
		drawn = append(drawn, available...)
		return drawn, []string{}
	}

	rest := append([]string(nil), available...)
	drawn = make([]string, 0, n)
	for i := 0; i < n; i++ {
		idx := rand.Intn(len(rest))
		drawn = append(drawn, rest[idx])
		rest[idx] = rest[len(rest)-1]
		rest = rest[:len(rest)-1]
	}

	return drawn, rest
}

// OutOfRange reports whether a final score falls outside the
// representable slot space. No ticket can win such a match: the house
// keeps all proceeds.
func OutOfRange(home, away int) bool {
	return home > MaxGoals || away > MaxGoals
}

// Wins reports whether a ticket's purchased slots contain the winning
// slot for the given final score. A score outside the slot space never
// matches, regardless of what was purchased.
func Wins(purchased []string, home, away int) bool {
	if OutOfRange(home, away) {
		return false
	}
	winning := Slot(home, away)
	for _, s := range purchased {
		if s == winning {
			return true
		}
	}
	return false
}
