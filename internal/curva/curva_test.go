package curva

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var slotPattern = regexp.MustCompile(`^[0-7]\.[0-7]$`)

func TestGeneratePoolIsFullSpace(t *testing.T) {
	pool := GeneratePool()

	require.Len(t, pool, PoolSize)

	seen := make(map[string]struct{}, PoolSize)
	for _, slot := range pool {
		assert.Regexp(t, slotPattern, slot)
		_, dup := seen[slot]
		assert.False(t, dup, "slot %s generated twice", slot)
		seen[slot] = struct{}{}
	}

	// 64 unique values matching the pattern can only be the whole space.
	for home := 0; home <= MaxGoals; home++ {
		for away := 0; away <= MaxGoals; away++ {
			_, ok := seen[Slot(home, away)]
			assert.True(t, ok, "pool missing slot %s", Slot(home, away))
		}
	}
}

func TestGeneratePoolOrderVaries(t *testing.T) {
	// Not a randomness test, just a guard against returning the space in
	// a fixed enumeration order.
	same := 0
	for i := 0; i < 5; i++ {
		a, b := GeneratePool(), GeneratePool()
		identical := true
		for j := range a {
			if a[j] != b[j] {
				identical = false
				break
			}
		}
		if identical {
			same++
		}
	}
	assert.Less(t, same, 5)
}

func TestDrawWithoutReplacement(t *testing.T) {
	pool := GeneratePool()

	drawn, remaining := Draw(pool, 10)

	require.Len(t, drawn, 10)
	require.Len(t, remaining, PoolSize-10)

	// Disjoint and conserved.
	inRemaining := make(map[string]struct{}, len(remaining))
	for _, s := range remaining {
		inRemaining[s] = struct{}{}
	}
	for _, s := range drawn {
		_, overlap := inRemaining[s]
		assert.False(t, overlap, "slot %s in both drawn and remaining", s)
	}

	unique := make(map[string]struct{})
	for _, s := range append(append([]string(nil), drawn...), remaining...) {
		unique[s] = struct{}{}
	}
	assert.Len(t, unique, PoolSize)
}

func TestDrawMoreThanAvailable(t *testing.T) {
	available := []string{"1.1", "2.2", "3.3"}

	drawn, remaining := Draw(available, 10)

	assert.ElementsMatch(t, available, drawn)
	assert.Empty(t, remaining)
	// Input untouched.
	assert.Equal(t, []string{"1.1", "2.2", "3.3"}, available)
}

func TestDrawZero(t *testing.T) {
	drawn, remaining := Draw([]string{"0.0", "1.0"}, 0)
	assert.Empty(t, drawn)
	assert.Len(t, remaining, 2)
}

func TestOutOfRange(t *testing.T) {
	assert.False(t, OutOfRange(0, 0))
	assert.False(t, OutOfRange(7, 7))
	assert.True(t, OutOfRange(8, 0))
	assert.True(t, OutOfRange(0, 8))
	assert.True(t, OutOfRange(12, 3))
}

func TestWins(t *testing.T) {
	assert.True(t, Wins([]string{"3.5", "1.1"}, 3, 5))
	assert.False(t, Wins([]string{"2.2", "4.4"}, 3, 5))
	assert.False(t, Wins([]string{"5.3"}, 3, 5), "slot order matters")

	// Out-of-range scores never match, whatever was purchased.
	assert.False(t, Wins([]string{"7.7", "0.0"}, 8, 0))
}
