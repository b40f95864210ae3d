package dice

import "math/rand"

// A Roll is the five current die values for the player in turn.
// Position matters while rerolling (held dice keep their slot) but
// not for scoring.
type Roll [5]int

// Randomizer returns a uniform value in [0, n). It is injected
// everywhere randomness is consumed so that tests can script outcomes.
type Randomizer func(n int) int

// StandardRandomizer is the production source of randomness.
func StandardRandomizer(n int) int {
	return rand.Intn(n)
}

// Roller turns a Randomizer into die rolls.
type Roller struct {
	random Randomizer
}

func NewRoller(random Randomizer) *Roller {
	return &Roller{random: random}
}

// Die draws a single die value in [1,6].
func (r *Roller) Die() int {
	return r.random(6) + 1
}

// Roll draws five fresh dice.
func (r *Roller) Roll() Roll {
	var roll Roll
	for i := range roll {
		roll[i] = r.Die()
	}
	return roll
}

// Reroll replaces every die whose position is not listed in held with
// a fresh value. Held dice stay in place.
func (r *Roller) Reroll(roll Roll, held []int) Roll {
	isHeld := make(map[int]bool, len(held))
	for _, pos := range held {
		isHeld[pos] = true
	}

	rerolled := roll
	for i := range rerolled {
		if !isHeld[i] {
			rerolled[i] = r.Die()
		}
	}
	return rerolled
}

// Shuffle returns a Fisher-Yates shuffled copy of names. The shuffle
// consumes exactly len(names)-1 values from the randomizer, so a
// scripted randomizer produces a deterministic order.
func Shuffle(random Randomizer, names []string) []string {
	shuffled := make([]string, len(names))
	copy(shuffled, names)

	for i := 0; i < len(shuffled)-1; i++ {
		j := i + random(len(shuffled)-i)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	return shuffled
}
