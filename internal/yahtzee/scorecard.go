package yahtzee

import (
	"errors"

	"yahtzee-server/internal/dice"
)

// ErrAlreadyRegistered is returned when a category that already holds
// a score is registered a second time. A registered score is immutable
// for the rest of the game.
var ErrAlreadyRegistered = errors.New("category already registered")

// Scorecard maps categories to registered scores. An absent key means
// the slot has not been played yet; a present key, even with value 0,
// is final. The map form doubles as the scorecard memento and
// marshals directly to the wire format.
type Scorecard map[Category]int

func NewScorecard() Scorecard {
	return Scorecard{}
}

// Score returns the registered score for a category and whether the
// category has been played.
func (s Scorecard) Score(category Category) (int, bool) {
	score, ok := s[category]
	return score, ok
}

func (s Scorecard) Registered(category Category) bool {
	_, ok := s[category]
	return ok
}

// Register returns a copy of the scorecard with the roll scored into
// the given category. The receiver is not modified.
func (s Scorecard) Register(category Category, roll dice.Roll) (Scorecard, error) {
	if s.Registered(category) {
		return nil, ErrAlreadyRegistered
	}

	registered := s.clone()
	registered[category] = Score(category, roll)
	return registered, nil
}

// Sum totals the six number categories.
func (s Scorecard) Sum() int {
	sum := 0
	for _, category := range NumberCategories {
		sum += s[category]
	}
	return sum
}

// Bonus is 50 once the number categories reach 63, otherwise 0.
func (s Scorecard) Bonus() int {
	if s.Sum() >= 63 {
		return 50
	}
	return 0
}

// Total is sum + bonus + every lower-section score.
func (s Scorecard) Total() int {
	total := s.Sum() + s.Bonus()
	for _, category := range LowerCategories {
		total += s[category]
	}
	return total
}

// Finished reports whether all 13 categories are registered.
func (s Scorecard) Finished() bool {
	return len(s) == len(Categories)
}

func (s Scorecard) clone() Scorecard {
	cloned := make(Scorecard, len(s)+1)
	for category, score := range s {
		cloned[category] = score
	}
	return cloned
}
