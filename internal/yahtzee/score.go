package yahtzee

import (
	"sort"

	"yahtzee-server/internal/dice"
)

// Category identifies one of the 13 scoring slots a player fills
// exactly once per game. The string values double as the wire keys
// used in mementos and API payloads.
type Category string

const (
	Ones   Category = "1"
	Twos   Category = "2"
	Threes Category = "3"
	Fours  Category = "4"
	Fives  Category = "5"
	Sixes  Category = "6"

	Pair          Category = "pair"
	TwoPairs      Category = "two pairs"
	ThreeOfAKind  Category = "three of a kind"
	FourOfAKind   Category = "four of a kind"
	FullHouse     Category = "full house"
	SmallStraight Category = "small straight"
	LargeStraight Category = "large straight"
	Chance        Category = "chance"
	Yahtzee       Category = "yahtzee"
)

// NumberCategories are the six upper-section slots, in target order.
var NumberCategories = []Category{Ones, Twos, Threes, Fours, Fives, Sixes}

// LowerCategories are the seven combination slots plus chance and
// yahtzee, in scorecard order.
var LowerCategories = []Category{
	Pair, TwoPairs, ThreeOfAKind, FourOfAKind,
	FullHouse, SmallStraight, LargeStraight, Chance, Yahtzee,
}

// Categories is the full, authoritative slot set.
var Categories = append(append([]Category{}, NumberCategories...), LowerCategories...)

var numberTargets = map[Category]int{
	Ones: 1, Twos: 2, Threes: 3, Fours: 4, Fives: 5, Sixes: 6,
}

// Valid reports whether c names one of the 13 categories.
func (c Category) Valid() bool {
	if _, ok := numberTargets[c]; ok {
		return true
	}
	for _, lower := range LowerCategories {
		if c == lower {
			return true
		}
	}
	return false
}

// Score maps a roll to its score in the given category. It is total:
// every category yields a score >= 0 for every roll, and unknown
// categories score 0.
func Score(category Category, roll dice.Roll) int {
	if target, ok := numberTargets[category]; ok {
		return countDice(target, roll[:]) * target
	}

	switch category {
	case Pair:
		return ofAKind(2, roll[:]) * 2
	case TwoPairs:
		return twoKinds(2, 2, roll[:])
	case ThreeOfAKind:
		return ofAKind(3, roll[:]) * 3
	case FourOfAKind:
		return ofAKind(4, roll[:]) * 4
	case FullHouse:
		return twoKinds(3, 2, roll[:])
	case SmallStraight:
		return straight(1, 15, roll[:])
	case LargeStraight:
		return straight(2, 20, roll[:])
	case Chance:
		sum := 0
		for _, d := range roll {
			sum += d
		}
		return sum
	case Yahtzee:
		if ofAKind(5, roll[:]) > 0 {
			return 50
		}
		return 0
	}
	return 0
}

func countDice(target int, dice []int) int {
	count := 0
	for _, d := range dice {
		if d == target {
			count++
		}
	}
	return count
}

// ofAKind returns the highest die value appearing at least count
// times, or 0 if no value qualifies.
func ofAKind(count int, dice []int) int {
	for value := 6; value >= 1; value-- {
		if countDice(value, dice) >= count {
			return value
		}
	}
	return 0
}

// twoKinds finds the highest count1-of-a-kind, removes ALL dice of
// that value, then looks for a count2-of-a-kind among the rest. A
// quad therefore never counts as two pairs, and a yahtzee never as a
// full house.
func twoKinds(count1, count2 int, dice []int) int {
	top := ofAKind(count1, dice)
	if top == 0 {
		return 0
	}

	var remaining []int
	for _, d := range dice {
		if d != top {
			remaining = append(remaining, d)
		}
	}

	bottom := ofAKind(count2, remaining)
	if bottom == 0 {
		return 0
	}
	return count1*top + count2*bottom
}

// straight scores a roll that is exactly {from..from+4} once sorted.
func straight(from, score int, dice []int) int {
	sorted := make([]int, len(dice))
	copy(sorted, dice)
	sort.Ints(sorted)

	for i, d := range sorted {
		if d != from+i {
			return 0
		}
	}
	return score
}
