package yahtzee

import (
	"errors"
	"fmt"

	"yahtzee-server/internal/dice"
)

var (
	// ErrNoRerollsLeft is returned when the reroll budget for the
	// current turn is exhausted.
	ErrNoRerollsLeft = errors.New("no rerolls left")

	// ErrWrongPlayerCount is returned when an explicit expected player
	// count disagrees with the players actually supplied.
	ErrWrongPlayerCount = errors.New("wrong number of players")

	// ErrUnknownCategory is returned for a category outside the 13
	// scoring slots.
	ErrUnknownCategory = errors.New("unknown category")
)

// rerollBudget is the number of rerolls available after the automatic
// opening roll of each turn.
const rerollBudget = 2

// Game is the state of one active session: fixed turn order, one
// scorecard per player, the live roll and the reroll budget. It is a
// value type; Reroll and Register return a new Game and leave the
// receiver untouched.
type Game struct {
	players   []string
	scores    []Scorecard
	inTurn    int
	roll      dice.Roll
	rollsLeft int

	roller *dice.Roller
}

// Options configures New. NumberOfPlayers is optional; when non-zero
// it must match len(Players).
type Options struct {
	Players         []string
	NumberOfPlayers int
	Randomizer      dice.Randomizer
}

// New starts a game: shuffles the turn order, rolls the opening dice
// and gives the first player the full reroll budget.
func New(opts Options) (Game, error) {
	if opts.NumberOfPlayers != 0 && len(opts.Players) != opts.NumberOfPlayers {
		return Game{}, fmt.Errorf("%w: got %d, want %d",
			ErrWrongPlayerCount, len(opts.Players), opts.NumberOfPlayers)
	}

	random := opts.Randomizer
	if random == nil {
		random = dice.StandardRandomizer
	}
	roller := dice.NewRoller(random)

	players := dice.Shuffle(random, opts.Players)
	scores := make([]Scorecard, len(players))
	for i := range scores {
		scores[i] = NewScorecard()
	}

	return Game{
		players:   players,
		scores:    scores,
		inTurn:    0,
		roll:      roller.Roll(),
		rollsLeft: rerollBudget,
		roller:    roller,
	}, nil
}

func (g Game) Players() []string {
	players := make([]string, len(g.players))
	copy(players, g.players)
	return players
}

func (g Game) Scores() []Scorecard {
	scores := make([]Scorecard, len(g.scores))
	copy(scores, g.scores)
	return scores
}

func (g Game) InTurn() int { return g.inTurn }

func (g Game) PlayerInTurn() string { return g.players[g.inTurn] }

func (g Game) Roll() dice.Roll { return g.roll }

func (g Game) RollsLeft() int { return g.rollsLeft }

// Totals projects every player's current total score.
func (g Game) Totals() []int {
	totals := make([]int, len(g.scores))
	for i, scorecard := range g.scores {
		totals[i] = scorecard.Total()
	}
	return totals
}

// Finished reports whether every player has registered all 13
// categories.
func (g Game) Finished() bool {
	for _, scorecard := range g.scores {
		if !scorecard.Finished() {
			return false
		}
	}
	return true
}

// Reroll replaces every die not listed in held and spends one reroll.
// The turn does not advance.
func (g Game) Reroll(held []int) (Game, error) {
	if g.rollsLeft == 0 {
		return Game{}, ErrNoRerollsLeft
	}

	rerolled := g
	rerolled.roll = g.roller.Reroll(g.roll, held)
	rerolled.rollsLeft--
	return rerolled, nil
}

// Register scores the current roll into the given category for the
// player in turn, then advances the turn: next player, fresh opening
// roll, full reroll budget. Registering is legal at any point of the
// turn, regardless of rerolls left.
func (g Game) Register(category Category) (Game, error) {
	if !category.Valid() {
		return Game{}, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}

	scorecard, err := g.scores[g.inTurn].Register(category, g.roll)
	if err != nil {
		return Game{}, err
	}

	registered := g
	registered.scores = make([]Scorecard, len(g.scores))
	copy(registered.scores, g.scores)
	registered.scores[g.inTurn] = scorecard

	registered.inTurn = (g.inTurn + 1) % len(g.players)
	registered.roll = g.roller.Roll()
	registered.rollsLeft = rerollBudget
	return registered, nil
}
