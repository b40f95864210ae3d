package yahtzee

import "yahtzee-server/internal/dice"

// Memento is the serializable snapshot of a game, used for
// persistence and broadcast. The JSON keys are the wire format stores
// and clients rely on.
type Memento struct {
	Players   []string    `json:"players"`
	Scores    []Scorecard `json:"scores"`
	InTurn    int         `json:"playerInTurn"`
	Roll      dice.Roll   `json:"roll"`
	RollsLeft int         `json:"rolls_left"`
}

// Memento snapshots every field of the game.
func (g Game) Memento() Memento {
	return Memento{
		Players:   g.Players(),
		Scores:    g.Scores(),
		InTurn:    g.inTurn,
		Roll:      g.roll,
		RollsLeft: g.rollsLeft,
	}
}

// FromMemento rebuilds a game from a snapshot. The reroll budget is
// restored to its full value rather than the stored one: the stored
// counter is not trusted across restore boundaries. This is
// longstanding observable behavior that clients depend on; see
// DESIGN.md before changing it.
func FromMemento(m Memento, random dice.Randomizer) Game {
	if random == nil {
		random = dice.StandardRandomizer
	}

	players := make([]string, len(m.Players))
	copy(players, m.Players)

	scores := make([]Scorecard, len(m.Scores))
	for i, scorecard := range m.Scores {
		scores[i] = scorecard.clone()
	}

	return Game{
		players:   players,
		scores:    scores,
		inTurn:    m.InTurn,
		roll:      m.Roll,
		rollsLeft: rerollBudget,
		roller:    dice.NewRoller(random),
	}
}
