package chat

import "orderbot/internal/models"

// Transcript is the append-only list of chat turns in arrival order.
type Transcript struct {
	turns []models.ChatTurn
}

// NewTranscript creates a transcript seeded with the given turns
func NewTranscript(seed ...models.ChatTurn) *Transcript {
	t := &Transcript{}
	t.turns = append(t.turns, seed...)
	return t
}

// Append adds a turn at the end
func (t *Transcript) Append(turn models.ChatTurn) {
	t.turns = append(t.turns, turn)
}

// Turns returns a copy of all turns
func (t *Transcript) Turns() []models.ChatTurn {
	turns := make([]models.ChatTurn, len(t.turns))
	copy(turns, t.turns)
	return turns
}

// Len returns the number of turns
func (t *Transcript) Len() int {
	return len(t.turns)
}

// Last returns the most recent turn
func (t *Transcript) Last() (models.ChatTurn, bool) {
	if len(t.turns) == 0 {
		return models.ChatTurn{}, false
	}
	return t.turns[len(t.turns)-1], true
}
