package server

import "yahtzee-server/internal/yahtzee"

type ErrorMessage struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type CreatePendingRequest struct {
	Creator         string `json:"creator"`
	NumberOfPlayers int    `json:"number_of_players"`
}

type JoinRequest struct {
	Player string `json:"player"`
}

// ActionRequest is a player move against an active game. Type is
// "reroll" (with Held) or "register" (with Slot).
type ActionRequest struct {
	Type   string           `json:"type"`
	Held   []int            `json:"held,omitempty"`
	Slot   yahtzee.Category `json:"slot,omitempty"`
	Player string           `json:"player"`
}

type HealthResponse struct {
	Status string `json:"status"`
	Store  string `json:"store"`
}
