// Package model contains core data types for the project.
package model

import (
	"errors"
	"fmt"
)

// QueryServerState is the API function that returns the current game state.
const QueryServerState = "QueryServerState"

// ErrMissingField is returned when a response lacks a required field.
var ErrMissingField = errors.New("missing field")

// GameState holds the values read from the game server in one poll.
type GameState struct {
	NumConnectedPlayers uint64  `json:"numConnectedPlayers"` // Players currently connected.
	TechTier            uint64  `json:"techTier"`            // Current tech tier.
	TotalGameDuration   uint64  `json:"totalGameDuration"`   // Total game duration.
	AverageTickRate     float64 `json:"averageTickRate"`     // Average server tick rate.
}

// QueryRequest is the body sent to the server API.
type QueryRequest struct {
	Function string `json:"function"`
}

// ServerResponse mirrors the API reply. Fields are pointers so that a
// missing value can be told apart from a zero one.
type ServerResponse struct {
	Data *ServerData `json:"data"`
}

// ServerData is the "data" object of ServerResponse.
type ServerData struct {
	ServerGameState *ServerGameState `json:"serverGameState"`
}

// ServerGameState is the wire form of GameState.
type ServerGameState struct {
	NumConnectedPlayers *uint64  `json:"numConnectedPlayers"`
	TechTier            *uint64  `json:"techTier"`
	TotalGameDuration   *uint64  `json:"totalGameDuration"`
	AverageTickRate     *float64 `json:"averageTickRate"`
}

// GameState returns the decoded state or an error wrapping ErrMissingField
// naming the first absent field.
func (r *ServerResponse) GameState() (*GameState, error) {
	if r.Data == nil {
		return nil, fmt.Errorf("%w: data", ErrMissingField)
	}
	s := r.Data.ServerGameState
	if s == nil {
		return nil, fmt.Errorf("%w: data.serverGameState", ErrMissingField)
	}

	switch {
	case s.NumConnectedPlayers == nil:
		return nil, fmt.Errorf("%w: numConnectedPlayers", ErrMissingField)
	case s.TechTier == nil:
		return nil, fmt.Errorf("%w: techTier", ErrMissingField)
	case s.TotalGameDuration == nil:
		return nil, fmt.Errorf("%w: totalGameDuration", ErrMissingField)
	case s.AverageTickRate == nil:
		return nil, fmt.Errorf("%w: averageTickRate", ErrMissingField)
	}

	return &GameState{
		NumConnectedPlayers: *s.NumConnectedPlayers,
		TechTier:            *s.TechTier,
		TotalGameDuration:   *s.TotalGameDuration,
		AverageTickRate:     *s.AverageTickRate,
	}, nil
}
