package persistence

import (
	"encoding/json"
	"fmt"

	"github.com/napolitain/nation-builder/internal/models"
)

// Encode serializes a state to its save blob
func Encode(s *models.GameState) ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to encode save: %w", err)
	}
	return data, nil
}

// Decode parses a save blob. Fields absent from the blob keep the values of a fresh
// state, so saves written by older versions load with new fields backfilled.
func Decode(data []byte, b *models.Balance) (*models.GameState, error) {
	s := models.NewGameState(b)
	if err := json.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("failed to parse save: %w", err)
	}
	migrate(s)
	s.Normalize()
	return s, nil
}

// migrate upgrades a decoded state to SchemaVersion.
// Version 0 saves differ only by absent fields, which Decode has already backfilled.
func migrate(s *models.GameState) {
	s.Meta.Version = models.SchemaVersion
}
