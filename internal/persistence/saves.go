package persistence

import (
	"context"
	"errors"
	"log/slog"

	"github.com/napolitain/nation-builder/internal/models"
)

// Saves reads and writes the game state under one key of a backend.
// Failures are logged; none of them is fatal to a running simulation.
type Saves struct {
	Backend Backend
	Key     string
	Balance *models.Balance
	Logger  *slog.Logger
}

// NewSaves creates a save slot. An empty key uses DefaultKey.
func NewSaves(backend Backend, key string, b *models.Balance, logger *slog.Logger) *Saves {
	if key == "" {
		key = DefaultKey
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Saves{Backend: backend, Key: key, Balance: b, Logger: logger}
}

// Save writes the state. The error is logged and returned.
func (sv *Saves) Save(ctx context.Context, s *models.GameState) error {
	data, err := Encode(s)
	if err == nil {
		err = sv.Backend.Put(ctx, sv.Key, data)
	}
	if err != nil {
		sv.Logger.Error("save failed", "key", sv.Key, "driver", sv.Backend.Driver(), "error", err)
		return err
	}
	sv.Logger.Debug("game saved", "key", sv.Key, "bytes", len(data))
	return nil
}

// Load returns the saved state, or a fresh one and false when there is no usable save
func (sv *Saves) Load(ctx context.Context) (*models.GameState, bool) {
	data, err := sv.Backend.Get(ctx, sv.Key)
	if errors.Is(err, ErrNotFound) {
		return models.NewGameState(sv.Balance), false
	}
	if err != nil {
		sv.Logger.Warn("load failed, starting fresh", "key", sv.Key, "error", err)
		return models.NewGameState(sv.Balance), false
	}

	s, err := Decode(data, sv.Balance)
	if err != nil {
		sv.Logger.Warn("malformed save, starting fresh", "key", sv.Key, "error", err)
		return models.NewGameState(sv.Balance), false
	}
	return s, true
}

// Reset deletes the save. The error is logged and returned.
func (sv *Saves) Reset(ctx context.Context) error {
	if err := sv.Backend.Delete(ctx, sv.Key); err != nil {
		sv.Logger.Error("reset failed", "key", sv.Key, "error", err)
		return err
	}
	return nil
}
