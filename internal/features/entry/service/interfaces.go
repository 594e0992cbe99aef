package service

import (
	"context"

	"giveaway-entry-backend/internal/features/entry/models"
)

type EntryService interface {
	// Submit validates req, checks for an existing entry and stores a
	// normalized one. Failures are *errors.AppError.
	Submit(ctx context.Context, req *models.SubmitRequest) (*models.Entry, error)
	// Health pings the entry store.
	Health(ctx context.Context) error
}
