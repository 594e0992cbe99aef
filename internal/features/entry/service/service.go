package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	apperrors "giveaway-entry-backend/internal/common/errors"
	"giveaway-entry-backend/internal/common/validation"
	"giveaway-entry-backend/internal/features/entry/models"
	"giveaway-entry-backend/internal/features/entry/repository"
)

type Options struct {
	// StoreTimeout bounds each store call; zero means the caller's context only.
	StoreTimeout time.Duration
	// NormalizedDuplicateCheck looks duplicates up by the stored (trimmed,
	// lower-cased) email instead of the email as submitted.
	NormalizedDuplicateCheck bool
	// Now stamps created_at. Defaults to time.Now.
	Now func() time.Time
}

type entryService struct {
	repo repository.EntryRepository
	opts Options
}

func NewEntryService(repo repository.EntryRepository, opts Options) EntryService {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &entryService{
		repo: repo,
		opts: opts,
	}
}

func (s *entryService) Submit(ctx context.Context, req *models.SubmitRequest) (*models.Entry, error) {
	if req == nil {
		return nil, apperrors.NewInternalError(errors.New("empty submit request"))
	}

	if validation.HasEmpty(req.GiveawayID, req.Name, req.Email, req.Phone) {
		return nil, apperrors.NewValidationError(apperrors.MsgMissingRequiredFields)
	}
	if !validation.IsValidEmail(req.Email) {
		return nil, apperrors.NewValidationError(apperrors.MsgInvalidEmail)
	}
	if !validation.IsValidPhone(req.Phone) {
		return nil, apperrors.NewValidationError(apperrors.MsgInvalidPhone)
	}

	if len(req.InvalidFields) > 0 {
		return nil, apperrors.NewInternalError(
			fmt.Errorf("fields of unsupported type: %s", strings.Join(req.InvalidFields, ", ")),
		).WithDetail("operation", "normalize")
	}

	entry := normalize(req, s.opts.Now())

	lookupEmail := req.Email
	if s.opts.NormalizedDuplicateCheck {
		lookupEmail = entry.Email
	}

	existing, err := s.findOne(ctx, req.GiveawayID, lookupEmail)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NewInternalError(err).
			WithDetail("operation", "find_one")
	}
	if existing != nil {
		return nil, apperrors.NewAlreadyRegisteredError(req.GiveawayID)
	}

	stored, err := s.insert(ctx, entry)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			return nil, apperrors.NewAlreadyRegisteredError(req.GiveawayID)
		}
		return nil, apperrors.NewDatabaseError("insert", err).
			WithDetail("giveaway_id", req.GiveawayID)
	}

	return stored, nil
}

func (s *entryService) Health(ctx context.Context) error {
	ctx, cancel := s.storeContext(ctx)
	defer cancel()
	return s.repo.Ping(ctx)
}

func (s *entryService) findOne(ctx context.Context, giveawayID, email string) (*models.Entry, error) {
	ctx, cancel := s.storeContext(ctx)
	defer cancel()
	return s.repo.FindOne(ctx, giveawayID, email)
}

func (s *entryService) insert(ctx context.Context, entry *models.Entry) (*models.Entry, error) {
	ctx, cancel := s.storeContext(ctx)
	defer cancel()
	return s.repo.Insert(ctx, entry)
}

func (s *entryService) storeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.opts.StoreTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.opts.StoreTimeout)
}

// normalize builds the record to persist. The title is kept as given.
func normalize(req *models.SubmitRequest, now time.Time) *models.Entry {
	entry := &models.Entry{
		GiveawayID:    req.GiveawayID,
		GiveawayTitle: req.GiveawayTitle,
		Name:          strings.TrimSpace(req.Name),
		Email:         strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:         strings.TrimSpace(req.Phone),
		CreatedAt:     now.UTC(),
	}
	if req.Shared != nil {
		entry.Shared = *req.Shared
	}
	if req.ShareCount != nil {
		entry.ShareCount = *req.ShareCount
	}
	return entry
}
