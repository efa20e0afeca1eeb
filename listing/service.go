package listing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"refind/apperr"
	"refind/db"
	"refind/money"
	"refind/outbox"
)

const maxImageRefs = 10

type OutboxWriter interface {
	Enqueue(ctx context.Context, tx pgx.Tx, topic string, payload map[string]any) error
}

// Service owns the listing lifecycle: creation, moderation, reads and retraction.
// The transition to sold belongs to settlement and is not exposed here.
type Service struct {
	pool        db.Pool
	repo        Repository
	outbox      OutboxWriter
	idGenerator func() string
	now         func() time.Time
}

type CreateParams struct {
	SellerID       string
	Title          string
	Description    string
	Type           Type
	Price          *money.Cents
	StartingBid    *money.Cents
	AuctionEndTime *time.Time
	ImageRefs      []string
}

type RetractParams struct {
	ListingID   string
	RequesterID string
	IsAdmin     bool
}

func NewService(pool db.Pool, repo Repository, outbox OutboxWriter) *Service {
	if repo == nil {
		repo = NewRepository(pool)
	}
	return &Service{
		pool:        pool,
		repo:        repo,
		outbox:      outbox,
		idGenerator: func() string { return uuid.NewString() },
		now:         time.Now,
	}
}

func (s *Service) WithIDGenerator(gen func() string) *Service {
	s.idGenerator = gen
	return s
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) Create(ctx context.Context, params CreateParams) (Listing, error) {
	if err := s.validateCreate(&params); err != nil {
		return Listing{}, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return Listing{}, fmt.Errorf("listing: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	created, err := s.repo.Create(ctx, tx, Listing{
		ID:             s.idGenerator(),
		SellerID:       params.SellerID,
		Title:          params.Title,
		Description:    params.Description,
		Type:           params.Type,
		Price:          params.Price,
		StartingBid:    params.StartingBid,
		AuctionEndTime: params.AuctionEndTime,
		Status:         StatusPending,
		ImageRefs:      params.ImageRefs,
	})
	if err != nil {
		return Listing{}, err
	}

	if s.outbox != nil {
		payload := map[string]any{
			"listing_id":   created.ID,
			"seller_id":    created.SellerID,
			"listing_type": created.Type,
			"status":       created.Status,
		}
		if err := s.outbox.Enqueue(ctx, tx, outbox.TopicListingCreated, payload); err != nil {
			return Listing{}, fmt.Errorf("listing: enqueue outbox: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return Listing{}, fmt.Errorf("listing: commit tx: %w", err)
	}
	return created, nil
}

func (s *Service) validateCreate(params *CreateParams) error {
	if params.SellerID == "" {
		return apperr.Validation("seller id is required")
	}
	params.Title = strings.TrimSpace(params.Title)
	params.Description = strings.TrimSpace(params.Description)
	if params.Title == "" || params.Description == "" {
		return apperr.Validation("Title, description, and listing type are required")
	}
	if !params.Type.Valid() {
		return apperr.Validation("unknown listing type %q", params.Type).With("listing_type", params.Type)
	}

	switch params.Type {
	case TypeFixedPrice:
		if params.Price == nil {
			return apperr.Validation("Price is required for fixed-price listings")
		}
		if *params.Price <= 0 {
			return apperr.Validation("Price must be greater than 0").With("price", params.Price.String())
		}
		if params.StartingBid != nil || params.AuctionEndTime != nil {
			return apperr.Validation("fixed-price listings cannot have a starting bid or auction end time")
		}
	case TypeAuction:
		if params.StartingBid == nil || params.AuctionEndTime == nil {
			return apperr.Validation("Starting bid and auction end time are required for auctions")
		}
		if *params.StartingBid < 0 {
			return apperr.Validation("Starting bid cannot be negative").With("starting_bid", params.StartingBid.String())
		}
		if !params.AuctionEndTime.After(s.now()) {
			return apperr.Validation("Auction end time must be in the future").
				With("auction_end_time", params.AuctionEndTime.UTC().Format(time.RFC3339))
		}
		if params.Price != nil {
			return apperr.Validation("auction listings cannot have a fixed price")
		}
	}

	if len(params.ImageRefs) > maxImageRefs {
		return apperr.Validation("at most %d images are allowed", maxImageRefs)
	}
	for _, ref := range params.ImageRefs {
		if strings.TrimSpace(ref) == "" {
			return apperr.Validation("image references cannot be empty")
		}
	}
	return nil
}

// Moderate approves or rejects a pending listing. The status check runs under
// the row lock, so a listing settled or moderated concurrently is never
// re-moderated.
func (s *Service) Moderate(ctx context.Context, listingID string, decision Decision) (Listing, error) {
	next, ok := decision.Target()
	if !ok {
		return Listing{}, apperr.Validation("decision must be approve or reject").With("decision", decision)
	}
	if listingID == "" {
		return Listing{}, apperr.Validation("listing id is required")
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return Listing{}, fmt.Errorf("listing: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	current, err := s.repo.GetForUpdate(ctx, tx, listingID)
	if err != nil {
		return Listing{}, err
	}
	if !CanTransition(current.Status, next) {
		return Listing{}, apperr.Conflict("Listing is %s and can no longer be moderated", current.Status).
			With("listing_id", listingID).
			With("status", current.Status)
	}

	updated, err := s.repo.UpdateStatus(ctx, tx, listingID, current.Status, next)
	if err != nil {
		if errors.Is(err, ErrStatusChanged) {
			return Listing{}, apperr.Conflict("Listing status changed, retry").With("listing_id", listingID)
		}
		return Listing{}, err
	}

	if s.outbox != nil {
		payload := map[string]any{
			"listing_id": updated.ID,
			"previous":   current.Status,
			"next":       updated.Status,
		}
		if err := s.outbox.Enqueue(ctx, tx, outbox.TopicListingModerated, payload); err != nil {
			return Listing{}, fmt.Errorf("listing: enqueue outbox: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return Listing{}, fmt.Errorf("listing: commit tx: %w", err)
	}
	return updated, nil
}

func (s *Service) Get(ctx context.Context, listingID string) (Listing, error) {
	if listingID == "" {
		return Listing{}, apperr.Validation("listing id is required")
	}
	return s.repo.Get(ctx, listingID)
}

// GetVisible is Get for outside callers. A listing that is not approved is
// reported as missing to everyone except its seller and admins.
func (s *Service) GetVisible(ctx context.Context, listingID string, viewer Viewer) (Listing, error) {
	l, err := s.Get(ctx, listingID)
	if err != nil {
		return Listing{}, err
	}
	if !l.VisibleTo(viewer) {
		return Listing{}, notFound(listingID)
	}
	return l, nil
}

// ListApproved returns the public catalogue, newest first.
func (s *Service) ListApproved(ctx context.Context, filters Filters) (ListResult, error) {
	filters.Status = StatusApproved
	return s.list(ctx, filters)
}

// ListPending returns the moderation queue, newest first.
func (s *Service) ListPending(ctx context.Context, filters Filters) (ListResult, error) {
	filters.Status = StatusPending
	return s.list(ctx, filters)
}

func (s *Service) list(ctx context.Context, filters Filters) (ListResult, error) {
	if filters.Type != "" && !filters.Type.Valid() {
		return ListResult{}, apperr.Validation("unknown listing type %q", filters.Type)
	}
	items, total, err := s.repo.List(ctx, filters)
	if err != nil {
		return ListResult{}, err
	}
	return ListResult{Items: items, Total: total}, nil
}

// ListBySeller returns every listing of the seller in any status.
func (s *Service) ListBySeller(ctx context.Context, sellerID string) ([]Listing, error) {
	if sellerID == "" {
		return nil, apperr.Validation("seller id is required")
	}
	return s.repo.ListBySeller(ctx, sellerID)
}

// Retract permanently removes a listing. Bids and orders that reference it are kept.
func (s *Service) Retract(ctx context.Context, params RetractParams) error {
	if params.ListingID == "" {
		return apperr.Validation("listing id is required")
	}
	if params.RequesterID == "" && !params.IsAdmin {
		return apperr.Forbidden("Not authorized to delete this listing")
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("listing: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	current, err := s.repo.GetForUpdate(ctx, tx, params.ListingID)
	if err != nil {
		return err
	}
	if !params.IsAdmin && current.SellerID != params.RequesterID {
		return apperr.Forbidden("Not authorized to delete this listing").With("listing_id", params.ListingID)
	}

	if err := s.repo.Delete(ctx, tx, params.ListingID); err != nil {
		return err
	}

	if s.outbox != nil {
		payload := map[string]any{
			"listing_id":   current.ID,
			"seller_id":    current.SellerID,
			"status":       current.Status,
			"requester_id": params.RequesterID,
			"by_admin":     params.IsAdmin,
		}
		if err := s.outbox.Enqueue(ctx, tx, outbox.TopicListingRetracted, payload); err != nil {
			return fmt.Errorf("listing: enqueue outbox: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("listing: commit tx: %w", err)
	}
	return nil
}
