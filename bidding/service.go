package bidding

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"refind/apperr"
	"refind/db"
	"refind/listing"
	"refind/money"
	"refind/outbox"
)

// ListingReader is the part of the listing store the bid controller reads.
type ListingReader interface {
	Get(ctx context.Context, id string) (listing.Listing, error)
	GetForUpdate(ctx context.Context, tx pgx.Tx, id string) (listing.Listing, error)
}

type OutboxWriter interface {
	Enqueue(ctx context.Context, tx pgx.Tx, topic string, payload map[string]any) error
}

// Service admits bids on auction listings.
type Service struct {
	pool        db.Pool
	repo        Repository
	listings    ListingReader
	outbox      OutboxWriter
	idGenerator func() string
	now         func() time.Time
}

func NewService(pool db.Pool, repo Repository, listings ListingReader, outbox OutboxWriter) *Service {
	if repo == nil {
		repo = NewRepository(pool)
	}
	if listings == nil {
		listings = listing.NewRepository(pool)
	}
	return &Service{
		pool:        pool,
		repo:        repo,
		listings:    listings,
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

// PlaceBid admits a bid only if the auction is open and the amount is
// strictly greater than the current highest bid. The listing row stays locked
// from the read of the current highest bid until commit, so concurrent
// bidders on one listing are admitted one at a time.
func (s *Service) PlaceBid(ctx context.Context, params PlaceBidParams) (Bid, error) {
	if params.ListingID == "" || params.BidderID == "" {
		return Bid{}, apperr.Validation("listing id and bidder id are required")
	}
	if params.Amount <= 0 {
		return Bid{}, apperr.Validation("Bid amount must be greater than 0").With("amount", params.Amount.String())
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return Bid{}, fmt.Errorf("bidding: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	l, err := s.listings.GetForUpdate(ctx, tx, params.ListingID)
	if err != nil {
		return Bid{}, err
	}
	if !l.Biddable(s.now()) {
		return Bid{}, apperr.Conflict("Auction not found or has ended").With("listing_id", params.ListingID)
	}
	if l.SellerID == params.BidderID {
		return Bid{}, apperr.Forbidden("Sellers cannot bid on their own listings").With("listing_id", params.ListingID)
	}

	current := l.HighestBid()
	if params.Amount <= current {
		return Bid{}, bidTooLow(current)
	}

	bid, err := s.repo.Insert(ctx, tx, Bid{
		ID:        s.idGenerator(),
		ListingID: params.ListingID,
		BidderID:  params.BidderID,
		Amount:    params.Amount,
	})
	if err != nil {
		return Bid{}, contention(err, current)
	}

	advanced, err := s.repo.AdvanceHigh(ctx, tx, params.ListingID, l.CurrentHigh, params.Amount)
	if err != nil {
		return Bid{}, contention(err, current)
	}
	if !advanced {
		return Bid{}, apperr.Conflict("Highest bid changed, retry with a new amount").
			With("listing_id", params.ListingID).
			With("current_highest", current.String())
	}

	if s.outbox != nil {
		payload := map[string]any{
			"bid_id":     bid.ID,
			"listing_id": bid.ListingID,
			"bidder_id":  bid.BidderID,
			"amount":     bid.Amount.String(),
			"previous":   current.String(),
		}
		if err := s.outbox.Enqueue(ctx, tx, outbox.TopicBidPlaced, payload); err != nil {
			return Bid{}, fmt.Errorf("bidding: enqueue outbox: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return Bid{}, contention(fmt.Errorf("bidding: commit tx: %w", err), current)
	}
	return bid, nil
}

// HighestBid is the maximum admitted bid, or the starting bid when there is none.
func (s *Service) HighestBid(ctx context.Context, listingID string) (money.Cents, error) {
	l, err := s.auction(ctx, listingID)
	if err != nil {
		return 0, err
	}
	return l.HighestBid(), nil
}

// BidsFor returns the listing's bids by amount descending, then time ascending.
func (s *Service) BidsFor(ctx context.Context, listingID string) ([]ListingBid, error) {
	l, err := s.auction(ctx, listingID)
	if err != nil {
		return nil, err
	}

	bids, err := s.repo.ForListing(ctx, listingID)
	if err != nil {
		return nil, err
	}

	ended := l.AuctionEnded(s.now())
	out := make([]ListingBid, 0, len(bids))
	for i, b := range bids {
		out = append(out, ListingBid{
			Bid:          b,
			Winning:      i == 0 || b.Amount >= bids[0].Amount,
			AuctionEnded: ended,
		})
	}
	return out, nil
}

// BidsByUser returns the bidder's history, newest first.
func (s *Service) BidsByUser(ctx context.Context, bidderID string) ([]UserBid, error) {
	if bidderID == "" {
		return nil, apperr.Validation("user id is required")
	}

	bids, err := s.repo.ByBidder(ctx, bidderID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	for i := range bids {
		b := &bids[i]
		b.Winning = b.Amount >= b.CurrentHighest
		// A retracted listing has no end time; its auction is over.
		b.AuctionEnded = b.AuctionEndTime == nil || !now.Before(*b.AuctionEndTime)
	}
	return bids, nil
}

// Winner returns the winning bid of an auction whose window has elapsed.
func (s *Service) Winner(ctx context.Context, listingID string) (Bid, error) {
	l, err := s.auction(ctx, listingID)
	if err != nil {
		return Bid{}, err
	}
	if !l.AuctionEnded(s.now()) {
		return Bid{}, apperr.Conflict("Auction has not ended").
			With("listing_id", listingID).
			With("auction_end_time", l.AuctionEndTime.UTC().Format(time.RFC3339))
	}

	top, err := s.repo.Top(ctx, nil, listingID)
	if err != nil {
		if errors.Is(err, ErrNoBids) {
			return Bid{}, apperr.NotFound("No bids were placed on this auction").With("listing_id", listingID)
		}
		return Bid{}, err
	}
	return top, nil
}

func (s *Service) auction(ctx context.Context, listingID string) (listing.Listing, error) {
	if listingID == "" {
		return listing.Listing{}, apperr.Validation("listing id is required")
	}
	l, err := s.listings.Get(ctx, listingID)
	if err != nil {
		return listing.Listing{}, err
	}
	if l.Type != listing.TypeAuction {
		return listing.Listing{}, apperr.Validation("Listing is not an auction").With("listing_id", listingID)
	}
	return l, nil
}

func bidTooLow(current money.Cents) error {
	return apperr.Validation("Bid must be higher than %s", current.Short()).
		With("current_highest", current.String())
}

func contention(err error, current money.Cents) error {
	if db.IsContention(err) {
		return apperr.Conflict("Auction is busy, retry").With("current_highest", current.String())
	}
	return err
}
