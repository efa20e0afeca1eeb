package settlement

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"refind/apperr"
	"refind/bidding"
	"refind/db"
	"refind/listing"
	"refind/money"
	"refind/outbox"
)

// ListingStore is the part of the listing store settlement reads and transitions.
type ListingStore interface {
	Get(ctx context.Context, id string) (listing.Listing, error)
	GetForUpdate(ctx context.Context, tx pgx.Tx, id string) (listing.Listing, error)
	UpdateStatus(ctx context.Context, tx pgx.Tx, id string, from, to listing.Status) (listing.Listing, error)
}

// WinningBids resolves the top bid of an auction inside the caller's transaction.
type WinningBids interface {
	Top(ctx context.Context, q db.Querier, listingID string) (bidding.Bid, error)
}

type OutboxWriter interface {
	Enqueue(ctx context.Context, tx pgx.Tx, topic string, payload map[string]any) error
}

// Service quotes and settles purchases. It is the only writer of the sold status.
type Service struct {
	pool        db.Pool
	repo        Repository
	listings    ListingStore
	bids        WinningBids
	outbox      OutboxWriter
	pricing     Pricing
	idGenerator func() string
	now         func() time.Time
}

func NewService(pool db.Pool, repo Repository, listings ListingStore, bids WinningBids, outbox OutboxWriter) *Service {
	if repo == nil {
		repo = NewRepository(pool)
	}
	if listings == nil {
		listings = listing.NewRepository(pool)
	}
	if bids == nil {
		bids = bidding.NewRepository(pool)
	}
	return &Service{
		pool:        pool,
		repo:        repo,
		listings:    listings,
		bids:        bids,
		outbox:      outbox,
		pricing:     DefaultPricing(),
		idGenerator: func() string { return uuid.NewString() },
		now:         time.Now,
	}
}

func (s *Service) WithPricing(p Pricing) *Service {
	s.pricing = p
	return s
}

func (s *Service) WithIDGenerator(gen func() string) *Service {
	s.idGenerator = gen
	return s
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Quote prices an approved fixed-price listing. It does not lock anything.
func (s *Service) Quote(ctx context.Context, listingID string) (Quote, error) {
	l, err := s.purchasable(ctx, listingID)
	if err != nil {
		return Quote{}, err
	}
	return s.pricing.Quote(*l.Price), nil
}

// CreatePaymentIntent returns a mock intent for the quoted total. Nothing is
// reserved; availability is re-checked at settlement.
func (s *Service) CreatePaymentIntent(ctx context.Context, listingID, buyerID string) (PaymentIntent, error) {
	if buyerID == "" {
		return PaymentIntent{}, apperr.Validation("buyer id is required")
	}
	l, err := s.purchasable(ctx, listingID)
	if err != nil {
		return PaymentIntent{}, err
	}
	if l.SellerID == buyerID {
		return PaymentIntent{}, apperr.Forbidden("You cannot purchase your own listing").With("listing_id", listingID)
	}

	q := s.pricing.Quote(*l.Price)
	id := "pi_mock_" + s.idGenerator()
	return PaymentIntent{
		ID:           id,
		ClientSecret: id + "_secret_mock",
		ListingID:    l.ID,
		Amount:       q.Total,
		Currency:     "usd",
	}, nil
}

// Settle buys a fixed-price listing. The listing row is locked, its status
// re-checked, the order written and the listing marked sold in one
// transaction. At most one Settle per listing succeeds.
func (s *Service) Settle(ctx context.Context, params SettleParams) (Order, error) {
	if err := validateSettle(params); err != nil {
		return Order{}, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return Order{}, fmt.Errorf("settlement: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	l, err := s.listings.GetForUpdate(ctx, tx, params.ListingID)
	if err != nil {
		return Order{}, err
	}
	if l.Status != listing.StatusApproved {
		return Order{}, unavailable(l)
	}
	if l.Type != listing.TypeFixedPrice || l.Price == nil {
		return Order{}, apperr.Validation("Only fixed-price listings can be purchased directly").With("listing_id", l.ID)
	}
	if l.SellerID == params.BuyerID {
		return Order{}, apperr.Forbidden("You cannot purchase your own listing").With("listing_id", l.ID)
	}

	return s.finalize(ctx, tx, l, params, *l.Price)
}

// SettleAuction closes out an ended auction for its winning bidder at the
// winning bid amount.
func (s *Service) SettleAuction(ctx context.Context, params SettleParams) (Order, error) {
	if err := validateSettle(params); err != nil {
		return Order{}, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return Order{}, fmt.Errorf("settlement: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	l, err := s.listings.GetForUpdate(ctx, tx, params.ListingID)
	if err != nil {
		return Order{}, err
	}
	if l.Type != listing.TypeAuction {
		return Order{}, apperr.Validation("Listing is not an auction").With("listing_id", l.ID)
	}
	if l.Status != listing.StatusApproved {
		return Order{}, unavailable(l)
	}
	if !l.AuctionEnded(s.now()) {
		e := apperr.Conflict("Auction has not ended").With("listing_id", l.ID)
		if l.AuctionEndTime != nil {
			e = e.With("auction_end_time", l.AuctionEndTime.UTC().Format(time.RFC3339))
		}
		return Order{}, e
	}

	top, err := s.bids.Top(ctx, tx, l.ID)
	if err != nil {
		if errors.Is(err, bidding.ErrNoBids) {
			return Order{}, apperr.Conflict("No bids were placed on this auction").With("listing_id", l.ID)
		}
		return Order{}, err
	}
	if top.BidderID != params.BuyerID {
		return Order{}, apperr.Forbidden("Only the winning bidder can settle this auction").With("listing_id", l.ID)
	}

	return s.finalize(ctx, tx, l, params, top.Amount)
}

func (s *Service) finalize(ctx context.Context, tx pgx.Tx, l listing.Listing, params SettleParams, subtotal money.Cents) (Order, error) {
	q := s.pricing.Quote(subtotal)

	order, err := s.repo.Insert(ctx, tx, Order{
		ID:               s.idGenerator(),
		ListingID:        l.ID,
		ListingTitle:     l.Title,
		BuyerID:          params.BuyerID,
		SellerID:         l.SellerID,
		Subtotal:         q.Subtotal,
		Tax:              q.Tax,
		Shipping:         q.Shipping,
		Amount:           q.Total,
		PaymentReference: strings.TrimSpace(params.PaymentReference),
		Billing:          params.Billing,
		Status:           OrderCompleted,
	})
	if err != nil {
		return Order{}, err
	}

	if _, err := s.listings.UpdateStatus(ctx, tx, l.ID, listing.StatusApproved, listing.StatusSold); err != nil {
		if errors.Is(err, listing.ErrStatusChanged) {
			return Order{}, apperr.Conflict("Listing is no longer available").With("listing_id", l.ID)
		}
		return Order{}, err
	}

	if s.outbox != nil {
		payload := map[string]any{
			"order_id":          order.ID,
			"listing_id":        order.ListingID,
			"listing_type":      string(l.Type),
			"buyer_id":          order.BuyerID,
			"seller_id":         order.SellerID,
			"amount":            order.Amount.String(),
			"payment_reference": order.PaymentReference,
		}
		if err := s.outbox.Enqueue(ctx, tx, outbox.TopicOrderSettled, payload); err != nil {
			return Order{}, fmt.Errorf("settlement: enqueue outbox: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		if db.IsUniqueViolation(err) || db.IsContention(err) {
			return Order{}, apperr.Conflict("Listing has already been sold").With("listing_id", l.ID)
		}
		return Order{}, fmt.Errorf("settlement: commit tx: %w", err)
	}
	return order, nil
}

func (s *Service) GetOrder(ctx context.Context, orderID string) (Order, error) {
	if orderID == "" {
		return Order{}, apperr.Validation("order id is required")
	}
	return s.repo.Get(ctx, orderID)
}

// OrdersByBuyer returns the buyer's purchases, newest first.
func (s *Service) OrdersByBuyer(ctx context.Context, buyerID string) ([]Order, error) {
	if buyerID == "" {
		return nil, apperr.Validation("user id is required")
	}
	return s.repo.ByBuyer(ctx, buyerID)
}

// OrdersBySeller returns the seller's sales, newest first.
func (s *Service) OrdersBySeller(ctx context.Context, sellerID string) ([]Order, error) {
	if sellerID == "" {
		return nil, apperr.Validation("user id is required")
	}
	return s.repo.BySeller(ctx, sellerID)
}

func (s *Service) purchasable(ctx context.Context, listingID string) (listing.Listing, error) {
	if listingID == "" {
		return listing.Listing{}, apperr.Validation("listing id is required")
	}
	l, err := s.listings.Get(ctx, listingID)
	if err != nil {
		return listing.Listing{}, err
	}
	if !l.Purchasable() {
		return listing.Listing{}, apperr.Validation("Listing is not available for purchase").
			With("listing_id", listingID).
			With("status", string(l.Status))
	}
	return l, nil
}

func validateSettle(params SettleParams) error {
	if params.ListingID == "" || params.BuyerID == "" {
		return apperr.Validation("listing id and buyer id are required")
	}
	if strings.TrimSpace(params.PaymentReference) == "" {
		return apperr.Validation("Payment reference is required")
	}
	if len(params.Billing) > 0 && !json.Valid(params.Billing) {
		return apperr.Validation("Billing details must be valid JSON")
	}
	return nil
}

func unavailable(l listing.Listing) error {
	return apperr.Conflict("Listing is no longer available").
		With("listing_id", l.ID).
		With("status", string(l.Status))
}
