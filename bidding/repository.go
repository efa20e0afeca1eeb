package bidding

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"refind/db"
	"refind/listing"
	"refind/money"
)

// ErrNoBids is returned by Top when a listing has no bids.
var ErrNoBids = errors.New("bidding: no bids")

type Repository interface {
	Insert(ctx context.Context, tx pgx.Tx, bid Bid) (Bid, error)
	AdvanceHigh(ctx context.Context, tx pgx.Tx, listingID string, prev *money.Cents, next money.Cents) (bool, error)
	Top(ctx context.Context, q db.Querier, listingID string) (Bid, error)
	ForListing(ctx context.Context, listingID string) ([]Bid, error)
	ByBidder(ctx context.Context, bidderID string) ([]UserBid, error)
}

type PGRepository struct {
	q db.Querier
}

func NewRepository(q db.Querier) *PGRepository {
	return &PGRepository{q: q}
}

const bidColumns = `id::text, listing_id::text, bidder_id::text, amount_cents, placed_at`

func (r *PGRepository) Insert(ctx context.Context, tx pgx.Tx, bid Bid) (Bid, error) {
	query := `
        INSERT INTO bids (id, listing_id, bidder_id, amount_cents)
        VALUES (COALESCE(NULLIF($1, '')::uuid, gen_random_uuid()), $2, $3, $4)
        RETURNING ` + bidColumns

	created, err := scanBid(tx.QueryRow(ctx, query, bid.ID, bid.ListingID, bid.BidderID, int64(bid.Amount)))
	if err != nil {
		return Bid{}, fmt.Errorf("bidding: insert bid: %w", err)
	}
	return created, nil
}

// AdvanceHigh compare-and-swaps the listing's denormalized highest bid from
// prev to next. It reports false when another writer moved it first.
func (r *PGRepository) AdvanceHigh(ctx context.Context, tx pgx.Tx, listingID string, prev *money.Cents, next money.Cents) (bool, error) {
	var prevArg any
	if prev != nil {
		prevArg = int64(*prev)
	}

	const query = `
        UPDATE listings
        SET current_high_cents = $3,
            updated_at = get_tx_timestamp()
        WHERE id = $1
          AND current_high_cents IS NOT DISTINCT FROM $2::bigint
          AND $3 > COALESCE(current_high_cents, starting_bid_cents)
    `

	tag, err := tx.Exec(ctx, query, listingID, prevArg, int64(next))
	if err != nil {
		return false, fmt.Errorf("bidding: advance high: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// Top returns the winning bid: highest amount, earliest on a tie.
func (r *PGRepository) Top(ctx context.Context, q db.Querier, listingID string) (Bid, error) {
	if q == nil {
		q = r.q
	}
	query := `SELECT ` + bidColumns + ` FROM bids WHERE listing_id = $1 ORDER BY amount_cents DESC, placed_at ASC, seq ASC LIMIT 1`

	bid, err := scanBid(q.QueryRow(ctx, query, listingID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Bid{}, ErrNoBids
		}
		return Bid{}, fmt.Errorf("bidding: top bid: %w", err)
	}
	return bid, nil
}

func (r *PGRepository) ForListing(ctx context.Context, listingID string) ([]Bid, error) {
	query := `SELECT ` + bidColumns + ` FROM bids WHERE listing_id = $1 ORDER BY amount_cents DESC, placed_at ASC, seq ASC`

	rows, err := r.q.Query(ctx, query, listingID)
	if err != nil {
		return nil, fmt.Errorf("bidding: query listing bids: %w", err)
	}
	defer rows.Close()

	bids := []Bid{}
	for rows.Next() {
		b, err := scanBid(rows)
		if err != nil {
			return nil, fmt.Errorf("bidding: scan bid: %w", err)
		}
		bids = append(bids, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("bidding: iterate listing bids: %w", err)
	}
	return bids, nil
}

// ByBidder returns the bidder's bids newest first with the listing context
// needed to annotate them. Winning and AuctionEnded are left for the service.
func (r *PGRepository) ByBidder(ctx context.Context, bidderID string) ([]UserBid, error) {
	const query = `
        SELECT b.id::text, b.listing_id::text, b.bidder_id::text, b.amount_cents, b.placed_at,
               l.title, l.status::text, l.auction_end_time,
               (SELECT MAX(o.amount_cents) FROM bids o WHERE o.listing_id = b.listing_id)
        FROM bids b
        LEFT JOIN listings l ON l.id = b.listing_id
        WHERE b.bidder_id = $1
        ORDER BY b.placed_at DESC, b.seq DESC
    `

	rows, err := r.q.Query(ctx, query, bidderID)
	if err != nil {
		return nil, fmt.Errorf("bidding: query bidder bids: %w", err)
	}
	defer rows.Close()

	out := []UserBid{}
	for rows.Next() {
		var (
			ub      UserBid
			amount  int64
			title   *string
			status  *string
			endTime *time.Time
			top     int64
		)
		if err := rows.Scan(&ub.ID, &ub.ListingID, &ub.BidderID, &amount, &ub.PlacedAt, &title, &status, &endTime, &top); err != nil {
			return nil, fmt.Errorf("bidding: scan bidder bid: %w", err)
		}
		ub.Amount = money.Cents(amount)
		ub.CurrentHighest = money.Cents(top)
		ub.AuctionEndTime = endTime
		if title != nil {
			ub.ListingTitle = *title
		}
		if status != nil {
			ub.ListingStatus = listing.Status(*status)
		}
		out = append(out, ub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("bidding: iterate bidder bids: %w", err)
	}
	return out, nil
}

func scanBid(row pgx.Row) (Bid, error) {
	var (
		b      Bid
		amount int64
	)
	if err := row.Scan(&b.ID, &b.ListingID, &b.BidderID, &amount, &b.PlacedAt); err != nil {
		return Bid{}, err
	}
	b.Amount = money.Cents(amount)
	return b, nil
}
