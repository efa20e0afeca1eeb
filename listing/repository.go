package listing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"refind/apperr"
	"refind/db"
	"refind/money"
)

// ErrStatusChanged is returned by UpdateStatus when the row no longer has the expected status.
var ErrStatusChanged = errors.New("listing: status changed concurrently")

type Repository interface {
	Create(ctx context.Context, tx pgx.Tx, l Listing) (Listing, error)
	Get(ctx context.Context, id string) (Listing, error)
	GetForUpdate(ctx context.Context, tx pgx.Tx, id string) (Listing, error)
	UpdateStatus(ctx context.Context, tx pgx.Tx, id string, from, to Status) (Listing, error)
	Delete(ctx context.Context, tx pgx.Tx, id string) error
	List(ctx context.Context, filters Filters) ([]Listing, int, error)
	ListBySeller(ctx context.Context, sellerID string) ([]Listing, error)
}

type PGRepository struct {
	q db.Querier
}

func NewRepository(q db.Querier) *PGRepository {
	return &PGRepository{q: q}
}

const listingColumns = `id::text, seller_id::text, title, description, listing_type::text,
    price_cents, starting_bid_cents, auction_end_time, current_high_cents,
    status::text, image_refs, created_at, updated_at`

func (r *PGRepository) Create(ctx context.Context, tx pgx.Tx, l Listing) (Listing, error) {
	query := `
        INSERT INTO listings (id, seller_id, title, description, listing_type,
            price_cents, starting_bid_cents, auction_end_time, status, image_refs)
        VALUES (COALESCE(NULLIF($1, '')::uuid, gen_random_uuid()), $2, $3, $4, $5::listing_type,
            $6, $7, $8, $9::listing_status, $10)
        RETURNING ` + listingColumns

	refs := l.ImageRefs
	if refs == nil {
		refs = []string{}
	}

	row := tx.QueryRow(ctx, query,
		l.ID,
		l.SellerID,
		l.Title,
		l.Description,
		string(l.Type),
		centsArg(l.Price),
		centsArg(l.StartingBid),
		l.AuctionEndTime,
		string(l.Status),
		refs,
	)

	created, err := scanListing(row)
	if err != nil {
		return Listing{}, fmt.Errorf("listing: insert: %w", err)
	}
	return created, nil
}

func (r *PGRepository) Get(ctx context.Context, id string) (Listing, error) {
	if !db.IsUUID(id) {
		return Listing{}, notFound(id)
	}
	query := `SELECT ` + listingColumns + ` FROM listings WHERE id = $1`

	l, err := scanListing(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Listing{}, notFound(id)
		}
		return Listing{}, fmt.Errorf("listing: get: %w", err)
	}
	return l, nil
}

// GetForUpdate reads the listing and holds its row lock until tx ends.
func (r *PGRepository) GetForUpdate(ctx context.Context, tx pgx.Tx, id string) (Listing, error) {
	if !db.IsUUID(id) {
		return Listing{}, notFound(id)
	}
	query := `SELECT ` + listingColumns + ` FROM listings WHERE id = $1 FOR UPDATE`

	l, err := scanListing(tx.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Listing{}, notFound(id)
		}
		if db.IsContention(err) {
			return Listing{}, apperr.Conflict("listing is busy, retry").With("listing_id", id)
		}
		return Listing{}, fmt.Errorf("listing: get for update: %w", err)
	}
	return l, nil
}

// UpdateStatus moves the listing from -> to. The WHERE clause carries the
// expected pre-image so a concurrent transition surfaces as ErrStatusChanged.
func (r *PGRepository) UpdateStatus(ctx context.Context, tx pgx.Tx, id string, from, to Status) (Listing, error) {
	query := `
        UPDATE listings
        SET status = $3::listing_status,
            updated_at = get_tx_timestamp()
        WHERE id = $1 AND status = $2::listing_status
        RETURNING ` + listingColumns

	l, err := scanListing(tx.QueryRow(ctx, query, id, string(from), string(to)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Listing{}, ErrStatusChanged
		}
		return Listing{}, fmt.Errorf("listing: update status: %w", err)
	}
	return l, nil
}

func (r *PGRepository) Delete(ctx context.Context, tx pgx.Tx, id string) error {
	tag, err := tx.Exec(ctx, `DELETE FROM listings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("listing: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return notFound(id)
	}
	return nil
}

func (r *PGRepository) List(ctx context.Context, filters Filters) ([]Listing, int, error) {
	if filters.Page <= 0 {
		filters.Page = 1
	}
	if filters.PageSize <= 0 || filters.PageSize > 100 {
		filters.PageSize = 20
	}

	where := []string{"1=1"}
	args := []any{}

	if filters.Status != "" {
		where = append(where, fmt.Sprintf("status = $%d::listing_status", len(args)+1))
		args = append(args, string(filters.Status))
	}
	if filters.SellerID != "" {
		where = append(where, fmt.Sprintf("seller_id = $%d", len(args)+1))
		args = append(args, filters.SellerID)
	}
	if filters.Type != "" {
		where = append(where, fmt.Sprintf("listing_type = $%d::listing_type", len(args)+1))
		args = append(args, string(filters.Type))
	}

	whereClause := " WHERE " + strings.Join(where, " AND ")
	limit := filters.PageSize
	offset := (filters.Page - 1) * filters.PageSize

	query := fmt.Sprintf(`SELECT %s FROM listings%s ORDER BY created_at DESC, id LIMIT %d OFFSET %d`, listingColumns, whereClause, limit, offset)
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("listing: query list: %w", err)
	}
	items, err := collectListings(rows)
	if err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.q.QueryRow(ctx, "SELECT COUNT(*) FROM listings"+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("listing: count list: %w", err)
	}

	return items, total, nil
}

func (r *PGRepository) ListBySeller(ctx context.Context, sellerID string) ([]Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE seller_id = $1 ORDER BY created_at DESC, id`

	rows, err := r.q.Query(ctx, query, sellerID)
	if err != nil {
		return nil, fmt.Errorf("listing: query by seller: %w", err)
	}
	return collectListings(rows)
}

func collectListings(rows pgx.Rows) ([]Listing, error) {
	defer rows.Close()

	list := []Listing{}
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, fmt.Errorf("listing: scan: %w", err)
		}
		list = append(list, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing: iterate: %w", err)
	}
	return list, nil
}

func scanListing(row pgx.Row) (Listing, error) {
	var (
		l           Listing
		listingType string
		status      string
		price       *int64
		startingBid *int64
		currentHigh *int64
		endTime     *time.Time
		refs        []string
	)
	err := row.Scan(
		&l.ID,
		&l.SellerID,
		&l.Title,
		&l.Description,
		&listingType,
		&price,
		&startingBid,
		&endTime,
		&currentHigh,
		&status,
		&refs,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	if err != nil {
		return Listing{}, err
	}

	l.Type = Type(listingType)
	l.Status = Status(status)
	l.Price = centsPtr(price)
	l.StartingBid = centsPtr(startingBid)
	l.CurrentHigh = centsPtr(currentHigh)
	l.AuctionEndTime = endTime
	if refs == nil {
		refs = []string{}
	}
	l.ImageRefs = refs
	return l, nil
}

func notFound(id string) error {
	return apperr.NotFound("Listing not found").With("listing_id", id)
}

func centsPtr(v *int64) *money.Cents {
	if v == nil {
		return nil
	}
	c := money.Cents(*v)
	return &c
}

func centsArg(c *money.Cents) any {
	if c == nil {
		return nil
	}
	return int64(*c)
}
