package settlement

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"refind/apperr"
	"refind/db"
	"refind/money"
)

const (
	constraintOneOrderPerListing = "orders_one_completed_per_listing"
	constraintPaymentReference   = "orders_payment_reference_key"
)

type Repository interface {
	Insert(ctx context.Context, tx pgx.Tx, o Order) (Order, error)
	Get(ctx context.Context, id string) (Order, error)
	ByBuyer(ctx context.Context, buyerID string) ([]Order, error)
	BySeller(ctx context.Context, sellerID string) ([]Order, error)
}

type PGRepository struct {
	q db.Querier
}

func NewRepository(q db.Querier) *PGRepository {
	return &PGRepository{q: q}
}

const orderColumns = `id::text, listing_id::text, listing_title, buyer_id::text, seller_id::text,
    subtotal_cents, tax_cents, shipping_cents, amount_cents, payment_reference, billing,
    status::text, created_at, updated_at`

func (r *PGRepository) Insert(ctx context.Context, tx pgx.Tx, o Order) (Order, error) {
	query := `
        INSERT INTO orders (id, listing_id, listing_title, buyer_id, seller_id,
            subtotal_cents, tax_cents, shipping_cents, amount_cents, payment_reference, billing, status)
        VALUES (COALESCE(NULLIF($1, '')::uuid, gen_random_uuid()), $2, $3, $4, $5,
            $6, $7, $8, $9, $10, $11, $12::order_status)
        RETURNING ` + orderColumns

	var billing any
	if len(o.Billing) > 0 {
		billing = string(o.Billing)
	}

	created, err := scanOrder(tx.QueryRow(ctx, query,
		o.ID,
		o.ListingID,
		o.ListingTitle,
		o.BuyerID,
		o.SellerID,
		int64(o.Subtotal),
		int64(o.Tax),
		int64(o.Shipping),
		int64(o.Amount),
		o.PaymentReference,
		billing,
		string(o.Status),
	))
	if err != nil {
		if db.IsUniqueViolation(err) {
			switch db.ConstraintName(err) {
			case constraintPaymentReference:
				return Order{}, apperr.Conflict("Payment reference has already been used").
					With("payment_reference", o.PaymentReference)
			default:
				return Order{}, apperr.Conflict("Listing has already been sold").With("listing_id", o.ListingID)
			}
		}
		if db.IsContention(err) {
			return Order{}, apperr.Conflict("Listing is busy, retry").With("listing_id", o.ListingID)
		}
		return Order{}, fmt.Errorf("settlement: insert order: %w", err)
	}
	return created, nil
}

func (r *PGRepository) Get(ctx context.Context, id string) (Order, error) {
	if !db.IsUUID(id) {
		return Order{}, orderNotFound(id)
	}
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	o, err := scanOrder(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Order{}, orderNotFound(id)
		}
		return Order{}, fmt.Errorf("settlement: get order: %w", err)
	}
	return o, nil
}

func (r *PGRepository) ByBuyer(ctx context.Context, buyerID string) ([]Order, error) {
	return r.list(ctx, `buyer_id`, buyerID)
}

func (r *PGRepository) BySeller(ctx context.Context, sellerID string) ([]Order, error) {
	return r.list(ctx, `seller_id`, sellerID)
}

func (r *PGRepository) list(ctx context.Context, column, userID string) ([]Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE ` + column + ` = $1 ORDER BY created_at DESC, id`

	rows, err := r.q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("settlement: query orders: %w", err)
	}
	defer rows.Close()

	orders := []Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("settlement: scan order: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("settlement: iterate orders: %w", err)
	}
	return orders, nil
}

func scanOrder(row pgx.Row) (Order, error) {
	var (
		o                               Order
		subtotal, tax, shipping, amount int64
		billing                         []byte
		status                          string
	)
	err := row.Scan(
		&o.ID,
		&o.ListingID,
		&o.ListingTitle,
		&o.BuyerID,
		&o.SellerID,
		&subtotal,
		&tax,
		&shipping,
		&amount,
		&o.PaymentReference,
		&billing,
		&status,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err != nil {
		return Order{}, err
	}
	o.Subtotal = money.Cents(subtotal)
	o.Tax = money.Cents(tax)
	o.Shipping = money.Cents(shipping)
	o.Amount = money.Cents(amount)
	o.Billing = billing
	o.Status = OrderStatus(status)
	return o, nil
}

func orderNotFound(id string) error {
	return apperr.NotFound("Order not found").With("order_id", id)
}
