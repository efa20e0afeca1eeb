package oracles

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Oracle is a query that must return no rows while the marketplace is consistent.
type Oracle struct {
	Name string
	SQL  string
}

func All() []Oracle {
	return []Oracle{
		{
			Name: "O1_bids_strictly_increasing",
			SQL: `WITH ordered AS (
                      SELECT listing_id, seq, amount_cents,
                             LAG(amount_cents) OVER (PARTITION BY listing_id ORDER BY seq) AS prev
                      FROM bids)
                  SELECT listing_id, seq, amount_cents, prev FROM ordered
                  WHERE prev IS NOT NULL AND amount_cents <= prev`,
		},
		{
			Name: "O2_current_high_matches_bids",
			SQL: `SELECT l.id, l.current_high_cents, MAX(b.amount_cents) AS top
                  FROM listings l LEFT JOIN bids b ON b.listing_id = l.id
                  WHERE l.listing_type = 'auction'
                  GROUP BY l.id, l.current_high_cents
                  HAVING l.current_high_cents IS DISTINCT FROM MAX(b.amount_cents)`,
		},
		{
			Name: "O3_bids_above_starting_bid",
			SQL: `SELECT b.id, b.amount_cents, l.starting_bid_cents FROM bids b
                  JOIN listings l ON l.id = b.listing_id
                  WHERE b.amount_cents <= l.starting_bid_cents`,
		},
		{
			Name: "O4_one_completed_order_per_listing",
			SQL: `SELECT listing_id, COUNT(*) FROM orders
                  WHERE status = 'completed'
                  GROUP BY listing_id HAVING COUNT(*) > 1`,
		},
		{
			Name: "O5_sold_listing_has_order",
			SQL: `SELECT l.id FROM listings l
                  WHERE l.status = 'sold'
                    AND NOT EXISTS (SELECT 1 FROM orders o WHERE o.listing_id = l.id AND o.status = 'completed')`,
		},
		{
			Name: "O6_order_listing_sold_or_retracted",
			SQL: `SELECT o.id, o.listing_id, l.status FROM orders o
                  JOIN listings l ON l.id = o.listing_id
                  WHERE o.status = 'completed' AND l.status <> 'sold'`,
		},
		{
			Name: "O7_auction_order_pays_top_bid",
			SQL: `SELECT o.id, o.buyer_id, o.subtotal_cents, top.bidder_id, top.amount_cents
                  FROM orders o
                  JOIN listings l ON l.id = o.listing_id AND l.listing_type = 'auction'
                  JOIN LATERAL (
                      SELECT bidder_id, amount_cents FROM bids
                      WHERE listing_id = o.listing_id
                      ORDER BY amount_cents DESC, placed_at ASC LIMIT 1) top ON true
                  WHERE o.subtotal_cents <> top.amount_cents OR o.buyer_id <> top.bidder_id`,
		},
		{
			Name: "O8_order_has_settled_event",
			SQL: `SELECT o.id FROM orders o
                  WHERE NOT EXISTS (
                      SELECT 1 FROM outbox e
                      WHERE e.topic = 'order.settled' AND e.payload->>'order_id' = o.id::text)`,
		},
		{
			Name: "O9_single_moderation_per_listing",
			SQL: `SELECT payload->>'listing_id', COUNT(*) FROM outbox
                  WHERE topic = 'listing.moderated'
                  GROUP BY payload->>'listing_id' HAVING COUNT(*) > 1`,
		},
		{
			Name: "O10_bids_append_only_guard",
			SQL: `SELECT 'missing_no_mutate_bids_trigger' AS detail
                  WHERE NOT EXISTS (SELECT 1 FROM pg_trigger WHERE tgname = 'no_mutate_bids')`,
		},
	}
}

// Run executes every oracle and returns the first failing name with a sample
// row, or an empty name when all pass.
func Run(ctx context.Context, pool *pgxpool.Pool) (string, string, error) {
	for _, o := range All() {
		rows, err := pool.Query(ctx, o.SQL)
		if err != nil {
			return o.Name, "", fmt.Errorf("oracle %s: %w", o.Name, err)
		}
		if rows.Next() {
			vals, err := rows.Values()
			rows.Close()
			if err != nil {
				return o.Name, "", err
			}
			return o.Name, fmt.Sprintf("%v", vals), nil
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return o.Name, "", fmt.Errorf("oracle %s: %w", o.Name, err)
		}
	}
	return "", "", nil
}
