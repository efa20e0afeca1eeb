package settlement

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/sync/errgroup"

	"refind/apperr"
	"refind/bidding"
	"refind/db/dbtest"
	"refind/listing"
	"refind/money"
	"refind/outbox"
)

func TestConcurrentSettle_Integration(t *testing.T) {
	pool := dbtest.Open(t)
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	sellerID := dbtest.SeedUser(ctx, t, pool, "seller")
	listings := listing.NewService(pool, nil, outbox.NewWriter())
	price := money.MustParse("50")
	item, err := listings.Create(ctx, listing.CreateParams{
		SellerID:    sellerID,
		Title:       "Lamp",
		Description: "Brass desk lamp",
		Type:        listing.TypeFixedPrice,
		Price:       &price,
	})
	if err != nil {
		t.Fatalf("create listing: %v", err)
	}
	if _, err := listings.Moderate(ctx, item.ID, listing.DecisionApprove); err != nil {
		t.Fatalf("approve: %v", err)
	}

	svc := NewService(pool, nil, nil, nil, outbox.NewWriter())

	q, err := svc.Quote(ctx, item.ID)
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	if q.Total != money.MustParse("63.99") {
		t.Fatalf("expected 63.99, got %s", q.Total)
	}

	const buyers = 8
	buyerIDs := make([]string, buyers)
	for i := range buyerIDs {
		buyerIDs[i] = dbtest.SeedUser(ctx, t, pool, "buyer")
	}

	var settled, conflicts atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	for i, buyer := range buyerIDs {
		g.Go(func() error {
			_, err := svc.Settle(gctx, SettleParams{
				ListingID:        item.ID,
				BuyerID:          buyer,
				PaymentReference: fmt.Sprintf("pi_mock_%d_%s", i, buyer),
				Billing:          json.RawMessage(`{"name":"Buyer"}`),
			})
			switch {
			case err == nil:
				settled.Add(1)
			case errors.Is(err, apperr.ErrConflict):
				conflicts.Add(1)
			default:
				return fmt.Errorf("buyer %d: %w", i, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("settlers: %v", err)
	}
	if settled.Load() != 1 || conflicts.Load() != buyers-1 {
		t.Fatalf("expected one settlement and %d conflicts, got %d and %d", buyers-1, settled.Load(), conflicts.Load())
	}

	var orders int
	var amount int64
	if err := pool.QueryRow(ctx, `SELECT count(*), COALESCE(max(amount_cents), 0) FROM orders WHERE listing_id = $1`, item.ID).
		Scan(&orders, &amount); err != nil {
		t.Fatalf("count orders: %v", err)
	}
	if orders != 1 || amount != 6399 {
		t.Fatalf("expected one order of 6399, got %d of %d", orders, amount)
	}

	got, err := listings.Get(ctx, item.ID)
	if err != nil {
		t.Fatalf("get listing: %v", err)
	}
	if got.Status != listing.StatusSold {
		t.Fatalf("expected sold, got %s", got.Status)
	}

	sales, err := svc.OrdersBySeller(ctx, sellerID)
	if err != nil || len(sales) != 1 {
		t.Fatalf("seller orders: %v %v", sales, err)
	}

	// A sold listing can no longer be moderated or bought.
	if _, err := listings.Moderate(ctx, item.ID, listing.DecisionReject); !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("expected conflict moderating a sold listing, got %v", err)
	}
	if _, err := svc.Settle(ctx, SettleParams{ListingID: item.ID, BuyerID: buyerIDs[0], PaymentReference: "late"}); !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("expected conflict on late settle, got %v", err)
	}
}

func TestSettleAuction_Integration(t *testing.T) {
	pool := dbtest.Open(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	past := time.Now().Add(-2 * time.Hour)
	clock := func() time.Time { return past }

	sellerID := dbtest.SeedUser(ctx, t, pool, "seller")
	winner := dbtest.SeedUser(ctx, t, pool, "buyer")
	loser := dbtest.SeedUser(ctx, t, pool, "buyer")

	listings := listing.NewService(pool, nil, outbox.NewWriter()).WithClock(clock)
	start := money.MustParse("10")
	end := past.Add(time.Hour)
	auc, err := listings.Create(ctx, listing.CreateParams{
		SellerID:       sellerID,
		Title:          "Clock",
		Description:    "Mantel clock",
		Type:           listing.TypeAuction,
		StartingBid:    &start,
		AuctionEndTime: &end,
	})
	if err != nil {
		t.Fatalf("create auction: %v", err)
	}
	if _, err := listings.Moderate(ctx, auc.ID, listing.DecisionApprove); err != nil {
		t.Fatalf("approve: %v", err)
	}

	bids := bidding.NewService(pool, nil, nil, outbox.NewWriter()).WithClock(clock)
	for _, b := range []struct {
		bidder string
		amount string
	}{{loser, "20"}, {winner, "25"}} {
		if _, err := bids.PlaceBid(ctx, bidding.PlaceBidParams{ListingID: auc.ID, BidderID: b.bidder, Amount: money.MustParse(b.amount)}); err != nil {
			t.Fatalf("bid %s: %v", b.amount, err)
		}
	}

	svc := NewService(pool, nil, nil, nil, outbox.NewWriter())
	if _, err := svc.SettleAuction(ctx, SettleParams{ListingID: auc.ID, BuyerID: loser, PaymentReference: "pi-loser"}); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("expected forbidden for outbid buyer, got %v", err)
	}

	order, err := svc.SettleAuction(ctx, SettleParams{ListingID: auc.ID, BuyerID: winner, PaymentReference: "pi-winner"})
	if err != nil {
		t.Fatalf("settle auction: %v", err)
	}
	if order.Subtotal != money.MustParse("25") || order.Amount != money.MustParse("36.99") {
		t.Fatalf("unexpected order %+v", order)
	}

	var pending int
	if err := pool.QueryRow(ctx, `SELECT count(*) FROM outbox WHERE topic = $1 AND payload->>'order_id' = $2`,
		outbox.TopicOrderSettled, order.ID).Scan(&pending); err != nil {
		t.Fatalf("count events: %v", err)
	}
	if pending != 1 {
		t.Fatalf("expected one settlement event, got %d", pending)
	}
}
