package actors

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"refind/apperr"
	"refind/bidding"
	"refind/listing"
	"refind/money"
	"refind/outbox"
	"refind/settlement"
)

// Stats counts actor outcomes. Rejections are domain errors the services are
// expected to return under contention; Failures are everything else.
type Stats struct {
	Bids        atomic.Int64
	Orders      atomic.Int64
	Moderations atomic.Int64
	Retractions atomic.Int64
	Published   atomic.Int64
	Rejections  atomic.Int64
	Failures    atomic.Int64
}

func (s *Stats) String() string {
	return fmt.Sprintf("bids=%d orders=%d moderations=%d retractions=%d published=%d rejections=%d failures=%d",
		s.Bids.Load(), s.Orders.Load(), s.Moderations.Load(), s.Retractions.Load(),
		s.Published.Load(), s.Rejections.Load(), s.Failures.Load())
}

func (s *Stats) record(err error, ok *atomic.Int64) {
	if err == nil {
		ok.Add(1)
		return
	}
	if _, domain := apperr.As(err); domain {
		s.Rejections.Add(1)
		return
	}
	// Killed backends and lock timeouts land here.
	s.Failures.Add(1)
}

// Services is the service graph every actor shares.
type Services struct {
	Listings   *listing.Service
	Bids       *bidding.Service
	Settlement *settlement.Service
}

// NewServices wires the services to pool. settleAhead shifts the settlement
// clock forward so auctions close for settlers while bidders still see them open.
func NewServices(pool *pgxpool.Pool, settleAhead time.Duration) Services {
	events := outbox.NewWriter()
	ahead := func() time.Time { return time.Now().Add(settleAhead) }
	return Services{
		Listings:   listing.NewService(pool, nil, events),
		Bids:       bidding.NewService(pool, nil, nil, events),
		Settlement: settlement.NewService(pool, nil, nil, nil, events).WithClock(ahead),
	}
}

func stopped(ctx context.Context, stop <-chan struct{}) bool {
	select {
	case <-ctx.Done():
		return true
	case <-stop:
		return true
	default:
		return false
	}
}

func pause(min, spread int) {
	time.Sleep(time.Duration(min+rand.Intn(spread)) * time.Millisecond)
}

func pick(ids []string) string {
	return ids[rand.Intn(len(ids))]
}

// Bidder keeps outbidding the current high on random auctions, sometimes
// offering a stale amount to exercise the too-low path.
func Bidder(ctx context.Context, svc Services, auctions, bidders []string, stats *Stats, stop <-chan struct{}) error {
	for !stopped(ctx, stop) {
		id := pick(auctions)
		current, err := svc.Bids.HighestBid(ctx, id)
		if err != nil {
			stats.record(err, &stats.Bids)
			pause(5, 10)
			continue
		}
		amount := current + money.Cents(1+rand.Intn(500))
		if rand.Intn(5) == 0 {
			amount = current
		}
		_, err = svc.Bids.PlaceBid(ctx, bidding.PlaceBidParams{
			ListingID: id,
			BidderID:  pick(bidders),
			Amount:    amount,
		})
		stats.record(err, &stats.Bids)
		pause(2, 10)
	}
	return nil
}

// Settler races other settlers for fixed-price listings and, when the auction
// clock allows, tries to close auctions as a random buyer.
func Settler(ctx context.Context, svc Services, worker int, fixed, auctions, buyers []string, stats *Stats, stop <-chan struct{}) error {
	for n := 0; !stopped(ctx, stop); n++ {
		ref := fmt.Sprintf("pay-%d-%d-%d", worker, n, rand.Int63())
		var err error
		if len(auctions) > 0 && rand.Intn(4) == 0 {
			id := pick(auctions)
			buyer := pick(buyers)
			if bids, berr := svc.Bids.BidsFor(ctx, id); berr == nil && len(bids) > 0 && rand.Intn(2) == 0 {
				buyer = bids[0].BidderID
			}
			_, err = svc.Settlement.SettleAuction(ctx, settlement.SettleParams{
				ListingID:        id,
				BuyerID:          buyer,
				PaymentReference: ref,
			})
		} else {
			_, err = svc.Settlement.Settle(ctx, settlement.SettleParams{
				ListingID:        pick(fixed),
				BuyerID:          pick(buyers),
				PaymentReference: ref,
				Billing:          []byte(`{"name":"Stress Buyer"}`),
			})
		}
		stats.record(err, &stats.Orders)
		pause(5, 20)
	}
	return nil
}

// Moderator creates a pending listing and lets two reviewers race opposite
// decisions on it. Exactly one decision may win.
func Moderator(ctx context.Context, svc Services, sellers []string, stats *Stats, stop <-chan struct{}) error {
	for !stopped(ctx, stop) {
		price := money.Cents(1000 + rand.Intn(9000))
		l, err := svc.Listings.Create(ctx, listing.CreateParams{
			SellerID:    pick(sellers),
			Title:       "Stress chair",
			Description: "Created under load",
			Type:        listing.TypeFixedPrice,
			Price:       &price,
		})
		if err != nil {
			stats.record(err, &stats.Moderations)
			pause(10, 20)
			continue
		}
		done := make(chan error, 2)
		for _, d := range []listing.Decision{listing.DecisionApprove, listing.DecisionReject} {
			go func(d listing.Decision) {
				_, err := svc.Listings.Moderate(ctx, l.ID, d)
				done <- err
			}(d)
		}
		for i := 0; i < 2; i++ {
			stats.record(<-done, &stats.Moderations)
		}
		pause(10, 30)
	}
	return nil
}

// Retractor has sellers withdraw random fixed-price listings while settlers
// are still trying to buy them.
func Retractor(ctx context.Context, svc Services, fixed []string, stats *Stats, stop <-chan struct{}) error {
	for !stopped(ctx, stop) {
		pause(200, 400)
		id := pick(fixed)
		l, err := svc.Listings.Get(ctx, id)
		if err != nil {
			stats.record(err, &stats.Retractions)
			continue
		}
		err = svc.Listings.Retract(ctx, listing.RetractParams{ListingID: id, RequesterID: l.SellerID})
		stats.record(err, &stats.Retractions)
	}
	return nil
}

var errFlaky = errors.New("broker unavailable")

// FlakyPublisher fails roughly one publish in failEvery.
type FlakyPublisher struct {
	failEvery int
	stats     *Stats
}

func NewFlakyPublisher(failEvery int, stats *Stats) *FlakyPublisher {
	return &FlakyPublisher{failEvery: failEvery, stats: stats}
}

func (p *FlakyPublisher) Publish(_ context.Context, _ outbox.Message) error {
	if p.failEvery > 0 && rand.Intn(p.failEvery) == 0 {
		return errFlaky
	}
	p.stats.Published.Add(1)
	return nil
}

// OutboxRelay drains the outbox through relay until stopped.
func OutboxRelay(ctx context.Context, relay *outbox.Relay, stats *Stats, stop <-chan struct{}) error {
	for !stopped(ctx, stop) {
		if _, err := relay.RunOnce(ctx); err != nil {
			stats.Failures.Add(1)
		}
		pause(20, 30)
	}
	return nil
}
