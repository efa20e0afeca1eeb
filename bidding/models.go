package bidding

import (
	"time"

	"refind/listing"
	"refind/money"
)

// Bid is an admitted offer. Bids are never updated or deleted.
type Bid struct {
	ID        string
	ListingID string
	BidderID  string
	Amount    money.Cents
	PlacedAt  time.Time
}

// ListingBid is a bid as shown on its auction page.
type ListingBid struct {
	Bid
	Winning      bool
	AuctionEnded bool
}

// UserBid is a bid in the bidder's history. ListingTitle and ListingStatus are
// empty when the listing has been retracted.
type UserBid struct {
	Bid
	ListingTitle   string
	ListingStatus  listing.Status
	AuctionEndTime *time.Time
	CurrentHighest money.Cents
	Winning        bool
	AuctionEnded   bool
}

type PlaceBidParams struct {
	ListingID string
	BidderID  string
	Amount    money.Cents
}
