package listing

import (
	"time"

	"refind/money"
)

type Type string

const (
	TypeFixedPrice Type = "fixed_price"
	TypeAuction    Type = "auction"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
	StatusSold     Status = "sold"
)

// Decision is a moderator's verdict on a pending listing.
type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

// Listing mirrors the listings table. Price is set only for fixed-price
// listings; StartingBid and AuctionEndTime only for auctions.
type Listing struct {
	ID             string
	SellerID       string
	Title          string
	Description    string
	Type           Type
	Price          *money.Cents
	StartingBid    *money.Cents
	AuctionEndTime *time.Time
	// CurrentHigh is the highest admitted bid, nil until the first bid.
	CurrentHigh *money.Cents
	Status      Status
	ImageRefs   []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Viewer is whoever asks to see a listing. The zero value is an anonymous visitor.
type Viewer struct {
	UserID  string
	IsAdmin bool
}

type Filters struct {
	Status   Status
	SellerID string
	Type     Type
	Page     int
	PageSize int
}

type ListResult struct {
	Items []Listing
	Total int
}
