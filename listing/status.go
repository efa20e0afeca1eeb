package listing

import (
	"time"

	"refind/money"
)

var transitions = map[Status][]Status{
	StatusPending:  {StatusApproved, StatusRejected},
	StatusApproved: {StatusSold},
}

// CanTransition reports whether the lifecycle allows from -> to.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func (s Status) Terminal() bool {
	return s == StatusRejected || s == StatusSold
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusSold:
		return true
	default:
		return false
	}
}

func (t Type) Valid() bool {
	return t == TypeFixedPrice || t == TypeAuction
}

func (d Decision) Target() (Status, bool) {
	switch d {
	case DecisionApprove:
		return StatusApproved, true
	case DecisionReject:
		return StatusRejected, true
	default:
		return "", false
	}
}

// Biddable reports whether the auction is open at now.
func (l Listing) Biddable(now time.Time) bool {
	return l.Type == TypeAuction &&
		l.Status == StatusApproved &&
		l.AuctionEndTime != nil &&
		now.Before(*l.AuctionEndTime)
}

// AuctionEnded reports whether an auction's window has elapsed at now.
func (l Listing) AuctionEnded(now time.Time) bool {
	return l.Type == TypeAuction && l.AuctionEndTime != nil && !now.Before(*l.AuctionEndTime)
}

// VisibleTo reports whether v may see l outside the moderation queue.
func (l Listing) VisibleTo(v Viewer) bool {
	return l.Status == StatusApproved || v.IsAdmin || (v.UserID != "" && v.UserID == l.SellerID)
}

func (l Listing) Purchasable() bool {
	return l.Type == TypeFixedPrice && l.Status == StatusApproved && l.Price != nil
}

// HighestBid is the highest admitted bid, or the starting bid when there is none.
func (l Listing) HighestBid() money.Cents {
	if l.CurrentHigh != nil {
		return *l.CurrentHigh
	}
	if l.StartingBid != nil {
		return *l.StartingBid
	}
	return 0
}
