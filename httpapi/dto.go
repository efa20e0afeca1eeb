package httpapi

import (
	"encoding/json"
	"time"

	"refind/auth"
	"refind/bidding"
	"refind/listing"
	"refind/money"
	"refind/settlement"
)

// Request DTOs

type RegisterRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	FullName string `json:"full_name" binding:"required"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type CreateListingRequest struct {
	Title          string       `json:"title" binding:"required"`
	Description    string       `json:"description" binding:"required"`
	ListingType    string       `json:"listing_type" binding:"required"`
	Price          *money.Cents `json:"price"`
	StartingBid    *money.Cents `json:"starting_bid"`
	AuctionEndTime *time.Time   `json:"auction_end_time"`
	ImageRefs      []string     `json:"images"`
}

type ModerateRequest struct {
	Decision string `json:"decision" binding:"required,oneof=approve reject"`
}

type PlaceBidRequest struct {
	ListingID string      `json:"listing_id" binding:"required"`
	Amount    money.Cents `json:"amount" binding:"required"`
}

type PaymentIntentRequest struct {
	ListingID string `json:"listing_id" binding:"required"`
}

type ConfirmPaymentRequest struct {
	ListingID       string          `json:"listing_id" binding:"required"`
	PaymentIntentID string          `json:"payment_intent_id" binding:"required"`
	BillingDetails  json.RawMessage `json:"billing_details"`
}

type SettleAuctionRequest struct {
	PaymentIntentID string          `json:"payment_intent_id" binding:"required"`
	BillingDetails  json.RawMessage `json:"billing_details"`
}

// Response DTOs

type UserResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FullName  string `json:"full_name"`
	Role      string `json:"role"`
	IsAdmin   bool   `json:"is_admin"`
	CreatedAt string `json:"created_at"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type ListingResponse struct {
	ID             string       `json:"id"`
	SellerID       string       `json:"seller_id"`
	Title          string       `json:"title"`
	Description    string       `json:"description"`
	ListingType    string       `json:"listing_type"`
	Price          *money.Cents `json:"price,omitempty"`
	StartingBid    *money.Cents `json:"starting_bid,omitempty"`
	AuctionEndTime *string      `json:"auction_end_time,omitempty"`
	CurrentHighest *money.Cents `json:"current_highest,omitempty"`
	Status         string       `json:"status"`
	Images         []string     `json:"images"`
	CreatedAt      string       `json:"created_at"`
	UpdatedAt      string       `json:"updated_at"`
}

type ListingPageResponse struct {
	Items []ListingResponse `json:"items"`
	Total int               `json:"total"`
}

type BidResponse struct {
	ID        string      `json:"id"`
	ListingID string      `json:"listing_id"`
	BidderID  string      `json:"bidder_id"`
	Amount    money.Cents `json:"amount"`
	PlacedAt  string      `json:"placed_at"`
}

type ListingBidResponse struct {
	BidResponse
	IsWinning    bool `json:"is_winning"`
	AuctionEnded bool `json:"auction_ended"`
}

type UserBidResponse struct {
	BidResponse
	ListingTitle   string      `json:"listing_title"`
	ListingStatus  string      `json:"listing_status"`
	AuctionEndTime *string     `json:"auction_end_time,omitempty"`
	CurrentHighest money.Cents `json:"current_highest"`
	IsWinning      bool        `json:"is_winning"`
	AuctionEnded   bool        `json:"auction_ended"`
}

type HighestBidResponse struct {
	ListingID  string      `json:"listing_id"`
	HighestBid money.Cents `json:"highest_bid"`
}

type QuoteResponse struct {
	ListingID string      `json:"listing_id"`
	Subtotal  money.Cents `json:"subtotal"`
	Tax       money.Cents `json:"tax"`
	Shipping  money.Cents `json:"shipping"`
	Total     money.Cents `json:"total"`
}

type PaymentIntentResponse struct {
	ID           string      `json:"id"`
	ClientSecret string      `json:"client_secret"`
	ListingID    string      `json:"listing_id"`
	Amount       money.Cents `json:"amount"`
	AmountCents  int64       `json:"amount_cents"`
	Currency     string      `json:"currency"`
}

type OrderResponse struct {
	ID               string          `json:"id"`
	ListingID        string          `json:"listing_id"`
	ListingTitle     string          `json:"listing_title"`
	BuyerID          string          `json:"buyer_id"`
	SellerID         string          `json:"seller_id"`
	Subtotal         money.Cents     `json:"subtotal"`
	Tax              money.Cents     `json:"tax"`
	Shipping         money.Cents     `json:"shipping"`
	Amount           money.Cents     `json:"amount"`
	PaymentReference string          `json:"payment_reference"`
	BillingDetails   json.RawMessage `json:"billing_details,omitempty"`
	Status           string          `json:"status"`
	CreatedAt        string          `json:"created_at"`
}

type MyOrdersResponse struct {
	Purchases []OrderResponse `json:"purchases"`
	Sales     []OrderResponse `json:"sales"`
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}

func toUserResponse(u auth.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		Role:      string(u.Role),
		IsAdmin:   u.IsAdmin,
		CreatedAt: formatTime(u.CreatedAt),
	}
}

func toListingResponse(l listing.Listing) ListingResponse {
	images := l.ImageRefs
	if images == nil {
		images = []string{}
	}
	return ListingResponse{
		ID:             l.ID,
		SellerID:       l.SellerID,
		Title:          l.Title,
		Description:    l.Description,
		ListingType:    string(l.Type),
		Price:          l.Price,
		StartingBid:    l.StartingBid,
		AuctionEndTime: formatTimePtr(l.AuctionEndTime),
		CurrentHighest: l.CurrentHigh,
		Status:         string(l.Status),
		Images:         images,
		CreatedAt:      formatTime(l.CreatedAt),
		UpdatedAt:      formatTime(l.UpdatedAt),
	}
}

func toListingResponses(items []listing.Listing) []ListingResponse {
	out := make([]ListingResponse, 0, len(items))
	for _, l := range items {
		out = append(out, toListingResponse(l))
	}
	return out
}

func toBidResponse(b bidding.Bid) BidResponse {
	return BidResponse{
		ID:        b.ID,
		ListingID: b.ListingID,
		BidderID:  b.BidderID,
		Amount:    b.Amount,
		PlacedAt:  formatTime(b.PlacedAt),
	}
}

func toOrderResponse(o settlement.Order) OrderResponse {
	return OrderResponse{
		ID:               o.ID,
		ListingID:        o.ListingID,
		ListingTitle:     o.ListingTitle,
		BuyerID:          o.BuyerID,
		SellerID:         o.SellerID,
		Subtotal:         o.Subtotal,
		Tax:              o.Tax,
		Shipping:         o.Shipping,
		Amount:           o.Amount,
		PaymentReference: o.PaymentReference,
		BillingDetails:   o.Billing,
		Status:           string(o.Status),
		CreatedAt:        formatTime(o.CreatedAt),
	}
}

func toOrderResponses(orders []settlement.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderResponse(o))
	}
	return out
}
