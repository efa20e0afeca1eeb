package settlement

import (
	"encoding/json"
	"time"

	"refind/money"
)

// Pricing holds the checkout surcharges applied on top of the item price.
type Pricing struct {
	TaxBasisPoints int64
	Shipping       money.Cents
}

// DefaultPricing is 8% tax and a flat 9.99 shipping fee.
func DefaultPricing() Pricing {
	return Pricing{TaxBasisPoints: 800, Shipping: 999}
}

type Quote struct {
	Subtotal money.Cents
	Tax      money.Cents
	Shipping money.Cents
	Total    money.Cents
}

// Quote prices subtotal. It is a pure function of its inputs.
func (p Pricing) Quote(subtotal money.Cents) Quote {
	tax := subtotal.ApplyBasisPoints(p.TaxBasisPoints)
	return Quote{
		Subtotal: subtotal,
		Tax:      tax,
		Shipping: p.Shipping,
		Total:    subtotal + tax + p.Shipping,
	}
}

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderCompleted OrderStatus = "completed"
	OrderCancelled OrderStatus = "cancelled"
)

// Order is the immutable record of a settled purchase. Amount is the settled total.
type Order struct {
	ID               string
	ListingID        string
	ListingTitle     string
	BuyerID          string
	SellerID         string
	Subtotal         money.Cents
	Tax              money.Cents
	Shipping         money.Cents
	Amount           money.Cents
	PaymentReference string
	Billing          json.RawMessage
	Status           OrderStatus
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// PaymentIntent is a stand-in for a gateway payment intent. No gateway is contacted.
type PaymentIntent struct {
	ID           string
	ClientSecret string
	ListingID    string
	Amount       money.Cents
	Currency     string
}

type SettleParams struct {
	ListingID        string
	BuyerID          string
	PaymentReference string
	Billing          json.RawMessage
}
