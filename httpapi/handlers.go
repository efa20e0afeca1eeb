package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"refind/auth"
	"refind/bidding"
	"refind/listing"
	"refind/money"
	"refind/settlement"
)

//go:generate mockgen -source=handlers.go -destination=mock_services_test.go -package=httpapi

type AuthService interface {
	Register(ctx context.Context, req auth.RegisterRequest) (auth.User, error)
	Login(ctx context.Context, req auth.LoginRequest) (auth.LoginResult, error)
}

type ListingService interface {
	Create(ctx context.Context, params listing.CreateParams) (listing.Listing, error)
	GetVisible(ctx context.Context, listingID string, viewer listing.Viewer) (listing.Listing, error)
	ListApproved(ctx context.Context, filters listing.Filters) (listing.ListResult, error)
	ListPending(ctx context.Context, filters listing.Filters) (listing.ListResult, error)
	ListBySeller(ctx context.Context, sellerID string) ([]listing.Listing, error)
	Moderate(ctx context.Context, listingID string, decision listing.Decision) (listing.Listing, error)
	Retract(ctx context.Context, params listing.RetractParams) error
}

type BiddingService interface {
	PlaceBid(ctx context.Context, params bidding.PlaceBidParams) (bidding.Bid, error)
	HighestBid(ctx context.Context, listingID string) (money.Cents, error)
	BidsFor(ctx context.Context, listingID string) ([]bidding.ListingBid, error)
	BidsByUser(ctx context.Context, bidderID string) ([]bidding.UserBid, error)
	Winner(ctx context.Context, listingID string) (bidding.Bid, error)
}

type SettlementService interface {
	Quote(ctx context.Context, listingID string) (settlement.Quote, error)
	CreatePaymentIntent(ctx context.Context, listingID, buyerID string) (settlement.PaymentIntent, error)
	Settle(ctx context.Context, params settlement.SettleParams) (settlement.Order, error)
	SettleAuction(ctx context.Context, params settlement.SettleParams) (settlement.Order, error)
	OrdersByBuyer(ctx context.Context, buyerID string) ([]settlement.Order, error)
	OrdersBySeller(ctx context.Context, sellerID string) ([]settlement.Order, error)
}

// Handler adapts HTTP requests to the marketplace services. It holds no rules of its own.
type Handler struct {
	auth     AuthService
	listings ListingService
	bids     BiddingService
	orders   SettlementService
}

func NewHandler(authSvc AuthService, listings ListingService, bids BiddingService, orders SettlementService) *Handler {
	return &Handler{auth: authSvc, listings: listings, bids: bids, orders: orders}
}

// RegisterHandler handles POST /api/auth/register
func (h *Handler) RegisterHandler(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleBindError(c, "RegisterHandler", err)
		return
	}

	user, err := h.auth.Register(c.Request.Context(), auth.RegisterRequest{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Role:     auth.Role(req.Role),
	})
	if err != nil {
		respondError(c, "RegisterHandler", err)
		return
	}

	JSONResponse(c, http.StatusCreated, toUserResponse(user), "user registered successfully")
}

// LoginHandler handles POST /api/auth/login
func (h *Handler) LoginHandler(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleBindError(c, "LoginHandler", err)
		return
	}

	res, err := h.auth.Login(c.Request.Context(), auth.LoginRequest{Email: req.Email, Password: req.Password})
	if err != nil {
		respondError(c, "LoginHandler", err)
		return
	}

	JSONResponse(c, http.StatusOK, LoginResponse{Token: res.Token, User: toUserResponse(res.User)}, "login successful")
}

// ListListingsHandler handles GET /api/listings
func (h *Handler) ListListingsHandler(c *gin.Context) {
	filters, ok := bindFilters(c, "ListListingsHandler")
	if !ok {
		return
	}

	page, err := h.listings.ListApproved(c.Request.Context(), filters)
	if err != nil {
		respondError(c, "ListListingsHandler", err)
		return
	}

	JSONResponse(c, http.StatusOK, ListingPageResponse{Items: toListingResponses(page.Items), Total: page.Total}, "listings retrieved successfully")
}

// GetListingHandler handles GET /api/listings/:id. Only the seller and admins
// see a listing before it is approved.
func (h *Handler) GetListingHandler(c *gin.Context) {
	claims := currentClaims(c)
	viewer := listing.Viewer{UserID: claims.UserID, IsAdmin: claims.IsAdmin}
	l, err := h.listings.GetVisible(c.Request.Context(), c.Param("id"), viewer)
	if err != nil {
		respondError(c, "GetListingHandler", err)
		return
	}

	JSONResponse(c, http.StatusOK, toListingResponse(l), "listing retrieved successfully")
}

// CreateListingHandler handles POST /api/listings
func (h *Handler) CreateListingHandler(c *gin.Context) {
	var req CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleBindError(c, "CreateListingHandler", err)
		return
	}

	claims := currentClaims(c)
	l, err := h.listings.Create(c.Request.Context(), listing.CreateParams{
		SellerID:       claims.UserID,
		Title:          req.Title,
		Description:    req.Description,
		Type:           listing.Type(req.ListingType),
		Price:          req.Price,
		StartingBid:    req.StartingBid,
		AuctionEndTime: req.AuctionEndTime,
		ImageRefs:      req.ImageRefs,
	})
	if err != nil {
		respondError(c, "CreateListingHandler", err)
		return
	}

	JSONResponse(c, http.StatusCreated, toListingResponse(l), "listing created and pending moderation")
	requestLogger(c).WithFields(logrus.Fields{
		"listing_id": l.ID,
		"seller_id":  l.SellerID,
	}).Info("CreateListingHandler: listing created")
}

// MyListingsHandler handles GET /api/listings/mine
func (h *Handler) MyListingsHandler(c *gin.Context) {
	items, err := h.listings.ListBySeller(c.Request.Context(), currentClaims(c).UserID)
	if err != nil {
		respondError(c, "MyListingsHandler", err)
		return
	}

	JSONResponse(c, http.StatusOK, toListingResponses(items), "listings retrieved successfully")
}

// DeleteListingHandler handles DELETE /api/listings/:id
func (h *Handler) DeleteListingHandler(c *gin.Context) {
	claims := currentClaims(c)
	err := h.listings.Retract(c.Request.Context(), listing.RetractParams{
		ListingID:   c.Param("id"),
		RequesterID: claims.UserID,
		IsAdmin:     claims.IsAdmin,
	})
	if err != nil {
		respondError(c, "DeleteListingHandler", err)
		return
	}

	JSONResponse(c, http.StatusOK, gin.H{"id": c.Param("id")}, "listing deleted successfully")
}

// PendingListingsHandler handles GET /api/admin/listings/pending
func (h *Handler) PendingListingsHandler(c *gin.Context) {
	filters, ok := bindFilters(c, "PendingListingsHandler")
	if !ok {
		return
	}

	page, err := h.listings.ListPending(c.Request.Context(), filters)
	if err != nil {
		respondError(c, "PendingListingsHandler", err)
		return
	}

	JSONResponse(c, http.StatusOK, ListingPageResponse{Items: toListingResponses(page.Items), Total: page.Total}, "pending listings retrieved successfully")
}

// ModerateListingHandler handles PUT /api/admin/listings/:id/moderate
func (h *Handler) ModerateListingHandler(c *gin.Context) {
	var req ModerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleBindError(c, "ModerateListingHandler", err)
		return
	}

	l, err := h.listings.Moderate(c.Request.Context(), c.Param("id"), listing.Decision(req.Decision))
	if err != nil {
		respondError(c, "ModerateListingHandler", err)
		return
	}

	JSONResponse(c, http.StatusOK, toListingResponse(l), "listing "+string(l.Status))
}

// PlaceBidHandler handles POST /api/bids
func (h *Handler) PlaceBidHandler(c *gin.Context) {
	var req PlaceBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleBindError(c, "PlaceBidHandler", err)
		return
	}

	bid, err := h.bids.PlaceBid(c.Request.Context(), bidding.PlaceBidParams{
		ListingID: req.ListingID,
		BidderID:  currentClaims(c).UserID,
		Amount:    req.Amount,
	})
	if err != nil {
		respondError(c, "PlaceBidHandler", err)
		return
	}

	JSONResponse(c, http.StatusCreated, toBidResponse(bid), "bid placed successfully")
	requestLogger(c).WithFields(logrus.Fields{
		"bid_id":     bid.ID,
		"listing_id": bid.ListingID,
		"amount":     bid.Amount.String(),
	}).Info("PlaceBidHandler: bid placed")
}

// ListingBidsHandler handles GET /api/listings/:id/bids
func (h *Handler) ListingBidsHandler(c *gin.Context) {
	bids, err := h.bids.BidsFor(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, "ListingBidsHandler", err)
		return
	}

	out := make([]ListingBidResponse, 0, len(bids))
	for _, b := range bids {
		out = append(out, ListingBidResponse{
			BidResponse:  toBidResponse(b.Bid),
			IsWinning:    b.Winning,
			AuctionEnded: b.AuctionEnded,
		})
	}
	JSONResponse(c, http.StatusOK, out, "bids retrieved successfully")
}

// HighestBidHandler handles GET /api/listings/:id/highest-bid
func (h *Handler) HighestBidHandler(c *gin.Context) {
	high, err := h.bids.HighestBid(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, "HighestBidHandler", err)
		return
	}

	JSONResponse(c, http.StatusOK, HighestBidResponse{ListingID: c.Param("id"), HighestBid: high}, "highest bid retrieved successfully")
}

// WinnerHandler handles GET /api/listings/:id/winner
func (h *Handler) WinnerHandler(c *gin.Context) {
	bid, err := h.bids.Winner(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, "WinnerHandler", err)
		return
	}

	JSONResponse(c, http.StatusOK, toBidResponse(bid), "winning bid retrieved successfully")
}

// MyBidsHandler handles GET /api/bids/mine
func (h *Handler) MyBidsHandler(c *gin.Context) {
	bids, err := h.bids.BidsByUser(c.Request.Context(), currentClaims(c).UserID)
	if err != nil {
		respondError(c, "MyBidsHandler", err)
		return
	}

	out := make([]UserBidResponse, 0, len(bids))
	for _, b := range bids {
		out = append(out, UserBidResponse{
			BidResponse:    toBidResponse(b.Bid),
			ListingTitle:   b.ListingTitle,
			ListingStatus:  string(b.ListingStatus),
			AuctionEndTime: formatTimePtr(b.AuctionEndTime),
			CurrentHighest: b.CurrentHighest,
			IsWinning:      b.Winning,
			AuctionEnded:   b.AuctionEnded,
		})
	}
	JSONResponse(c, http.StatusOK, out, "bids retrieved successfully")
}

// QuoteHandler handles GET /api/listings/:id/quote
func (h *Handler) QuoteHandler(c *gin.Context) {
	q, err := h.orders.Quote(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, "QuoteHandler", err)
		return
	}

	JSONResponse(c, http.StatusOK, QuoteResponse{
		ListingID: c.Param("id"),
		Subtotal:  q.Subtotal,
		Tax:       q.Tax,
		Shipping:  q.Shipping,
		Total:     q.Total,
	}, "quote calculated successfully")
}

// PaymentIntentHandler handles POST /api/payments/intent
func (h *Handler) PaymentIntentHandler(c *gin.Context) {
	var req PaymentIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleBindError(c, "PaymentIntentHandler", err)
		return
	}

	intent, err := h.orders.CreatePaymentIntent(c.Request.Context(), req.ListingID, currentClaims(c).UserID)
	if err != nil {
		respondError(c, "PaymentIntentHandler", err)
		return
	}

	JSONResponse(c, http.StatusCreated, PaymentIntentResponse{
		ID:           intent.ID,
		ClientSecret: intent.ClientSecret,
		ListingID:    intent.ListingID,
		Amount:       intent.Amount,
		AmountCents:  int64(intent.Amount),
		Currency:     intent.Currency,
	}, "payment intent created")
}

// ConfirmPaymentHandler handles POST /api/payments/confirm
func (h *Handler) ConfirmPaymentHandler(c *gin.Context) {
	var req ConfirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleBindError(c, "ConfirmPaymentHandler", err)
		return
	}

	order, err := h.orders.Settle(c.Request.Context(), settlement.SettleParams{
		ListingID:        req.ListingID,
		BuyerID:          currentClaims(c).UserID,
		PaymentReference: req.PaymentIntentID,
		Billing:          req.BillingDetails,
	})
	if err != nil {
		respondError(c, "ConfirmPaymentHandler", err)
		return
	}

	JSONResponse(c, http.StatusCreated, toOrderResponse(order), "order placed successfully")
	requestLogger(c).WithFields(logrus.Fields{
		"order_id":   order.ID,
		"listing_id": order.ListingID,
		"amount":     order.Amount.String(),
	}).Info("ConfirmPaymentHandler: order settled")
}

// SettleAuctionHandler handles POST /api/auctions/:id/settle
func (h *Handler) SettleAuctionHandler(c *gin.Context) {
	var req SettleAuctionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleBindError(c, "SettleAuctionHandler", err)
		return
	}

	order, err := h.orders.SettleAuction(c.Request.Context(), settlement.SettleParams{
		ListingID:        c.Param("id"),
		BuyerID:          currentClaims(c).UserID,
		PaymentReference: req.PaymentIntentID,
		Billing:          req.BillingDetails,
	})
	if err != nil {
		respondError(c, "SettleAuctionHandler", err)
		return
	}

	JSONResponse(c, http.StatusCreated, toOrderResponse(order), "auction settled successfully")
}

// MyOrdersHandler handles GET /api/orders/mine
func (h *Handler) MyOrdersHandler(c *gin.Context) {
	userID := currentClaims(c).UserID
	ctx := c.Request.Context()

	purchases, err := h.orders.OrdersByBuyer(ctx, userID)
	if err != nil {
		respondError(c, "MyOrdersHandler", err)
		return
	}
	sales, err := h.orders.OrdersBySeller(ctx, userID)
	if err != nil {
		respondError(c, "MyOrdersHandler", err)
		return
	}

	JSONResponse(c, http.StatusOK, MyOrdersResponse{
		Purchases: toOrderResponses(purchases),
		Sales:     toOrderResponses(sales),
	}, "orders retrieved successfully")
}

func bindFilters(c *gin.Context, handlerName string) (listing.Filters, bool) {
	filters := listing.Filters{
		Type:     listing.Type(c.Query("type")),
		SellerID: c.Query("seller_id"),
	}
	for key, dst := range map[string]*int{"page": &filters.Page, "page_size": &filters.PageSize} {
		raw := c.Query(key)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			handleBindError(c, handlerName, fmt.Errorf("%s must be a non-negative integer", key))
			return listing.Filters{}, false
		}
		*dst = n
	}
	return filters, true
}
