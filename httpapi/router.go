package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// NewRouter configures all Gin routes for the application
func NewRouter(h *Handler, verifier TokenVerifier, log logrus.FieldLogger) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(RequestLogger(log))

	router.GET("/healthz", func(c *gin.Context) {
		JSONResponse(c, http.StatusOK, gin.H{"ok": true}, "healthy")
	})

	requireAuth := Authenticate(verifier)
	optionalAuth := OptionalAuthenticate(verifier)
	api := router.Group("/api")

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", h.RegisterHandler)
		authGroup.POST("/login", h.LoginHandler)
	}

	listings := api.Group("/listings")
	{
		listings.GET("", h.ListListingsHandler)
		listings.POST("", requireAuth, h.CreateListingHandler)
		listings.GET("/mine", requireAuth, h.MyListingsHandler)
		listings.GET("/:id", optionalAuth, h.GetListingHandler)
		listings.DELETE("/:id", requireAuth, h.DeleteListingHandler)
		listings.GET("/:id/bids", h.ListingBidsHandler)
		listings.GET("/:id/highest-bid", h.HighestBidHandler)
		listings.GET("/:id/winner", h.WinnerHandler)
		listings.GET("/:id/quote", h.QuoteHandler)
	}

	admin := api.Group("/admin", requireAuth, RequireAdmin())
	{
		admin.GET("/listings/pending", h.PendingListingsHandler)
		admin.PUT("/listings/:id/moderate", h.ModerateListingHandler)
	}

	bids := api.Group("/bids", requireAuth)
	{
		bids.POST("", h.PlaceBidHandler)
		bids.GET("/mine", h.MyBidsHandler)
	}

	payments := api.Group("/payments", requireAuth)
	{
		payments.POST("/intent", h.PaymentIntentHandler)
		payments.POST("/confirm", h.ConfirmPaymentHandler)
	}

	api.POST("/auctions/:id/settle", requireAuth, h.SettleAuctionHandler)
	api.GET("/orders/mine", requireAuth, h.MyOrdersHandler)

	return router
}
