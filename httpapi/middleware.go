package httpapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"refind/auth"
)

const (
	headerRequestID = "X-Request-ID"
	ctxLogger       = "refind.logger"
	ctxClaims       = "refind.claims"
)

// TokenVerifier turns a bearer token into the caller's claims.
type TokenVerifier interface {
	VerifyToken(token string) (auth.Claims, error)
}

// RequestLogger tags each request with an id and logs it with timing once handled.
func RequestLogger(log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(headerRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(headerRequestID, requestID)
		c.Set(ctxLogger, log.WithField("request_id", requestID))

		c.Next()

		entry := requestLogger(c).WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
		})
		if c.Writer.Status() >= http.StatusInternalServerError {
			entry.Warn("HTTP Request")
			return
		}
		entry.Info("HTTP Request")
	}
}

func requestLogger(c *gin.Context) logrus.FieldLogger {
	if v, ok := c.Get(ctxLogger); ok {
		if l, ok := v.(logrus.FieldLogger); ok {
			return l
		}
	}
	return logrus.StandardLogger()
}

// Authenticate requires a valid bearer token and stores its claims on the context.
func Authenticate(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			err := errors.New("missing bearer token")
			JSONError(c, http.StatusUnauthorized, err, "authentication required", nil)
			return
		}

		claims, err := verifier.VerifyToken(strings.TrimSpace(token))
		if err != nil {
			status, message := MapErrorToHTTP(err)
			if status == http.StatusInternalServerError {
				status, message = http.StatusUnauthorized, "invalid or expired token"
			}
			JSONError(c, status, errors.New(message), message, nil)
			return
		}

		c.Set(ctxClaims, claims)
		c.Next()
	}
}

// OptionalAuthenticate stores claims when a valid bearer token is present and
// otherwise lets the request through anonymously.
func OptionalAuthenticate(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if ok && strings.TrimSpace(token) != "" {
			if claims, err := verifier.VerifyToken(strings.TrimSpace(token)); err == nil {
				c.Set(ctxClaims, claims)
			}
		}
		c.Next()
	}
}

// RequireAdmin must run after Authenticate.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !currentClaims(c).IsAdmin {
			err := errors.New("admin access required")
			JSONError(c, http.StatusForbidden, err, "admin access required", nil)
			return
		}
		c.Next()
	}
}

func currentClaims(c *gin.Context) auth.Claims {
	if v, ok := c.Get(ctxClaims); ok {
		if claims, ok := v.(auth.Claims); ok {
			return claims
		}
	}
	return auth.Claims{}
}
