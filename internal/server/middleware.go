package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// RequestLogger tags every request with an ID and logs it on completion.
func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := uuid.NewString()
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)

		c.Next()

		elapsed := time.Since(start)
		logger.Info("request",
			"request_id", requestID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"client", c.ClientIP(),
			"duration_ms", elapsed.Milliseconds(),
		)
	}
}

// Auth verifies an HS256 bearer token and requires a userId claim.
func Auth(secret string, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Header("WWW-Authenticate", "Bearer")
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Error: "Authorization header missing"})
			return
		}

		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			c.Header("WWW-Authenticate", "Bearer")
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Error: "Authorization header must be a bearer token"})
			return
		}

		claims := jwt.MapClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return []byte(secret), nil
		}, jwt.WithValidMethods([]string{"HS256"}))
		if err != nil || !token.Valid {
			logger.Warn("invalid token", "error", err)
			c.Header("WWW-Authenticate", "Bearer")
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Error: "Invalid or expired token"})
			return
		}

		userID, ok := claims["userId"]
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Error: "Invalid token payload"})
			return
		}
		c.Set("userId", userID)

		c.Next()
	}
}

// clientLimiters hands out one token-bucket limiter per client IP. The
// bucket refills at rpm/60 per second with a burst of rpm, which bounds
// any one-minute window at roughly rpm requests.
type clientLimiters struct {
	mu       sync.Mutex
	rpm      int
	limiters map[string]*rate.Limiter
}

func (l *clientLimiters) get(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	limiter, ok := l.limiters[ip]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(float64(l.rpm)/60.0), l.rpm)
		l.limiters[ip] = limiter
	}
	return limiter
}

// RateLimit rejects clients that exceed requestsPerMinute with 429.
func RateLimit(requestsPerMinute int, logger *slog.Logger) gin.HandlerFunc {
	limiters := &clientLimiters{
		rpm:      requestsPerMinute,
		limiters: make(map[string]*rate.Limiter),
	}
	return func(c *gin.Context) {
		ip := c.ClientIP()
		c.Header("X-RateLimit-Limit", strconv.Itoa(requestsPerMinute))
		if !limiters.get(ip).Allow() {
			logger.Warn("rate limit exceeded", "client", ip)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, errorResponse{Error: "Rate limit exceeded. Try again later."})
			return
		}
		c.Next()
	}
}
