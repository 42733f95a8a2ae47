package api

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/BrickVest/BrickVest-Backend/services"
	"github.com/BrickVest/BrickVest-Backend/services/monitoring/logging"
	"github.com/BrickVest/BrickVest-Backend/utils"
	"github.com/gin-gonic/gin"
)

const (
	rateLimitWindow   = time.Minute
	rateLimitRequests = 120
)

func AuthenticatedMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token := ctx.GetHeader("Authorization")
		if token == "" {
			ctx.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized Request"})
			ctx.Abort()
			return
		}

		tokenSplit := strings.Split(token, " ")
		if len(tokenSplit) != 2 || strings.ToLower(tokenSplit[0]) != "bearer" {
			ctx.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid token, expects bearer token"})
			ctx.Abort()
			return
		}

		user, err := TokenController.VerifyToken(tokenSplit[1])
		if err != nil {
			ctx.JSON(http.StatusUnauthorized, gin.H{"message": err.Error()})
			ctx.Abort()
			return
		}

		ctx.Set("user_id", user.UserID)
		ctx.Set("user_role", user.Role)
		ctx.Set("user_verified", user.Verified)
		/// Accessible User Across the App
		ctx.Set("user", user)
		ctx.Next()
	}
}

func AdminMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if ctx.GetString("user_role") != utils.RoleAdmin {
			ctx.JSON(http.StatusForbidden, gin.H{"message": "Admin access required"})
			ctx.Abort()
			return
		}
		ctx.Next()
	}
}

// RateLimitMiddleware enforces a fixed-window request cap per client IP.
// Redis keeps the counters so the cap holds across engine instances.
func RateLimitMiddleware(redis *services.RedisService, logger *logging.Logger) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		key := fmt.Sprintf("ratelimit:%s", ctx.ClientIP())

		count, err := redis.CountWithinWindow(ctx, key, rateLimitWindow)
		if err != nil {
			// Rate limiting is protective, not load-bearing. Fail open.
			logger.WithError(err).Warn("rate limit check failed")
			ctx.Next()
			return
		}

		if count > rateLimitRequests {
			ctx.JSON(http.StatusTooManyRequests, gin.H{"message": "Too many requests, please slow down"})
			ctx.Abort()
			return
		}

		ctx.Next()
	}
}

func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {

		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Header("Access-Control-Allow-Methods", "POST,HEAD,PATCH,OPTIONS,GET,PUT")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
