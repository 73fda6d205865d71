package handlers

import (
	"log"
	"net"
	"net/http"
	"strings"
	"time"

	"threadchat/internal/errs"
	"threadchat/internal/models"
	"threadchat/internal/msgs"
	"threadchat/internal/ratelimit"
	"threadchat/internal/utils"

	"github.com/gin-gonic/gin"
)

// Access policies run in declared order; the first rejection aborts the
// chain and nothing downstream, handler included, runs.

func MustAuthenticateMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		jwtToken := ctx.GetHeader("Authorization")
		if strings.Contains(jwtToken, "Bearer") {
			jwtToken = strings.Replace(jwtToken, "Bearer ", "", 1)
		}

		if jwtToken == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, models.Response{
				Success: false,
				Message: msgs.MsgYouMustLoginFirst,
				Errors:  []error{errs.ErrUnauthorized},
			})
			return
		}

		claims, err := utils.VerifyToken(jwtToken, utils.GetJwtKey())
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, models.Response{
				Success: false,
				Message: msgs.MsgYouMustLoginFirst,
				Errors:  []error{errs.ErrUnauthorized},
			})
			return
		}

		ctx.Set("user_id", claims.ID)
		ctx.Set("username", claims.Username)
		ctx.Set("user_role", claims.Role)
		ctx.Set("authenticated", true)
		ctx.Next()
	}
}

// RequestLogMiddleware records who asked for what; it never rejects.
func RequestLogMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		identity := "Anonymous"
		if username, ok := ctx.Get("username"); ok {
			identity = username.(string)
		}
		log.Printf("%s - User: %s - Path: %s", time.Now().Format(time.RFC3339), identity, ctx.Request.URL.Path)
		ctx.Next()
	}
}

// BusinessHoursMiddleware admits requests only between 09:00 and 18:00
// inclusive, local wall clock.
func BusinessHoursMiddleware(now func() time.Time) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		t := now()
		minutes := t.Hour()*60 + t.Minute()
		if minutes < 9*60 || minutes > 18*60 {
			ctx.AbortWithStatusJSON(http.StatusForbidden, models.Response{
				Success: false,
				Message: msgs.MsgOperationFailed,
				Errors:  []error{errs.ErrBusinessHoursOnly},
			})
			return
		}
		ctx.Next()
	}
}

// AbuseRateLimitMiddleware throttles state-changing requests per client IP.
// Reads pass through untouched.
func AbuseRateLimitMiddleware(limiter *ratelimit.SlidingWindowLimiter) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if ctx.Request.Method != http.MethodPost {
			ctx.Next()
			return
		}

		if !limiter.Allow(clientIP(ctx.Request)) {
			ctx.AbortWithStatusJSON(http.StatusForbidden, models.Response{
				Success: false,
				Message: msgs.MsgOperationFailed,
				Errors:  []error{errs.ErrTooManyMessages},
			})
			return
		}
		ctx.Next()
	}
}

// RequireElevatedRoleMiddleware admits staff and admin identities only.
func RequireElevatedRoleMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		role := ctx.GetString("user_role")
		if role != models.RoleStaff && role != models.RoleAdmin {
			ctx.AbortWithStatusJSON(http.StatusForbidden, models.Response{
				Success: false,
				Message: msgs.MsgOperationFailed,
				Errors:  []error{errs.ErrInsufficientPermission},
			})
			return
		}
		ctx.Next()
	}
}

// clientIP prefers the first forwarded address; a direct peer is the
// fallback.
func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return strings.TrimSpace(strings.Split(forwarded, ",")[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
