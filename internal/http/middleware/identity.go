package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/aneslog/aneslog-backend/internal/domain"
	"github.com/aneslog/aneslog-backend/internal/platform/logger"
	"github.com/aneslog/aneslog-backend/internal/requestdata"
)

const (
	headerUserID = "X-User-ID"
	headerRole   = "X-User-Role"
)

// IdentityMiddleware trusts the upstream auth proxy's identity headers.
// Attach parses them into the request context without rejecting anything;
// RequireAuth / RequireSenior gate the protected route groups.
type IdentityMiddleware struct {
	log *logger.Logger
}

func NewIdentityMiddleware(log *logger.Logger) *IdentityMiddleware {
	return &IdentityMiddleware{log: log.With("middleware", "IdentityMiddleware")}
}

func (im *IdentityMiddleware) Attach() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := uuid.Parse(c.GetHeader(headerUserID))
		if err != nil {
			c.Next()
			return
		}
		role := domain.Role(c.GetHeader(headerRole))
		if !role.Valid() {
			im.log.Warn("identity header carries unknown role", "user_id", userID, "role", string(role))
			c.Next()
			return
		}
		ctx := requestdata.WithRequestData(c.Request.Context(), &requestdata.RequestData{
			UserID: userID,
			Role:   role,
		})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func (im *IdentityMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		rd := requestdata.GetRequestData(c.Request.Context())
		if rd == nil || rd.UserID == uuid.Nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{"message": "missing caller identity", "code": "unauthorized"},
			})
			return
		}
		c.Next()
	}
}

func (im *IdentityMiddleware) RequireSenior() gin.HandlerFunc {
	return func(c *gin.Context) {
		rd := requestdata.GetRequestData(c.Request.Context())
		if rd == nil || rd.UserID == uuid.Nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{"message": "missing caller identity", "code": "unauthorized"},
			})
			return
		}
		if rd.Role != domain.RoleSenior {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": gin.H{"message": "senior role required", "code": "forbidden"},
			})
			return
		}
		c.Next()
	}
}
