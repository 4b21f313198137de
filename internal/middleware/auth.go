package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/alpinetrail/tracks-backend-go/pkg/response"
)

// DeviceClaims are the claims carried by recorder device tokens.
type DeviceClaims struct {
	DeviceID string `json:"device_id"`
	jwt.RegisteredClaims
}

// Auth validates bearer tokens on mutating endpoints and stores the
// recording device id in the request context.
func Auth(secret string) gin.HandlerFunc {
	secretBytes := []byte(secret)
	return func(c *gin.Context) {
		token := bearerFromHeader(c.GetHeader("Authorization"))
		if token == "" {
			response.Unauthorized(c, "missing bearer token")
			c.Abort()
			return
		}

		parsed, err := jwt.ParseWithClaims(token, &DeviceClaims{}, func(_ *jwt.Token) (interface{}, error) {
			return secretBytes, nil
		})
		if err != nil {
			response.Unauthorized(c, err.Error())
			c.Abort()
			return
		}

		claims, ok := parsed.Claims.(*DeviceClaims)
		if !ok || !parsed.Valid {
			response.Unauthorized(c, "token invalid")
			c.Abort()
			return
		}

		c.Set("device_id", claims.DeviceID)
		c.Next()
	}
}

func bearerFromHeader(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}
