package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	bearerSchema = "Bearer "
	ctxUserID    = "user_id"
	ctxEmail     = "email"
)

// Claims is the bearer-token payload. The subject is the user's id.
type Claims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// verifyToken checks an HS256 token and returns the actor id it names.
func verifyToken(tokenString, secret, issuer string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return nil, errors.New("token subject is not a user id")
	}
	return claims, nil
}

// requireAuth rejects requests without a valid bearer token and stores the
// actor id under "user_id".
func requireAuth(secret, issuer string, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, bearerSchema) {
			fail(c, http.StatusUnauthorized, "authorization header is required")
			return
		}

		claims, err := verifyToken(strings.TrimPrefix(header, bearerSchema), secret, issuer)
		if err != nil {
			log.Debug("token rejected", zap.Error(err))
			fail(c, http.StatusUnauthorized, "invalid token")
			return
		}

		c.Set(ctxUserID, claims.Subject)
		c.Set(ctxEmail, claims.Email)
		c.Next()
	}
}

func actor(c *gin.Context) string {
	return c.GetString(ctxUserID)
}

// requestLogger logs one line per request once it has been served.
func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		}
		if id := actor(c); id != "" {
			fields = append(fields, zap.String("actor", id))
		}
		log.Info("request", fields...)
	}
}
