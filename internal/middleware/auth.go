package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/harentsoaR/doctors-portal/internal/utils"
)

const (
	emailKey        = "email"
	IssuerKeyHeader = "X-Issuer-Key"
)

// Guard admits a request by returning nil, or rejects it with an error whose
// kind decides the response status.
type Guard func(c *gin.Context) error

// Guarded runs the guards in the order given and stops at the first rejection,
// so a later guard can rely on what an earlier one established.
func Guarded(logger *zap.Logger, guards ...Guard) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, guard := range guards {
			if err := guard(c); err != nil {
				utils.JSONError(c, logger, err)
				return
			}
		}
		c.Next()
	}
}

// Bearer verifies the token in the Authorization header and records the
// caller's email. A missing header is 401; anything wrong with the token is 403.
func Bearer(issuer *utils.TokenIssuer) Guard {
	return func(c *gin.Context) error {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			return utils.Unauthorized()
		}

		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return utils.Forbidden().WithCause(errors.New("malformed authorization header"))
		}

		claims, err := issuer.ValidateJWT(parts[1])
		if err != nil {
			return utils.Forbidden().WithCause(err)
		}

		c.Set(emailKey, claims.Email)
		return nil
	}
}

type AdminChecker interface {
	IsAdmin(ctx context.Context, email string) (bool, error)
}

// Admin lets the request through only when the verified caller is an admin
// right now. It must follow Bearer.
func Admin(access AdminChecker) Guard {
	return func(c *gin.Context) error {
		email, ok := Email(c)
		if !ok {
			return utils.Unauthorized()
		}
		isAdmin, err := access.IsAdmin(c.Request.Context(), email)
		if err != nil {
			return err
		}
		if !isAdmin {
			return utils.Forbidden()
		}
		return nil
	}
}

// IssuerKey guards token issuance with a shared key when keyHash is set.
// With an empty hash every request passes.
func IssuerKey(keyHash string) Guard {
	return func(c *gin.Context) error {
		if keyHash == "" {
			return nil
		}
		key := c.GetHeader(IssuerKeyHeader)
		if key == "" || !utils.CheckSecretHash(key, keyHash) {
			return utils.Forbidden().WithCause(errors.New("issuer key missing or wrong"))
		}
		return nil
	}
}

// Email returns the verified caller email set by Bearer.
func Email(c *gin.Context) (string, bool) {
	email := c.GetString(emailKey)
	return email, email != ""
}
