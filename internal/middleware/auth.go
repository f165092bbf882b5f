package middleware

import (
	"context"
	"fmt"
	"time"

	"condoparcel/internal/common"
	"condoparcel/internal/services"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

const tokenContextKey = "user"

// JWTOptions selects how bearer tokens are verified. HS256 tokens, the ones login issues,
// are checked against Secret; when KeyFunc is set, asymmetric tokens from the identity
// provider are checked against its key set as well.
type JWTOptions struct {
	Secret  string
	KeyFunc jwt.Keyfunc
}

// LoadJWKS fetches the key set at url and keeps it refreshed in the background until
// the returned stop function is called.
func LoadJWKS(url string) (jwt.Keyfunc, func(), error) {
	jwks, err := keyfunc.Get(url, keyfunc.Options{
		RefreshInterval:   time.Hour,
		RefreshRateLimit:  5 * time.Minute,
		RefreshTimeout:    10 * time.Second,
		RefreshUnknownKID: true,
		RefreshErrorHandler: func(err error) {
			log.Warn().Err(err).Str("jwks_url", url).Msg("JWKS refresh failed")
		},
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load JWKS: %w", err)
	}
	return jwks.Keyfunc, jwks.EndBackground, nil
}

func jwtConfig(opts JWTOptions) echojwt.Config {
	cfg := echojwt.Config{
		ContextKey: tokenContextKey,
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(services.TokenClaims)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			log.Debug().Err(err).Str("route", c.Path()).Msg("bearer token rejected")
			return common.SendUnauthorizedError(c)
		},
	}
	if opts.KeyFunc != nil {
		cfg.KeyFunc = func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); ok {
				if token.Method != jwt.SigningMethodHS256 || opts.Secret == "" {
					return nil, fmt.Errorf("unexpected signing method %s", token.Method.Alg())
				}
				return []byte(opts.Secret), nil
			}
			return opts.KeyFunc(token)
		}
	} else {
		cfg.SigningKey = []byte(opts.Secret)
		cfg.SigningMethod = echojwt.AlgorithmHS256
	}
	return cfg
}

// Authenticate verifies the bearer token and puts the caller's identity in the request
// context.
func Authenticate(opts JWTOptions) echo.MiddlewareFunc {
	verify := echojwt.WithConfig(jwtConfig(opts))
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return verify(identity(next))
	}
}

func identity(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, ok := c.Get(tokenContextKey).(*jwt.Token)
		if !ok {
			return common.SendUnauthorizedError(c)
		}
		claims, ok := token.Claims.(*services.TokenClaims)
		if !ok {
			return common.SendUnauthorizedError(c)
		}

		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			return common.SendUnauthorizedError(c)
		}
		condominiumID, err := uuid.Parse(claims.CondominiumID)
		if err != nil {
			return common.SendUnauthorizedError(c)
		}

		ctx := context.WithValue(c.Request().Context(), common.UserIDKey, userID)
		ctx = context.WithValue(ctx, common.CondominiumIDKey, condominiumID)
		ctx = context.WithValue(ctx, common.RoleKey, claims.Role)
		c.SetRequest(c.Request().WithContext(ctx))

		return next(c)
	}
}
