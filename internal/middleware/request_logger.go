package middleware

import (
	"net/http"

	"condoparcel/internal/common"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// RequestLogger writes one zerolog line per request.
func RequestLogger() echo.MiddlewareFunc {
	return echoMiddleware.RequestLoggerWithConfig(echoMiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogRoutePath: true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echoMiddleware.RequestLoggerValues) error {
			event := log.Info()
			switch {
			case v.Status >= http.StatusInternalServerError:
				event = log.Error()
			case v.Status >= http.StatusBadRequest:
				event = log.Warn()
			}

			event = event.
				Str("method", v.Method).
				Str("uri", v.URI).
				Str("route", v.RoutePath).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("remote_ip", v.RemoteIP)
			if v.RequestID != "" {
				event = event.Str("request_id", v.RequestID)
			}
			if v.Error != nil {
				event = event.Err(v.Error)
			}
			event = withIdentity(c, event)
			event.Msg("request")
			return nil
		},
	})
}

// AuditMutations records who changed what, for every non-read request that succeeded.
func AuditMutations() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)

			method := c.Request().Method
			if method == http.MethodGet || method == http.MethodHead || method == http.MethodOptions {
				return err
			}
			status := c.Response().Status
			if err != nil || status >= http.StatusBadRequest {
				return err
			}

			event := log.Info().
				Str("audit", "mutation").
				Str("method", method).
				Str("route", c.Path()).
				Int("status", status)
			withIdentity(c, event).Msg("audit")
			return err
		}
	}
}

func withIdentity(c echo.Context, event *zerolog.Event) *zerolog.Event {
	ctx := c.Request().Context()
	if userID, ok := common.GetUserIDFromContext(ctx); ok {
		event = event.Str("user_id", userID.String())
	}
	if condominiumID, ok := common.GetCondominiumIDFromContext(ctx); ok {
		event = event.Str("condominium_id", condominiumID.String())
	}
	if role, ok := common.GetRoleFromContext(ctx); ok {
		event = event.Str("role", role)
	}
	return event
}
