package middleware

import (
	"net/http"
	"sort"
	"strconv"
	"strings"

	"condoparcel/internal/common"

	"github.com/labstack/echo/v4"
)

const (
	APIVersionHeader     = "X-API-Version"
	apiVersionContextKey = "api_version"
)

// APIVersions is the set of /vN path prefixes the server answers.
type APIVersions struct {
	served map[string]bool
}

func NewAPIVersions(versions ...string) *APIVersions {
	served := make(map[string]bool, len(versions))
	for _, v := range versions {
		served[v] = true
	}
	return &APIVersions{served: served}
}

// Group mounts a /version route group whose responses carry the version header.
func (av *APIVersions) Group(e *echo.Echo, version string) *echo.Group {
	g := e.Group("/" + version)
	g.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Response().Header().Set(APIVersionHeader, version)
			return next(c)
		}
	})
	return g
}

// Resolve answers 404 UNSUPPORTED_VERSION for a /vN prefix that is not served and
// records the served version on the context. Unversioned paths pass through.
func (av *APIVersions) Resolve() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			version := pathVersion(c.Request().URL.Path)
			if version == "" {
				return next(c)
			}
			if !av.served[version] {
				return c.JSON(http.StatusNotFound, common.CreateErrorResponse(
					"UNSUPPORTED_VERSION",
					"Unsupported API version",
					map[string]string{"supported_versions": strings.Join(av.List(), ", ")},
				))
			}
			c.Set(apiVersionContextKey, version)
			return next(c)
		}
	}
}

// List returns the served versions in order.
func (av *APIVersions) List() []string {
	versions := make([]string, 0, len(av.served))
	for v := range av.served {
		versions = append(versions, v)
	}
	sort.Strings(versions)
	return versions
}

// pathVersion reads the vN of a leading /vN segment, or "" when there is none.
func pathVersion(path string) string {
	segment, ok := strings.CutPrefix(path, "/v")
	if !ok {
		return ""
	}
	if i := strings.IndexByte(segment, '/'); i >= 0 {
		segment = segment[:i]
	}
	n, err := strconv.Atoi(segment)
	if err != nil || n <= 0 {
		return ""
	}
	return "v" + strconv.Itoa(n)
}
