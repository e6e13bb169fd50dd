package frontend

import (
	"context"
	"io/fs"
	"net/http"
	"path/filepath"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/hrygo/wanderchat/internal/util"
)

// apiPrefixes are served by the API and never by the static handler.
var apiPrefixes = []string{"/api", "/chat", "/history", "/healthz", "/metrics"}

type FrontendService struct{}

func NewFrontendService() *FrontendService {
	return &FrontendService{}
}

func (*FrontendService) Serve(_ context.Context, e *echo.Echo) {
	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level: 5,
		Skipper: func(c echo.Context) bool {
			return util.HasPrefixes(c.Request().URL.Path, "/metrics")
		},
	}))

	skipper := func(c echo.Context) bool {
		path := c.Request().URL.Path
		if util.HasPrefixes(path, apiPrefixes...) {
			return true
		}

		// Security: Prevent MIME type sniffing
		c.Response().Header().Set("X-Content-Type-Options", "nosniff")

		// The page is small and changes with every release; never cache it.
		if ext := filepath.Ext(path); ext == "" || ext == ".html" {
			c.Response().Header().Set(echo.HeaderCacheControl, "no-cache, no-store, must-revalidate")
			c.Response().Header().Set("Pragma", "no-cache")
			c.Response().Header().Set("Expires", "0")
			return false
		}

		c.Response().Header().Set(echo.HeaderCacheControl, "public, max-age=3600")
		return false
	}

	e.Use(middleware.StaticWithConfig(middleware.StaticConfig{
		Filesystem: getFileSystem("dist"),
		HTML5:      true,
		Skipper:    skipper,
	}))
}

func getFileSystem(path string) http.FileSystem {
	fs, err := fs.Sub(embeddedFiles, path)
	if err != nil {
		panic(err)
	}
	return http.FS(fs)
}
