package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hrygo/wanderchat/plugin/markup"
)

// Format renders arbitrary text with the chat formatter.
// A missing or non-string "text" yields an empty fragment.
func (s *APIV1Service) Format(c echo.Context) error {
	body := map[string]any{}
	if err := c.Bind(&body); err != nil {
		return errorResponse(c, http.StatusBadRequest, "invalid request body")
	}

	s.Metrics.RecordFormatted("api", 1)
	return c.JSON(http.StatusOK, map[string]string{"html": markup.FormatValue(body["text"])})
}
