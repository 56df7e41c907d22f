package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/seismo-watch/seismic-api/internal/core/ports"
)

type EarthquakeHandler struct {
	service ports.EarthquakeService
}

func NewEarthquakeHandler(service ports.EarthquakeService) *EarthquakeHandler {
	return &EarthquakeHandler{service: service}
}

// Live proxies a query to the external catalog. Nothing is persisted.
//
// @Summary      Live earthquakes from the catalog
// @Tags         earthquakes
// @Produce      json
// @Security     BearerAuth
// @Param        minMagnitude  query     number  false  "Minimum magnitude (default 4.0)"
// @Param        startDate     query     string  false  "Start date YYYY-MM-DD (default 7 days ago)"
// @Param        endDate       query     string  false  "End date YYYY-MM-DD (default today)"
// @Param        minLatitude   query     number  false  "Minimum latitude"
// @Param        maxLatitude   query     number  false  "Maximum latitude"
// @Param        minLongitude  query     number  false  "Minimum longitude"
// @Param        maxLongitude  query     number  false  "Maximum longitude"
// @Success      200           {array}   earthquakeResponse
// @Failure      400           {object}  errorResponse
// @Failure      401           {object}  errorResponse
// @Failure      500           {object}  errorResponse
// @Router       /api/earthquakes/live [get]
func (h *EarthquakeHandler) Live(c echo.Context) error {
	filters, err := parseEarthquakeFilters(c)
	if err != nil {
		return err
	}
	records, err := h.service.Live(c.Request().Context(), filters.live())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toLiveResponses(records))
}

// Save persists one record previously returned by Live.
//
// @Summary      Save an earthquake
// @Tags         earthquakes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      saveEarthquakeRequest  true  "Record as returned by /live"
// @Success      201   {object}  earthquakeResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /api/earthquakes/save [post]
func (h *EarthquakeHandler) Save(c echo.Context) error {
	var req saveEarthquakeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	eq, err := toEarthquake(req)
	if err != nil {
		return err
	}

	saved, err := h.service.Save(c.Request().Context(), eq)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toEarthquakeResponse(saved))
}

// History queries saved earthquakes, newest first, at most 1000 rows.
//
// @Summary      Saved earthquake history
// @Tags         earthquakes
// @Produce      json
// @Security     BearerAuth
// @Param        minMagnitude  query     number  false  "Minimum magnitude"
// @Param        startDate     query     string  false  "Start date YYYY-MM-DD"
// @Param        endDate       query     string  false  "End date YYYY-MM-DD, inclusive"
// @Param        minLatitude   query     number  false  "Minimum latitude"
// @Param        maxLatitude   query     number  false  "Maximum latitude"
// @Param        minLongitude  query     number  false  "Minimum longitude"
// @Param        maxLongitude  query     number  false  "Maximum longitude"
// @Success      200           {array}   earthquakeResponse
// @Failure      400           {object}  errorResponse
// @Failure      401           {object}  errorResponse
// @Failure      500           {object}  errorResponse
// @Router       /api/earthquakes/history [get]
func (h *EarthquakeHandler) History(c echo.Context) error {
	filters, err := parseEarthquakeFilters(c)
	if err != nil {
		return err
	}
	records, err := h.service.History(c.Request().Context(), filters.history())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toHistoryResponses(records))
}
