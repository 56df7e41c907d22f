package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/seismo-watch/seismic-api/internal/core/ports"
)

type NewsHandler struct {
	service ports.NewsService
}

func NewNewsHandler(service ports.NewsService) *NewsHandler {
	return &NewsHandler{service: service}
}

// List returns every article, newest first.
//
// @Summary      List news
// @Tags         news
// @Produce      json
// @Success      200  {array}   newsResponse
// @Failure      500  {object}  errorResponse
// @Router       /api/news [get]
func (h *NewsHandler) List(c echo.Context) error {
	items, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toNewsResponses(items))
}

// Get returns one article.
//
// @Summary      Get a news article
// @Tags         news
// @Produce      json
// @Param        id   path      string  true  "Article id"
// @Success      200  {object}  newsResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/news/{id} [get]
func (h *NewsHandler) Get(c echo.Context) error {
	item, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toNewsResponse(item))
}

// Create posts an article authored by the caller.
//
// @Summary      Create a news article
// @Tags         news
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createNewsRequest  true  "Article"
// @Success      201   {object}  newsResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /api/news [post]
func (h *NewsHandler) Create(c echo.Context) error {
	authorID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	var req createNewsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	item, err := h.service.Create(c.Request().Context(), ports.CreateNewsInput{
		AuthorID: authorID,
		Title:    req.Title,
		Content:  req.Content,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toNewsResponse(item))
}

// Update changes the non-empty fields of an article.
//
// @Summary      Update a news article
// @Tags         news
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Article id"
// @Param        body  body      updateNewsRequest  true  "Fields to change"
// @Success      200   {object}  newsResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/news/{id} [put]
func (h *NewsHandler) Update(c echo.Context) error {
	var req updateNewsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	item, err := h.service.Update(c.Request().Context(), c.Param("id"), ports.UpdateNewsInput{
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toNewsResponse(item))
}

// Delete removes an article.
//
// @Summary      Delete a news article
// @Tags         news
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Article id"
// @Success      200  {object}  messageResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/news/{id} [delete]
func (h *NewsHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "News article deleted successfully"})
}
