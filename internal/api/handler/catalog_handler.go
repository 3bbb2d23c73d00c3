package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/offranel/storefront/internal/core/ports"
)

const maxBatchSize = 100

// CatalogHandler serves the public catalog and the admin publish endpoints.
type CatalogHandler struct {
	catalog ports.CatalogService
	publish ports.PublishService
}

func NewCatalogHandler(catalog ports.CatalogService, publish ports.PublishService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, publish: publish}
}

// List handles GET /catalog/items.
//
// @Summary      List catalog items, newest first
// @Tags         catalog
// @Produce      json
// @Param        category  query     string  false  "Only items of this category"
// @Param        limit     query     int     false  "Maximum number of items"
// @Success      200       {object}  listItemsResponse
// @Router       /catalog/items [get]
func (h *CatalogHandler) List(c echo.Context) error {
	filter := ports.CatalogFilter{Category: c.QueryParam("category")}
	if raw := c.QueryParam("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be a positive integer")
		}
		filter.Limit = limit
	}

	items := h.catalog.List(c.Request().Context(), filter)
	return c.JSON(http.StatusOK, toListResponse(items))
}

// Get handles GET /catalog/items/:id.
//
// @Summary      Get one catalog item
// @Tags         catalog
// @Produce      json
// @Param        id   path      string  true  "Item id"
// @Success      200  {object}  itemResponse
// @Failure      404  {object}  errorResponse
// @Router       /catalog/items/{id} [get]
func (h *CatalogHandler) Get(c echo.Context) error {
	item, err := h.catalog.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toItemResponse(item))
}

// Publish handles POST /catalog/items. Subscribers are notified
// asynchronously; the response does not wait for delivery.
//
// @Summary      Publish a catalog item
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Security     SessionCookie
// @Param        body  body      itemRequest  true  "Item"
// @Success      201   {object}  itemResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      503   {object}  errorResponse
// @Router       /catalog/items [post]
func (h *CatalogHandler) Publish(c echo.Context) error {
	var req itemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	item, err := h.publish.Publish(c.Request().Context(), principal(c), toItemInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toItemResponse(item))
}

// PublishBatch handles POST /catalog/items:batch. Batch imports are atomic
// and do not notify subscribers.
//
// @Summary      Publish several catalog items atomically
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Security     SessionCookie
// @Param        body  body      []itemRequest  true  "Items"
// @Success      201   {object}  batchPublishResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      503   {object}  errorResponse
// @Router       /catalog/items:batch [post]
func (h *CatalogHandler) PublishBatch(c echo.Context) error {
	var reqs []itemRequest
	if err := c.Bind(&reqs); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if len(reqs) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "batch cannot be empty")
	}
	if len(reqs) > maxBatchSize {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("batch cannot exceed %d items", maxBatchSize))
	}

	inputs := make([]ports.ItemInput, 0, len(reqs))
	for i, req := range reqs {
		if err := c.Validate(&req); err != nil {
			return fmt.Errorf("item[%d]: %w", i, err)
		}
		inputs = append(inputs, toItemInput(req))
	}

	items, err := h.publish.PublishBatch(c.Request().Context(), principal(c), inputs)
	if err != nil {
		return err
	}

	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	return c.JSON(http.StatusCreated, batchPublishResponse{Count: len(ids), IDs: ids})
}

// Delete handles DELETE /catalog/items/:id.
//
// @Summary      Delete a catalog item
// @Tags         catalog
// @Security     SessionCookie
// @Param        id   path  string  true  "Item id"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      503  {object}  errorResponse
// @Router       /catalog/items/{id} [delete]
func (h *CatalogHandler) Delete(c echo.Context) error {
	if err := h.publish.Delete(c.Request().Context(), principal(c), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
