package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"TourCore/internal/model"
	"TourCore/pkg/response"
)

// GetTour 查询 tour
func (h *Handler) GetTour(ctx context.Context, c *app.RequestContext) {
	tour, err := h.tours.GetTour(ctx, c.Param("id"))
	if err != nil {
		fail(ctx, c, err)
		return
	}
	response.Success(ctx, c, tour)
}

// CreateTour 供应商录入 tour
func (h *Handler) CreateTour(ctx context.Context, c *app.RequestContext) {
	var req model.Tour
	if !bindJSON(ctx, c, &req) {
		return
	}

	tour, err := h.tours.CreateTour(ctx, req)
	if err != nil {
		fail(ctx, c, err)
		return
	}
	response.Created(ctx, c, tour)
}
