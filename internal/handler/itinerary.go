package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"TourCore/internal/model"
	"TourCore/internal/model/dto"
	"TourCore/internal/service"
	"TourCore/pkg/response"
)

// GetItinerary 查询行程
func (h *Handler) GetItinerary(ctx context.Context, c *app.RequestContext) {
	it, err := h.itineraries.GetItinerary(ctx, c.Param("id"))
	if err != nil {
		fail(ctx, c, err)
		return
	}
	response.Success(ctx, c, it)
}

// ListTourItineraries tour 下的行程，?status= 可选
func (h *Handler) ListTourItineraries(ctx context.Context, c *app.RequestContext) {
	its, err := h.itineraries.ListByTour(ctx, c.Param("id"), model.ItineraryStatus(c.Query("status")))
	if err != nil {
		fail(ctx, c, err)
		return
	}
	response.SuccessWithMeta(ctx, c, its, map[string]interface{}{"count": len(its)})
}

// ListForks 由该行程派生出的行程
func (h *Handler) ListForks(ctx context.Context, c *app.RequestContext) {
	its, err := h.itineraries.Forks(ctx, c.Param("id"))
	if err != nil {
		fail(ctx, c, err)
		return
	}
	response.SuccessWithMeta(ctx, c, its, map[string]interface{}{"count": len(its)})
}

// CreateItinerary 新建草稿行程
func (h *Handler) CreateItinerary(ctx context.Context, c *app.RequestContext) {
	var req dto.CreateItineraryRequest
	if !bindJSON(ctx, c, &req) {
		return
	}

	it, err := h.itineraries.CreateItinerary(ctx, service.CreateItineraryInput{
		TourID:   req.TourID,
		Title:    req.Title,
		Duration: req.Duration,
	})
	if err != nil {
		fail(ctx, c, err)
		return
	}
	response.Created(ctx, c, it)
}

// GetItineraryDays 逐日视图
func (h *Handler) GetItineraryDays(ctx context.Context, c *app.RequestContext) {
	view, err := h.itineraries.Days(ctx, c.Param("id"))
	if err != nil {
		fail(ctx, c, err)
		return
	}
	response.Success(ctx, c, view)
}

// GetItineraryBudget 预算汇总
func (h *Handler) GetItineraryBudget(ctx context.Context, c *app.RequestContext) {
	summary, err := h.itineraries.Budget(ctx, c.Param("id"))
	if err != nil {
		fail(ctx, c, err)
		return
	}
	response.Success(ctx, c, summary)
}

func (h *Handler) PublishItinerary(ctx context.Context, c *app.RequestContext) {
	it, err := h.itineraries.Publish(ctx, c.Param("id"))
	if err != nil {
		fail(ctx, c, err)
		return
	}
	response.Success(ctx, c, it)
}

func (h *Handler) ArchiveItinerary(ctx context.Context, c *app.RequestContext) {
	it, err := h.itineraries.Archive(ctx, c.Param("id"))
	if err != nil {
		fail(ctx, c, err)
		return
	}
	response.Success(ctx, c, it)
}

// ForkItinerary 复制为新草稿
func (h *Handler) ForkItinerary(ctx context.Context, c *app.RequestContext) {
	it, err := h.itineraries.Fork(ctx, c.Param("id"))
	if err != nil {
		fail(ctx, c, err)
		return
	}
	response.Created(ctx, c, it)
}

// AddActivity 新增活动，追加到所在天末尾
func (h *Handler) AddActivity(ctx context.Context, c *app.RequestContext) {
	var req dto.ActivityRequest
	if !bindJSON(ctx, c, &req) {
		return
	}

	it, act, err := h.itineraries.AddActivity(ctx, c.Param("id"), req.Draft())
	if err != nil {
		fail(ctx, c, err)
		return
	}
	response.Created(ctx, c, map[string]interface{}{"activity": act, "itinerary": it})
}

func (h *Handler) UpdateActivity(ctx context.Context, c *app.RequestContext) {
	var req dto.UpdateActivityRequest
	if !bindJSON(ctx, c, &req) {
		return
	}

	it, act, err := h.itineraries.UpdateActivity(ctx, c.Param("id"), c.Param("activity_id"), req.Patch())
	if err != nil {
		fail(ctx, c, err)
		return
	}
	response.Success(ctx, c, map[string]interface{}{"activity": act, "itinerary": it})
}

func (h *Handler) DeleteActivity(ctx context.Context, c *app.RequestContext) {
	it, err := h.itineraries.DeleteActivity(ctx, c.Param("id"), c.Param("activity_id"))
	if err != nil {
		fail(ctx, c, err)
		return
	}
	response.Success(ctx, c, it)
}

// ReorderDay 按给定 ID 顺序重排某一天
func (h *Handler) ReorderDay(ctx context.Context, c *app.RequestContext) {
	day, err := dayParam(c)
	if err != nil {
		fail(ctx, c, err)
		return
	}

	var req dto.ReorderRequest
	if !bindJSON(ctx, c, &req) {
		return
	}

	it, err := h.itineraries.ReorderActivities(ctx, c.Param("id"), day, req.ActivityIDs)
	if err != nil {
		fail(ctx, c, err)
		return
	}
	response.Success(ctx, c, it)
}

func (h *Handler) AddBudgetItem(ctx context.Context, c *app.RequestContext) {
	var req dto.BudgetItemRequest
	if !bindJSON(ctx, c, &req) {
		return
	}

	it, item, err := h.itineraries.AddBudgetItem(ctx, c.Param("id"), req.Draft())
	if err != nil {
		fail(ctx, c, err)
		return
	}
	response.Created(ctx, c, map[string]interface{}{"budget_item": item, "itinerary": it})
}

func (h *Handler) UpdateBudgetItem(ctx context.Context, c *app.RequestContext) {
	var req dto.UpdateBudgetItemRequest
	if !bindJSON(ctx, c, &req) {
		return
	}

	it, item, err := h.itineraries.UpdateBudgetItem(ctx, c.Param("id"), c.Param("item_id"), req.Patch())
	if err != nil {
		fail(ctx, c, err)
		return
	}
	response.Success(ctx, c, map[string]interface{}{"budget_item": item, "itinerary": it})
}

func (h *Handler) DeleteBudgetItem(ctx context.Context, c *app.RequestContext) {
	it, err := h.itineraries.DeleteBudgetItem(ctx, c.Param("id"), c.Param("item_id"))
	if err != nil {
		fail(ctx, c, err)
		return
	}
	response.Success(ctx, c, it)
}
