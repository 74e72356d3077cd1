package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/yi-nology/itam/biz/service"
)

// SoftwareHandler serves software licenses, seat assignments and expiry
// notifications.
type SoftwareHandler struct {
	service *service.Service
}

func NewSoftwareHandler(svc *service.Service) *SoftwareHandler {
	return &SoftwareHandler{service: svc}
}

// List filters by ?status= when given.
func (h *SoftwareHandler) List(ctx context.Context, c *app.RequestContext) {
	items, err := h.service.ListSoftware(ctx, c.Query("status"))
	if err != nil {
		respondError(ctx, c, err)
		return
	}
	respondData(c, map[string]any{"items": items})
}

func (h *SoftwareHandler) Meta(ctx context.Context, c *app.RequestContext) {
	meta, err := h.service.SoftwareMeta(ctx)
	if err != nil {
		respondError(ctx, c, err)
		return
	}
	respondData(c, meta)
}

func (h *SoftwareHandler) Get(ctx context.Context, c *app.RequestContext) {
	id, err := parseID(c, "id")
	if err != nil {
		writeBadRequest(c, err)
		return
	}
	asset, err := h.service.GetSoftware(ctx, id)
	if err != nil {
		respondError(ctx, c, err)
		return
	}
	respondData(c, asset)
}

func (h *SoftwareHandler) Create(ctx context.Context, c *app.RequestContext) {
	var input service.SoftwareInput
	if err := c.BindAndValidate(&input); err != nil {
		writeBadRequest(c, err)
		return
	}
	asset, err := h.service.CreateSoftware(ctx, &input)
	if err != nil {
		respondError(ctx, c, err)
		return
	}
	respondData(c, asset)
}

func (h *SoftwareHandler) Update(ctx context.Context, c *app.RequestContext) {
	id, err := parseID(c, "id")
	if err != nil {
		writeBadRequest(c, err)
		return
	}
	var patch service.SoftwarePatch
	if err := c.BindAndValidate(&patch); err != nil {
		writeBadRequest(c, err)
		return
	}
	asset, err := h.service.UpdateSoftware(ctx, id, &patch)
	if err != nil {
		respondError(ctx, c, err)
		return
	}
	respondData(c, asset)
}

func (h *SoftwareHandler) Delete(ctx context.Context, c *app.RequestContext) {
	id, err := parseID(c, "id")
	if err != nil {
		writeBadRequest(c, err)
		return
	}
	if err := h.service.DeleteSoftware(ctx, id); err != nil {
		respondError(ctx, c, err)
		return
	}
	respondOK(c)
}

func (h *SoftwareHandler) CreateAssignment(ctx context.Context, c *app.RequestContext) {
	id, err := parseID(c, "id")
	if err != nil {
		writeBadRequest(c, err)
		return
	}
	var input service.AssignmentInput
	if err := c.BindAndValidate(&input); err != nil {
		writeBadRequest(c, err)
		return
	}
	assignment, err := h.service.CreateAssignment(ctx, id, &input)
	if err != nil {
		respondError(ctx, c, err)
		return
	}
	respondData(c, assignment)
}

// ReturnAssignment accepts an empty body, meaning "returned now".
func (h *SoftwareHandler) ReturnAssignment(ctx context.Context, c *app.RequestContext) {
	id, err := parseID(c, "id")
	if err != nil {
		writeBadRequest(c, err)
		return
	}
	assignmentID, err := parseID(c, "assignmentID")
	if err != nil {
		writeBadRequest(c, err)
		return
	}
	var input *service.ReturnInput
	if len(c.Request.Body()) > 0 {
		input = &service.ReturnInput{}
		if err := c.BindAndValidate(input); err != nil {
			writeBadRequest(c, err)
			return
		}
	}
	assignment, err := h.service.ReturnAssignment(ctx, id, assignmentID, input)
	if err != nil {
		respondError(ctx, c, err)
		return
	}
	respondData(c, assignment)
}

// RunNotifications evaluates the caller's licenses against the D-30/D-7 rules.
func (h *SoftwareHandler) RunNotifications(ctx context.Context, c *app.RequestContext) {
	run, err := h.service.RunMyExpiryNotifications(ctx)
	if err != nil {
		respondError(ctx, c, err)
		return
	}
	respondData(c, run)
}

// ListNotificationLogs accepts ?range=today|week.
func (h *SoftwareHandler) ListNotificationLogs(ctx context.Context, c *app.RequestContext) {
	logs, err := h.service.ListNotificationLogs(ctx, c.Query("range"))
	if err != nil {
		respondError(ctx, c, err)
		return
	}
	respondData(c, map[string]any{"items": logs})
}
