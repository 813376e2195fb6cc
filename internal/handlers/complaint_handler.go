package handlers

import (
	"strconv"

	"github.com/ahmetcoskunkizilkaya/complaint-desk/internal/config"
	"github.com/ahmetcoskunkizilkaya/complaint-desk/internal/dto"
	"github.com/ahmetcoskunkizilkaya/complaint-desk/internal/lifecycle"
	"github.com/ahmetcoskunkizilkaya/complaint-desk/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ComplaintHandler struct {
	complaintService *services.ComplaintService
}

func NewComplaintHandler(complaintService *services.ComplaintService) *ComplaintHandler {
	return &ComplaintHandler{complaintService: complaintService}
}

func (h *ComplaintHandler) Create(c *fiber.Ctx) error {
	actor, ok := currentActor(c)
	if !ok {
		return unauthorized(c)
	}

	var req dto.CreateComplaintRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	complaint, err := h.complaintService.Create(c.UserContext(), actor, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(complaint)
}

// List handles GET /complaints?q=&status=&status_in=&active=&priority=&category_id=&mine=&limit=&offset=&sort=
func (h *ComplaintHandler) List(c *fiber.Ctx) error {
	actor, ok := currentActor(c)
	if !ok {
		return unauthorized(c)
	}

	filter, msg := parseComplaintFilter(c)
	if msg != "" {
		return badRequest(c, msg)
	}

	complaints, err := h.complaintService.List(c.UserContext(), actor, filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ComplaintListResponse{Complaints: complaints, Count: len(complaints)})
}

func parseComplaintFilter(c *fiber.Ctx) (services.ComplaintFilter, string) {
	f := services.ComplaintFilter{
		Query:    c.Query("q"),
		Status:   lifecycle.Status(c.Query("status")),
		Priority: lifecycle.Priority(c.Query("priority")),
	}

	for _, s := range config.ParseCSV(c.Query("status_in")) {
		f.Statuses = append(f.Statuses, lifecycle.Status(s))
	}
	f.ActiveOnly = c.QueryBool("active")

	if raw := c.Query("category_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return f, "Invalid category_id"
		}
		f.CategoryID = &id
	}
	f.AssignedToMe = c.QueryBool("mine")

	var err error
	if f.Limit, err = queryInt(c, "limit"); err != nil {
		return f, "Invalid limit"
	}
	if f.Offset, err = queryInt(c, "offset"); err != nil {
		return f, "Invalid offset"
	}

	switch c.Query("sort") {
	case "", "newest":
	case "oldest":
		f.Ascending = true
	default:
		return f, "sort must be newest or oldest"
	}
	return f, ""
}

func queryInt(c *fiber.Ctx, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}

// Get returns the complaint with its progress tracker.
func (h *ComplaintHandler) Get(c *fiber.Ctx) error {
	actor, ok := currentActor(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "Invalid complaint id")
	}

	detail, err := h.complaintService.Detail(c.UserContext(), actor, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(detail)
}

func (h *ComplaintHandler) Update(c *fiber.Ctx) error {
	actor, ok := currentActor(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "Invalid complaint id")
	}

	var req dto.UpdateComplaintRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	complaint, err := h.complaintService.Update(c.UserContext(), actor, id, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(complaint)
}

func (h *ComplaintHandler) Stats(c *fiber.Ctx) error {
	actor, ok := currentActor(c)
	if !ok {
		return unauthorized(c)
	}

	stats, err := h.complaintService.Stats(c.UserContext(), actor, services.StatsScope(c.Query("scope")))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(stats)
}

func (h *ComplaintHandler) Transitions(c *fiber.Ctx) error {
	actor, ok := currentActor(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "Invalid complaint id")
	}

	resp, err := h.complaintService.Transitions(c.UserContext(), actor, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

func (h *ComplaintHandler) History(c *fiber.Ctx) error {
	actor, ok := currentActor(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "Invalid complaint id")
	}

	history, err := h.complaintService.History(c.UserContext(), actor, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"history": history})
}
