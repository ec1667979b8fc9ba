package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"salescrm_backend/internal/leads/service"
	"salescrm_backend/internal/leads/transport"
	"salescrm_backend/platform/httpkit"
	"salescrm_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const (
	msgInvalidRequest = "invalid request"
	msgInvalidLeadID  = "invalid lead id"
)

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes mounts the lead, activity and queue routes on an
// authenticated /api group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	leads := rg.Group("/leads")
	leads.GET("", h.List)
	leads.POST("", h.Create)
	leads.POST("/score/batch", h.ScoreBatch)
	leads.GET("/:id", h.GetByID)
	leads.PATCH("/:id", h.Update)
	leads.POST("/:id/score", h.Score)
	leads.PATCH("/:id/do-not-contact", h.SetDoNotContact)
	leads.GET("/:id/contacts", h.ListContacts)
	leads.POST("/:id/contacts", h.AddContact)
	leads.GET("/:id/activities", h.ListActivities)

	rg.POST("/activities", h.CreateActivity)
	rg.GET("/queue/today", h.TodayQueue)
}

func (h *Handler) List(c *gin.Context) {
	leads, err := h.svc.List(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, leads)
}

func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if isFieldTypeError(err, "companyName") {
			httpkit.Error(c, http.StatusBadRequest, service.MsgCompanyNameRequired, nil)
			return
		}
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if strings.TrimSpace(req.CompanyName) == "" {
		httpkit.Error(c, http.StatusBadRequest, service.MsgCompanyNameRequired, nil)
		return
	}
	if !h.validate(c, req) {
		return
	}

	lead, err := h.svc.Create(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, lead)
}

func (h *Handler) GetByID(c *gin.Context) {
	id, ok := parseLeadID(c)
	if !ok {
		return
	}

	lead, err := h.svc.Get(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, lead)
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := parseLeadID(c)
	if !ok {
		return
	}

	var req transport.UpdateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if !h.validate(c, req) {
		return
	}

	lead, err := h.svc.Update(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, lead)
}

func (h *Handler) Score(c *gin.Context) {
	id, ok := parseLeadID(c)
	if !ok {
		return
	}

	lead, err := h.svc.Score(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, lead)
}

// ScoreBatch rescores every lead. With ?async=true and a configured worker
// queue the work is handed off and 202 is returned.
func (h *Handler) ScoreBatch(c *gin.Context) {
	async, _ := strconv.ParseBool(c.Query("async"))
	if async && h.svc.AsyncScoringEnabled() {
		queued, err := h.svc.EnqueueScoreBatch(c.Request.Context())
		if httpkit.HandleError(c, err) {
			return
		}
		httpkit.JSON(c, http.StatusAccepted, queued)
		return
	}

	result, err := h.svc.ScoreBatch(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) SetDoNotContact(c *gin.Context) {
	id, ok := parseLeadID(c)
	if !ok {
		return
	}

	var req transport.DoNotContactRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
			return
		}
	}

	lead, err := h.svc.SetDoNotContact(c.Request.Context(), id, req.DoNotContact)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, lead)
}

func (h *Handler) ListContacts(c *gin.Context) {
	id, ok := parseLeadID(c)
	if !ok {
		return
	}

	contacts, err := h.svc.ListContacts(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, contacts)
}

func (h *Handler) AddContact(c *gin.Context) {
	id, ok := parseLeadID(c)
	if !ok {
		return
	}

	var req transport.CreateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if !h.validate(c, req) {
		return
	}

	contact, err := h.svc.AddContact(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, contact)
}

func (h *Handler) ListActivities(c *gin.Context) {
	id, ok := parseLeadID(c)
	if !ok {
		return
	}

	activities, err := h.svc.ListActivities(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, activities)
}

func (h *Handler) CreateActivity(c *gin.Context) {
	var req transport.CreateActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if strings.TrimSpace(req.LeadID) == "" || strings.TrimSpace(req.Type) == "" {
		httpkit.Error(c, http.StatusBadRequest, service.MsgActivityRequired, nil)
		return
	}
	if !h.validate(c, req) {
		return
	}

	result, err := h.svc.LogActivity(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, result)
}

func (h *Handler) TodayQueue(c *gin.Context) {
	items, err := h.svc.TodayQueue(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, items)
}

func (h *Handler) validate(c *gin.Context, req any) bool {
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, validator.Describe(err), nil)
		return false
	}
	return true
}

func parseLeadID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidLeadID, nil)
		return uuid.UUID{}, false
	}
	return id, true
}

func isFieldTypeError(err error, field string) bool {
	var typeErr *json.UnmarshalTypeError
	return errors.As(err, &typeErr) && typeErr.Field == field
}
