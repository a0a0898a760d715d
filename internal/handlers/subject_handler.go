package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gosimple/slug"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/tutor-scheduler/internal/audit"
	"github.com/BruksfildServices01/tutor-scheduler/internal/httperr"
	"github.com/BruksfildServices01/tutor-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/tutor-scheduler/internal/middleware"
	"github.com/BruksfildServices01/tutor-scheduler/internal/models"
)

type SubjectHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewSubjectHandler(db *gorm.DB, audit *audit.Dispatcher) *SubjectHandler {
	return &SubjectHandler{db: db, audit: audit}
}

type CreateSubjectRequest struct {
	Name       string `json:"name" binding:"required,max=100"`
	GradeLevel string `json:"gradeLevel" binding:"max=50"`
	Category   string `json:"category" binding:"max=50"`
}

func (h *SubjectHandler) List(c *gin.Context) {
	q := h.db.WithContext(c.Request.Context()).Model(&models.Subject{})
	if category := strings.TrimSpace(c.Query("category")); category != "" {
		q = q.Where("category = ?", category)
	}

	var subjects []models.Subject
	if err := q.Order("name ASC").Find(&subjects).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, subjects)
}

func (h *SubjectHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var subject models.Subject
	if err := h.db.WithContext(c.Request.Context()).First(&subject, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "subject_not_found", "Subject not found")
			return
		}
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, &subject)
}

func (h *SubjectHandler) Create(c *gin.Context) {
	var req CreateSubjectRequest
	if !bindJSON(c, &req) {
		return
	}

	name := strings.TrimSpace(req.Name)
	subject := models.Subject{
		Name:       name,
		Slug:       slug.Make(strings.TrimSpace(name + " " + req.GradeLevel)),
		GradeLevel: strings.TrimSpace(req.GradeLevel),
		Category:   strings.TrimSpace(req.Category),
	}
	if subject.Slug == "" {
		httperr.BadRequest(c, "invalid_name", "Subject name must contain letters or digits")
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&subject).Error; err != nil {
		if httperr.IsUniqueViolation(err) {
			httperr.Write(c, http.StatusConflict, "subject_exists", "Subject already exists")
			return
		}
		httperr.Respond(c, err)
		return
	}

	if p := middleware.Principal(c); p != nil {
		id := p.UserID()
		h.audit.Dispatch(audit.Event{
			UserID:   &id,
			Action:   "subject_created",
			Entity:   "subject",
			EntityID: &subject.ID,
		})
	}

	httpresp.Created(c, &subject)
}
