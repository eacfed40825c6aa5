package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/coursora/coursora-backend/internal/platform/apierr"
	"github.com/coursora/coursora-backend/internal/platform/logger"
	"github.com/coursora/coursora-backend/internal/services"
)

type InstitutionHandler struct {
	log       *logger.Logger
	ownership services.OwnershipService
}

func NewInstitutionHandler(log *logger.Logger, ownership services.OwnershipService) *InstitutionHandler {
	return &InstitutionHandler{
		log:       log.With("handler", "InstitutionHandler"),
		ownership: ownership,
	}
}

func (h *InstitutionHandler) ListMine(c *gin.Context) {
	operatorID, ok := operatorFrom(c)
	if !ok {
		return
	}
	insts, err := h.ownership.Institutions(c.Request.Context(), operatorID)
	if err != nil {
		h.log.Error("ListMine failed", "operator_id", operatorID, "error", err)
		RespondError(c, apierr.StatusOf(err), apierr.CodeOf(err, "load_institutions_failed"), err)
		return
	}
	RespondOK(c, gin.H{"institutions": insts})
}

func (h *InstitutionHandler) ListCourses(c *gin.Context) {
	operatorID, ok := operatorFrom(c)
	if !ok {
		return
	}
	institutionID, err := uuid.Parse(c.Param("institutionID"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_institution_id", err)
		return
	}
	courses, err := h.ownership.InstitutionCourses(c.Request.Context(), operatorID, institutionID)
	if err != nil {
		RespondError(c, apierr.StatusOf(err), apierr.CodeOf(err, "load_courses_failed"), err)
		return
	}
	RespondOK(c, gin.H{"courses": courses})
}
