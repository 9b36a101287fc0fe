package handlers

import (
	"net/http"

	"github.com/rudrasish2003/Xenon-Backend/services"
)

type AuditHandler struct {
	auditService services.AuditService
}

func NewAuditHandler(as services.AuditService) *AuditHandler {
	return &AuditHandler{auditService: as}
}

// RunAudit godoc
// @Summary Compare stored aggregates with the match ledger
// @Tags admin
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /admin/audit [get]
func (h *AuditHandler) RunAudit(w http.ResponseWriter, r *http.Request) {
	report, err := h.auditService.Run(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"audit": report}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
