package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/meidasupport/supportdesk/internal/application/audit/usecases"
	"github.com/meidasupport/supportdesk/internal/shared/logger"
	"github.com/meidasupport/supportdesk/internal/shared/utils"
)

type listAuditLogsUseCase interface {
	Execute(ctx context.Context, query usecases.ListAuditLogsQuery) (*usecases.ListAuditLogsResult, error)
}

type AuditHandler struct {
	listUC listAuditLogsUseCase
	logger logger.Interface
}

func NewAuditHandler(listUC listAuditLogsUseCase, logger logger.Interface) *AuditHandler {
	return &AuditHandler{
		listUC: listUC,
		logger: logger,
	}
}

// ListAuditLogs handles GET /api/admin/audit-logs
//
//	@Summary	Search the audit trail
//	@Tags		admin-audit
//	@Produce	json
//	@Param		actor_user_id	query	int		false	"Actor user ID"
//	@Param		action			query	string	false	"Action substring"
//	@Param		target_type		query	string	false	"Target type"
//	@Param		target_id		query	string	false	"Target ID"
//	@Param		date_from		query	string	false	"YYYY-MM-DD"
//	@Param		date_to			query	string	false	"YYYY-MM-DD"
//	@Success	200	{object}	utils.APIResponse
//	@Router		/api/admin/audit-logs [get]
func (h *AuditHandler) ListAuditLogs(c *gin.Context) {
	actorID, err := utils.ParseOptionalUintQuery(c, "actor_user_id")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	p := utils.ParsePagination(c)

	result, err := h.listUC.Execute(c.Request.Context(), usecases.ListAuditLogsQuery{
		ActorUserID: actorID,
		Action:      c.Query("action"),
		TargetType:  c.Query("target_type"),
		TargetID:    c.Query("target_id"),
		DateFrom:    c.Query("date_from"),
		DateTo:      c.Query("date_to"),
		Page:        p.Page,
		PageSize:    p.PageSize,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, result.Logs, result.Total, p.Page, p.PageSize)
}
