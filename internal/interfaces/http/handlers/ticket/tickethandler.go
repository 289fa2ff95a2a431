package ticket

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/meidasupport/supportdesk/internal/application/ticket/usecases"
	"github.com/meidasupport/supportdesk/internal/interfaces/http/handlers/common"
	"github.com/meidasupport/supportdesk/internal/shared/logger"
	"github.com/meidasupport/supportdesk/internal/shared/utils"
)

// TicketHandler serves the back-office ticket workflow.
type TicketHandler struct {
	listTicketsUC     listTicketsUseCase
	getTicketUC       getTicketUseCase
	getEventsUC       getTicketEventsUseCase
	confirmTicketUC   confirmTicketUseCase
	assignTicketUC    assignTicketUseCase
	changeStatusUC    changeStatusUseCase
	cancelTicketUC    cancelTicketUseCase
	completeTicketUC  completeTicketUseCase
	listTechniciansUC listTechniciansUseCase
	logger            logger.Interface
}

func NewTicketHandler(
	listTicketsUC listTicketsUseCase,
	getTicketUC getTicketUseCase,
	getEventsUC getTicketEventsUseCase,
	confirmTicketUC confirmTicketUseCase,
	assignTicketUC assignTicketUseCase,
	changeStatusUC changeStatusUseCase,
	cancelTicketUC cancelTicketUseCase,
	completeTicketUC completeTicketUseCase,
	listTechniciansUC listTechniciansUseCase,
	logger logger.Interface,
) *TicketHandler {
	registerValidators()
	return &TicketHandler{
		listTicketsUC:     listTicketsUC,
		getTicketUC:       getTicketUC,
		getEventsUC:       getEventsUC,
		confirmTicketUC:   confirmTicketUC,
		assignTicketUC:    assignTicketUC,
		changeStatusUC:    changeStatusUC,
		cancelTicketUC:    cancelTicketUC,
		completeTicketUC:  completeTicketUC,
		listTechniciansUC: listTechniciansUC,
		logger:            logger,
	}
}

// ListTickets handles GET /api/tickets
//
//	@Summary	List tickets
//	@Tags		tickets
//	@Produce	json
//	@Param		status			query	string	false	"Ticket status"
//	@Param		technician_id	query	string	false	"Technician ID"
//	@Param		center_id		query	string	false	"Service center ID"
//	@Param		date_from		query	string	false	"Appointment date lower bound (YYYY-MM-DD)"
//	@Param		date_to			query	string	false	"Appointment date upper bound (YYYY-MM-DD)"
//	@Param		q				query	string	false	"Search customer name, address and issue"
//	@Param		page			query	int		false	"Page"
//	@Param		page_size		query	int		false	"Page size"
//	@Success	200	{object}	utils.APIResponse
//	@Router		/api/tickets [get]
func (h *TicketHandler) ListTickets(c *gin.Context) {
	query := parseListTicketsQuery(c)

	result, err := h.listTicketsUC.Execute(c.Request.Context(), query)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, result.Tickets, result.Total, query.Page, query.PageSize)
}

// GetTicket handles GET /api/tickets/:id
func (h *TicketHandler) GetTicket(c *gin.Context) {
	ticketID, err := utils.ParseUUIDParam(c, "id", "ticket")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.getTicketUC.Execute(c.Request.Context(), ticketID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// GetTicketEvents handles GET /api/tickets/:id/events
func (h *TicketHandler) GetTicketEvents(c *gin.Context) {
	ticketID, err := utils.ParseUUIDParam(c, "id", "ticket")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	events, err := h.getEventsUC.Execute(c.Request.Context(), ticketID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", events)
}

// ConfirmTicket handles POST /api/tickets/:id/confirm
//
//	@Summary	Confirm a booked ticket
//	@Tags		tickets
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string			true	"Ticket ID"
//	@Param		request	body		VersionRequest	true	"Expected version"
//	@Success	200		{object}	utils.APIResponse
//	@Failure	409		{object}	utils.APIResponse
//	@Router		/api/tickets/{id}/confirm [post]
func (h *TicketHandler) ConfirmTicket(c *gin.Context) {
	ticketID, err := utils.ParseUUIDParam(c, "id", "ticket")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req VersionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	result, err := h.confirmTicketUC.Execute(c.Request.Context(), usecases.ConfirmTicketCommand{
		RequestMeta: common.RequestMeta(c),
		TicketID:    ticketID,
		Version:     req.Version,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Ticket confirmed", result)
}

// AssignTicket handles POST /api/tickets/:id/assign
//
//	@Summary	Assign a technician manually or by least workload
//	@Tags		tickets
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string				true	"Ticket ID"
//	@Param		request	body		AssignTicketRequest	true	"Assignment"
//	@Success	200		{object}	utils.APIResponse
//	@Failure	409		{object}	utils.APIResponse
//	@Router		/api/tickets/{id}/assign [post]
func (h *TicketHandler) AssignTicket(c *gin.Context) {
	ticketID, err := utils.ParseUUIDParam(c, "id", "ticket")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req AssignTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for assign ticket", "error", err)
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	result, err := h.assignTicketUC.Execute(c.Request.Context(), req.ToCommand(common.RequestMeta(c), ticketID))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Technician assigned", result)
}

// ChangeStatus handles PATCH /api/tickets/:id/status
func (h *TicketHandler) ChangeStatus(c *gin.Context) {
	ticketID, err := utils.ParseUUIDParam(c, "id", "ticket")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	result, err := h.changeStatusUC.Execute(c.Request.Context(), usecases.ChangeStatusCommand{
		RequestMeta: common.RequestMeta(c),
		TicketID:    ticketID,
		Status:      req.Status,
		Version:     req.Version,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Ticket status updated", result)
}

// CancelTicket handles POST /api/tickets/:id/cancel
func (h *TicketHandler) CancelTicket(c *gin.Context) {
	ticketID, err := utils.ParseUUIDParam(c, "id", "ticket")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req CancelTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	result, err := h.cancelTicketUC.Execute(c.Request.Context(), usecases.CancelTicketCommand{
		RequestMeta: common.RequestMeta(c),
		TicketID:    ticketID,
		Reason:      req.Reason,
		Version:     req.Version,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Ticket canceled", result)
}

// CompleteTicket handles POST /api/tickets/:id/complete
//
//	@Summary	Complete a ticket. A receipt image must be uploaded first.
//	@Tags		tickets
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string			true	"Ticket ID"
//	@Param		request	body		VersionRequest	true	"Expected version"
//	@Success	200		{object}	utils.APIResponse
//	@Failure	400		{object}	utils.APIResponse
//	@Failure	409		{object}	utils.APIResponse
//	@Router		/api/tickets/{id}/complete [post]
func (h *TicketHandler) CompleteTicket(c *gin.Context) {
	ticketID, err := utils.ParseUUIDParam(c, "id", "ticket")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req VersionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	result, err := h.completeTicketUC.Execute(c.Request.Context(), usecases.CompleteTicketCommand{
		RequestMeta: common.RequestMeta(c),
		TicketID:    ticketID,
		Version:     req.Version,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Ticket completed", result)
}

// ListTechnicians handles GET /api/technicians
func (h *TicketHandler) ListTechnicians(c *gin.Context) {
	technicians, err := h.listTechniciansUC.Execute(c.Request.Context(), c.Query("center_id"))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", technicians)
}
