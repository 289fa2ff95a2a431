package ticket

import (
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/meidasupport/supportdesk/internal/application/common"
	"github.com/meidasupport/supportdesk/internal/application/ticket/usecases"
	vo "github.com/meidasupport/supportdesk/internal/domain/ticket/valueobjects"
	"github.com/meidasupport/supportdesk/internal/shared/utils"
)

var validatorsOnce sync.Once

// registerValidators installs the shared tags plus ticketstatus on gin's validator.
func registerValidators() {
	utils.RegisterGinValidators()
	validatorsOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			_ = v.RegisterValidation("ticketstatus", func(fl validator.FieldLevel) bool {
				_, err := vo.NewTicketStatus(fl.Field().String())
				return err == nil
			})
		}
	})
}

type CreateBookingRequest struct {
	CustomerName    string  `json:"customer_name" binding:"required,max=100"`
	Phone           string  `json:"phone" binding:"required,min=5,max=30"`
	Address         string  `json:"address" binding:"required,max=200"`
	AppointmentDate string  `json:"appointment_date" binding:"required,isodate"`
	AppointmentTime string  `json:"appointment_time" binding:"required,hhmm"`
	IssueDesc       string  `json:"issue_desc" binding:"required,max=500"`
	CenterID        *string `json:"center_id,omitempty"`
}

func (r *CreateBookingRequest) ToCommand(ip string) usecases.CreateBookingCommand {
	return usecases.CreateBookingCommand{
		CustomerName:    r.CustomerName,
		Phone:           r.Phone,
		Address:         r.Address,
		AppointmentDate: r.AppointmentDate,
		AppointmentTime: r.AppointmentTime,
		IssueDesc:       r.IssueDesc,
		CenterID:        r.CenterID,
		IPAddress:       ip,
	}
}

// VersionRequest carries the version the client last read.
type VersionRequest struct {
	Version int `json:"version" binding:"required,min=1"`
}

type AssignTicketRequest struct {
	TechnicianID *string  `json:"technician_id,omitempty" binding:"omitempty,uuid"`
	Auto         bool     `json:"auto"`
	CenterID     *string  `json:"center_id,omitempty"`
	Lat          *float64 `json:"lat,omitempty" binding:"omitempty,latitude"`
	Lng          *float64 `json:"lng,omitempty" binding:"omitempty,longitude"`
	Note         string   `json:"note" binding:"max=500"`
	Version      int      `json:"version" binding:"required,min=1"`
}

func (r *AssignTicketRequest) ToCommand(meta common.RequestMeta, ticketID string) usecases.AssignTicketCommand {
	return usecases.AssignTicketCommand{
		RequestMeta:  meta,
		TicketID:     ticketID,
		TechnicianID: r.TechnicianID,
		Auto:         r.Auto,
		CenterID:     r.CenterID,
		Lat:          r.Lat,
		Lng:          r.Lng,
		Note:         r.Note,
		Version:      r.Version,
	}
}

type ChangeStatusRequest struct {
	Status  string `json:"status" binding:"required,ticketstatus"`
	Version int    `json:"version" binding:"required,min=1"`
}

type CancelTicketRequest struct {
	Reason  string `json:"reason" binding:"max=500"`
	Version int    `json:"version" binding:"required,min=1"`
}

func parseListTicketsQuery(c *gin.Context) usecases.ListTicketsQuery {
	p := utils.ParsePagination(c)
	return usecases.ListTicketsQuery{
		Status:       c.Query("status"),
		TechnicianID: c.Query("technician_id"),
		CenterID:     c.Query("center_id"),
		DateFrom:     c.Query("date_from"),
		DateTo:       c.Query("date_to"),
		Query:        c.Query("q"),
		Page:         p.Page,
		PageSize:     p.PageSize,
	}
}
