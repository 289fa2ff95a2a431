package dto

import (
	"time"

	"github.com/meidasupport/supportdesk/internal/domain/technician"
	"github.com/meidasupport/supportdesk/internal/domain/ticket"
)

type TechnicianDTO struct {
	ID                   string    `json:"id"`
	Name                 string    `json:"name"`
	PhoneMasked          string    `json:"phone_masked"`
	CenterID             *string   `json:"center_id"`
	Skills               []string  `json:"skills"`
	IsActive             bool      `json:"is_active"`
	AssignedTicketsCount int64     `json:"assigned_tickets_count"`
	CreatedAt            time.Time `json:"created_at"`
}

type TicketDTO struct {
	ID              string         `json:"id"`
	BookingID       string         `json:"booking_id"`
	CustomerName    string         `json:"customer_name"`
	Address         string         `json:"address"`
	AppointmentDate string         `json:"appointment_date"`
	AppointmentTime string         `json:"appointment_time"`
	IssueDesc       string         `json:"issue_desc"`
	Status          string         `json:"status"`
	CenterID        *string        `json:"center_id"`
	TechnicianID    *string        `json:"technician_id"`
	Technician      *TechnicianDTO `json:"technician,omitempty"`
	AIRunID         *string        `json:"ai_run_id"`
	Version         int            `json:"version"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	CompletedAt     *time.Time     `json:"completed_at"`
}

type TicketDetailDTO struct {
	TicketDTO
	Events []*EventDTO `json:"events"`
	Images []*ImageDTO `json:"images"`
}

type EventDTO struct {
	ID          string         `json:"id"`
	TicketID    string         `json:"ticket_id"`
	ActorUserID *uint          `json:"actor_user_id"`
	Action      string         `json:"action"`
	Details     map[string]any `json:"details"`
	CreatedAt   time.Time      `json:"created_at"`
}

type ImageDTO struct {
	ID               string    `json:"id"`
	TicketID         string    `json:"ticket_id"`
	Type             string    `json:"type"`
	FileName         string    `json:"file_name"`
	MimeType         string    `json:"mime_type"`
	SizeBytes        int64     `json:"size_bytes"`
	ChecksumSHA256   string    `json:"checksum_sha256"`
	UploadedByUserID *uint     `json:"uploaded_by_user_id"`
	UploadedAt       time.Time `json:"uploaded_at"`
	URL              string    `json:"url"`
}

func ToTicketDTO(t *ticket.Ticket) *TicketDTO {
	if t == nil {
		return nil
	}
	return &TicketDTO{
		ID:              t.ID(),
		BookingID:       t.BookingID(),
		CustomerName:    t.CustomerName(),
		Address:         t.Address(),
		AppointmentDate: t.AppointmentDate(),
		AppointmentTime: t.AppointmentTime(),
		IssueDesc:       t.IssueDesc(),
		Status:          t.Status().String(),
		CenterID:        t.CenterID(),
		TechnicianID:    t.TechnicianID(),
		AIRunID:         t.AIRunID(),
		Version:         t.Version(),
		CreatedAt:       t.CreatedAt(),
		UpdatedAt:       t.UpdatedAt(),
		CompletedAt:     t.CompletedAt(),
	}
}

func ToTechnicianDTO(t *technician.Technician, workload int64) *TechnicianDTO {
	if t == nil {
		return nil
	}
	return &TechnicianDTO{
		ID:                   t.ID(),
		Name:                 t.Name(),
		PhoneMasked:          t.PhoneMasked(),
		CenterID:             t.CenterID(),
		Skills:               t.Skills(),
		IsActive:             t.IsActive(),
		AssignedTicketsCount: workload,
		CreatedAt:            t.CreatedAt(),
	}
}

func ToEventDTO(e *ticket.Event) *EventDTO {
	return &EventDTO{
		ID:          e.ID,
		TicketID:    e.TicketID,
		ActorUserID: e.ActorUserID,
		Action:      e.Action.String(),
		Details:     e.Details,
		CreatedAt:   e.CreatedAt,
	}
}

func ToEventDTOs(events []*ticket.Event) []*EventDTO {
	out := make([]*EventDTO, 0, len(events))
	for _, e := range events {
		out = append(out, ToEventDTO(e))
	}
	return out
}

func ToImageDTO(i *ticket.Image) *ImageDTO {
	return &ImageDTO{
		ID:               i.ID,
		TicketID:         i.TicketID,
		Type:             i.Type.String(),
		FileName:         i.FileName,
		MimeType:         i.MimeType,
		SizeBytes:        i.SizeBytes,
		ChecksumSHA256:   i.ChecksumSHA256,
		UploadedByUserID: i.UploadedByUserID,
		UploadedAt:       i.UploadedAt,
		URL:              i.URL(),
	}
}

func ToImageDTOs(images []*ticket.Image) []*ImageDTO {
	out := make([]*ImageDTO, 0, len(images))
	for _, i := range images {
		out = append(out, ToImageDTO(i))
	}
	return out
}
