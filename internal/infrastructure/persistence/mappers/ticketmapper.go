package mappers

import (
	"fmt"

	"github.com/meidasupport/supportdesk/internal/domain/ticket"
	vo "github.com/meidasupport/supportdesk/internal/domain/ticket/valueobjects"
	"github.com/meidasupport/supportdesk/internal/infrastructure/persistence/models"
)

type TicketMapper interface {
	ToDomain(model *models.TicketModel) (*ticket.Ticket, error)
	ToModel(t *ticket.Ticket) *models.TicketModel
	ToDomainList(models []*models.TicketModel) ([]*ticket.Ticket, error)

	EventToDomain(model *models.TicketEventModel) (*ticket.Event, error)
	EventToModel(e *ticket.Event) (*models.TicketEventModel, error)

	ImageToDomain(model *models.TicketImageModel) *ticket.Image
	ImageToModel(img *ticket.Image) *models.TicketImageModel
}

type ticketMapper struct{}

func NewTicketMapper() TicketMapper {
	return &ticketMapper{}
}

func (m *ticketMapper) ToDomain(model *models.TicketModel) (*ticket.Ticket, error) {
	if model == nil {
		return nil, nil
	}

	status, err := vo.NewTicketStatus(model.Status)
	if err != nil {
		return nil, fmt.Errorf("invalid ticket status in row %s: %w", model.ID, err)
	}

	return ticket.ReconstructTicket(
		model.ID,
		model.CustomerName,
		model.CustomerPhoneHash,
		model.Address,
		model.AppointmentDate,
		model.AppointmentTime,
		model.IssueDesc,
		status,
		model.CenterID,
		model.TechnicianID,
		model.AIRunID,
		model.Version,
		model.CreatedAt,
		model.UpdatedAt,
		model.CompletedAt,
	)
}

func (m *ticketMapper) ToModel(t *ticket.Ticket) *models.TicketModel {
	return &models.TicketModel{
		ID:                t.ID(),
		CustomerName:      t.CustomerName(),
		CustomerPhoneHash: t.CustomerPhoneHash(),
		Address:           t.Address(),
		AppointmentDate:   t.AppointmentDate(),
		AppointmentTime:   t.AppointmentTime(),
		IssueDesc:         t.IssueDesc(),
		Status:            t.Status().String(),
		CenterID:          t.CenterID(),
		TechnicianID:      t.TechnicianID(),
		AIRunID:           t.AIRunID(),
		Version:           t.Version(),
		CreatedAt:         t.CreatedAt(),
		UpdatedAt:         t.UpdatedAt(),
		CompletedAt:       t.CompletedAt(),
	}
}

func (m *ticketMapper) ToDomainList(models []*models.TicketModel) ([]*ticket.Ticket, error) {
	tickets := make([]*ticket.Ticket, 0, len(models))
	for _, model := range models {
		t, err := m.ToDomain(model)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, t)
	}
	return tickets, nil
}

func (m *ticketMapper) EventToDomain(model *models.TicketEventModel) (*ticket.Event, error) {
	details, err := unmarshalDetails(model.DetailsJSON)
	if err != nil {
		return nil, err
	}
	return &ticket.Event{
		ID:          model.ID,
		TicketID:    model.TicketID,
		ActorUserID: model.ActorUserID,
		Action:      vo.EventAction(model.Action),
		Details:     details,
		CreatedAt:   model.CreatedAt,
	}, nil
}

func (m *ticketMapper) EventToModel(e *ticket.Event) (*models.TicketEventModel, error) {
	details, err := marshalDetails(e.Details)
	if err != nil {
		return nil, err
	}
	return &models.TicketEventModel{
		ID:          e.ID,
		TicketID:    e.TicketID,
		ActorUserID: e.ActorUserID,
		Action:      e.Action.String(),
		DetailsJSON: details,
		CreatedAt:   e.CreatedAt,
	}, nil
}

func (m *ticketMapper) ImageToDomain(model *models.TicketImageModel) *ticket.Image {
	return &ticket.Image{
		ID:               model.ID,
		TicketID:         model.TicketID,
		Type:             vo.ImageType(model.Type),
		FileName:         model.FileName,
		FilePath:         model.FilePath,
		MimeType:         model.MimeType,
		SizeBytes:        model.SizeBytes,
		ChecksumSHA256:   model.ChecksumSHA256,
		UploadedByUserID: model.UploadedByUserID,
		UploadedAt:       model.UploadedAt,
	}
}

func (m *ticketMapper) ImageToModel(img *ticket.Image) *models.TicketImageModel {
	return &models.TicketImageModel{
		ID:               img.ID,
		TicketID:         img.TicketID,
		Type:             img.Type.String(),
		FileName:         img.FileName,
		FilePath:         img.FilePath,
		MimeType:         img.MimeType,
		SizeBytes:        img.SizeBytes,
		ChecksumSHA256:   img.ChecksumSHA256,
		UploadedByUserID: img.UploadedByUserID,
		UploadedAt:       img.UploadedAt,
	}
}
