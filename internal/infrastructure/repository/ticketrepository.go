package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/meidasupport/supportdesk/internal/domain/ticket"
	vo "github.com/meidasupport/supportdesk/internal/domain/ticket/valueobjects"
	"github.com/meidasupport/supportdesk/internal/infrastructure/persistence/mappers"
	"github.com/meidasupport/supportdesk/internal/infrastructure/persistence/models"
	db "github.com/meidasupport/supportdesk/internal/shared/db"
)

type TicketRepository struct {
	db     *gorm.DB
	mapper mappers.TicketMapper
}

func NewTicketRepository(db *gorm.DB) *TicketRepository {
	return &TicketRepository{
		db:     db,
		mapper: mappers.NewTicketMapper(),
	}
}

func (r *TicketRepository) Create(ctx context.Context, t *ticket.Ticket) error {
	if err := db.GetTxFromContext(ctx, r.db).Create(r.mapper.ToModel(t)).Error; err != nil {
		return fmt.Errorf("failed to create ticket: %w", err)
	}
	return nil
}

// Update writes every mutable column guarded by the version the caller loaded.
func (r *TicketRepository) Update(ctx context.Context, t *ticket.Ticket, previousVersion int) error {
	model := r.mapper.ToModel(t)
	tx := db.GetTxFromContext(ctx, r.db)

	result := tx.
		Model(&models.TicketModel{}).
		Where("id = ? AND version = ?", model.ID, previousVersion).
		Select("status", "technician_id", "center_id", "ai_run_id", "version", "updated_at", "completed_at").
		Updates(model)
	if result.Error != nil {
		return fmt.Errorf("failed to update ticket: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		return nil
	}

	var count int64
	if err := tx.Model(&models.TicketModel{}).Where("id = ?", model.ID).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check ticket: %w", err)
	}
	if count == 0 {
		return ticket.ErrTicketNotFound
	}
	return ticket.ErrVersionConflict
}

func (r *TicketRepository) GetByID(ctx context.Context, id string) (*ticket.Ticket, error) {
	var model models.TicketModel
	if err := db.GetTxFromContext(ctx, r.db).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ticket.ErrTicketNotFound
		}
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}
	return r.mapper.ToDomain(&model)
}

func (r *TicketRepository) List(ctx context.Context, filter ticket.TicketFilter) ([]*ticket.Ticket, int64, error) {
	query := db.GetTxFromContext(ctx, r.db).
		Model(&models.TicketModel{}).
		Scopes(db.ContainsFold(filter.Query, "customer_name", "address", "issue_desc", "id"))

	if filter.Status != nil {
		query = query.Where("status = ?", filter.Status.String())
	}
	if filter.TechnicianID != nil {
		query = query.Where("technician_id = ?", *filter.TechnicianID)
	}
	if filter.CenterID != nil {
		query = query.Where("center_id = ?", *filter.CenterID)
	}
	// appointment_date is stored as YYYY-MM-DD, so string comparison orders by date.
	if filter.DateFrom != nil {
		query = query.Where("appointment_date >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("appointment_date <= ?", *filter.DateTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count tickets: %w", err)
	}

	var rows []*models.TicketModel
	if err := query.Order("created_at DESC, id DESC").Scopes(db.Paginate(filter.Page, filter.PageSize)).Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list tickets: %w", err)
	}

	tickets, err := r.mapper.ToDomainList(rows)
	if err != nil {
		return nil, 0, err
	}
	return tickets, total, nil
}

func (r *TicketRepository) CountActiveWork(ctx context.Context, technicianIDs []string, since time.Time) (map[string]int64, error) {
	counts := make(map[string]int64, len(technicianIDs))
	if len(technicianIDs) == 0 {
		return counts, nil
	}

	statuses := make([]string, 0, 2)
	for _, s := range vo.ActiveWorkStatuses() {
		statuses = append(statuses, s.String())
	}

	var rows []struct {
		TechnicianID string
		Total        int64
	}
	err := db.GetTxFromContext(ctx, r.db).
		Model(&models.TicketModel{}).
		Select("technician_id, COUNT(*) AS total").
		Where("technician_id IN ?", technicianIDs).
		Where("status IN ?", statuses).
		Where("created_at >= ?", since).
		Group("technician_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count technician workload: %w", err)
	}
	for _, row := range rows {
		counts[row.TechnicianID] = row.Total
	}
	return counts, nil
}

func (r *TicketRepository) ListForExport(ctx context.Context) ([]*ticket.Ticket, error) {
	var rows []*models.TicketModel
	if err := db.GetTxFromContext(ctx, r.db).Order("created_at ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list tickets for export: %w", err)
	}
	return r.mapper.ToDomainList(rows)
}

func (r *TicketRepository) CountByAppointmentDate(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		AppointmentDate string
		Total           int64
	}
	err := db.GetTxFromContext(ctx, r.db).
		Model(&models.TicketModel{}).
		Select("appointment_date, COUNT(*) AS total").
		Group("appointment_date").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count tickets by date: %w", err)
	}
	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.AppointmentDate] = row.Total
	}
	return out, nil
}

type TicketEventRepository struct {
	db     *gorm.DB
	mapper mappers.TicketMapper
}

func NewTicketEventRepository(db *gorm.DB) *TicketEventRepository {
	return &TicketEventRepository{db: db, mapper: mappers.NewTicketMapper()}
}

func (r *TicketEventRepository) Append(ctx context.Context, e *ticket.Event) error {
	model, err := r.mapper.EventToModel(e)
	if err != nil {
		return err
	}
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to append ticket event: %w", err)
	}
	return nil
}

func (r *TicketEventRepository) ListByTicket(ctx context.Context, ticketID string) ([]*ticket.Event, error) {
	var rows []models.TicketEventModel
	if err := db.GetTxFromContext(ctx, r.db).
		Where("ticket_id = ?", ticketID).
		Order("created_at ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list ticket events: %w", err)
	}

	events := make([]*ticket.Event, 0, len(rows))
	for i := range rows {
		e, err := r.mapper.EventToDomain(&rows[i])
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, nil
}

type TicketImageRepository struct {
	db     *gorm.DB
	mapper mappers.TicketMapper
}

func NewTicketImageRepository(db *gorm.DB) *TicketImageRepository {
	return &TicketImageRepository{db: db, mapper: mappers.NewTicketMapper()}
}

func (r *TicketImageRepository) Create(ctx context.Context, img *ticket.Image) error {
	if err := db.GetTxFromContext(ctx, r.db).Create(r.mapper.ImageToModel(img)).Error; err != nil {
		return fmt.Errorf("failed to create ticket image: %w", err)
	}
	return nil
}

func (r *TicketImageRepository) GetByID(ctx context.Context, id string) (*ticket.Image, error) {
	var model models.TicketImageModel
	if err := db.GetTxFromContext(ctx, r.db).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ticket.ErrImageNotFound
		}
		return nil, fmt.Errorf("failed to get ticket image: %w", err)
	}
	return r.mapper.ImageToDomain(&model), nil
}

func (r *TicketImageRepository) ListByTicket(ctx context.Context, ticketID string) ([]*ticket.Image, error) {
	var rows []models.TicketImageModel
	if err := db.GetTxFromContext(ctx, r.db).
		Where("ticket_id = ?", ticketID).
		Order("uploaded_at ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list ticket images: %w", err)
	}
	images := make([]*ticket.Image, 0, len(rows))
	for i := range rows {
		images = append(images, r.mapper.ImageToDomain(&rows[i]))
	}
	return images, nil
}

func (r *TicketImageRepository) CountByType(ctx context.Context, ticketID string, imageType vo.ImageType) (int64, error) {
	var count int64
	if err := db.GetTxFromContext(ctx, r.db).
		Model(&models.TicketImageModel{}).
		Where("ticket_id = ? AND type = ?", ticketID, imageType.String()).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count ticket images: %w", err)
	}
	return count, nil
}
