package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/meidasupport/supportdesk/internal/shared/constants"
)

type TicketModel struct {
	ID                string    `gorm:"primaryKey;size:36"`
	CustomerName      string    `gorm:"not null;size:100"`
	CustomerPhoneHash string    `gorm:"not null;size:64;index"`
	Address           string    `gorm:"not null;size:200"`
	AppointmentDate   string    `gorm:"not null;size:10;index"`
	AppointmentTime   string    `gorm:"not null;size:5"`
	IssueDesc         string    `gorm:"not null;size:500"`
	Status            string    `gorm:"not null;size:20;index"`
	CenterID          *string   `gorm:"size:64;index"`
	TechnicianID      *string   `gorm:"size:36;index"`
	AIRunID           *string   `gorm:"column:ai_run_id;size:64"`
	Version           int       `gorm:"not null;default:1"`
	CreatedAt         time.Time `gorm:"index"`
	UpdatedAt         time.Time
	CompletedAt       *time.Time

	// Note: No foreign key constraints or associations.
	// Events and images are loaded through their own repositories.
}

func (TicketModel) TableName() string {
	return constants.TableTickets
}

type TicketEventModel struct {
	ID          string         `gorm:"primaryKey;size:36"`
	TicketID    string         `gorm:"not null;size:36;index:idx_ticket_event_ticket"`
	ActorUserID *uint          `gorm:"index"`
	Action      string         `gorm:"not null;size:30"`
	DetailsJSON datatypes.JSON `gorm:"column:details_json"`
	CreatedAt   time.Time      `gorm:"not null;index:idx_ticket_event_ticket"`
}

func (TicketEventModel) TableName() string {
	return constants.TableTicketEvents
}

type TicketImageModel struct {
	ID               string `gorm:"primaryKey;size:36"`
	TicketID         string `gorm:"not null;size:36;index:idx_ticket_image_type"`
	Type             string `gorm:"not null;size:20;index:idx_ticket_image_type"`
	FileName         string `gorm:"not null;size:255"`
	FilePath         string `gorm:"not null;size:500"`
	MimeType         string `gorm:"size:100"`
	SizeBytes        int64
	ChecksumSHA256   string `gorm:"column:checksum_sha256;size:64"`
	UploadedByUserID *uint
	UploadedAt       time.Time `gorm:"not null"`
}

func (TicketImageModel) TableName() string {
	return constants.TableTicketImages
}
