package usecases

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/meidasupport/supportdesk/internal/application/common"
	"github.com/meidasupport/supportdesk/internal/domain/technician"
	"github.com/meidasupport/supportdesk/internal/domain/ticket"
	vo "github.com/meidasupport/supportdesk/internal/domain/ticket/valueobjects"
	"github.com/meidasupport/supportdesk/internal/shared/logger"
)

var testMeta = common.RequestMeta{ActorID: 1, IPAddress: "127.0.0.1", UserAgent: "go-test"}

func ticketIn(t *testing.T, status vo.TicketStatus, technicianID *string, version int) *ticket.Ticket {
	t.Helper()
	now := time.Now().UTC()
	tk, err := ticket.ReconstructTicket(
		uuid.NewString(),
		"Alice",
		"hash",
		"1 Main St",
		"2026-11-02",
		"10:30",
		"Washer leaks",
		status,
		nil,
		technicianID,
		nil,
		version,
		now.Add(-time.Hour),
		now.Add(-time.Hour),
		nil,
	)
	require.NoError(t, err)
	return tk
}

func techNamed(t *testing.T, name string, active bool) *technician.Technician {
	t.Helper()
	now := time.Now().UTC()
	tech, err := technician.ReconstructTechnician(uuid.NewString(), name, "138****0000", nil, nil, active, now, now)
	require.NoError(t, err)
	return tech
}

type fixture struct {
	tx        *mockTransactor
	tickets   *mockTicketRepository
	events    *mockEventRepository
	images    *mockImageRepository
	techs     *mockTechnicianRepository
	audit     *mockAuditRecorder
	publisher *mockPublisher
	storage   *mockStorage
	log       logger.Interface
}

func newFixture(tickets ...*ticket.Ticket) *fixture {
	return &fixture{
		tx:        &mockTransactor{},
		tickets:   newMockTicketRepository(tickets...),
		events:    &mockEventRepository{},
		images:    &mockImageRepository{},
		techs:     &mockTechnicianRepository{},
		audit:     &mockAuditRecorder{},
		publisher: &mockPublisher{},
		storage:   newMockStorage(),
		log:       logger.NewNopLogger(),
	}
}

func strPtr(s string) *string { return &s }
