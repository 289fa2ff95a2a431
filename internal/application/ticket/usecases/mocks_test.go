package usecases

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/meidasupport/supportdesk/internal/application/common"
	"github.com/meidasupport/supportdesk/internal/domain/technician"
	"github.com/meidasupport/supportdesk/internal/domain/ticket"
	vo "github.com/meidasupport/supportdesk/internal/domain/ticket/valueobjects"
)

type mockTransactor struct {
	calls int
}

func (m *mockTransactor) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	return fn(ctx)
}

// mockTicketRepository keeps tickets in memory. The Func fields override the defaults.
type mockTicketRepository struct {
	mu      sync.Mutex
	tickets map[string]*ticket.Ticket
	updates int

	UpdateFunc          func(ctx context.Context, t *ticket.Ticket, previousVersion int) error
	CountActiveWorkFunc func(ctx context.Context, ids []string, since time.Time) (map[string]int64, error)
	ListFunc            func(ctx context.Context, filter ticket.TicketFilter) ([]*ticket.Ticket, int64, error)
}

func newMockTicketRepository(tickets ...*ticket.Ticket) *mockTicketRepository {
	m := &mockTicketRepository{tickets: map[string]*ticket.Ticket{}}
	for _, t := range tickets {
		m.tickets[t.ID()] = t
	}
	return m
}

func (m *mockTicketRepository) Create(ctx context.Context, t *ticket.Ticket) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tickets[t.ID()] = t
	return nil
}

func (m *mockTicketRepository) Update(ctx context.Context, t *ticket.Ticket, previousVersion int) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, t, previousVersion)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updates++
	m.tickets[t.ID()] = t
	return nil
}

func (m *mockTicketRepository) GetByID(ctx context.Context, id string) (*ticket.Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tickets[id]
	if !ok {
		return nil, ticket.ErrTicketNotFound
	}
	return t, nil
}

func (m *mockTicketRepository) List(ctx context.Context, filter ticket.TicketFilter) ([]*ticket.Ticket, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	all, _ := m.ListForExport(ctx)
	return all, int64(len(all)), nil
}

func (m *mockTicketRepository) CountActiveWork(ctx context.Context, ids []string, since time.Time) (map[string]int64, error) {
	if m.CountActiveWorkFunc != nil {
		return m.CountActiveWorkFunc(ctx, ids, since)
	}
	return map[string]int64{}, nil
}

func (m *mockTicketRepository) ListForExport(ctx context.Context) ([]*ticket.Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*ticket.Ticket, 0, len(m.tickets))
	for _, t := range m.tickets {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt().Before(out[j].CreatedAt()) })
	return out, nil
}

func (m *mockTicketRepository) CountByAppointmentDate(ctx context.Context) (map[string]int64, error) {
	all, _ := m.ListForExport(ctx)
	counts := map[string]int64{}
	for _, t := range all {
		counts[t.AppointmentDate()]++
	}
	return counts, nil
}

type mockEventRepository struct {
	events     []*ticket.Event
	AppendFunc func(ctx context.Context, e *ticket.Event) error
}

func (m *mockEventRepository) Append(ctx context.Context, e *ticket.Event) error {
	if m.AppendFunc != nil {
		return m.AppendFunc(ctx, e)
	}
	m.events = append(m.events, e)
	return nil
}

func (m *mockEventRepository) ListByTicket(ctx context.Context, ticketID string) ([]*ticket.Event, error) {
	var out []*ticket.Event
	for _, e := range m.events {
		if e.TicketID == ticketID {
			out = append(out, e)
		}
	}
	return out, nil
}

type mockImageRepository struct {
	images []*ticket.Image
}

func (m *mockImageRepository) Create(ctx context.Context, img *ticket.Image) error {
	m.images = append(m.images, img)
	return nil
}

func (m *mockImageRepository) GetByID(ctx context.Context, id string) (*ticket.Image, error) {
	for _, img := range m.images {
		if img.ID == id {
			return img, nil
		}
	}
	return nil, ticket.ErrImageNotFound
}

func (m *mockImageRepository) ListByTicket(ctx context.Context, ticketID string) ([]*ticket.Image, error) {
	var out []*ticket.Image
	for _, img := range m.images {
		if img.TicketID == ticketID {
			out = append(out, img)
		}
	}
	return out, nil
}

func (m *mockImageRepository) CountByType(ctx context.Context, ticketID string, imageType vo.ImageType) (int64, error) {
	var n int64
	for _, img := range m.images {
		if img.TicketID == ticketID && img.Type == imageType {
			n++
		}
	}
	return n, nil
}

type mockTechnicianRepository struct {
	techs []*technician.Technician
}

func (m *mockTechnicianRepository) Create(ctx context.Context, t *technician.Technician) error {
	m.techs = append(m.techs, t)
	return nil
}

func (m *mockTechnicianRepository) Update(ctx context.Context, t *technician.Technician) error {
	return nil
}

func (m *mockTechnicianRepository) GetByID(ctx context.Context, id string) (*technician.Technician, error) {
	for _, t := range m.techs {
		if t.ID() == id {
			return t, nil
		}
	}
	return nil, technician.ErrTechnicianNotFound
}

func (m *mockTechnicianRepository) GetByName(ctx context.Context, name string) (*technician.Technician, error) {
	for _, t := range m.techs {
		if t.Name() == name {
			return t, nil
		}
	}
	return nil, technician.ErrTechnicianNotFound
}

func (m *mockTechnicianRepository) List(ctx context.Context, filter technician.Filter) ([]*technician.Technician, error) {
	var out []*technician.Technician
	for _, t := range m.techs {
		if filter.ActiveOnly && !t.IsActive() {
			continue
		}
		if !t.ServesCenter(filter.CenterID) {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

type recordedAudit struct {
	meta       common.RequestMeta
	action     string
	targetType string
	targetID   string
	details    map[string]any
}

type mockAuditRecorder struct {
	entries []recordedAudit
}

func (m *mockAuditRecorder) RecordFor(ctx context.Context, meta common.RequestMeta, action, targetType, targetID string, details map[string]any) error {
	m.entries = append(m.entries, recordedAudit{meta, action, targetType, targetID, details})
	return nil
}

type published struct {
	routingKey string
	payload    any
}

type mockPublisher struct {
	messages []published
	err      error
}

func (m *mockPublisher) Publish(ctx context.Context, routingKey string, payload any) error {
	m.messages = append(m.messages, published{routingKey, payload})
	return m.err
}

type mockSanitizer struct{}

func (mockSanitizer) StripTags(s string) string {
	var b bytes.Buffer
	depth := 0
	for _, r := range s {
		switch {
		case r == '<':
			depth++
		case r == '>' && depth > 0:
			depth--
		case depth == 0:
			b.WriteRune(r)
		}
	}
	return b.String()
}

type mockStorage struct {
	files   map[string][]byte
	removed []string
	seq     int
}

func newMockStorage() *mockStorage {
	return &mockStorage{files: map[string][]byte{}}
}

func (m *mockStorage) Save(ctx context.Context, dir, ext string, r io.Reader, maxBytes int64) (*StoredFile, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return nil, ticket.ErrImageTooLarge
	}
	m.seq++
	p := fmt.Sprintf("%s/file%d.%s", dir, m.seq, ext)
	m.files[p] = data
	return &StoredFile{Path: p, Size: int64(len(data)), Checksum: "checksum"}, nil
}

func (m *mockStorage) Open(p string) (io.ReadCloser, error) {
	data, ok := m.files[p]
	if !ok {
		return nil, fmt.Errorf("open %s: %w", p, os.ErrNotExist)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *mockStorage) Remove(p string) error {
	m.removed = append(m.removed, p)
	delete(m.files, p)
	return nil
}
