package technician

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/meidasupport/supportdesk/internal/shared/biztime"
)

var ErrTechnicianNotFound = errors.New("technician not found")

const maxNameLength = 100

type Technician struct {
	id          string
	name        string
	phoneMasked string
	centerID    *string
	skills      []string
	isActive    bool
	createdAt   time.Time
	updatedAt   time.Time
}

func NewTechnician(name, phone string, centerID *string, skills []string) (*Technician, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("technician name is required")
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return nil, fmt.Errorf("technician name exceeds maximum length of %d characters", maxNameLength)
	}
	now := biztime.NowUTC()
	return &Technician{
		id:          uuid.NewString(),
		name:        name,
		phoneMasked: MaskPhone(phone),
		centerID:    centerID,
		skills:      cleanSkills(skills),
		isActive:    true,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

func ReconstructTechnician(id, name, phoneMasked string, centerID *string, skills []string, isActive bool, createdAt, updatedAt time.Time) (*Technician, error) {
	if id == "" {
		return nil, fmt.Errorf("technician ID is required")
	}
	if skills == nil {
		skills = []string{}
	}
	return &Technician{
		id:          id,
		name:        name,
		phoneMasked: phoneMasked,
		centerID:    centerID,
		skills:      skills,
		isActive:    isActive,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}, nil
}

func (t *Technician) ID() string           { return t.id }
func (t *Technician) Name() string         { return t.name }
func (t *Technician) PhoneMasked() string  { return t.phoneMasked }
func (t *Technician) CenterID() *string    { return t.centerID }
func (t *Technician) IsActive() bool       { return t.isActive }
func (t *Technician) CreatedAt() time.Time { return t.createdAt }
func (t *Technician) UpdatedAt() time.Time { return t.updatedAt }

func (t *Technician) Skills() []string {
	out := make([]string, len(t.skills))
	copy(out, t.skills)
	return out
}

// ServesCenter reports whether the technician belongs to centerID. A nil centerID matches everyone.
func (t *Technician) ServesCenter(centerID *string) bool {
	if centerID == nil {
		return true
	}
	return t.centerID != nil && *t.centerID == *centerID
}

func (t *Technician) Deactivate() {
	if t.isActive {
		t.isActive = false
		t.updatedAt = biztime.NowUTC()
	}
}

func (t *Technician) Activate() {
	if !t.isActive {
		t.isActive = true
		t.updatedAt = biztime.NowUTC()
	}
}

func (t *Technician) UpdateProfile(phone string, centerID *string, skills []string) {
	if phone != "" {
		t.phoneMasked = MaskPhone(phone)
	}
	t.centerID = centerID
	t.skills = cleanSkills(skills)
	t.updatedAt = biztime.NowUTC()
}

// MaskPhone keeps the first three and last four digits: 13812341234 -> 138****1234.
// Already-masked or short values are returned unchanged.
func MaskPhone(phone string) string {
	phone = strings.TrimSpace(phone)
	if strings.Contains(phone, "*") {
		return phone
	}
	r := []rune(phone)
	if len(r) < 8 {
		return phone
	}
	return string(r[:3]) + strings.Repeat("*", len(r)-7) + string(r[len(r)-4:])
}

func cleanSkills(skills []string) []string {
	out := make([]string, 0, len(skills))
	seen := make(map[string]bool, len(skills))
	for _, s := range skills {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
