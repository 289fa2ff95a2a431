package usecases

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/meidasupport/supportdesk/internal/domain/technician"
	"github.com/meidasupport/supportdesk/internal/shared/db"
	"github.com/meidasupport/supportdesk/internal/shared/errors"
	"github.com/meidasupport/supportdesk/internal/shared/logger"
)

type SeedTechnician struct {
	Name     string
	Phone    string
	CenterID string
	Skills   []string
	Inactive bool
}

type SeedTechniciansResult struct {
	Created int
	Updated int
}

// SeedTechniciansUseCase upserts technicians by name.
type SeedTechniciansUseCase struct {
	tx             db.Transactor
	technicianRepo technician.Repository
	logger         logger.Interface
}

func NewSeedTechniciansUseCase(tx db.Transactor, technicianRepo technician.Repository, logger logger.Interface) *SeedTechniciansUseCase {
	return &SeedTechniciansUseCase{tx: tx, technicianRepo: technicianRepo, logger: logger}
}

func (uc *SeedTechniciansUseCase) Execute(ctx context.Context, techs []SeedTechnician) (*SeedTechniciansResult, error) {
	result := &SeedTechniciansResult{}
	err := uc.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		for _, st := range techs {
			created, err := uc.apply(ctx, st)
			if err != nil {
				return err
			}
			if created {
				result.Created++
			} else {
				result.Updated++
			}
		}
		return nil
	})
	if err != nil {
		uc.logger.Errorw("failed to seed technicians", "error", err)
		if errors.IsAppError(err) {
			return nil, err
		}
		return nil, errors.NewInternalError("failed to seed technicians")
	}
	uc.logger.Infow("technicians seeded", "created", result.Created, "updated", result.Updated)
	return result, nil
}

func (uc *SeedTechniciansUseCase) apply(ctx context.Context, st SeedTechnician) (bool, error) {
	center := optional(strings.TrimSpace(st.CenterID))

	existing, err := uc.technicianRepo.GetByName(ctx, strings.TrimSpace(st.Name))
	if stderrors.Is(err, technician.ErrTechnicianNotFound) {
		t, err := technician.NewTechnician(st.Name, st.Phone, center, st.Skills)
		if err != nil {
			return false, errors.NewValidationError(err.Error())
		}
		if st.Inactive {
			t.Deactivate()
		}
		if err := uc.technicianRepo.Create(ctx, t); err != nil {
			return false, fmt.Errorf("create technician %s: %w", st.Name, err)
		}
		return true, nil
	}
	if err != nil {
		return false, err
	}

	existing.UpdateProfile(st.Phone, center, st.Skills)
	if st.Inactive {
		existing.Deactivate()
	} else {
		existing.Activate()
	}
	if err := uc.technicianRepo.Update(ctx, existing); err != nil {
		return false, fmt.Errorf("update technician %s: %w", st.Name, err)
	}
	return false, nil
}
