package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/meidasupport/supportdesk/internal/shared/errors"
	"github.com/meidasupport/supportdesk/internal/shared/logger"
)

func TestSeedTechnicians_CreateThenUpdate(t *testing.T) {
	repo := &mockTechnicianRepository{}
	tx := &mockTransactor{}
	uc := NewSeedTechniciansUseCase(tx, repo, logger.NewNopLogger())

	result, err := uc.Execute(context.Background(), []SeedTechnician{
		{Name: "Zhang Wei", Phone: "13812341234", CenterID: "center-1", Skills: []string{"washer"}},
		{Name: "Li Na", Phone: "13900001111"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Created)
	assert.Zero(t, result.Updated)
	require.Len(t, repo.techs, 2)
	assert.Equal(t, "138****1234", repo.techs[0].PhoneMasked())
	require.NotNil(t, repo.techs[0].CenterID())
	assert.Equal(t, "center-1", *repo.techs[0].CenterID())
	assert.Nil(t, repo.techs[1].CenterID())

	result, err = uc.Execute(context.Background(), []SeedTechnician{
		{Name: "Li Na", CenterID: "center-2", Inactive: true},
	})
	require.NoError(t, err)
	assert.Zero(t, result.Created)
	assert.Equal(t, 1, result.Updated)
	require.Len(t, repo.techs, 2)
	assert.False(t, repo.techs[1].IsActive())
	assert.Equal(t, "center-2", *repo.techs[1].CenterID())
	assert.Equal(t, 2, tx.calls)
}

func TestSeedTechnicians_InvalidName(t *testing.T) {
	repo := &mockTechnicianRepository{}
	uc := NewSeedTechniciansUseCase(&mockTransactor{}, repo, logger.NewNopLogger())

	_, err := uc.Execute(context.Background(), []SeedTechnician{{Name: "  "}})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeValidation, apperrors.GetAppError(err).Type)
	assert.Empty(t, repo.techs)
}
