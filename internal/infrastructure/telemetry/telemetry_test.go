package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/meidasupport/supportdesk/internal/shared/config"
	"github.com/meidasupport/supportdesk/internal/shared/logger"
)

func TestSetup_WithoutEndpointIsNoop(t *testing.T) {
	shutdown := Setup(context.Background(), config.TracingConfig{}, logger.NewNopLogger())
	assert.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))
}
