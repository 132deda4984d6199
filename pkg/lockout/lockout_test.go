package lockout

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestRecorderKey(t *testing.T) {
	t.Parallel()

	userID := uuid.MustParse("a2a7b7c1-3f00-4d2e-9c41-9a3d1a9ab001")
	r := NewRecorder(nil, Config{KeyPrefix: "mfa:fail", Window: 15 * time.Minute})

	assert.Equal(t,
		"mfa:fail:a2a7b7c1-3f00-4d2e-9c41-9a3d1a9ab001:203.0.113.5",
		r.key(userID, "203.0.113.5"),
	)
}

func TestNoopRecorder(t *testing.T) {
	t.Parallel()

	assert.NoError(t, NoopRecorder{}.RecordFailure(context.Background(), uuid.New(), "203.0.113.5"))
}
