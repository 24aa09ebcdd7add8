package requestcontext

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAccessors(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, RequestID(ctx))
	assert.Empty(t, AdminActor(ctx))

	ctx = WithRequestID(ctx, "req-1")
	ctx = WithAdminActor(ctx, "door-laptop")
	assert.Equal(t, "req-1", RequestID(ctx))
	assert.Equal(t, "door-laptop", AdminActor(ctx))
}
