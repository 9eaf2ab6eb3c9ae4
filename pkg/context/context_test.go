package context_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	dfctx "github.com/yeisme/dontfile/pkg/context"
)

func TestRequestID(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, dfctx.RequestID(ctx))

	ctx = dfctx.WithRequestID(ctx, "01HZX")
	assert.Equal(t, "01HZX", dfctx.RequestID(ctx))
}
