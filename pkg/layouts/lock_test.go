package layouts

import (
	"context"
	"fmt"
	"testing"

	"github.com/aretw0/flowmap/pkg/adapters/memory"
	"github.com/aretw0/flowmap/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestManager_LockLifecycle(t *testing.T) {
	mgr := NewManager(memory.NewTransitionStore(), memory.NewLayoutStore())
	ctx := context.Background()
	count := 1000

	for i := 0; i < count; i++ {
		id := fmt.Sprintf("workflow-%d", i)
		_ = mgr.SaveLayout(ctx, id, domain.PositionsMap{"a": {}})
		_, _ = mgr.LoadLayout(ctx, id)
		_ = mgr.DeleteLayout(ctx, id)
	}

	assert.Zero(t, mgr.activeLocks(), "lock entries must be released once unused")
}
