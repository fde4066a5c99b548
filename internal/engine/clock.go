package engine

import (
	"time"

	"github.com/mesh-intelligence/primetime/pkg/types"
)

// systemClock reads the wall clock.
type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns a Clock backed by time.Now.
func SystemClock() types.Clock { return systemClock{} }
