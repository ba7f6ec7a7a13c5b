package overlay

import (
	"context"

	"region-clicker/src/region"
)

// Selector defines a synchronous region-selection API.
// The call is blocking and MUST NOT be invoked from the UI goroutine.
// Returns (region, cancelled, error). If cancelled is true, region is undefined and err is nil.
type Selector interface {
	Select(ctx context.Context) (region.Region, bool, error)
}
