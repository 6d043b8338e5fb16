package services

import (
	"fmt"

	"github.com/akinalp/mqvi-modbot/pkg"
)

// Command-level rejections. Each wraps a pkg sentinel, so errors.Is matches
// both the specific error (picks the reply text) and the sentinel (picks the
// error class).
var (
	ErrOwnerOnly         = fmt.Errorf("%w: owner only", pkg.ErrForbidden)
	ErrNotStaff          = fmt.Errorf("%w: staff permission required", pkg.ErrForbidden)
	ErrRoleNotPromotable = fmt.Errorf("%w: role is not promotable", pkg.ErrBadRequest)
	ErrInvalidCase       = fmt.Errorf("%w: invalid case id", pkg.ErrNotFound)
)
