package files

import (
	"context"

	"github.com/mkravets/filehub/internal/models"
)

type Repository interface {
	Create(ctx context.Context, file *models.File) (*models.File, error)
	GetByID(ctx context.Context, id string) (*models.File, error)
	// ListByParent returns the files owned by userID under parentID
	// (models.RootParentID for top-level), ordered by creation time with id
	// as tiebreak so pagination is stable across pages.
	ListByParent(ctx context.Context, userID, parentID string, page, pageSize int) ([]*models.File, error)
	// SetVisibility flips the public flag and returns the updated record.
	// It does not check ownership; callers apply access control first.
	SetVisibility(ctx context.Context, id string, public bool) (*models.File, error)
	Count(ctx context.Context) (int64, error)
}
