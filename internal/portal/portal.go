package portal

import (
	"context"

	"github.com/rflorenc/survey-sweeper/internal/models"
)

// Portal defines the content operations the sweeper needs.
type Portal interface {
	// Session returns the session the portal calls are made with.
	Session() models.Session

	// Self returns the portal and the signed-in user. Used to verify the session.
	Self(ctx context.Context) (*models.PortalSelf, error)

	// SearchItems returns one page of items matching q.
	SearchItems(ctx context.Context, q string, start, num int) (*models.SearchPage, error)

	// GetItem looks up an item by id. A missing item yields a *models.PortalError
	// whose IsNotFound is true.
	GetItem(ctx context.Context, id string) (*models.Item, error)

	// RemoveItem deletes an item. An empty owner means the signed-in user.
	RemoveItem(ctx context.Context, owner, id string) (*models.RemoveResult, error)

	// UserFolders lists the signed-in user's folders.
	UserFolders(ctx context.Context) ([]models.Folder, error)

	// FolderItems lists the items in one of the signed-in user's folders.
	FolderItems(ctx context.Context, folderID string) ([]models.Item, error)

	// RemoveFolder deletes one of the signed-in user's folders.
	RemoveFolder(ctx context.Context, folderID string) (*models.RemoveResult, error)
}

var _ Portal = (*Client)(nil)
