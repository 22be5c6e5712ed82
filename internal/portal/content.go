package portal

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/rflorenc/survey-sweeper/internal/models"
)

func (c *Client) Self(ctx context.Context) (*models.PortalSelf, error) {
	var self models.PortalSelf
	if err := c.GetJSON(ctx, "/portals/self", nil, &self); err != nil {
		return nil, fmt.Errorf("portal self: %w", err)
	}
	return &self, nil
}

func (c *Client) SearchItems(ctx context.Context, q string, start, num int) (*models.SearchPage, error) {
	params := url.Values{
		"q":     {q},
		"start": {strconv.Itoa(start)},
		"num":   {strconv.Itoa(num)},
	}
	var page models.SearchPage
	if err := c.GetJSON(ctx, "/search", params, &page); err != nil {
		return nil, fmt.Errorf("search %q: %w", q, err)
	}
	return &page, nil
}

func (c *Client) GetItem(ctx context.Context, id string) (*models.Item, error) {
	var item models.Item
	if err := c.GetJSON(ctx, "/content/items/"+url.PathEscape(id), nil, &item); err != nil {
		return nil, fmt.Errorf("get item %s: %w", id, err)
	}
	return &item, nil
}

func (c *Client) RemoveItem(ctx context.Context, owner, id string) (*models.RemoveResult, error) {
	if owner == "" {
		owner = c.session.Username
	}
	path := fmt.Sprintf("%s/items/%s/delete", c.userPath(owner), url.PathEscape(id))
	var res models.RemoveResult
	if err := c.PostJSON(ctx, path, nil, &res); err != nil {
		return nil, fmt.Errorf("remove item %s: %w", id, err)
	}
	return &res, nil
}

func (c *Client) UserFolders(ctx context.Context) ([]models.Folder, error) {
	var content struct {
		Folders []models.Folder `json:"folders"`
	}
	params := url.Values{"num": {"1"}}
	if err := c.GetJSON(ctx, c.userPath(c.session.Username), params, &content); err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}
	return content.Folders, nil
}

func (c *Client) FolderItems(ctx context.Context, folderID string) ([]models.Item, error) {
	// A listing without an items array is an error, not an empty folder.
	var content struct {
		Items *[]models.Item `json:"items"`
	}
	path := c.userPath(c.session.Username) + "/" + url.PathEscape(folderID)
	if err := c.GetJSON(ctx, path, nil, &content); err != nil {
		return nil, fmt.Errorf("list folder %s: %w", folderID, err)
	}
	if content.Items == nil {
		return nil, fmt.Errorf("list folder %s: response has no items", folderID)
	}
	return *content.Items, nil
}

func (c *Client) RemoveFolder(ctx context.Context, folderID string) (*models.RemoveResult, error) {
	path := c.userPath(c.session.Username) + "/" + url.PathEscape(folderID) + "/delete"
	var res models.RemoveResult
	if err := c.PostJSON(ctx, path, nil, &res); err != nil {
		return nil, fmt.Errorf("remove folder %s: %w", folderID, err)
	}
	return &res, nil
}

func (c *Client) userPath(username string) string {
	return "/content/users/" + url.PathEscape(username)
}
