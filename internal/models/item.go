package models

import "fmt"

// Item types the sweeper cares about.
const (
	TypeForm           = "Form"
	TypeFeatureService = "Feature Service"
)

// CodeItemNotFound is the message code the portal returns for a missing or inaccessible item.
const CodeItemNotFound = "CONT_0001"

// Item is a portal content item. Only the fields read by the sweeper are decoded.
type Item struct {
	ID           string                 `json:"id"`
	Owner        string                 `json:"owner"`
	Type         string                 `json:"type"`
	Title        string                 `json:"title"`
	TypeKeywords []string               `json:"typeKeywords"`
	Properties   map[string]interface{} `json:"properties"`
}

// StringProperty returns a non-empty string property, or "" when absent.
func (i Item) StringProperty(key string) string {
	if i.Properties == nil {
		return ""
	}
	s, _ := i.Properties[key].(string)
	return s
}

// Folder is a user content folder.
type Folder struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Username string `json:"username"`
}

// PortalUser is the subset of the user record embedded in portals/self.
type PortalUser struct {
	Username string `json:"username"`
	OrgID    string `json:"orgId"`
}

// PortalSelf is the "who am I" response.
type PortalSelf struct {
	ID   string     `json:"id"`
	Name string     `json:"name"`
	User PortalUser `json:"user"`
}

// SearchPage is one page of search results.
type SearchPage struct {
	Total     int    `json:"total"`
	Start     int    `json:"start"`
	Num       int    `json:"num"`
	NextStart int    `json:"nextStart"`
	Results   []Item `json:"results"`
}

// Truncated reports whether the portal matched more items than this page holds.
func (p *SearchPage) Truncated() bool {
	return p.Total > len(p.Results)
}

// RemoveResult is the response of an item or folder delete.
type RemoveResult struct {
	Success bool   `json:"success"`
	ItemID  string `json:"itemId"`
	Message string `json:"message"`
}

// PortalError is the error envelope the portal returns, often with HTTP 200.
type PortalError struct {
	Code        int      `json:"code"`
	MessageCode string   `json:"messageCode"`
	Message     string   `json:"message"`
	Details     []string `json:"details"`
}

func (e *PortalError) Error() string {
	if e.MessageCode != "" {
		return fmt.Sprintf("%s: %s", e.MessageCode, e.Message)
	}
	return fmt.Sprintf("%d: %s", e.Code, e.Message)
}

// IsNotFound reports whether the error means the item does not exist.
func (e *PortalError) IsNotFound() bool {
	return e != nil && e.MessageCode == CodeItemNotFound
}
