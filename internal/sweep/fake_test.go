package sweep

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/rflorenc/survey-sweeper/internal/models"
)

// fakePortal is an in-memory portal.Portal that records every call.
type fakePortal struct {
	mu sync.Mutex

	session models.Session

	selfErr   error
	pages     map[string]*models.SearchPage // keyed by item type
	searchErr error
	queries   []string

	existing map[string]bool
	getErrs  map[string]error

	removeErrs  map[string]error
	removeFails map[string]string
	removed     []string

	folders        []models.Folder
	foldersErr     error
	folderItems    map[string][]models.Item
	folderErrs     map[string]error
	removedFolders []string
}

func newFakePortal() *fakePortal {
	return &fakePortal{
		pages:       map[string]*models.SearchPage{},
		existing:    map[string]bool{},
		getErrs:     map[string]error{},
		removeErrs:  map[string]error{},
		removeFails: map[string]string{},
		folderItems: map[string][]models.Item{},
		folderErrs:  map[string]error{},
	}
}

func (f *fakePortal) setResults(itemType string, items ...models.Item) {
	f.pages[itemType] = &models.SearchPage{Total: len(items), Start: 1, Num: 100, Results: items}
}

func (f *fakePortal) Session() models.Session {
	return f.session
}

func (f *fakePortal) Self(ctx context.Context) (*models.PortalSelf, error) {
	if f.selfErr != nil {
		return nil, f.selfErr
	}
	return &models.PortalSelf{ID: "org1", User: models.PortalUser{Username: "dev"}}, nil
}

func (f *fakePortal) SearchItems(ctx context.Context, q string, start, num int) (*models.SearchPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, q)
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	for itemType, page := range f.pages {
		if strings.Contains(q, "type: '"+itemType+"'") {
			return page, nil
		}
	}
	return &models.SearchPage{Start: 1, Num: num, Results: []models.Item{}}, nil
}

func (f *fakePortal) GetItem(ctx context.Context, id string) (*models.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.getErrs[id]; ok {
		return nil, err
	}
	if !f.existing[id] {
		return nil, &models.PortalError{Code: 400, MessageCode: models.CodeItemNotFound, Message: "Item does not exist or is inaccessible."}
	}
	return &models.Item{ID: id}, nil
}

func (f *fakePortal) RemoveItem(ctx context.Context, owner, id string) (*models.RemoveResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.removeErrs[id]; ok {
		return nil, err
	}
	if msg, ok := f.removeFails[id]; ok {
		return &models.RemoveResult{Success: false, ItemID: id, Message: msg}, nil
	}
	f.removed = append(f.removed, id)
	return &models.RemoveResult{Success: true, ItemID: id}, nil
}

func (f *fakePortal) UserFolders(ctx context.Context) ([]models.Folder, error) {
	if f.foldersErr != nil {
		return nil, f.foldersErr
	}
	return f.folders, nil
}

func (f *fakePortal) FolderItems(ctx context.Context, folderID string) ([]models.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.folderErrs[folderID]; ok {
		return nil, err
	}
	return f.folderItems[folderID], nil
}

func (f *fakePortal) RemoveFolder(ctx context.Context, folderID string) (*models.RemoveResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if msg, ok := f.removeFails[folderID]; ok {
		return &models.RemoveResult{Success: false, Message: msg}, nil
	}
	f.removedFolders = append(f.removedFolders, folderID)
	return &models.RemoveResult{Success: true}, nil
}

func (f *fakePortal) removedItems() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.removed...)
}

var errTransport = errors.New("connection reset by peer")

// logBuffer collects log output from concurrent goroutines.
type logBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *logBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *logBuffer) count(substr string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return strings.Count(b.buf.String(), substr)
}

func allSweeps() Options {
	return Options{Forms: true, OrphanServices: true, EmptyFolders: true}
}

func newTestSweeper(p *fakePortal, opts Options) (*Sweeper, *logBuffer) {
	logs := &logBuffer{}
	return New(p, "dev", opts, zerolog.New(logs)), logs
}
