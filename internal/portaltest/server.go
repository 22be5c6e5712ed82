// Package portaltest provides an in-memory portal for tests.
package portaltest

import (
	"net/http"
	"net/http/httptest"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	jsoniter "github.com/json-iterator/go"

	"github.com/rflorenc/survey-sweeper/internal/models"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Token is the token handed out by generateToken.
const Token = "test-token"

// Server is a fake sharing REST API backed by in-memory items and folders.
type Server struct {
	*httptest.Server

	Username string
	Password string

	mu      sync.Mutex
	items   map[string]models.Item
	folders []folder

	// Failure injection.
	FailSearch     bool
	GetItemErrors  map[string]*models.PortalError
	FolderErrors   map[string]bool
	FolderNoItems  map[string]bool
	RemoveFailures map[string]string

	removedItems   []string
	removedFolders []string
}

type folder struct {
	models.Folder
	items []string
}

// NewServer starts a fake portal for the given credentials.
func NewServer(username, password string) *Server {
	s := &Server{
		Username:       username,
		Password:       password,
		items:          map[string]models.Item{},
		GetItemErrors:  map[string]*models.PortalError{},
		FolderErrors:   map[string]bool{},
		FolderNoItems:  map[string]bool{},
		RemoveFailures: map[string]string{},
	}
	s.Server = httptest.NewServer(s.router())
	return s
}

// AddItem stores an item, optionally inside a folder.
func (s *Server) AddItem(item models.Item, folderID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if item.Owner == "" {
		item.Owner = s.Username
	}
	s.items[item.ID] = item
	for i := range s.folders {
		if s.folders[i].ID == folderID {
			s.folders[i].items = append(s.folders[i].items, item.ID)
		}
	}
}

// AddFolder creates an empty folder.
func (s *Server) AddFolder(id, title string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.folders = append(s.folders, folder{Folder: models.Folder{ID: id, Title: title, Username: s.Username}})
}

// RemovedItems returns the ids of successfully removed items, in call order.
func (s *Server) RemovedItems() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.removedItems...)
}

// RemovedFolders returns the ids of successfully removed folders, in call order.
func (s *Server) RemovedFolders() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.removedFolders...)
}

// HasItem reports whether the item still exists.
func (s *Server) HasItem(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.items[id]
	return ok
}

func (s *Server) router() http.Handler {
	r := chi.NewRouter()
	r.Route("/sharing/rest", func(r chi.Router) {
		r.Post("/generateToken", s.generateToken)
		r.Group(func(r chi.Router) {
			r.Use(s.requireToken)
			r.Get("/portals/self", s.self)
			r.Get("/search", s.search)
			r.Get("/content/items/{id}", s.getItem)
			r.Post("/content/users/{user}/items/{id}/delete", s.removeItem)
			r.Get("/content/users/{user}", s.userContent)
			r.Get("/content/users/{user}/{folderID}", s.folderContent)
			r.Post("/content/users/{user}/{folderID}/delete", s.removeFolder)
		})
	})
	return r
}

func (s *Server) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.FormValue("token") != Token {
			writeJSON(w, http.StatusOK, map[string]interface{}{
				"error": models.PortalError{Code: 498, Message: "Invalid token."},
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) generateToken(w http.ResponseWriter, r *http.Request) {
	if r.FormValue("username") != s.Username || r.FormValue("password") != s.Password {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"error": models.PortalError{
				Code:    400,
				Message: "Unable to generate token.",
				Details: []string{"Invalid username or password."},
			},
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"token":   Token,
		"expires": 4102444800000,
		"ssl":     true,
	})
}

func (s *Server) self(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.PortalSelf{
		ID:   "org1",
		Name: "Test Org",
		User: models.PortalUser{Username: s.Username, OrgID: "org1"},
	})
}

var filterPattern = regexp.MustCompile(`(\w+):\s*'([^']*)'`)

func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	if s.FailSearch {
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"error": models.PortalError{Code: 500, Message: "Search unavailable."},
		})
		return
	}

	filters := map[string]string{}
	for _, m := range filterPattern.FindAllStringSubmatch(r.FormValue("q"), -1) {
		filters[strings.ToLower(m[1])] = m[2]
	}
	num, _ := strconv.Atoi(r.FormValue("num"))
	if num <= 0 {
		num = 10
	}

	s.mu.Lock()
	var matches []models.Item
	for _, item := range s.items {
		if matchItem(item, filters) {
			matches = append(matches, item)
		}
	}
	s.mu.Unlock()

	page := models.SearchPage{Total: len(matches), Start: 1, Num: num, NextStart: -1, Results: []models.Item{}}
	if len(matches) > num {
		page.Results = matches[:num]
		page.NextStart = num + 1
	} else {
		page.Results = matches
	}
	writeJSON(w, http.StatusOK, page)
}

func matchItem(item models.Item, filters map[string]string) bool {
	for field, want := range filters {
		switch field {
		case "owner":
			if item.Owner != want {
				return false
			}
		case "type":
			if item.Type != want {
				return false
			}
		case "title":
			if !strings.Contains(strings.ToLower(item.Title), strings.ToLower(want)) {
				return false
			}
		case "typekeywords":
			found := false
			for _, kw := range item.TypeKeywords {
				if kw == want {
					found = true
				}
			}
			if !found {
				return false
			}
		}
	}
	return true
}

func (s *Server) getItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	perr, failing := s.GetItemErrors[id]
	item, ok := s.items[id]
	s.mu.Unlock()

	switch {
	case failing:
		writeJSON(w, http.StatusOK, map[string]interface{}{"error": perr})
	case !ok:
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"error": models.PortalError{
				Code:        400,
				MessageCode: models.CodeItemNotFound,
				Message:     "Item does not exist or is inaccessible.",
				Details:     []string{},
			},
		})
	default:
		writeJSON(w, http.StatusOK, item)
	}
}

func (s *Server) removeItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()

	if reason, ok := s.RemoveFailures[id]; ok {
		writeJSON(w, http.StatusOK, models.RemoveResult{Success: false, ItemID: id, Message: reason})
		return
	}
	if _, ok := s.items[id]; !ok {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"error": models.PortalError{Code: 400, MessageCode: models.CodeItemNotFound, Message: "Item does not exist or is inaccessible."},
		})
		return
	}
	delete(s.items, id)
	for i := range s.folders {
		s.folders[i].items = without(s.folders[i].items, id)
	}
	s.removedItems = append(s.removedItems, id)
	writeJSON(w, http.StatusOK, models.RemoveResult{Success: true, ItemID: id})
}

func (s *Server) userContent(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	folders := make([]models.Folder, 0, len(s.folders))
	for _, f := range s.folders {
		folders = append(folders, f.Folder)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"username": chi.URLParam(r, "user"),
		"items":    []models.Item{},
		"folders":  folders,
	})
}

func (s *Server) folderContent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "folderID")
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FolderErrors[id] {
		writeJSON(w, http.StatusBadGateway, map[string]string{"detail": "upstream unavailable"})
		return
	}
	if s.FolderNoItems[id] {
		writeJSON(w, http.StatusOK, map[string]interface{}{"username": s.Username, "total": 0})
		return
	}
	for _, f := range s.folders {
		if f.ID != id {
			continue
		}
		items := make([]models.Item, 0, len(f.items))
		for _, itemID := range f.items {
			items = append(items, s.items[itemID])
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"currentFolder": f.Folder,
			"items":         items,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"error": models.PortalError{Code: 400, Message: "Folder not found."},
	})
}

func (s *Server) removeFolder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "folderID")
	s.mu.Lock()
	defer s.mu.Unlock()

	if reason, ok := s.RemoveFailures[id]; ok {
		writeJSON(w, http.StatusOK, models.RemoveResult{Success: false, Message: reason})
		return
	}
	for i, f := range s.folders {
		if f.ID == id {
			s.folders = append(s.folders[:i], s.folders[i+1:]...)
			s.removedFolders = append(s.removedFolders, id)
			writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "folder": f.Folder})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"error": models.PortalError{Code: 400, Message: "Folder not found."},
	})
}

func without(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
