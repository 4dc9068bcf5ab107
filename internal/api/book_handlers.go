package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/MahdiMurshed/bookshare/internal/httputil"
	"github.com/MahdiMurshed/bookshare/internal/middleware"
	"github.com/MahdiMurshed/bookshare/internal/models"
	"github.com/MahdiMurshed/bookshare/internal/storage"
)

type bookRequest struct {
	Title       string               `json:"title"`
	Author      string               `json:"author"`
	Description string               `json:"description"`
	Condition   models.BookCondition `json:"condition"`
	CommunityID string               `json:"community_id"`
}

func (a *API) handleListBooks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := storage.BookFilter{
		OwnerID:       q.Get("owner_id"),
		CommunityID:   q.Get("community_id"),
		Query:         q.Get("q"),
		AvailableOnly: q.Get("available") == "true",
	}

	books, err := a.books.List(r.Context(), filter)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toBookResponses(books))
}

func (a *API) handleCreateBook(w http.ResponseWriter, r *http.Request) {
	var req bookRequest
	if !httputil.DecodeJSON(w, r, &req) {
		return
	}

	book, err := a.books.Create(r.Context(), middleware.GetUserID(r.Context()), &models.Book{
		Title:       req.Title,
		Author:      req.Author,
		Description: req.Description,
		Condition:   req.Condition,
		CommunityID: req.CommunityID,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toBookResponse(book))
}

func (a *API) handleGetBook(w http.ResponseWriter, r *http.Request) {
	book, err := a.books.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toBookResponse(book))
}

func (a *API) handleUpdateBook(w http.ResponseWriter, r *http.Request) {
	var req bookRequest
	if !httputil.DecodeJSON(w, r, &req) {
		return
	}

	book, err := a.books.Update(r.Context(), middleware.GetUserID(r.Context()), &models.Book{
		ID:          mux.Vars(r)["id"],
		Title:       req.Title,
		Author:      req.Author,
		Description: req.Description,
		Condition:   req.Condition,
		CommunityID: req.CommunityID,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toBookResponse(book))
}

func (a *API) handleRemoveBook(w http.ResponseWriter, r *http.Request) {
	err := a.books.Remove(r.Context(), middleware.GetUserID(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
