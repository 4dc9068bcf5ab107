package api

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/MahdiMurshed/bookshare/internal/httputil"
	"github.com/MahdiMurshed/bookshare/internal/middleware"
)

func (a *API) handleAdminListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := a.admin.ListUsers(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func (a *API) setSuspended(w http.ResponseWriter, r *http.Request, suspended bool) {
	user, err := a.admin.SetSuspended(r.Context(),
		middleware.GetUserID(r.Context()), mux.Vars(r)["id"], suspended)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toUserResponse(user))
}

func (a *API) handleAdminSuspend(w http.ResponseWriter, r *http.Request) {
	a.setSuspended(w, r, true)
}

func (a *API) handleAdminUnsuspend(w http.ResponseWriter, r *http.Request) {
	a.setSuspended(w, r, false)
}

type adminRemoveBookRequest struct {
	Reason string `json:"reason"`
}

func (a *API) handleAdminRemoveBook(w http.ResponseWriter, r *http.Request) {
	var req adminRemoveBookRequest
	if r.ContentLength > 0 && !httputil.DecodeJSON(w, r, &req) {
		return
	}

	err := a.admin.RemoveBook(r.Context(),
		middleware.GetUserID(r.Context()), mux.Vars(r)["id"], req.Reason)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type broadcastRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type broadcastResponse struct {
	Recipients int `json:"recipients"`
}

func (a *API) handleAdminBroadcast(w http.ResponseWriter, r *http.Request) {
	var req broadcastRequest
	if !httputil.DecodeJSON(w, r, &req) {
		return
	}

	n, err := a.admin.Broadcast(r.Context(), middleware.GetUserID(r.Context()), req.Title, req.Body)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, broadcastResponse{Recipients: n})
}

func (a *API) handleAdminActivity(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	entries, err := a.admin.Activity(r.Context(), limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	out := make([]activityResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toActivityResponse(e))
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}
