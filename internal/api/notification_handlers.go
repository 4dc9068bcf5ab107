package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/MahdiMurshed/bookshare/internal/httputil"
	"github.com/MahdiMurshed/bookshare/internal/middleware"
)

func (a *API) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	unreadOnly := r.URL.Query().Get("unread") == "true"
	ns, err := a.notifications.List(r.Context(), middleware.GetUserID(r.Context()), unreadOnly)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	out := make([]notificationResponse, 0, len(ns))
	for _, n := range ns {
		out = append(out, toNotificationResponse(n))
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func (a *API) handleMarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	err := a.notifications.MarkRead(r.Context(), middleware.GetUserID(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleMarkAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	err := a.notifications.MarkAllRead(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
