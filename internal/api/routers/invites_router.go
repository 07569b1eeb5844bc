package routers

import (
	"net/http"

	"studyhive/internal/api/handlers/invites"
)

func invitesRouter() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/invites/create", invites.CreateInviteHandler)

	mux.HandleFunc("/invites/", invites.ListMyInvitesHandler)

	mux.HandleFunc("/invites/resolve/{tokenCode}", invites.ResolveInviteHandler)

	mux.HandleFunc("/invites/accept/{tokenCode}", invites.AcceptInviteHandler)

	mux.HandleFunc("/invites/students", invites.ListAcceptedStudentsHandler)

	mux.HandleFunc("/invites/stats", invites.InviteStatsHandler)

	return mux
}
