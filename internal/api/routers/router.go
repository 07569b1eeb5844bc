package routers

import (
	"net/http"
)

func MainRouter() *http.ServeMux {

	mux := http.NewServeMux()

	uRouter := usersRouter()
	mux.Handle("/users/", uRouter)

	iRouter := invitesRouter()
	mux.Handle("/invites/", iRouter)

	cRouter := classesRouter()
	mux.Handle("/classes/", cRouter)

	return mux
}
