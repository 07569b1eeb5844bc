package routers

import (
	"net/http"

	"studyhive/internal/api/handlers/classes"
)

func classesRouter() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/classes/create", classes.CreateClassHandler)

	mux.HandleFunc("/classes/", classes.GetMyClassesHandler)

	mux.HandleFunc("/classes/{id}/members", classes.GetClassRosterHandler)

	mux.HandleFunc("/classes/{id}/members/add", classes.AddClassMemberHandler)

	mux.HandleFunc("/classes/{id}/members/remove", classes.RemoveClassMemberHandler)

	mux.HandleFunc("/classes/{id}/archive", classes.ArchiveClassHandler)

	return mux
}
