package routers

import (
	"net/http"

	"studyhive/internal/api/handlers/auth"
)

func usersRouter() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/users/signup", auth.RegisterUsersHandler)
	mux.HandleFunc("/users/login", auth.LoginHandler)
	mux.HandleFunc("/users/logout", auth.LogoutHandler)
	mux.HandleFunc("/users/forgot-password", auth.ForgotPasswordHandler)
	mux.HandleFunc("/users/reset-password", auth.ResetPasswordHandler)

	return mux
}
