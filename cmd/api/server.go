package main

import (
	"crypto/tls"
	"fmt"
	"log"
	"net/http"
	"os"

	mw "studyhive/internal/api/middlewares"
	"studyhive/internal/api/routers"
	"studyhive/internal/repositories/sqlconnect"
	"studyhive/pkg/cron"
	"studyhive/pkg/utils"

	"github.com/joho/godotenv"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		return
	}

	utils.InitLogger()

	err = sqlconnect.ConnectDb()
	if err != nil {
		utils.Logger.Fatal("DB connection failed: ", err)
	}

	scheduler := cron.StartCronJob(sqlconnect.DB)
	defer scheduler.Stop()

	port := os.Getenv("SERVER_PORT")

	cert := os.Getenv("CERT_FILE")
	key := os.Getenv("KEY_FILE")

	tlsConfig := &tls.Config{
		MinVersion: tls.VersionTLS12,
	}

	router := routers.MainRouter()
	jwtMiddleware := mw.MiddlewaresExcludePaths(mw.JWTMiddleware,
		"/users/signup", "/users/login", "/users/forgot-password", "/users/reset-password",
		"/invites/resolve/")

	secureMux := mw.RequestID(jwtMiddleware(mw.SecurityHeaders(router)))

	server := &http.Server{
		Addr:      port,
		Handler:   secureMux,
		TLSConfig: tlsConfig,
	}

	fmt.Println("Server is running on port", port)
	err = server.ListenAndServeTLS(cert, key)
	if err != nil {
		log.Fatalln("Error starting the server", err)
	}

}
