package invites

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strings"
	"time"

	"studyhive/internal/directory"
	"studyhive/internal/enrollment"
	"studyhive/internal/invites"
	"studyhive/internal/models"
	"studyhive/internal/repositories/sqlconnect"
	"studyhive/pkg/utils"
)

// FUNC TO CREATE AN INVITE (PROFESSOR ONLY)
func CreateInviteHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	db := sqlconnect.DB
	if db == nil {
		utils.Logger.Error("DB is not initialized")
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	idFloat, ok := r.Context().Value(utils.ContextKey("userId")).(float64)
	if !ok {
		utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	userID := int(idFloat)

	role, _ := r.Context().Value(utils.ContextKey("role")).(string)
	if role != "professor" {
		utils.WriteError(w, "forbidden: only professors can create invites", http.StatusForbidden)
		return
	}

	type request struct {
		Kind        string `json:"kind"`
		TTLMinutes  *int   `json:"ttl_minutes"`
		NotifyEmail string `json:"notify_email"`
	}

	var req request
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if req.Kind == "" {
		utils.WriteError(w, "invite kind is required", http.StatusBadRequest)
		return
	}

	var expiresAt *time.Time
	if req.TTLMinutes != nil {
		if *req.TTLMinutes < 0 {
			utils.WriteError(w, "ttl_minutes cannot be negative", http.StatusBadRequest)
			return
		}
		t := time.Now().Add(time.Duration(*req.TTLMinutes) * time.Minute)
		expiresAt = &t
	}

	invite, err := invites.New(db).Create(r.Context(), userID, req.Kind, expiresAt)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	if email := strings.TrimSpace(req.NotifyEmail); email != "" {
		go sendInviteLinkEmail(email, userID, invite)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "success",
		"message": "invite created successfully",
		"data":    invite,
	})
}

// FUNC TO RESOLVE AN INVITE BY TOKEN (PUBLIC)
func ResolveInviteHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	db := sqlconnect.DB
	if db == nil {
		utils.Logger.Error("DB is not initialized")
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	token := r.PathValue("tokenCode")
	if token == "" {
		utils.WriteError(w, "invite token is required", http.StatusBadRequest)
		return
	}

	view, err := invites.New(db).Resolve(r.Context(), token)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status": "success",
		"data":   view,
	})
}

// FUNC TO ACCEPT AN INVITE (STUDENT ONLY)
func AcceptInviteHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPatch {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	db := sqlconnect.DB
	if db == nil {
		utils.Logger.Error("DB is not initialized")
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	idFloat, ok := r.Context().Value(utils.ContextKey("userId")).(float64)
	if !ok {
		utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	studentID := int(idFloat)

	role, _ := r.Context().Value(utils.ContextKey("role")).(string)
	if role != "student" {
		utils.WriteError(w, "forbidden: only students can accept invites", http.StatusForbidden)
		return
	}

	token := r.PathValue("tokenCode")
	if token == "" {
		utils.WriteError(w, "invite token is required", http.StatusBadRequest)
		return
	}

	outcome, err := enrollment.New(db).AcceptInvite(r.Context(), token, studentID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	if !outcome.AlreadyEnrolled {
		go sendEnrollmentNotice(outcome, studentID)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "success",
		"message": "invite accepted successfully",
		"data":    outcome,
	})
}

// FUNC TO LIST THE LOGGED-IN PROFESSOR'S INVITES
func ListMyInvitesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	db := sqlconnect.DB
	if db == nil {
		utils.Logger.Error("DB is not initialized")
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	idFloat, ok := r.Context().Value(utils.ContextKey("userId")).(float64)
	if !ok {
		utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	userID := int(idFloat)

	role, _ := r.Context().Value(utils.ContextKey("role")).(string)
	if role != "professor" {
		utils.WriteError(w, "forbidden: not a professor", http.StatusForbidden)
		return
	}

	page, limit := utils.GetPaginationParams(r)
	sortBy := r.URL.Query().Get("sortBy")
	sortOrder := r.URL.Query().Get("sortOrder")

	inviteList, err := invites.New(db).ListByIssuer(r.Context(), userID, page, limit, sortBy, sortOrder)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	response := map[string]interface{}{
		"status":    "success",
		"count":     len(inviteList),
		"page":      page,
		"page_size": limit,
		"data":      inviteList,
	}

	utils.WriteJSON(w, response)
}

// FUNC TO LIST STUDENTS WHO ACCEPTED THE PROFESSOR'S INVITES
func ListAcceptedStudentsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	db := sqlconnect.DB
	if db == nil {
		utils.Logger.Error("DB is not initialized")
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	idFloat, ok := r.Context().Value(utils.ContextKey("userId")).(float64)
	if !ok {
		utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	userID := int(idFloat)

	role, _ := r.Context().Value(utils.ContextKey("role")).(string)
	if role != "professor" {
		utils.WriteError(w, "forbidden: not a professor", http.StatusForbidden)
		return
	}

	students, err := enrollment.New(db).ListAcceptedStudents(r.Context(), userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	response := map[string]interface{}{
		"status": "success",
		"count":  len(students),
		"data":   students,
	}

	utils.WriteJSON(w, response)
}

// FUNC TO GET INVITE STATS FOR THE LOGGED-IN PROFESSOR
func InviteStatsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	db := sqlconnect.DB
	if db == nil {
		utils.Logger.Error("DB is not initialized")
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	idFloat, ok := r.Context().Value(utils.ContextKey("userId")).(float64)
	if !ok {
		utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	userID := int(idFloat)

	role, _ := r.Context().Value(utils.ContextKey("role")).(string)
	if role != "professor" {
		utils.WriteError(w, "forbidden: not a professor", http.StatusForbidden)
		return
	}

	stats, err := invites.New(db).Stats(r.Context(), userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status": "success",
		"data":   stats,
	})
}

// Emails the invite link to the address the professor supplied. Runs outside
// the request; failures are only logged.
func sendInviteLinkEmail(to string, issuerID int, invite models.Invite) {
	db := sqlconnect.DB

	var firstName, lastName string
	err := db.QueryRow("SELECT first_name, last_name FROM users WHERE id = ?", issuerID).Scan(&firstName, &lastName)
	if err != nil {
		utils.Logger.Errorf("failed to load issuer %d for invite email: %v", issuerID, err)
		return
	}

	className := ""
	classID, scoped, err := directory.New(db).ResolveClassForInvite(context.Background(), issuerID)
	if err == nil && scoped {
		if err := db.QueryRow("SELECT name FROM classes WHERE id = ?", classID).Scan(&className); err != nil {
			className = ""
		}
	}

	inviteURL := strings.TrimRight(os.Getenv("APP_BASE_URL"), "/") + "/invites/resolve/" + invite.Token

	var expiresAt *time.Time
	if invite.ExpiresAt.Valid {
		if t, err := time.ParseInLocation("2006-01-02 15:04:05", invite.ExpiresAt.String, time.UTC); err == nil {
			expiresAt = &t
		}
	}

	professorName := strings.TrimSpace(firstName + " " + lastName)
	if err := utils.SendInviteLinkEmail(to, professorName, className, inviteURL, expiresAt); err != nil {
		utils.Logger.Errorf("failed to send invite email to %s: %v", to, err)
	}
}

// Notifies the issuing professor that a student enrolled through their invite.
func sendEnrollmentNotice(outcome models.EnrollmentOutcome, studentID int) {
	db := sqlconnect.DB

	var profFirst, profEmail string
	err := db.QueryRow("SELECT first_name, email FROM users WHERE id = ?", outcome.IssuerID).Scan(&profFirst, &profEmail)
	if err != nil {
		utils.Logger.Errorf("failed to load professor %d for enrollment notice: %v", outcome.IssuerID, err)
		return
	}

	var studFirst, studLast string
	err = db.QueryRow("SELECT first_name, last_name FROM users WHERE id = ?", studentID).Scan(&studFirst, &studLast)
	if err != nil {
		utils.Logger.Errorf("failed to load student %d for enrollment notice: %v", studentID, err)
		return
	}

	className := ""
	if outcome.ClassScoped {
		if err := db.QueryRow("SELECT name FROM classes WHERE id = ?", outcome.ClassID).Scan(&className); err != nil {
			className = ""
		}
	}

	studentName := strings.TrimSpace(studFirst + " " + studLast)
	if err := utils.SendEnrollmentNoticeEmail(profEmail, profFirst, studentName, className, time.Now()); err != nil {
		utils.Logger.Errorf("failed to send enrollment notice to %s: %v", profEmail, err)
	}
}

func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, invites.ErrInviteNotFound):
		utils.WriteError(w, "invite not found", http.StatusNotFound)
	case errors.Is(err, invites.ErrInviteExpired):
		utils.WriteError(w, "invite expired", http.StatusGone)
	case errors.Is(err, invites.ErrAlreadyAccepted):
		utils.WriteError(w, "invite already accepted", http.StatusConflict)
	case errors.Is(err, invites.ErrInvalidKind):
		utils.WriteError(w, "invite kind must be permanent or single_use", http.StatusBadRequest)
	case errors.Is(err, directory.ErrUserNotFound):
		utils.WriteError(w, "user not found", http.StatusNotFound)
	case errors.Is(err, directory.ErrClassNotFound):
		utils.WriteError(w, "class not found", http.StatusNotFound)
	default:
		utils.Logger.Errorf("invite operation failed: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
	}
}
