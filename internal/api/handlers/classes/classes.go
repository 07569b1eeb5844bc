package classes

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"studyhive/internal/api/handlers"
	"studyhive/internal/directory"
	"studyhive/internal/models"
	"studyhive/internal/repositories/sqlconnect"
	"studyhive/internal/roster"
	"studyhive/pkg/utils"
)

// FUNC TO CREATE A CLASS
func CreateClassHandler(w http.ResponseWriter, r *http.Request) {
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
		utils.WriteError(w, "forbidden: only professors can create classes", http.StatusForbidden)
		return
	}

	type request struct {
		Name    string `json:"name"`
		Subject string `json:"subject"`
	}

	var req request
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	req.Name = strings.TrimSpace(req.Name)
	req.Subject = strings.TrimSpace(req.Subject)
	if err := handlers.CheckBlankFields(req); err != nil {
		utils.WriteError(w, "class name and subject are required", http.StatusBadRequest)
		return
	}

	if len(req.Name) > 100 || len(req.Subject) > 100 {
		utils.WriteError(w, "name or subject too long", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	now := time.Now().UTC().Format("2006-01-02 15:04:05")

	res, err := db.ExecContext(ctx, `
		INSERT INTO classes (name, subject, professor_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, req.Name, req.Subject, userID, now, now)
	if err != nil {
		utils.Logger.Errorf("failed to create class: %v", err)
		utils.WriteError(w, "failed to create class, try again later!", http.StatusInternalServerError)
		return
	}

	id, err := res.LastInsertId()
	if err != nil {
		utils.Logger.Errorf("failed to get last inserted ID: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "success",
		"message": "class created successfully",
		"data": map[string]interface{}{
			"class_id":   id,
			"class_name": req.Name,
			"subject":    req.Subject,
		},
	})
}

// FUNC TO GET ALL CLASSES OWNED BY THE LOGGED-IN PROFESSOR
func GetMyClassesHandler(w http.ResponseWriter, r *http.Request) {
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

	rows, err := db.Query(`
		SELECT id, name, subject, description, professor_id, archived, created_at, updated_at
		FROM classes
		WHERE professor_id = ?
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		utils.Logger.Errorf("internal server error: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	classList := make([]models.Class, 0)
	for rows.Next() {
		var class models.Class
		err := rows.Scan(&class.ID, &class.Name, &class.Subject, &class.Description, &class.ProfessorID, &class.Archived, &class.CreatedAt, &class.UpdatedAt)
		if err != nil {
			utils.Logger.Errorf("error fetching data: %v", err)
			utils.WriteError(w, "internal server error", http.StatusInternalServerError)
			return
		}
		classList = append(classList, class)
	}

	response := struct {
		Status string         `json:"status"`
		Count  int            `json:"count"`
		Data   []models.Class `json:"data"`
	}{
		Status: "success",
		Count:  len(classList),
		Data:   classList,
	}

	utils.WriteJSON(w, response)
}

// FUNC TO LIST THE ROSTER OF A CLASS
func GetClassRosterHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	classID, ok := classFromPath(w, r)
	if !ok {
		return
	}

	db := sqlconnect.DB
	if db == nil {
		utils.Logger.Error("DB is not initialized")
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if !requireClassOwner(w, r, db, classID) {
		return
	}

	students, err := roster.New(db).List(r.Context(), classID)
	if err != nil {
		writeRosterError(w, err)
		return
	}

	response := map[string]interface{}{
		"status": "success",
		"count":  len(students),
		"data":   students,
	}

	utils.WriteJSON(w, response)
}

// FUNC TO ADD A STUDENT TO A CLASS DIRECTLY
func AddClassMemberHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	classID, ok := classFromPath(w, r)
	if !ok {
		return
	}

	db := sqlconnect.DB
	if db == nil {
		utils.Logger.Error("DB is not initialized")
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if !requireClassOwner(w, r, db, classID) {
		return
	}

	type request struct {
		StudentID int `json:"student_id"`
	}

	var req request
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	exists, err := directory.New(db).StudentExists(r.Context(), req.StudentID)
	if err != nil {
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if !exists {
		utils.WriteError(w, "student not found", http.StatusNotFound)
		return
	}

	created, err := roster.New(db).Add(r.Context(), classID, req.StudentID)
	if err != nil {
		writeRosterError(w, err)
		return
	}

	message := "student added to class"
	if !created {
		message = "student is already a member of this class"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "success",
		"message": message,
		"data": map[string]interface{}{
			"class_id":   classID,
			"student_id": req.StudentID,
			"created":    created,
		},
	})
}

// FUNC TO REMOVE A STUDENT FROM A CLASS
func RemoveClassMemberHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPatch {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	classID, ok := classFromPath(w, r)
	if !ok {
		return
	}

	db := sqlconnect.DB
	if db == nil {
		utils.Logger.Error("DB is not initialized")
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if !requireClassOwner(w, r, db, classID) {
		return
	}

	type request struct {
		StudentID int `json:"student_id"`
	}

	var req request
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	removed, err := roster.New(db).Remove(r.Context(), classID, req.StudentID)
	if err != nil {
		writeRosterError(w, err)
		return
	}

	message := "student removed from class"
	if !removed {
		message = "student was not a member of this class"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "success",
		"message": message,
	})
}

// FUNC TO ARCHIVE A CLASS
func ArchiveClassHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPatch {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	classID, ok := classFromPath(w, r)
	if !ok {
		return
	}

	db := sqlconnect.DB
	if db == nil {
		utils.Logger.Error("DB is not initialized")
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if !requireClassOwner(w, r, db, classID) {
		return
	}

	_, err := db.Exec(`
		UPDATE classes SET archived = TRUE, updated_at = ? WHERE id = ?
	`, time.Now().UTC().Format("2006-01-02 15:04:05"), classID)
	if err != nil {
		utils.Logger.Errorf("failed to archive class: %v", err)
		utils.WriteError(w, "failed to archive class", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "success",
		"message": "class archived successfully",
	})
}

func classFromPath(w http.ResponseWriter, r *http.Request) (int, bool) {
	idStr := r.PathValue("id")
	classID, err := strconv.Atoi(idStr)
	if err != nil {
		utils.WriteError(w, "invalid class ID", http.StatusBadRequest)
		return 0, false
	}
	return classID, true
}

// requireClassOwner checks that the authenticated professor owns the class.
func requireClassOwner(w http.ResponseWriter, r *http.Request, db *sql.DB, classID int) bool {
	idFloat, ok := r.Context().Value(utils.ContextKey("userId")).(float64)
	if !ok {
		utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
		return false
	}
	userID := int(idFloat)

	var professorID int
	err := db.QueryRow("SELECT professor_id FROM classes WHERE id = ?", classID).Scan(&professorID)
	if err != nil {
		if err == sql.ErrNoRows {
			utils.WriteError(w, "class not found", http.StatusNotFound)
			return false
		}
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return false
	}

	if professorID != userID {
		utils.WriteError(w, "forbidden: not the class professor", http.StatusForbidden)
		return false
	}

	return true
}

func writeRosterError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, directory.ErrClassNotFound):
		utils.WriteError(w, "class not found", http.StatusNotFound)
	case errors.Is(err, directory.ErrUserNotFound):
		utils.WriteError(w, "user not found", http.StatusNotFound)
	default:
		utils.Logger.Errorf("roster operation failed: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
	}
}
