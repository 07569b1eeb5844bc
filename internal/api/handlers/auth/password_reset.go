package auth

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"studyhive/internal/repositories/sqlconnect"
	"studyhive/pkg/utils"
)

const resetCodeTTL = 15 * time.Minute

// FUNC TO REQUEST A PASSWORD RESET CODE
func ForgotPasswordHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.WriteError(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	db := sqlconnect.DB
	if db == nil {
		utils.Logger.Error("DB is not initialized")
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	type request struct {
		Email string `json:"email"`
	}

	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" {
		utils.WriteError(w, "email is required", http.StatusBadRequest)
		return
	}

	// The response is the same whether or not the account exists, so the
	// endpoint cannot be used to probe for registered emails.
	respond := func() {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "success",
			"message": "if that account exists, a reset code has been emailed",
		})
	}

	var (
		userID    int
		firstName string
	)
	err := db.QueryRow("SELECT id, first_name FROM users WHERE email = ? AND inactive_status = FALSE", req.Email).
		Scan(&userID, &firstName)
	if err != nil {
		if err != sql.ErrNoRows {
			utils.Logger.Errorf("failed to look up account for reset: %v", err)
		}
		respond()
		return
	}

	code, err := utils.GenerateSecureOTP()
	if err != nil {
		utils.Logger.Errorf("failed to generate reset code: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	expiresAt := time.Now().Add(resetCodeTTL)

	_, err = db.Exec(`
		UPDATE users SET reset_code_hash = ?, reset_code_expires = ? WHERE id = ?
	`, hashResetCode(code), expiresAt.UTC().Format("2006-01-02 15:04:05"), userID)
	if err != nil {
		utils.Logger.Errorf("failed to store reset code: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	go func(email, firstName, code string, expiresAt time.Time) {
		if err := utils.SendPasswordResetEmail(email, firstName, code, expiresAt); err != nil {
			utils.Logger.Errorf("failed to send reset email to %s: %v", email, err)
		}
	}(req.Email, firstName, code, expiresAt)

	respond()
}

// FUNC TO RESET PASSWORD WITH A CODE
func ResetPasswordHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.WriteError(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	db := sqlconnect.DB
	if db == nil {
		utils.Logger.Error("DB is not initialized")
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	type request struct {
		Email       string `json:"email"`
		Code        string `json:"code"`
		NewPassword string `json:"new_password"`
	}

	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Code == "" || req.NewPassword == "" {
		utils.WriteError(w, "email, code and new_password are required", http.StatusBadRequest)
		return
	}

	var (
		userID      int
		codeHash    sql.NullString
		codeExpires sql.NullString
	)
	err := db.QueryRow(`
		SELECT id, reset_code_hash, reset_code_expires
		FROM users WHERE email = ? AND inactive_status = FALSE
	`, req.Email).Scan(&userID, &codeHash, &codeExpires)
	if err != nil {
		if err == sql.ErrNoRows {
			utils.WriteError(w, "invalid or expired reset code", http.StatusForbidden)
			return
		}
		utils.Logger.Errorf("failed to look up account for reset: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if !codeHash.Valid || codeHash.String != hashResetCode(req.Code) {
		utils.WriteError(w, "invalid or expired reset code", http.StatusForbidden)
		return
	}

	if !codeExpires.Valid || resetCodeExpired(codeExpires.String) {
		utils.WriteError(w, "invalid or expired reset code", http.StatusForbidden)
		return
	}

	hashedPwd, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		utils.WriteError(w, "error hashing password", http.StatusInternalServerError)
		return
	}

	now := time.Now().UTC().Format("2006-01-02 15:04:05")

	_, err = db.Exec(`
		UPDATE users
		SET password = ?, reset_code_hash = NULL, reset_code_expires = NULL, updated_at = ?
		WHERE id = ?
	`, hashedPwd, now, userID)
	if err != nil {
		utils.Logger.Errorf("failed to update password: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "success",
		"message": "password updated successfully",
	})
}

func hashResetCode(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}

func resetCodeExpired(expires string) bool {
	t, err := time.ParseInLocation("2006-01-02 15:04:05", expires, time.UTC)
	if err != nil {
		return true
	}
	return !t.After(time.Now().UTC())
}
