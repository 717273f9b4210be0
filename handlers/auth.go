package handlers

import (
	"net/http"

	"shiftly/config"
	"shiftly/database"
	"shiftly/middleware"
	"shiftly/models"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthHandler struct {
	config *config.Config
	log    zerolog.Logger
}

func NewAuthHandler(cfg *config.Config, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{config: cfg, log: log}
}

type registerRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	EstablishmentID *uint  `json:"establishment_id"`
	IsManager       bool   `json:"is_manager"`
	IsAdmin         bool   `json:"is_admin"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.log, err)
		return
	}

	if req.Username == "" || req.Email == "" || len(req.Password) < 6 {
		respondJSON(w, http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"error":   "username, email and a password of at least 6 characters are required",
		})
		return
	}

	db := database.GetDB()

	var count int64
	db.Model(&models.User{}).Where("username = ? OR email = ?", req.Username, req.Email).Count(&count)
	if count > 0 {
		respondJSON(w, http.StatusConflict, map[string]interface{}{
			"success": false, "error": "username or email already taken",
		})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	user := models.User{
		Username:        req.Username,
		Email:           req.Email,
		PasswordHash:    string(hash),
		IsManager:       req.IsManager,
		IsAdmin:         req.IsAdmin,
		EstablishmentID: req.EstablishmentID,
	}

	// Every account gets an employee record so the user can appear on a
	// schedule; one transaction, a user without its record must not persist.
	if err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		employee := models.Employee{
			FullName:        req.Username,
			IsActive:        true,
			UserID:          &user.ID,
			EstablishmentID: req.EstablishmentID,
		}
		employee.ApplyContractHours(35)
		return tx.Create(&employee).Error
	}); err != nil {
		respondError(w, h.log, err)
		return
	}

	h.log.Info().Str("username", user.Username).Msg("user registered")
	respondJSON(w, http.StatusCreated, &user)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.log, err)
		return
	}

	var user models.User
	if err := database.GetDB().Where("username = ? OR email = ?", req.Username, req.Username).
		First(&user).Error; err != nil {
		respondJSON(w, http.StatusUnauthorized, map[string]interface{}{
			"success": false, "error": "invalid credentials",
		})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		respondJSON(w, http.StatusUnauthorized, map[string]interface{}{
			"success": false, "error": "invalid credentials",
		})
		return
	}

	token, err := middleware.GenerateToken(&user, h.config.JWTExpiration)
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.config.JWTExpiration.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"token":   token,
		"user":    &user,
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	respondOK(w)
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	var req changePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.log, err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]interface{}{
			"success": false, "error": "current password is incorrect",
		})
		return
	}
	if req.NewPassword != req.ConfirmPassword {
		respondJSON(w, http.StatusBadRequest, map[string]interface{}{
			"success": false, "error": "passwords do not match",
		})
		return
	}
	if len(req.NewPassword) < 6 {
		respondJSON(w, http.StatusBadRequest, map[string]interface{}{
			"success": false, "error": "password must be at least 6 characters",
		})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	if err := database.GetDB().Model(user).Update("password_hash", string(hash)).Error; err != nil {
		respondError(w, h.log, err)
		return
	}

	respondOK(w)
}

type profileRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// UpdateProfile changes the username and/or email, enforcing uniqueness.
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	var req profileRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.log, err)
		return
	}

	db := database.GetDB()

	if req.Username != "" && req.Username != user.Username {
		var count int64
		db.Model(&models.User{}).Where("username = ?", req.Username).Count(&count)
		if count > 0 {
			respondJSON(w, http.StatusConflict, map[string]interface{}{
				"success": false, "error": "username already taken",
			})
			return
		}
		user.Username = req.Username
	}

	if req.Email != "" && req.Email != user.Email {
		var count int64
		db.Model(&models.User{}).Where("email = ?", req.Email).Count(&count)
		if count > 0 {
			respondJSON(w, http.StatusConflict, map[string]interface{}{
				"success": false, "error": "email already in use",
			})
			return
		}
		user.Email = req.Email
	}

	if err := db.Save(user).Error; err != nil {
		respondError(w, h.log, err)
		return
	}

	respondJSON(w, http.StatusOK, user)
}
