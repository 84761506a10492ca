package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"clinic-booking-server/internal/config"
	"clinic-booking-server/internal/middleware"
	"clinic-booking-server/internal/models"
	"clinic-booking-server/internal/store"
	"clinic-booking-server/internal/utils"
)

// AuthHandler handles authentication-related requests.
type AuthHandler struct {
	Patients store.Patients
	Cfg      *config.Config
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(patients store.Patients, cfg *config.Config) *AuthHandler {
	return &AuthHandler{Patients: patients, Cfg: cfg}
}

// RegisterRequest represents the request body for patient registration.
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// Register handles patient registration.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if !utils.BindAndValidate(c, &req) {
		return // Error response handled by BindAndValidate
	}

	// Check if a patient already exists with this email
	if _, err := h.Patients.ByEmail(c.Request.Context(), req.Email); err == nil {
		utils.Conflict(c, "User already exists with the provided email.")
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		utils.InternalServerError(c, "Database error: "+err.Error())
		return
	}

	patient := models.Patient{
		Name:  req.Name,
		Email: req.Email,
	}
	if err := patient.SetPassword(req.Password); err != nil {
		utils.InternalServerError(c, "Failed to hash password: "+err.Error())
		return
	}

	if err := h.Patients.Create(c.Request.Context(), &patient); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			utils.Conflict(c, "User already exists with the provided email.")
			return
		}
		utils.InternalServerError(c, "Failed to create user: "+err.Error())
		return
	}

	utils.Created(c, "User successfully created", patient.Sanitize())
}

// LoginRequest represents the request body for patient login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse represents the response body for successful login.
type LoginResponse struct {
	Token string `json:"token"`
}

// Login handles patient login. On success the session token is set as
// an http-only cookie and echoed in the body.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	patient, err := h.Patients.ByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.NotFound(c, "User not found, Please try again with the correct email.")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	if !patient.CheckPassword(req.Password) {
		utils.Unauthorized(c, "Password mismatch.")
		return
	}

	token, err := utils.GenerateToken(patient, h.Cfg)
	if err != nil {
		utils.InternalServerError(c, "Failed to generate token: "+err.Error())
		return
	}

	c.SetCookie(
		middleware.SessionCookie,        // Name
		token,                           // Value
		h.Cfg.JWTExpirationHours*60*60,  // Max age in seconds
		"/",                             // Path
		"",                              // Domain (empty means current domain)
		!h.Cfg.IsDevelopment(),          // Secure (true in prod, false in dev)
		true,                            // HTTP only
	)

	utils.Success(c, "User authenticated successfully.", LoginResponse{Token: token})
}

// Logout clears the session cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie(
		middleware.SessionCookie, // Name
		"",                       // Value (empty to delete)
		-1,                       // MaxAge (negative to expire immediately)
		"/",                      // Path
		"",                       // Domain
		!h.Cfg.IsDevelopment(),   // Secure
		true,                     // HttpOnly
	)

	utils.Success(c, "User logged out from the session", nil)
}

// Me returns the currently authenticated patient.
func (h *AuthHandler) Me(c *gin.Context) {
	patientID, exists := middleware.GetPatientIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	patient, err := h.Patients.ByID(c.Request.Context(), patientID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.NotFound(c, "User profile not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	utils.Success(c, "User fetched successfully", patient.Sanitize())
}
