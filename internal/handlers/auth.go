package handlers

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"patient-triage-server/internal/config"
	"patient-triage-server/internal/models"
	"patient-triage-server/internal/store"
	"patient-triage-server/internal/utils"
)

// AuthHandler handles signup and login.
type AuthHandler struct {
	Store  store.PatientStore
	Cfg    *config.Config
	Logger *zap.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(s store.PatientStore, cfg *config.Config, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{Store: s, Cfg: cfg, Logger: logger}
}

// SignupRequest represents the request body for patient registration.
type SignupRequest struct {
	UserID         string  `json:"user_id" binding:"required"`
	Password       string  `json:"password" binding:"required,min=4"`
	Name           string  `json:"name" binding:"required"`
	BirthDate      string  `json:"birth_date" binding:"required"`
	PhoneNumber    string  `json:"phone_number" binding:"required"`
	InsuranceInfo  string  `json:"insurance_info" binding:"required"`
	Allergies      string  `json:"allergies"`
	Medications    string  `json:"medications"`
	MedicalHistory string  `json:"medical_history"`
	Address        *string `json:"address"`
	Email          *string `json:"email" validate:"omitempty,email"`
}

// Signup registers a new patient profile.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	profile := &models.PatientProfile{
		UserID:         strings.TrimSpace(req.UserID),
		Name:           req.Name,
		BirthDate:      req.BirthDate,
		PhoneNumber:    req.PhoneNumber,
		InsuranceInfo:  req.InsuranceInfo,
		Allergies:      models.ValueOr(strings.TrimSpace(req.Allergies), "None"),
		Medications:    models.ValueOr(strings.TrimSpace(req.Medications), "None"),
		MedicalHistory: models.ValueOr(strings.TrimSpace(req.MedicalHistory), "None"),
	}
	if req.Address != nil {
		profile.Address = *req.Address
	}
	if req.Email != nil {
		profile.Email = *req.Email
	}
	if profile.UserID == "" {
		utils.BadRequest(c, "user_id must not be blank")
		return
	}

	if err := profile.SetPassword(req.Password); err != nil {
		utils.InternalServerError(c, "Failed to hash password: "+err.Error())
		return
	}

	if err := h.Store.Create(c.Request.Context(), profile); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			utils.BadRequest(c, "User ID already exists")
			return
		}
		utils.InternalServerError(c, "Failed to create profile: "+err.Error())
		return
	}

	h.Logger.Info("Patient signed up",
		zap.String("user_id", profile.UserID),
		zap.String("insurance_category", string(models.NormalizeInsurance(profile.InsuranceInfo))),
	)
	utils.Created(c, "Signup successful", gin.H{"user_id": profile.UserID, "user_name": profile.Name})
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	UserID   string `json:"user_id" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse represents the response body for successful login.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	UserID      string `json:"user_id"`
	UserName    string `json:"user_name"`
}

// Login checks credentials and issues an access token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	profile, err := h.Store.Get(c.Request.Context(), req.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.Unauthorized(c, "Invalid user ID or password")
		} else {
			utils.InternalServerError(c, "Store error: "+err.Error())
		}
		return
	}

	if !profile.CheckPassword(req.Password) {
		utils.Unauthorized(c, "Invalid user ID or password")
		return
	}

	accessToken, err := utils.GenerateAccessToken(profile, h.Cfg)
	if err != nil {
		utils.InternalServerError(c, "Failed to generate token: "+err.Error())
		return
	}

	utils.Success(c, "Login successful", LoginResponse{
		AccessToken: accessToken,
		UserID:      profile.UserID,
		UserName:    profile.Name,
	})
}
