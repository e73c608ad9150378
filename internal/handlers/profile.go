package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"patient-triage-server/internal/middleware"
	"patient-triage-server/internal/models"
	"patient-triage-server/internal/store"
	"patient-triage-server/internal/utils"
)

// ProfileHandler handles the caller's own profile and the admin listing.
type ProfileHandler struct {
	Store  store.PatientStore
	Logger *zap.Logger
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(s store.PatientStore, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{Store: s, Logger: logger}
}

// callerID returns the authenticated user id or writes a 401.
func callerID(c *gin.Context) (string, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
	}
	return userID, ok
}

// currentProfile loads the authenticated caller's profile, writing the error response itself.
func currentProfile(c *gin.Context, s store.PatientStore) (*models.PatientProfile, bool) {
	userID, ok := callerID(c)
	if !ok {
		return nil, false
	}

	profile, err := s.Get(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.NotFound(c, "Patient profile not found")
		} else {
			utils.InternalServerError(c, "Store error: "+err.Error())
		}
		return nil, false
	}
	return profile, true
}

// GetProfile returns the caller's profile.
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	profile, ok := currentProfile(c, h.Store)
	if !ok {
		return
	}
	utils.Success(c, "Profile fetched successfully", profile)
}

// UpdateProfileRequest lists the fields a patient may change; nil means unchanged.
type UpdateProfileRequest struct {
	PhoneNumber    *string `json:"phone_number"`
	InsuranceInfo  *string `json:"insurance_info"`
	Address        *string `json:"address"`
	Password       *string `json:"password" validate:"omitempty,min=4"`
	Allergies      *string `json:"allergies"`
	Medications    *string `json:"medications"`
	MedicalHistory *string `json:"medical_history"`
}

// UpdateProfile applies a partial update to the caller's profile.
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	profile, ok := currentProfile(c, h.Store)
	if !ok {
		return
	}

	if req.PhoneNumber != nil {
		profile.PhoneNumber = *req.PhoneNumber
	}
	if req.InsuranceInfo != nil {
		profile.InsuranceInfo = *req.InsuranceInfo
	}
	if req.Address != nil {
		profile.Address = *req.Address
	}
	if req.Allergies != nil {
		profile.Allergies = models.ValueOr(*req.Allergies, "None")
	}
	if req.Medications != nil {
		profile.Medications = models.ValueOr(*req.Medications, "None")
	}
	if req.MedicalHistory != nil {
		profile.MedicalHistory = models.ValueOr(*req.MedicalHistory, "None")
	}
	if req.Password != nil && *req.Password != "" {
		if err := profile.SetPassword(*req.Password); err != nil {
			utils.InternalServerError(c, "Failed to hash password: "+err.Error())
			return
		}
	}

	if err := h.Store.Put(c.Request.Context(), profile.UserID, profile); err != nil {
		utils.InternalServerError(c, "Failed to update profile: "+err.Error())
		return
	}

	updated, err := h.Store.Get(c.Request.Context(), profile.UserID)
	if err != nil {
		utils.InternalServerError(c, "Failed to reload profile: "+err.Error())
		return
	}
	h.Logger.Info("Patient profile updated", zap.String("user_id", profile.UserID))
	utils.Success(c, "Profile updated successfully", updated)
}

// ListUsers returns every stored profile. Development only.
func (h *ProfileHandler) ListUsers(c *gin.Context) {
	profiles, err := h.Store.List(c.Request.Context())
	if err != nil {
		utils.InternalServerError(c, "Failed to list profiles: "+err.Error())
		return
	}
	utils.Success(c, "Profiles fetched successfully", profiles)
}
