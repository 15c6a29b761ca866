package api

import (
	"errors"
	"net/http"
	"time"

	"helios_miniapp/internal/middleware"
	"helios_miniapp/internal/model"
	"helios_miniapp/internal/service"
	"helios_miniapp/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type userRoutes struct {
	us    service.UserServiceI
	authz *middleware.Authorization
}

func NewUserRoutes(handler *gin.RouterGroup, us service.UserServiceI, authz *middleware.Authorization) {
	r := &userRoutes{us: us, authz: authz}

	handler.POST("/user", r.RegisterUser)
	handler.POST("/username", r.ClaimUsername)
	handler.POST("/check-username", r.CheckUsername)

	self := authz.SelfOnly("telegramId")
	h := handler.Group("/user")
	{
		h.GET("/exists/:telegramId", self, r.UserExists)
		h.GET("/referral-token/:telegramId", self, r.GetReferralToken)
		h.GET("/helios-username/:telegramId", self, r.GetHeliosUsername)
		h.GET("/referrals/:telegramId", self, r.GetReferrals)
	}
}

type RegisterUserRequest struct {
	TelegramID       *int64  `json:"telegramId"`
	TelegramUsername string  `json:"telegramUsername"`
	FirstName        string  `json:"firstName"`
	LastName         string  `json:"lastName"`
	ReferralToken    string  `json:"referralToken"`
	Timezone         *string `json:"timezone"`
}

type UserResponse struct {
	TelegramID            int64     `json:"telegramId"`
	TelegramUsername      string    `json:"telegramUsername"`
	FirstName             string    `json:"firstName"`
	LastName              string    `json:"lastName"`
	HeliosUsername        *string   `json:"heliosUsername"`
	ReferralToken         string    `json:"referralToken"`
	ReferredBy            *int64    `json:"referredBy"`
	Minerate              int       `json:"minerate"`
	ReferralCount         int       `json:"referralCount"`
	TotalAirdrops         float64   `json:"totalAirdrops"`
	UnclaimedAirdropTotal float64   `json:"unclaimedAirdropTotal"`
	AirdropClaimCount     int       `json:"airdropClaimCount"`
	MessageIndex          int       `json:"messageIndex"`
	AvatarPath            *string   `json:"avatarPath"`
	Timezone              string    `json:"timezone"`
	CreatedAt             time.Time `json:"createdAt"`
}

func newUserResponse(u *model.User) UserResponse {
	return UserResponse{
		TelegramID:            u.TelegramID,
		TelegramUsername:      u.TelegramUsername,
		FirstName:             u.FirstName,
		LastName:              u.LastName,
		HeliosUsername:        u.HeliosUsername,
		ReferralToken:         u.ReferralToken,
		ReferredBy:            u.ReferredBy,
		Minerate:              u.Minerate,
		ReferralCount:         u.ReferralCount,
		TotalAirdrops:         u.TotalAirdrops,
		UnclaimedAirdropTotal: u.UnclaimedAirdropTotal,
		AirdropClaimCount:     u.AirdropClaimCount,
		MessageIndex:          u.MessageIndex,
		AvatarPath:            u.AvatarPath,
		Timezone:              u.Timezone,
		CreatedAt:             u.CreatedAt,
	}
}

// RegisterUser answers 201 with the user whether it was created or already existed.
func (r *userRoutes) RegisterUser(c *gin.Context) {
	log := logger.Logger()

	var req RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("failed to bind request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": invalidTelegramID})
		return
	}

	if req.TelegramID == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": invalidTelegramID})
		return
	}
	if req.Timezone == nil || *req.Timezone == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid timezone, must be a string"})
		return
	}
	if !r.authz.Allows(c, *req.TelegramID) {
		forbidden(c)
		return
	}

	user, err := r.us.RegisterUser(c.Request.Context(), service.RegisterUserInput{
		TelegramID:       *req.TelegramID,
		TelegramUsername: req.TelegramUsername,
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		ReferralToken:    req.ReferralToken,
		Timezone:         *req.Timezone,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		log.Error("failed to register user", zap.Error(err), zap.Int64("telegram_id", *req.TelegramID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to register user"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": newUserResponse(user)})
}

func (r *userRoutes) UserExists(c *gin.Context) {
	log := logger.Logger()

	id, ok := parseTelegramID(c, "telegramId")
	if !ok {
		return
	}

	exists, err := r.us.UserExists(c.Request.Context(), id)
	if err != nil {
		log.Error("failed to check user", zap.Error(err), zap.Int64("telegram_id", id))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"exists": false, "message": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"exists": true})
}

type ClaimUsernameRequest struct {
	TelegramID     *int64 `json:"telegramId"`
	HeliosUsername string `json:"heliosUsername"`
}

func (r *userRoutes) ClaimUsername(c *gin.Context) {
	log := logger.Logger()

	var req ClaimUsernameRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.TelegramID == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": invalidTelegramID})
		return
	}
	if req.HeliosUsername == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid heliosUsername, must be a string"})
		return
	}
	if !r.authz.Allows(c, *req.TelegramID) {
		forbidden(c)
		return
	}

	err := r.us.ClaimUsername(c.Request.Context(), *req.TelegramID, req.HeliosUsername)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUsernameTaken):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Username already taken"})
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		default:
			log.Error("failed to claim username", zap.Error(err), zap.Int64("telegram_id", *req.TelegramID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":        "Username created successfully",
		"heliosUsername": req.HeliosUsername,
	})
}

type CheckUsernameRequest struct {
	HeliosUsername string `json:"heliosUsername"`
}

func (r *userRoutes) CheckUsername(c *gin.Context) {
	log := logger.Logger()

	var req CheckUsernameRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.HeliosUsername == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid heliosUsername, must be a string"})
		return
	}

	available, err := r.us.UsernameAvailable(c.Request.Context(), req.HeliosUsername)
	if err != nil {
		log.Error("failed to check username", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"available": available})
}

func (r *userRoutes) GetReferralToken(c *gin.Context) {
	log := logger.Logger()

	id, ok := parseTelegramID(c, "telegramId")
	if !ok {
		return
	}

	token, err := r.us.GetReferralToken(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		log.Error("failed to get referral token", zap.Error(err), zap.Int64("telegram_id", id))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"referralToken": token})
}

func (r *userRoutes) GetHeliosUsername(c *gin.Context) {
	log := logger.Logger()

	id, ok := parseTelegramID(c, "telegramId")
	if !ok {
		return
	}

	handle, err := r.us.GetHeliosUsername(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		log.Error("failed to get helios username", zap.Error(err), zap.Int64("telegram_id", id))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"heliosUsername": handle})
}

type ReferralResponse struct {
	ID                     int64     `json:"id"`
	ReferrerTelegramID     int64     `json:"referrerTelegramId"`
	ReferredUserTelegramID int64     `json:"referredUserTelegramId"`
	ReferredUsername       string    `json:"referredUsername"`
	Timestamp              time.Time `json:"timestamp"`
}

func (r *userRoutes) GetReferrals(c *gin.Context) {
	log := logger.Logger()

	id, ok := parseTelegramID(c, "telegramId")
	if !ok {
		return
	}

	refs, err := r.us.GetReferrals(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		log.Error("failed to get referrals", zap.Error(err), zap.Int64("telegram_id", id))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	out := make([]ReferralResponse, len(refs))
	for i, ref := range refs {
		out[i] = ReferralResponse{
			ID:                     ref.ID,
			ReferrerTelegramID:     ref.ReferrerTelegramID,
			ReferredUserTelegramID: ref.ReferredUserTelegramID,
			ReferredUsername:       ref.ReferredUsername,
			Timestamp:              ref.Timestamp,
		}
	}

	c.JSON(http.StatusOK, out)
}
