package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"helios_miniapp/internal/middleware"
	"helios_miniapp/internal/model"
	"helios_miniapp/internal/service"
	"helios_miniapp/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ratingRoutes struct {
	rs    service.RatingServiceI
	authz *middleware.Authorization
}

func NewRatingRoutes(handler *gin.RouterGroup, rs service.RatingServiceI, authz *middleware.Authorization) {
	r := &ratingRoutes{rs: rs, authz: authz}

	h := handler.Group("/ratings")
	{
		h.POST("", r.SubmitRating)
		h.GET("/:projectId", r.GetProjectRatings)
		h.GET("/:projectId/user", r.GetUserRating)
	}
}

type SubmitRatingRequest struct {
	ProjectID  *int64 `json:"project_id"`
	TelegramID *int64 `json:"telegramId"`
	Rating     int    `json:"rating"`
	Comment    string `json:"comment"`
}

type RatingResponse struct {
	ID         int64     `json:"id"`
	ProjectID  int64     `json:"project_id"`
	TelegramID int64     `json:"telegramId"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type RatingSummary struct {
	Rating     int    `json:"rating"`
	Comment    string `json:"comment"`
	TelegramID int64  `json:"telegramId"`
}

type ProjectRatingsResponse struct {
	Ratings       []RatingSummary `json:"ratings"`
	AverageRating *float64        `json:"averageRating"`
}

type UserRatingResponse struct {
	HasRated bool    `json:"hasRated"`
	Rating   *int    `json:"rating"`
	Comment  *string `json:"comment"`
}

func newRatingResponse(r *model.Rating) RatingResponse {
	return RatingResponse{
		ID:         r.ID,
		ProjectID:  r.ProjectID,
		TelegramID: r.TelegramID,
		Rating:     r.Score,
		Comment:    r.Comment,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

// SubmitRating answers 201 when the rating was created and 200 when an existing one was replaced.
func (r *ratingRoutes) SubmitRating(c *gin.Context) {
	log := logger.Logger()

	var req SubmitRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ProjectID == nil || req.TelegramID == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if req.Rating < service.MinScore || req.Rating > service.MaxScore {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Rating must be between 1 and 5."})
		return
	}
	if !r.authz.Allows(c, *req.TelegramID) {
		forbidden(c)
		return
	}

	rating, created, err := r.rs.SubmitRating(c.Request.Context(), *req.ProjectID, *req.TelegramID, req.Rating, req.Comment)
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Rating must be between 1 and 5."})
			return
		}
		if errors.Is(err, service.ErrProjectNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
			return
		}
		log.Error("failed to submit rating", zap.Error(err),
			zap.Int64("project_id", *req.ProjectID), zap.Int64("telegram_id", *req.TelegramID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An unexpected error occurred"})
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, newRatingResponse(rating))
}

func parseProjectID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("projectId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid projectId"})
		return 0, false
	}
	return id, true
}

func (r *ratingRoutes) GetProjectRatings(c *gin.Context) {
	log := logger.Logger()

	projectID, ok := parseProjectID(c)
	if !ok {
		return
	}

	result, err := r.rs.GetProjectRatings(c.Request.Context(), projectID)
	if err != nil {
		log.Error("failed to get ratings", zap.Error(err), zap.Int64("project_id", projectID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch ratings"})
		return
	}

	out := ProjectRatingsResponse{
		Ratings:       make([]RatingSummary, len(result.Ratings)),
		AverageRating: nullableFloat(result.Average),
	}
	for i, rating := range result.Ratings {
		out.Ratings[i] = RatingSummary{
			Rating:     rating.Score,
			Comment:    rating.Comment,
			TelegramID: rating.TelegramID,
		}
	}

	c.JSON(http.StatusOK, out)
}

func (r *ratingRoutes) GetUserRating(c *gin.Context) {
	log := logger.Logger()

	projectID, ok := parseProjectID(c)
	if !ok {
		return
	}

	telegramID, err := strconv.ParseInt(c.Query("telegramId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": invalidTelegramID})
		return
	}
	if !r.authz.Allows(c, telegramID) {
		forbidden(c)
		return
	}

	rated, err := r.rs.GetUserRating(c.Request.Context(), projectID, telegramID)
	if err != nil {
		log.Error("failed to get user rating", zap.Error(err),
			zap.Int64("project_id", projectID), zap.Int64("telegram_id", telegramID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An unexpected error occurred"})
		return
	}

	c.JSON(http.StatusOK, UserRatingResponse{
		HasRated: rated.HasRated,
		Rating:   rated.Score,
		Comment:  rated.Comment,
	})
}
