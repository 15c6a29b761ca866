package api

import (
	"net/http"
	"time"

	"helios_miniapp/internal/model"
	"helios_miniapp/internal/service"
	"helios_miniapp/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type projectRoutes struct {
	rs service.RatingServiceI
}

func NewProjectRoutes(handler *gin.RouterGroup, rs service.RatingServiceI) {
	r := &projectRoutes{rs: rs}

	h := handler.Group("/projects")
	{
		h.POST("", r.AddProject)
		h.GET("", r.ListProjects)
	}
}

type AddProjectRequest struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	Location      string `json:"location"`
	Certification string `json:"certification"`
}

type ProjectResponse struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Location      string    `json:"location"`
	Certification string    `json:"certification"`
	CreatedAt     time.Time `json:"createdAt"`
}

func newProjectResponse(p *model.Project) ProjectResponse {
	return ProjectResponse{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Location:      p.Location,
		Certification: p.Certification,
		CreatedAt:     p.CreatedAt,
	}
}

func (r *projectRoutes) AddProject(c *gin.Context) {
	log := logger.Logger()

	var req AddProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("failed to bind request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	project := &model.Project{
		Name:          req.Name,
		Description:   req.Description,
		Location:      req.Location,
		Certification: req.Certification,
	}
	if err := r.rs.AddProject(c.Request.Context(), project); err != nil {
		log.Error("failed to add project", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add project"})
		return
	}

	c.JSON(http.StatusCreated, newProjectResponse(project))
}

func (r *projectRoutes) ListProjects(c *gin.Context) {
	log := logger.Logger()

	projects, err := r.rs.ListProjects(c.Request.Context())
	if err != nil {
		log.Error("failed to list projects", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch projects"})
		return
	}

	out := make([]ProjectResponse, len(projects))
	for i, p := range projects {
		out[i] = newProjectResponse(p)
	}

	c.JSON(http.StatusOK, out)
}
