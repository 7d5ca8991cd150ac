package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ludaimi/passforge/internal/usecase"
)

// ProfileHandler exposes CRUD endpoints for charset profiles.
type ProfileHandler struct {
	profiles  *usecase.ProfileService
	provision *usecase.ProvisionService
}

func NewProfileHandler(profiles *usecase.ProfileService, provision *usecase.ProvisionService) *ProfileHandler {
	return &ProfileHandler{
		profiles:  profiles,
		provision: provision,
	}
}

// RegisterRoutes attaches profile endpoints to the provided group.
func (h *ProfileHandler) RegisterRoutes(group *gin.RouterGroup) {
	group.POST("", h.Create)
	group.GET("", h.List)
	group.GET("/:id", h.Get)
	group.PUT("/:id", h.Update)
	group.DELETE("/:id", h.Delete)
	group.GET("/:id/runs", h.ListRuns)
}

// Create stores a new profile.
func (h *ProfileHandler) Create(c *gin.Context) {
	if h.profiles == nil {
		c.JSON(http.StatusServiceUnavailable, NewErrorResponse(c, "profile management not configured"))
		return
	}

	var req ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid profile payload"))
		return
	}

	profile, err := h.profiles.CreateProfile(c.Request.Context(), profileInputFromRequest(req))
	if err != nil {
		respondWithProfileError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newProfilePayload(*profile))
}

// List returns all stored profiles.
func (h *ProfileHandler) List(c *gin.Context) {
	if h.profiles == nil {
		c.JSON(http.StatusServiceUnavailable, NewErrorResponse(c, "profile management not configured"))
		return
	}

	profiles, err := h.profiles.ListProfiles(c.Request.Context())
	if err != nil {
		respondWithProfileError(c, err)
		return
	}

	payloads := make([]ProfilePayload, 0, len(profiles))
	for _, profile := range profiles {
		payloads = append(payloads, newProfilePayload(profile))
	}

	c.JSON(http.StatusOK, ProfileListResponse{
		Profiles: payloads,
		Total:    len(payloads),
	})
}

// Get returns one profile by identifier.
func (h *ProfileHandler) Get(c *gin.Context) {
	if h.profiles == nil {
		c.JSON(http.StatusServiceUnavailable, NewErrorResponse(c, "profile management not configured"))
		return
	}

	profile, err := h.profiles.GetProfile(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithProfileError(c, err)
		return
	}

	c.JSON(http.StatusOK, newProfilePayload(*profile))
}

// Update rewrites an existing profile.
func (h *ProfileHandler) Update(c *gin.Context) {
	if h.profiles == nil {
		c.JSON(http.StatusServiceUnavailable, NewErrorResponse(c, "profile management not configured"))
		return
	}

	var req ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid profile payload"))
		return
	}

	profile, err := h.profiles.UpdateProfile(c.Request.Context(), c.Param("id"), profileInputFromRequest(req))
	if err != nil {
		respondWithProfileError(c, err)
		return
	}

	c.JSON(http.StatusOK, newProfilePayload(*profile))
}

// Delete removes a stored profile.
func (h *ProfileHandler) Delete(c *gin.Context) {
	if h.profiles == nil {
		c.JSON(http.StatusServiceUnavailable, NewErrorResponse(c, "profile management not configured"))
		return
	}

	if err := h.profiles.DeleteProfile(c.Request.Context(), c.Param("id")); err != nil {
		respondWithProfileError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "profile deleted"})
}

// ListRuns returns recorded provisioning runs of one profile.
func (h *ProfileHandler) ListRuns(c *gin.Context) {
	if h.provision == nil {
		c.JSON(http.StatusServiceUnavailable, NewErrorResponse(c, "provisioning history not configured"))
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, NewErrorResponse(c, "limit must be a non-negative integer"))
			return
		}
		limit = parsed
	}

	runs, err := h.provision.ListRuns(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		respondWithProfileError(c, err)
		return
	}

	payloads := make([]RunPayload, 0, len(runs))
	for _, run := range runs {
		payloads = append(payloads, newRunPayload(run))
	}

	c.JSON(http.StatusOK, RunListResponse{
		Runs:  payloads,
		Total: len(payloads),
	})
}

func respondWithProfileError(c *gin.Context, err error) {
	RespondWithMappedError(c, err, []ErrorCase{
		{Err: usecase.ErrInvalidRequest, Status: http.StatusBadRequest, Message: "invalid profile"},
		{Err: usecase.ErrProfileNameTaken, Status: http.StatusConflict, Message: "profile name already in use"},
		{Err: usecase.ErrProfileNotFound, Status: http.StatusNotFound, Message: "profile not found"},
	}, http.StatusInternalServerError, "request failed")
}
