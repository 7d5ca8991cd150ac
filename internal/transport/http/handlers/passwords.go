package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ludaimi/passforge/internal/usecase"
)

// PasswordHandler exposes endpoints for password generation and validation.
type PasswordHandler struct {
	provision *usecase.ProvisionService
	policy    *usecase.PolicyService
	metrics   *GenerationMetrics
}

func NewPasswordHandler(provision *usecase.ProvisionService, policy *usecase.PolicyService) *PasswordHandler {
	return &PasswordHandler{
		provision: provision,
		policy:    policy,
	}
}

// WithMetrics attaches generation counters. A nil value disables counting.
func (h *PasswordHandler) WithMetrics(metrics *GenerationMetrics) *PasswordHandler {
	h.metrics = metrics
	return h
}

// RegisterRoutes attaches password endpoints to the provided group. The
// optional middlewares guard generation endpoints only; validation stays
// unthrottled.
func (h *PasswordHandler) RegisterRoutes(group *gin.RouterGroup, generateMiddlewares, batchMiddlewares []gin.HandlerFunc) {
	generateHandlers := append([]gin.HandlerFunc{}, generateMiddlewares...)
	generateHandlers = append(generateHandlers, h.Generate)
	group.POST("/generate", generateHandlers...)

	batchHandlers := append([]gin.HandlerFunc{}, batchMiddlewares...)
	batchHandlers = append(batchHandlers, h.Batch)
	group.POST("/batch", batchHandlers...)

	group.POST("/validate", h.Validate)
}

// Generate derives a single password from a seed and a policy.
func (h *PasswordHandler) Generate(c *gin.Context) {
	if h.provision == nil {
		c.JSON(http.StatusServiceUnavailable, NewErrorResponse(c, "password generation not configured"))
		return
	}

	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid generation payload"))
		return
	}

	if !req.Seed.IsSet() {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "seed is required"))
		return
	}

	credential, err := h.provision.GeneratePassword(c.Request.Context(), usecase.GenerateInput{
		ProfileID:       req.ProfileID,
		Inline:          policyToProfile(req.Policy),
		Seed:            req.Seed.Seed(),
		Identity:        req.Identity,
		IncludeReceipt:  req.IncludeReceipt,
		IncludeStrength: req.IncludeStrength,
	})
	if err != nil {
		h.metrics.observe("single", 0, err)
		respondWithGenerationError(c, err)
		return
	}
	h.metrics.observe("single", 1, nil)

	c.JSON(http.StatusOK, newCredentialPayload(*credential))
}

// Batch derives one password per identity against a stored profile.
func (h *PasswordHandler) Batch(c *gin.Context) {
	if h.provision == nil {
		c.JSON(http.StatusServiceUnavailable, NewErrorResponse(c, "password generation not configured"))
		return
	}

	var req BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid batch payload"))
		return
	}

	identities := make([]usecase.BatchIdentity, 0, len(req.Identities))
	for _, identity := range req.Identities {
		if !identity.Seed.IsSet() {
			c.JSON(http.StatusBadRequest, NewErrorResponse(c, "every identity requires a seed"))
			return
		}
		identities = append(identities, usecase.BatchIdentity{
			Identity: identity.Identity,
			Seed:     identity.Seed.Seed(),
		})
	}

	result, err := h.provision.ProvisionBatch(c.Request.Context(), usecase.BatchInput{
		ProfileID:       req.ProfileID,
		Identities:      identities,
		RequestedBy:     req.RequestedBy,
		IncludeReceipts: req.IncludeReceipts,
		IncludeStrength: req.IncludeStrength,
	})
	if err != nil {
		h.metrics.observe("batch", 0, err)
		respondWithGenerationError(c, err)
		return
	}
	h.metrics.observe("batch", len(result.Credentials), nil)

	credentials := make([]CredentialPayload, 0, len(result.Credentials))
	for _, credential := range result.Credentials {
		credentials = append(credentials, newCredentialPayload(credential))
	}

	c.JSON(http.StatusOK, BatchResponse{
		RunID:       result.RunID,
		Profile:     result.ProfileName,
		Credentials: credentials,
		CompletedAt: result.CompletedAt,
	})
}

// Validate checks a candidate password against a policy. A failing candidate
// is a 200 response with valid=false, not an error.
func (h *PasswordHandler) Validate(c *gin.Context) {
	if h.policy == nil {
		c.JSON(http.StatusServiceUnavailable, NewErrorResponse(c, "password validation not configured"))
		return
	}

	var req ValidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid validation payload"))
		return
	}

	result, err := h.policy.ValidatePassword(c.Request.Context(), usecase.ValidateInput{
		Password:        req.Password,
		ProfileID:       req.ProfileID,
		Inline:          policyToProfile(req.Policy),
		IncludeStrength: req.IncludeStrength,
	})
	if err != nil {
		respondWithGenerationError(c, err)
		return
	}

	c.JSON(http.StatusOK, ValidateResponse{
		Valid:    result.Valid,
		Strength: newStrengthPayload(result.Strength),
	})
}

func respondWithGenerationError(c *gin.Context, err error) {
	RespondWithMappedError(c, err, []ErrorCase{
		{Err: usecase.ErrInvalidRequest, Status: http.StatusBadRequest, Message: "invalid request"},
		{Err: usecase.ErrProfileNotFound, Status: http.StatusNotFound, Message: "profile not found"},
		{Err: usecase.ErrBatchTooLarge, Status: http.StatusRequestEntityTooLarge, Message: "batch exceeds the configured size limit"},
		{Err: usecase.ErrPolicyUnsatisfiable, Status: http.StatusUnprocessableEntity, Message: "generated password violates the profile's exclusion patterns"},
	}, http.StatusInternalServerError, "request failed")
}
