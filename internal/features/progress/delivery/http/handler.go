package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vocab-progress-backend/internal/common/errors"
	"vocab-progress-backend/internal/common/middleware"
	"vocab-progress-backend/internal/common/validation"
	"vocab-progress-backend/internal/features/progress/mapper"
	"vocab-progress-backend/internal/features/progress/models"
	"vocab-progress-backend/internal/features/progress/models/dto"
	"vocab-progress-backend/internal/features/progress/service"
)

type ProgressHandler struct {
	service service.ProgressService
}

func NewProgressHandler(service service.ProgressService) *ProgressHandler {
	return &ProgressHandler{service: service}
}

func (h *ProgressHandler) RegisterRoutes(router *gin.RouterGroup) {
	wrap := middleware.HandleErrorWrapper

	progress := router.Group("/progress")
	{
		progress.GET("", wrap(h.getProgress))
		progress.POST("/levels/:level/results", wrap(h.submitResult))
	}

	router.GET("/levels", wrap(h.getLevels))

	shop := router.Group("/shop")
	{
		shop.GET("/catalog", wrap(h.getCatalog))
		shop.POST("/purchases", wrap(h.purchase))
	}

	router.PUT("/avatar/:category", wrap(h.equip))
}

// @Summary Get progress
// @Description Returns coins, bonus minutes, unlocked levels, best scores, owned items and the avatar
// @Tags progress
// @Produce json
// @Security TelegramInitData
// @Success 200 {object} dto.ProfileResponse
// @Failure 503 {object} middleware.ErrorResponse "Storage unavailable"
// @Router /progress [get]
func (h *ProgressHandler) getProgress(c *gin.Context) {
	learnerID := middleware.GetLearnerID(c)
	p, err := h.service.GetProfile(c.Request.Context(), learnerID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, mapper.ToProfileResponse(learnerID, p, h.service.Policy()))
}

// @Summary Submit a level result
// @Description Records a finished round: awards coins, keeps the best score and unlocks the next level on a pass
// @Tags progress
// @Accept json
// @Produce json
// @Security TelegramInitData
// @Param level path string true "Level ID" example(FLASHCARDS)
// @Param input body dto.SubmitResultRequest true "Round score"
// @Success 200 {object} dto.ResultResponse
// @Failure 400 {object} middleware.ErrorResponse "Missing or out-of-range score"
// @Failure 404 {object} middleware.ErrorResponse "Unknown level"
// @Failure 503 {object} middleware.ErrorResponse "Storage unavailable"
// @Router /progress/levels/{level}/results [post]
func (h *ProgressHandler) submitResult(c *gin.Context) {
	var input dto.SubmitResultRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		_ = c.Error(errors.NewValidationError("score", err.Error()))
		return
	}

	if err := validation.ValidateScore(*input.Score, h.service.Policy().MaxScore); err != nil {
		_ = c.Error(errors.NewValidationError("score", err.Error()))
		return
	}

	learnerID := middleware.GetLearnerID(c)
	out, p, err := h.service.SubmitResult(c.Request.Context(), learnerID, models.LevelID(c.Param("level")), *input.Score)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.ResultResponse{
		Outcome: out,
		Profile: mapper.ToProfileResponse(learnerID, p, h.service.Policy()),
	})
}

// @Summary Get the level map
// @Tags progress
// @Produce json
// @Security TelegramInitData
// @Success 200 {object} dto.LevelMapResponse
// @Router /levels [get]
func (h *ProgressHandler) getLevels(c *gin.Context) {
	p, err := h.service.GetProfile(c.Request.Context(), middleware.GetLearnerID(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, mapper.ToLevelMap(p, h.service.Policy()))
}

// @Summary Get the shop catalog
// @Description Every cosmetic family with owned, equipped and affordable flags for the caller
// @Tags shop
// @Produce json
// @Security TelegramInitData
// @Success 200 {object} dto.CatalogResponse
// @Router /shop/catalog [get]
func (h *ProgressHandler) getCatalog(c *gin.Context) {
	p, err := h.service.GetProfile(c.Request.Context(), middleware.GetLearnerID(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, mapper.ToCatalogResponse(p, h.service.Catalog()))
}

// @Summary Buy an item
// @Description Charges the catalog price, records ownership and equips the item. Owned items are equipped for free.
// @Tags shop
// @Accept json
// @Produce json
// @Security TelegramInitData
// @Param input body dto.PurchaseRequest true "Item to buy"
// @Success 200 {object} dto.PurchaseResponse
// @Failure 400 {object} middleware.ErrorResponse "Invalid input"
// @Failure 402 {object} middleware.ErrorResponse "Not enough coins"
// @Failure 404 {object} middleware.ErrorResponse "Unknown item or category"
// @Router /shop/purchases [post]
func (h *ProgressHandler) purchase(c *gin.Context) {
	var input dto.PurchaseRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		_ = c.Error(errors.New(errors.ErrCodeBadRequest, err.Error()))
		return
	}

	if err := validation.ValidateItemID(input.ItemID); err != nil {
		_ = c.Error(errors.NewValidationError("itemId", err.Error()))
		return
	}

	learnerID := middleware.GetLearnerID(c)
	out, p, err := h.service.Purchase(c.Request.Context(), learnerID, input.Category, input.ItemID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.PurchaseResponse{
		Purchase: out,
		Profile:  mapper.ToProfileResponse(learnerID, p, h.service.Policy()),
	})
}

// @Summary Equip an owned item
// @Tags shop
// @Accept json
// @Produce json
// @Security TelegramInitData
// @Param category path string true "Cosmetic family" Enums(color, accessory, background, aura)
// @Param input body dto.EquipRequest true "Item to equip"
// @Success 200 {object} dto.ProfileResponse
// @Failure 404 {object} middleware.ErrorResponse "Unknown category"
// @Failure 409 {object} middleware.ErrorResponse "Item not owned"
// @Router /avatar/{category} [put]
func (h *ProgressHandler) equip(c *gin.Context) {
	var input dto.EquipRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		_ = c.Error(errors.NewValidationError("itemId", err.Error()))
		return
	}

	if err := validation.ValidateItemID(input.ItemID); err != nil {
		_ = c.Error(errors.NewValidationError("itemId", err.Error()))
		return
	}

	learnerID := middleware.GetLearnerID(c)
	p, err := h.service.Equip(c.Request.Context(), learnerID, models.Category(c.Param("category")), input.ItemID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, mapper.ToProfileResponse(learnerID, p, h.service.Policy()))
}
