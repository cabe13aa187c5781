// internal/handler/ppd_handler.go
package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"printer-service/internal/service"
	"printer-service/internal/utils"
)

// maxPPDSize bounds uploaded PPD text
const maxPPDSize = 8 << 20

// PPDHandler handles driver description uploads
type PPDHandler struct {
	diagnosisService *service.DiagnosisService
	driverService    *service.DriverService
	logger           *utils.ServiceLogger
}

// NewPPDHandler creates a new PPD handler
func NewPPDHandler(diagnosisService *service.DiagnosisService, driverService *service.DriverService, logger *zap.Logger) *PPDHandler {
	return &PPDHandler{
		diagnosisService: diagnosisService,
		driverService:    driverService,
		logger:           utils.NewServiceLogger(logger, "ppd-handler"),
	}
}

// RegisterRoutes registers PPD routes
func (h *PPDHandler) RegisterRoutes(router *gin.RouterGroup) {
	ppd := router.Group("/ppd")
	{
		ppd.POST("/diagnose", h.Diagnose)
		ppd.POST("/sync", h.SyncOptions)
	}
}

// SyncOptionsRequest carries two PPD texts
type SyncOptionsRequest struct {
	Source string `json:"source" binding:"required"`
	Target string `json:"target" binding:"required"`
	Locale string `json:"locale"`
}

// Diagnose reports what an uploaded PPD needs
// @Summary Diagnose PPD
// @Description Report packages and executables the uploaded PPD needs but the host lacks
// @Tags PPD
// @Accept plain
// @Produce json
// @Param request body string true "PPD text"
// @Success 200 {object} utils.APIResponse{data=service.Diagnosis} "Diagnosis completed"
// @Failure 400 {object} utils.APIResponse "Invalid PPD"
// @Router /ppd/diagnose [post]
func (h *PPDHandler) Diagnose(c *gin.Context) {
	body := http.MaxBytesReader(c.Writer, c.Request.Body, maxPPDSize)

	diagnosis, err := h.diagnosisService.DiagnoseDescriptor(c.Request.Context(), body)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Failed to read PPD", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Diagnosis completed", diagnosis)
}

// SyncOptions copies option settings from one PPD to another
// @Summary Synchronize PPD options
// @Description Set the locale page size on target and copy compatible option defaults from source
// @Tags PPD
// @Accept json
// @Produce json
// @Param request body SyncOptionsRequest true "Source and target PPD text"
// @Success 200 {object} utils.APIResponse{data=service.SyncResult} "Options synchronized"
// @Failure 400 {object} utils.APIResponse "Invalid request"
// @Router /ppd/sync [post]
func (h *PPDHandler) SyncOptions(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, 2*maxPPDSize)

	var req SyncOptionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	result, err := h.driverService.SyncOptions(c.Request.Context(),
		strings.NewReader(req.Source), strings.NewReader(req.Target), req.Locale)
	if err != nil {
		h.logger.Warn("Option sync failed", zap.Error(err))
		utils.ErrorResponse(c, http.StatusBadRequest, "Failed to synchronize options", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Options synchronized", result)
}
