// internal/handler/device_handler.go
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"printer-service/internal/service"
	"printer-service/internal/utils"
)

// DeviceHandler handles device-related HTTP requests
type DeviceHandler struct {
	deviceService *service.DeviceService
	logger        *utils.ServiceLogger
}

// NewDeviceHandler creates a new device handler
func NewDeviceHandler(deviceService *service.DeviceService, logger *zap.Logger) *DeviceHandler {
	return &DeviceHandler{
		deviceService: deviceService,
		logger:        utils.NewServiceLogger(logger, "device-handler"),
	}
}

// RegisterRoutes registers device-related routes
func (h *DeviceHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/devices", h.ListDevices)
}

// ListDevices lists devices a queue could be created on
// @Summary List devices
// @Description Spooler backends plus locally discovered devices, most preferred connection first
// @Tags Devices
// @Produce json
// @Success 200 {object} utils.APIResponse{data=[]model.Device} "Devices retrieved successfully"
// @Failure 502 {object} utils.APIResponse "Spooler error"
// @Router /devices [get]
func (h *DeviceHandler) ListDevices(c *gin.Context) {
	devices, err := h.deviceService.GetDevices(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list devices", zap.Error(err))
		utils.SpoolerErrorResponse(c, "Failed to list devices", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Devices retrieved successfully", devices)
}
