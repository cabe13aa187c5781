// internal/handler/printer_handler.go
package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"printer-service/internal/service"
	"printer-service/internal/spooler"
	"printer-service/internal/utils"
)

// PrinterHandler handles printer queue HTTP requests
type PrinterHandler struct {
	printerService   *service.PrinterService
	diagnosisService *service.DiagnosisService
	logger           *utils.ServiceLogger
}

// NewPrinterHandler creates a new printer handler
func NewPrinterHandler(printerService *service.PrinterService, diagnosisService *service.DiagnosisService, logger *zap.Logger) *PrinterHandler {
	return &PrinterHandler{
		printerService:   printerService,
		diagnosisService: diagnosisService,
		logger:           utils.NewServiceLogger(logger, "printer-handler"),
	}
}

// RegisterRoutes registers printer routes
func (h *PrinterHandler) RegisterRoutes(router *gin.RouterGroup) {
	printers := router.Group("/printers")
	{
		printers.GET("", h.ListPrinters)

		printer := printers.Group("/:name")
		{
			printer.GET("", h.GetPrinter)
			printer.GET("/diagnosis", h.DiagnosePrinter)
			printer.GET("/test-jobs", h.GetTestJobs)
			printer.PUT("/enabled", h.SetEnabled)
			printer.PUT("/accepting", h.SetAccepting)
			printer.PUT("/shared", h.SetShared)
			printer.PUT("/policies", h.SetPolicies)
			printer.PUT("/job-sheets", h.SetJobSheets)
			printer.PUT("/access", h.SetAccess)
			printer.PUT("/options/:option", h.SetOption)
			printer.DELETE("/options/:option", h.UnsetOption)
			printer.POST("/activate", h.Activate)
		}
	}
}

// SetEnabledRequest starts or stops a queue
type SetEnabledRequest struct {
	Enabled *bool  `json:"enabled" binding:"required"`
	Reason  string `json:"reason"`
}

// SetAcceptingRequest makes a queue accept or reject jobs
type SetAcceptingRequest struct {
	Accepting *bool  `json:"accepting" binding:"required"`
	Reason    string `json:"reason"`
}

// SetSharedRequest publishes or hides a queue
type SetSharedRequest struct {
	Shared *bool `json:"shared" binding:"required"`
}

// SetPoliciesRequest changes the error and operation policies
type SetPoliciesRequest struct {
	ErrorPolicy string `json:"error_policy"`
	OpPolicy    string `json:"op_policy"`
}

// SetJobSheetsRequest sets the banner pages
type SetJobSheetsRequest struct {
	Start string `json:"start" binding:"required"`
	End   string `json:"end" binding:"required"`
}

// SetAccessRequest sets who may print. With allow set everyone except
// users may print, otherwise only users may.
type SetAccessRequest struct {
	Allow *bool  `json:"allow" binding:"required"`
	Users string `json:"users"`
}

// SetOptionRequest sets an option default. Numbers, strings, booleans and
// string lists are accepted.
type SetOptionRequest struct {
	Value any `json:"value"`
}

// ListPrinters lists every queue and class
// @Summary List printers
// @Description Enumerate spooler queues and classes with decoded flags and state
// @Tags Printers
// @Produce json
// @Success 200 {object} utils.APIResponse{data=[]model.Printer} "Printers retrieved successfully"
// @Failure 502 {object} utils.APIResponse "Spooler error"
// @Router /printers [get]
func (h *PrinterHandler) ListPrinters(c *gin.Context) {
	printers, err := h.printerService.ListPrinters(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list printers", zap.Error(err))
		utils.SpoolerErrorResponse(c, "Failed to list printers", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Printers retrieved successfully", printers)
}

// GetPrinter returns one printer with its normalized attributes
// @Summary Get printer
// @Description Get a printer with defaults, supported values, policies and access control
// @Tags Printers
// @Produce json
// @Param name path string true "Printer name"
// @Success 200 {object} utils.APIResponse{data=model.Printer} "Printer retrieved successfully"
// @Failure 404 {object} utils.APIResponse "Printer not found"
// @Failure 502 {object} utils.APIResponse "Spooler error"
// @Router /printers/{name} [get]
func (h *PrinterHandler) GetPrinter(c *gin.Context) {
	printer, err := h.printerService.GetPrinter(c.Request.Context(), c.Param("name"))
	if err != nil {
		utils.SpoolerErrorResponse(c, "Failed to get printer", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Printer retrieved successfully", printer)
}

// DiagnosePrinter reports missing driver dependencies
// @Summary Diagnose printer driver
// @Description Report packages and executables the printer's PPD needs but the host lacks
// @Tags Printers
// @Produce json
// @Param name path string true "Printer name"
// @Success 200 {object} utils.APIResponse{data=service.Diagnosis} "Diagnosis completed"
// @Failure 404 {object} utils.APIResponse "Printer not found"
// @Failure 502 {object} utils.APIResponse "Spooler error"
// @Router /printers/{name}/diagnosis [get]
func (h *PrinterHandler) DiagnosePrinter(c *gin.Context) {
	diagnosis, err := h.diagnosisService.DiagnosePrinter(c.Request.Context(), c.Param("name"))
	if err != nil {
		utils.SpoolerErrorResponse(c, "Failed to diagnose printer", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Diagnosis completed", diagnosis)
}

// GetTestJobs lists queued test pages
// @Summary Queued test pages
// @Description Ids of test page jobs waiting on the printer
// @Tags Printers
// @Produce json
// @Param name path string true "Printer name"
// @Success 200 {object} utils.APIResponse{data=object{job_ids=[]int}} "Test jobs retrieved successfully"
// @Failure 404 {object} utils.APIResponse "Printer not found"
// @Router /printers/{name}/test-jobs [get]
func (h *PrinterHandler) GetTestJobs(c *gin.Context) {
	ids, err := h.printerService.TestsQueued(c.Request.Context(), c.Param("name"))
	if err != nil {
		utils.SpoolerErrorResponse(c, "Failed to list test jobs", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Test jobs retrieved successfully", gin.H{"job_ids": ids})
}

// SetEnabled starts or stops a queue
// @Summary Enable or disable printer
// @Tags Printers
// @Accept json
// @Produce json
// @Param name path string true "Printer name"
// @Param request body SetEnabledRequest true "State"
// @Success 200 {object} utils.APIResponse "Printer updated"
// @Failure 400 {object} utils.APIResponse "Invalid request"
// @Failure 404 {object} utils.APIResponse "Printer not found"
// @Router /printers/{name}/enabled [put]
func (h *PrinterHandler) SetEnabled(c *gin.Context) {
	var req SetEnabledRequest
	if !h.bind(c, &req) {
		return
	}
	h.apply(c, func(ctx context.Context, name string) error {
		return h.printerService.SetEnabled(ctx, name, *req.Enabled, req.Reason)
	})
}

// SetAccepting makes a queue accept or reject jobs
// @Summary Accept or reject jobs
// @Tags Printers
// @Accept json
// @Produce json
// @Param name path string true "Printer name"
// @Param request body SetAcceptingRequest true "State"
// @Success 200 {object} utils.APIResponse "Printer updated"
// @Failure 400 {object} utils.APIResponse "Invalid request"
// @Failure 404 {object} utils.APIResponse "Printer not found"
// @Router /printers/{name}/accepting [put]
func (h *PrinterHandler) SetAccepting(c *gin.Context) {
	var req SetAcceptingRequest
	if !h.bind(c, &req) {
		return
	}
	h.apply(c, func(ctx context.Context, name string) error {
		return h.printerService.SetAccepting(ctx, name, *req.Accepting, req.Reason)
	})
}

// SetShared publishes or hides a queue
// @Summary Share printer
// @Tags Printers
// @Accept json
// @Produce json
// @Param name path string true "Printer name"
// @Param request body SetSharedRequest true "State"
// @Success 200 {object} utils.APIResponse "Printer updated"
// @Failure 400 {object} utils.APIResponse "Invalid request"
// @Failure 404 {object} utils.APIResponse "Printer not found"
// @Router /printers/{name}/shared [put]
func (h *PrinterHandler) SetShared(c *gin.Context) {
	var req SetSharedRequest
	if !h.bind(c, &req) {
		return
	}
	h.apply(c, func(ctx context.Context, name string) error {
		return h.printerService.SetShared(ctx, name, *req.Shared)
	})
}

// SetPolicies changes the error and operation policies
// @Summary Set printer policies
// @Tags Printers
// @Accept json
// @Produce json
// @Param name path string true "Printer name"
// @Param request body SetPoliciesRequest true "Policies"
// @Success 200 {object} utils.APIResponse "Printer updated"
// @Failure 400 {object} utils.APIResponse "Invalid request"
// @Failure 404 {object} utils.APIResponse "Printer not found"
// @Router /printers/{name}/policies [put]
func (h *PrinterHandler) SetPolicies(c *gin.Context) {
	var req SetPoliciesRequest
	if !h.bind(c, &req) {
		return
	}
	if req.ErrorPolicy == "" && req.OpPolicy == "" {
		utils.ValidationErrorResponse(c, map[string]string{
			"error_policy": "error_policy or op_policy is required",
		})
		return
	}
	h.apply(c, func(ctx context.Context, name string) error {
		return h.printerService.SetPolicies(ctx, name, req.ErrorPolicy, req.OpPolicy)
	})
}

// SetJobSheets sets the banner pages
// @Summary Set job sheets
// @Tags Printers
// @Accept json
// @Produce json
// @Param name path string true "Printer name"
// @Param request body SetJobSheetsRequest true "Banner pages"
// @Success 200 {object} utils.APIResponse "Printer updated"
// @Failure 400 {object} utils.APIResponse "Invalid request"
// @Failure 404 {object} utils.APIResponse "Printer not found"
// @Router /printers/{name}/job-sheets [put]
func (h *PrinterHandler) SetJobSheets(c *gin.Context) {
	var req SetJobSheetsRequest
	if !h.bind(c, &req) {
		return
	}
	h.apply(c, func(ctx context.Context, name string) error {
		return h.printerService.SetJobSheets(ctx, name, req.Start, req.End)
	})
}

// SetAccess sets the user access list
// @Summary Set printer access
// @Tags Printers
// @Accept json
// @Produce json
// @Param name path string true "Printer name"
// @Param request body SetAccessRequest true "Access list"
// @Success 200 {object} utils.APIResponse "Printer updated"
// @Failure 400 {object} utils.APIResponse "Invalid request"
// @Failure 404 {object} utils.APIResponse "Printer not found"
// @Router /printers/{name}/access [put]
func (h *PrinterHandler) SetAccess(c *gin.Context) {
	var req SetAccessRequest
	if !h.bind(c, &req) {
		return
	}
	h.apply(c, func(ctx context.Context, name string) error {
		return h.printerService.SetAccess(ctx, name, *req.Allow, req.Users)
	})
}

// SetOption sets an option default on the server
// @Summary Set option default
// @Tags Printers
// @Accept json
// @Produce json
// @Param name path string true "Printer name"
// @Param option path string true "Option name"
// @Param request body SetOptionRequest true "Value"
// @Success 200 {object} utils.APIResponse "Printer updated"
// @Failure 400 {object} utils.APIResponse "Invalid request"
// @Failure 404 {object} utils.APIResponse "Printer not found"
// @Router /printers/{name}/options/{option} [put]
func (h *PrinterHandler) SetOption(c *gin.Context) {
	var req SetOptionRequest
	if !h.bind(c, &req) {
		return
	}
	if req.Value == nil {
		utils.ValidationErrorResponse(c, map[string]string{"value": "value is required"})
		return
	}
	value := req.Value
	if list, ok := value.([]any); ok {
		values := make([]string, 0, len(list))
		for _, item := range list {
			values = append(values, spooler.ToString(item))
		}
		value = values
	}
	option := c.Param("option")
	h.apply(c, func(ctx context.Context, name string) error {
		return h.printerService.SetOption(ctx, name, option, value)
	})
}

// UnsetOption removes an option default
// @Summary Remove option default
// @Tags Printers
// @Produce json
// @Param name path string true "Printer name"
// @Param option path string true "Option name"
// @Success 200 {object} utils.APIResponse "Printer updated"
// @Failure 404 {object} utils.APIResponse "Printer not found"
// @Router /printers/{name}/options/{option} [delete]
func (h *PrinterHandler) UnsetOption(c *gin.Context) {
	option := c.Param("option")
	h.apply(c, func(ctx context.Context, name string) error {
		return h.printerService.UnsetOption(ctx, name, option)
	})
}

// Activate enables a new queue and makes it the default if none is set
// @Summary Activate new printer
// @Tags Printers
// @Produce json
// @Param name path string true "Printer name"
// @Success 200 {object} utils.APIResponse "Printer activated"
// @Failure 502 {object} utils.APIResponse "Spooler error"
// @Router /printers/{name}/activate [post]
func (h *PrinterHandler) Activate(c *gin.Context) {
	h.apply(c, h.printerService.ActivateNewPrinter)
}

func (h *PrinterHandler) bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return false
	}
	return true
}

func (h *PrinterHandler) apply(c *gin.Context, fn func(ctx context.Context, name string) error) {
	name := c.Param("name")

	if err := fn(c.Request.Context(), name); err != nil {
		h.logger.Error("Printer change failed", zap.String("printer", name), zap.Error(err))
		utils.SpoolerErrorResponse(c, "Failed to update printer", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Printer updated", gin.H{"printer": name})
}
