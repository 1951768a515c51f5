package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"noryx/internal/application/vpn/dto"
	"noryx/internal/application/vpn/usecases"
	"noryx/internal/interfaces/http/middleware"
	"noryx/internal/shared/logger"
	"noryx/internal/shared/utils"
)

type VPNHandler struct {
	connectUC       *usecases.ConnectUseCase
	downloadUC      *usecases.DownloadConfigUseCase
	changeCountryUC *usecases.ChangeCountryUseCase
	listCountriesUC *usecases.ListCountriesUseCase
	getStatsUC      *usecases.GetStatsUseCase
	cleanupUC       *usecases.CleanupExpiredUseCase
	logger          logger.Interface
}

func NewVPNHandler(
	connectUC *usecases.ConnectUseCase,
	downloadUC *usecases.DownloadConfigUseCase,
	changeCountryUC *usecases.ChangeCountryUseCase,
	listCountriesUC *usecases.ListCountriesUseCase,
	getStatsUC *usecases.GetStatsUseCase,
	cleanupUC *usecases.CleanupExpiredUseCase,
) *VPNHandler {
	return &VPNHandler{
		connectUC:       connectUC,
		downloadUC:      downloadUC,
		changeCountryUC: changeCountryUC,
		listCountriesUC: listCountriesUC,
		getStatsUC:      getStatsUC,
		cleanupUC:       cleanupUC,
		logger:          logger.NewLogger(),
	}
}

// Connect godoc
// @Summary Get VPN connection material
// @Description Provisions the caller's VPN client on first use and returns a deep link, QR code, or download URL depending on the requesting device
// @Tags VPN
// @Accept json
// @Produce json
// @Param request body dto.ConnectRequest false "Optional protocol and country overrides"
// @Success 200 {object} utils.APIResponse{data=dto.ConnectResponse}
// @Failure 404 {object} utils.APIResponse
// @Failure 500 {object} utils.APIResponse
// @Router /vpn/connect [post]
func (h *VPNHandler) Connect(c *gin.Context) {
	var req dto.ConnectRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.logger.Warnw("invalid connect request body", "error", err)
			utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	result, err := h.connectUC.Execute(c.Request.Context(), middleware.UserID(c), c.Request.UserAgent(), req.Protocol, req.CountryCode)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.OKResponse(c, result)
}

// DownloadConfig godoc
// @Summary Download a VPN config file
// @Description Exchanges a short-lived download token for the config file
// @Tags VPN
// @Produce application/octet-stream
// @Param token path string true "Download token"
// @Success 200 {file} binary
// @Failure 403 {object} utils.APIResponse
// @Router /vpn/download/{token} [get]
func (h *VPNHandler) DownloadConfig(c *gin.Context) {
	filename, body, err := h.downloadUC.Execute(c.Request.Context(), c.Param("token"))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/octet-stream", body)
}

// ListCountries godoc
// @Summary List selectable exit countries
// @Tags VPN
// @Produce json
// @Success 200 {object} utils.APIResponse{data=[]dto.CountryResponse}
// @Router /vpn/countries [get]
func (h *VPNHandler) ListCountries(c *gin.Context) {
	result, err := h.listCountriesUC.Execute(c.Request.Context())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.OKResponse(c, result)
}

// ChangeCountry godoc
// @Summary Change the preferred exit country
// @Tags VPN
// @Accept json
// @Produce json
// @Param request body dto.ChangeCountryRequest true "Country selection"
// @Success 200 {object} utils.APIResponse{data=dto.CountryResponse}
// @Failure 400 {object} utils.APIResponse
// @Router /vpn/change-country [post]
func (h *VPNHandler) ChangeCountry(c *gin.Context) {
	var req dto.ChangeCountryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid change country request body", "error", err)
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.changeCountryUC.Execute(c.Request.Context(), middleware.UserID(c), req.CountryCode)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.OKResponse(c, result)
}

// GetStats godoc
// @Summary Get traffic counters for the caller's subscription
// @Tags VPN
// @Produce json
// @Success 200 {object} utils.APIResponse{data=dto.StatsResponse}
// @Failure 404 {object} utils.APIResponse
// @Router /vpn/stats [get]
func (h *VPNHandler) GetStats(c *gin.Context) {
	result, err := h.getStatsUC.Execute(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.OKResponse(c, result)
}

// CleanupExpired godoc
// @Summary Sweep panel clients of ended subscriptions
// @Tags Admin
// @Produce json
// @Success 200 {object} utils.APIResponse{data=dto.CleanupResponse}
// @Router /vpn/admin/cleanup [post]
func (h *VPNHandler) CleanupExpired(c *gin.Context) {
	result, err := h.cleanupUC.Execute(c.Request.Context())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.OKResponse(c, result)
}
