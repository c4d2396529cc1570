package handler

import (
	"net/http"

	"bookkeeping/internal/models"
	"bookkeeping/internal/service"
	"bookkeeping/internal/util"

	"github.com/gin-gonic/gin"
)

type SettingsHandler struct {
	Svc *service.Service
}

func NewSettingsHandler(svc *service.Service) *SettingsHandler {
	return &SettingsHandler{Svc: svc}
}

type settingsReq struct {
	BusinessName string `json:"businessName" form:"businessName" binding:"required,max=120"`
	Currency     string `json:"currency" form:"currency" binding:"required,len=3"`
	FiscalYear   int    `json:"fiscalYear" form:"fiscalYear" binding:"omitempty,min=1900,max=9999"`
}

func (h *SettingsHandler) Get(c *gin.Context) {
	util.Success(c, util.Response{"settings": h.Svc.Settings()})
}

// Save overwrites the settings as a whole.
func (h *SettingsHandler) Save(c *gin.Context) {
	var req settingsReq
	if err := c.ShouldBind(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}
	settings, err := h.Svc.SaveSettings(models.Settings{
		BusinessName: req.BusinessName,
		Currency:     req.Currency,
		FiscalYear:   req.FiscalYear,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, util.Response{"settings": settings})
}
