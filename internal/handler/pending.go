package handler

import (
	"bookkeeping/internal/service"
	"bookkeeping/internal/util"

	"github.com/gin-gonic/gin"
)

// PendingHandler resolves the staged delete of a transaction or quote.
type PendingHandler struct {
	Svc *service.Service
}

func NewPendingHandler(svc *service.Service) *PendingHandler {
	return &PendingHandler{Svc: svc}
}

func (h *PendingHandler) Get(c *gin.Context) {
	p, ok := h.Svc.Pending()
	if !ok {
		util.Success(c, util.Response{"pending": nil})
		return
	}
	util.Success(c, util.Response{"pending": p})
}

func (h *PendingHandler) Confirm(c *gin.Context) {
	p, err := h.Svc.ConfirmPending()
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, util.Response{"deleted": p})
}

func (h *PendingHandler) Cancel(c *gin.Context) {
	p, err := h.Svc.CancelPending()
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, util.Response{"cancelled": p})
}
