package handler

import (
	"net/http"

	"bookkeeping/internal/models"
	"bookkeeping/internal/service"
	"bookkeeping/internal/util"
	"bookkeeping/internal/view"

	"github.com/gin-gonic/gin"
)

// TransactionHandler serves the dashboard and the transactions page.
type TransactionHandler struct {
	Svc *service.Service
}

func NewTransactionHandler(svc *service.Service) *TransactionHandler {
	return &TransactionHandler{Svc: svc}
}

type transactionReq struct {
	Description string `json:"description" form:"description" binding:"required,max=255"`
	Amount      field  `json:"amount" form:"amount" binding:"required"`
	Type        string `json:"type" form:"type"`
	Category    field  `json:"category" form:"category"`
	Client      field  `json:"client" form:"client"`
	Date        string `json:"date" form:"date" binding:"required"`
	Note        string `json:"note" form:"note" binding:"max=1000"`
}

func (h *TransactionHandler) bind(c *gin.Context) (models.Transaction, bool) {
	var req transactionReq
	if err := c.ShouldBind(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return models.Transaction{}, false
	}
	amount, err := util.ValidateAmount(req.Amount.String())
	if err != nil {
		badRequest(c, err)
		return models.Transaction{}, false
	}
	date, err := util.ValidateDate(req.Date)
	if err != nil {
		badRequest(c, err)
		return models.Transaction{}, false
	}
	category, ok := optionalID(c, "category", req.Category)
	if !ok {
		return models.Transaction{}, false
	}
	client, ok := optionalID(c, "client", req.Client)
	if !ok {
		return models.Transaction{}, false
	}
	return models.Transaction{
		Description: req.Description,
		Amount:      amount,
		Type:        models.TransactionType(req.Type),
		Category:    category,
		Client:      client,
		Date:        date,
		Note:        req.Note,
	}, true
}

// Dashboard returns totals and the most recent transactions.
func (h *TransactionHandler) Dashboard(c *gin.Context) {
	util.Success(c, util.Response{
		"dashboard": view.Dashboard(h.Svc.Snapshot()),
	})
}

func (h *TransactionHandler) List(c *gin.Context) {
	var f view.TransactionFilter
	if err := c.ShouldBindQuery(&f); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid filter")
		return
	}
	util.Success(c, util.Response{
		"items": view.Transactions(h.Svc.Snapshot(), f),
	})
}

func (h *TransactionHandler) Create(c *gin.Context) {
	t, ok := h.bind(c)
	if !ok {
		return
	}
	t, err := h.Svc.AddTransaction(t)
	if err != nil {
		respondError(c, err)
		return
	}
	h.refresh(c, t)
}

// Update edits in place. The id and the original type are kept.
func (h *TransactionHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	t, ok := h.bind(c)
	if !ok {
		return
	}
	t, err := h.Svc.UpdateTransaction(id, t)
	if err != nil {
		respondError(c, err)
		return
	}
	h.refresh(c, t)
}

// StageDelete puts the transaction in the pending-delete slot.
func (h *TransactionHandler) StageDelete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	p, err := h.Svc.StageDelete(service.KindTransaction, id)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, util.Response{"pending": p})
}

func (h *TransactionHandler) refresh(c *gin.Context, t models.Transaction) {
	snap := h.Svc.Snapshot()
	util.Success(c, util.Response{
		"transaction": t,
		"items":       view.Transactions(snap, view.TransactionFilter{}),
		"dashboard":   view.Dashboard(snap),
	})
}
