package handler

import (
	"net/http"

	"bookkeeping/internal/models"
	"bookkeeping/internal/service"
	"bookkeeping/internal/util"
	"bookkeeping/internal/view"

	"github.com/gin-gonic/gin"
)

type QuoteHandler struct {
	Svc *service.Service
}

func NewQuoteHandler(svc *service.Service) *QuoteHandler {
	return &QuoteHandler{Svc: svc}
}

type quoteReq struct {
	Number      string `json:"number" form:"number" binding:"required,max=40"`
	Client      field  `json:"client" form:"client" binding:"required"`
	Description string `json:"description" form:"description" binding:"max=1000"`
	Amount      field  `json:"amount" form:"amount" binding:"required"`
	Date        string `json:"date" form:"date" binding:"required"`
	Expiry      string `json:"expiry" form:"expiry"`
	Status      string `json:"status" form:"status"`
	Note        string `json:"note" form:"note" binding:"max=1000"`
}

func (h *QuoteHandler) bind(c *gin.Context) (models.Quote, bool) {
	var req quoteReq
	if err := c.ShouldBind(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return models.Quote{}, false
	}
	client, ok := optionalID(c, "client", req.Client)
	if !ok {
		return models.Quote{}, false
	}
	amount, err := util.ValidateAmount(req.Amount.String())
	if err != nil {
		badRequest(c, err)
		return models.Quote{}, false
	}
	date, err := util.ValidateDate(req.Date)
	if err != nil {
		badRequest(c, err)
		return models.Quote{}, false
	}
	var expiry models.Date
	if req.Expiry != "" {
		if expiry, err = util.ValidateDate(req.Expiry); err != nil {
			badRequest(c, err)
			return models.Quote{}, false
		}
	}
	return models.Quote{
		Number:      req.Number,
		Client:      client,
		Description: req.Description,
		Amount:      amount,
		Date:        date,
		Expiry:      expiry,
		Status:      models.QuoteStatus(req.Status),
		Note:        req.Note,
	}, true
}

func (h *QuoteHandler) List(c *gin.Context) {
	var f view.QuoteFilter
	if err := c.ShouldBindQuery(&f); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid filter")
		return
	}
	util.Success(c, util.Response{
		"items": view.Quotes(h.Svc.Snapshot(), f, h.Svc.Now()),
	})
}

func (h *QuoteHandler) Create(c *gin.Context) {
	q, ok := h.bind(c)
	if !ok {
		return
	}
	q, err := h.Svc.AddQuote(q)
	if err != nil {
		respondError(c, err)
		return
	}
	h.refresh(c, q)
}

func (h *QuoteHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	q, ok := h.bind(c)
	if !ok {
		return
	}
	q, err := h.Svc.UpdateQuote(id, q)
	if err != nil {
		respondError(c, err)
		return
	}
	h.refresh(c, q)
}

func (h *QuoteHandler) StageDelete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	p, err := h.Svc.StageDelete(service.KindQuote, id)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, util.Response{"pending": p})
}

func (h *QuoteHandler) refresh(c *gin.Context, q models.Quote) {
	util.Success(c, util.Response{
		"quote": q,
		"items": view.Quotes(h.Svc.Snapshot(), view.QuoteFilter{}, h.Svc.Now()),
	})
}
