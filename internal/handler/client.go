package handler

import (
	"net/http"

	"bookkeeping/internal/models"
	"bookkeeping/internal/service"
	"bookkeeping/internal/util"
	"bookkeeping/internal/view"

	"github.com/gin-gonic/gin"
)

type ClientHandler struct {
	Svc *service.Service
}

func NewClientHandler(svc *service.Service) *ClientHandler {
	return &ClientHandler{Svc: svc}
}

type clientReq struct {
	Name    string `json:"name" form:"name" binding:"required,max=120"`
	Email   string `json:"email" form:"email" binding:"omitempty,email"`
	Phone   string `json:"phone" form:"phone" binding:"max=40"`
	Company string `json:"company" form:"company" binding:"max=120"`
	Address string `json:"address" form:"address" binding:"max=255"`
	City    string `json:"city" form:"city" binding:"max=80"`
	Zip     string `json:"zip" form:"zip" binding:"max=20"`
	Country string `json:"country" form:"country" binding:"max=80"`
	Type    string `json:"type" form:"type"`
	Note    string `json:"note" form:"note" binding:"max=1000"`
}

func (r clientReq) model() models.Client {
	return models.Client{
		Name:    r.Name,
		Email:   r.Email,
		Phone:   r.Phone,
		Company: r.Company,
		Address: r.Address,
		City:    r.City,
		Zip:     r.Zip,
		Country: r.Country,
		Type:    models.ClientType(r.Type),
		Note:    r.Note,
	}
}

func (h *ClientHandler) List(c *gin.Context) {
	var f view.ClientFilter
	if err := c.ShouldBindQuery(&f); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid filter")
		return
	}
	util.Success(c, util.Response{
		"items": view.Clients(h.Svc.Snapshot(), f),
	})
}

func (h *ClientHandler) Create(c *gin.Context) {
	var req clientReq
	if err := c.ShouldBind(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}
	client, err := h.Svc.AddClient(req.model())
	if err != nil {
		respondError(c, err)
		return
	}
	h.refresh(c, client)
}

func (h *ClientHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req clientReq
	if err := c.ShouldBind(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}
	client, err := h.Svc.UpdateClient(id, req.model())
	if err != nil {
		respondError(c, err)
		return
	}
	h.refresh(c, client)
}

// Delete needs ?confirm=true and also removes the client's quotes.
func (h *ClientHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	deleteResponse(c, h.Svc.DeleteClient(id, confirmation(c)))
}

func (h *ClientHandler) refresh(c *gin.Context, client models.Client) {
	util.Success(c, util.Response{
		"client": client,
		"items":  view.Clients(h.Svc.Snapshot(), view.ClientFilter{}),
	})
}
