package handler

import (
	"net/http"

	"bookkeeping/internal/models"
	"bookkeeping/internal/service"
	"bookkeeping/internal/util"
	"bookkeeping/internal/view"

	"github.com/gin-gonic/gin"
)

type CategoryHandler struct {
	Svc *service.Service
}

func NewCategoryHandler(svc *service.Service) *CategoryHandler {
	return &CategoryHandler{Svc: svc}
}

type categoryReq struct {
	Name string `json:"name" form:"name" binding:"required"`
	Type string `json:"type" form:"type" binding:"required,oneof=income expense"`
}

// List returns categories grouped by type plus the per-category totals.
func (h *CategoryHandler) List(c *gin.Context) {
	snap := h.Svc.Snapshot()
	util.Success(c, util.Response{
		"groups":  view.CategoryGroups(snap),
		"summary": view.CategorySummary(snap),
	})
}

func (h *CategoryHandler) Create(c *gin.Context) {
	var req categoryReq
	if err := c.ShouldBind(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}
	if err := util.ValidateName("category name", req.Name, 40); err != nil {
		badRequest(c, err)
		return
	}
	cat, err := h.Svc.AddCategory(models.Category{Name: req.Name, Type: models.TransactionType(req.Type)})
	if err != nil {
		respondError(c, err)
		return
	}
	snap := h.Svc.Snapshot()
	util.Success(c, util.Response{
		"category": cat,
		"groups":   view.CategoryGroups(snap),
	})
}

// Delete needs ?confirm=true. Transactions in the category are kept
// without a category.
func (h *CategoryHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	deleteResponse(c, h.Svc.DeleteCategory(id, confirmation(c)))
}
