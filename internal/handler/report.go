package handler

import (
	"net/http"
	"strconv"
	"time"

	"bookkeeping/internal/service"
	"bookkeeping/internal/util"
	"bookkeeping/internal/view"

	"github.com/gin-gonic/gin"
)

// ReportHandler serves the reports page and its charts.
type ReportHandler struct {
	Svc *service.Service
}

func NewReportHandler(svc *service.Service) *ReportHandler {
	return &ReportHandler{Svc: svc}
}

// Monthly sums one month, ?year=2024&month=3. Both default to the current month.
func (h *ReportHandler) Monthly(c *gin.Context) {
	now := h.Svc.Now()
	year, err := strconv.Atoi(c.DefaultQuery("year", strconv.Itoa(now.Year())))
	if err != nil || year < 1900 || year > 9999 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid year")
		return
	}
	month, err := strconv.Atoi(c.DefaultQuery("month", strconv.Itoa(int(now.Month()))))
	if err != nil || month < 1 || month > 12 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid month")
		return
	}
	util.Success(c, util.Response{
		"report": view.MonthlyReport(h.Svc.Snapshot(), year, time.Month(month)),
	})
}

func (h *ReportHandler) Trend(c *gin.Context) {
	util.Success(c, util.Response{"items": view.Trend(h.Svc.Snapshot())})
}

func (h *ReportHandler) Categories(c *gin.Context) {
	util.Success(c, util.Response{"items": view.CategorySummary(h.Svc.Snapshot())})
}

func (h *ReportHandler) Expenses(c *gin.Context) {
	util.Success(c, util.Response{"items": view.ExpenseByCategory(h.Svc.Snapshot())})
}
