package handler

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"bookkeeping/internal/service"
	"bookkeeping/internal/util"
	"bookkeeping/internal/view"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// maxImportSize bounds an uploaded export file.
const maxImportSize = 32 << 20

type ImportExportHandler struct {
	Svc *service.Service
}

func NewImportExportHandler(svc *service.Service) *ImportExportHandler {
	return &ImportExportHandler{Svc: svc}
}

// Export downloads the whole store as contabilidad-YYYY-MM-DD.json.
func (h *ImportExportHandler) Export(c *gin.Context) {
	exp := h.Svc.Export()
	raw, err := json.MarshalIndent(exp, "", "  ")
	if err != nil {
		respondError(c, fmt.Errorf("encode export: %w", err))
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", service.ExportFileName(exp.ExportDate)))
	c.Data(http.StatusOK, "application/json; charset=utf-8", raw)
}

// Import replaces the store from an exported file, sent either as the raw
// request body or as the multipart field "file".
func (h *ImportExportHandler) Import(c *gin.Context) {
	var r io.Reader = c.Request.Body
	if fh, err := c.FormFile("file"); err == nil {
		f, err := fh.Open()
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "cannot read upload")
			return
		}
		defer f.Close()
		r = f
	}
	raw, err := io.ReadAll(io.LimitReader(r, maxImportSize))
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "cannot read upload")
		return
	}
	snap, err := h.Svc.Import(raw)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, util.Response{
		"transactions": len(snap.Transactions),
		"categories":   len(snap.Categories),
		"clients":      len(snap.Clients),
		"quotes":       len(snap.Quotes),
		"employees":    len(snap.Employees),
		"workHours":    len(snap.WorkHours),
	})
}

// Clear wipes all data. Without ?confirm=true nothing happens.
func (h *ImportExportHandler) Clear(c *gin.Context) {
	res := h.Svc.ClearAll(confirmation(c))
	util.Success(c, util.Response{
		"result":   res.String(),
		"settings": h.Svc.Settings(),
	})
}

var exportHeaders = []string{"Date", "Type", "Category", "Description", "Client", "Amount", "Note"}

func (h *ImportExportHandler) rows() [][]string {
	snap := h.Svc.Snapshot()
	items := view.Transactions(snap, view.TransactionFilter{})
	out := make([][]string, 0, len(items))
	for _, t := range items {
		out = append(out, []string{
			t.Date.String(),
			string(t.Type),
			t.CategoryName,
			t.Description,
			t.ClientName,
			t.Amount.StringFixed(2),
			t.Note,
		})
	}
	return out
}

// ExportCSV downloads the transactions table.
func (h *ImportExportHandler) ExportCSV(c *gin.Context) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"transactions_%s.csv\"",
		h.Svc.Now().Format("20060102")))

	// UTF-8 BOM so spreadsheet apps detect the encoding
	if _, err := c.Writer.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		_ = c.Error(err)
		return
	}

	writer := csv.NewWriter(c.Writer)
	if err := writer.Write(exportHeaders); err != nil {
		_ = c.Error(err)
		return
	}
	if err := writer.WriteAll(h.rows()); err != nil {
		_ = c.Error(err)
	}
}

// ExportXLSX downloads the transactions table as a workbook.
func (h *ImportExportHandler) ExportXLSX(c *gin.Context) {
	f, err := transactionsWorkbook(exportHeaders, h.rows())
	if err != nil {
		respondError(c, err)
		return
	}
	defer f.Close()

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"transactions_%s.xlsx\"",
		h.Svc.Now().Format("20060102")))

	if err := f.Write(c.Writer); err != nil {
		_ = c.Error(err)
	}
}

const sheetName = "Transactions"

func transactionsWorkbook(headers []string, rows [][]string) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		f.Close()
		return nil, fmt.Errorf("create sheet: %w", err)
	}

	for i, title := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, title)
	}
	for r, row := range rows {
		for col, value := range row {
			cell, _ := excelize.CoordinatesToCellName(col+1, r+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	f.SetColWidth(sheetName, "A", "B", 12)
	f.SetColWidth(sheetName, "C", "C", 16)
	f.SetColWidth(sheetName, "D", "D", 30)
	f.SetColWidth(sheetName, "E", "E", 20)
	f.SetColWidth(sheetName, "F", "F", 12)
	f.SetColWidth(sheetName, "G", "G", 30)
	return f, nil
}
