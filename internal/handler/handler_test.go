package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"bookkeeping/internal/models"
	"bookkeeping/internal/persistence"
	"bookkeeping/internal/service"
	"bookkeeping/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestService(t *testing.T) *service.Service {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	gw := persistence.NewGateway(persistence.NewMemoryStore(), nil, 1, models.DefaultSettings("", "", now), log)
	svc := service.New(store.New(gw.Load(context.Background())), gw, service.Defaults{Currency: "USD"}, log)
	svc.SetClock(func() time.Time {
		now = now.Add(time.Second)
		return now
	})
	return svc
}

func newTestEngine(svc *service.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	tx := NewTransactionHandler(svc)
	r.POST("/transactions", tx.Create)
	r.PUT("/transactions/:id", tx.Update)
	r.GET("/transactions", tx.List)
	r.POST("/transactions/:id/delete", tx.StageDelete)

	clients := NewClientHandler(svc)
	r.POST("/clients", clients.Create)
	r.DELETE("/clients/:id", clients.Delete)

	pending := NewPendingHandler(svc)
	r.GET("/pending-delete", pending.Get)
	r.POST("/pending-delete/confirm", pending.Confirm)

	data := NewImportExportHandler(svc)
	r.GET("/data/export", data.Export)
	r.POST("/data/import", data.Import)
	r.GET("/export/transactions.csv", data.ExportCSV)
	return r
}

func do(r http.Handler, method, path, contentType, body string) (*httptest.ResponseRecorder, envelope) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func createdTransaction(t *testing.T, env envelope) models.Transaction {
	t.Helper()
	var data struct {
		Transaction models.Transaction `json:"transaction"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	return data.Transaction
}

func TestCreateTransaction_JSONAndForm(t *testing.T) {
	r := newTestEngine(newTestService(t))

	cases := []struct {
		name        string
		contentType string
		body        string
	}{
		{"json string amount", "application/json", `{"description":"Paint job","amount":"120.50","type":"income","category":"1","date":"2024-03-05"}`},
		{"json number amount", "application/json", `{"description":"Paint job","amount":120.50,"type":"income","category":1,"date":"2024-03-05"}`},
		{"form", "application/x-www-form-urlencoded", url.Values{
			"description": {"Paint job"},
			"amount":      {"120.50"},
			"type":        {"income"},
			"category":    {"1"},
			"date":        {"2024-03-05"},
		}.Encode()},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w, env := do(r, http.MethodPost, "/transactions", tc.contentType, tc.body)
			if w.Code != http.StatusOK || env.Code != 0 {
				t.Fatalf("status = %d code = %d body = %s", w.Code, env.Code, w.Body.String())
			}
			got := createdTransaction(t, env)
			if got.ID == 0 || got.Category != 1 || got.Amount.StringFixed(2) != "120.50" {
				t.Errorf("transaction = %+v", got)
			}
		})
	}
}

func TestCreateTransaction_Rejected(t *testing.T) {
	svc := newTestService(t)
	r := newTestEngine(svc)

	cases := map[string]string{
		"missing description": `{"amount":"10","type":"income","date":"2024-03-05"}`,
		"bad amount":          `{"description":"x","amount":"abc","type":"income","date":"2024-03-05"}`,
		"negative amount":     `{"description":"x","amount":"-5","type":"income","date":"2024-03-05"}`,
		"bad date":            `{"description":"x","amount":"10","type":"income","date":"05/03/2024"}`,
		"bad type":            `{"description":"x","amount":"10","type":"gift","date":"2024-03-05"}`,
		"bad category":        `{"description":"x","amount":"10","type":"income","category":"abc","date":"2024-03-05"}`,
	}
	for name, body := range cases {
		w, env := do(r, http.MethodPost, "/transactions", "application/json", body)
		if w.Code != http.StatusBadRequest || env.Code != 40001 {
			t.Errorf("%s: status = %d code = %d, want 400/40001", name, w.Code, env.Code)
		}
	}
	if n := len(svc.Snapshot().Transactions); n != 0 {
		t.Errorf("transactions stored = %d, want 0", n)
	}
}

func TestUpdateTransaction_NotFound(t *testing.T) {
	r := newTestEngine(newTestService(t))
	body := `{"description":"x","amount":"10","type":"income","date":"2024-03-05"}`

	if w, _ := do(r, http.MethodPut, "/transactions/999", "application/json", body); w.Code != http.StatusNotFound {
		t.Errorf("unknown id status = %d, want 404", w.Code)
	}
	if w, _ := do(r, http.MethodPut, "/transactions/abc", "application/json", body); w.Code != http.StatusBadRequest {
		t.Errorf("bad id status = %d, want 400", w.Code)
	}
}

func TestDeleteClient_NeedsConfirm(t *testing.T) {
	svc := newTestService(t)
	r := newTestEngine(svc)

	client, err := svc.AddClient(models.Client{Name: "Acme"})
	if err != nil {
		t.Fatalf("AddClient error = %v", err)
	}
	path := "/clients/" + client.ID.String()

	_, env := do(r, http.MethodDelete, path, "", "")
	var res service.DeleteResult
	if err := json.Unmarshal(env.Data, &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Result != "declined" || res.Removed {
		t.Errorf("without confirm: %+v", res)
	}
	if len(svc.Snapshot().Clients) != 1 {
		t.Fatal("client removed without confirmation")
	}

	_, env = do(r, http.MethodDelete, path+"?confirm=true", "", "")
	res = service.DeleteResult{}
	if err := json.Unmarshal(env.Data, &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Result != "accepted" || !res.Removed {
		t.Errorf("with confirm: %+v", res)
	}
	if len(svc.Snapshot().Clients) != 0 {
		t.Error("client still present after confirmed delete")
	}
}

func TestStagedDelete_ConfirmTwice(t *testing.T) {
	svc := newTestService(t)
	r := newTestEngine(svc)

	_, env := do(r, http.MethodPost, "/transactions", "application/json",
		`{"description":"Brushes","amount":"15","type":"expense","date":"2024-03-05"}`)
	tx := createdTransaction(t, env)

	w, _ := do(r, http.MethodPost, "/transactions/"+tx.ID.String()+"/delete", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("stage status = %d body = %s", w.Code, w.Body.String())
	}
	if _, ok := svc.Pending(); !ok {
		t.Fatal("nothing pending after stage")
	}

	if w, _ := do(r, http.MethodPost, "/pending-delete/confirm", "", ""); w.Code != http.StatusOK {
		t.Fatalf("confirm status = %d", w.Code)
	}
	if len(svc.Snapshot().Transactions) != 0 {
		t.Error("transaction still present after confirm")
	}

	w, env = do(r, http.MethodPost, "/pending-delete/confirm", "", "")
	if w.Code != http.StatusConflict || env.Code != 40901 {
		t.Errorf("second confirm status = %d code = %d, want 409/40901", w.Code, env.Code)
	}
}

func TestExportImport_RoundTrip(t *testing.T) {
	svc := newTestService(t)
	r := newTestEngine(svc)
	do(r, http.MethodPost, "/transactions", "application/json",
		`{"description":"Paint job","amount":"300","type":"income","date":"2024-03-05"}`)

	w, _ := do(r, http.MethodGet, "/data/export", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("export status = %d", w.Code)
	}
	disposition := w.Header().Get("Content-Disposition")
	if !strings.Contains(disposition, "contabilidad-") || !strings.Contains(disposition, ".json") {
		t.Errorf("Content-Disposition = %q", disposition)
	}
	exported := w.Body.Bytes()

	other := newTestService(t)
	r2 := newTestEngine(other)
	w, _ = do(r2, http.MethodPost, "/data/import", "application/json", string(exported))
	if w.Code != http.StatusOK {
		t.Fatalf("import status = %d body = %s", w.Code, w.Body.String())
	}
	got := other.Snapshot().Transactions
	if len(got) != 1 || got[0].Description != "Paint job" {
		t.Errorf("imported transactions = %+v", got)
	}

	if w, _ := do(r2, http.MethodPost, "/data/import", "application/json", "[1,2"); w.Code != http.StatusBadRequest {
		t.Errorf("malformed import status = %d, want 400", w.Code)
	}
}

func TestExportCSV(t *testing.T) {
	svc := newTestService(t)
	r := newTestEngine(svc)
	do(r, http.MethodPost, "/transactions", "application/json",
		`{"description":"Paint job","amount":"300","type":"income","category":"1","date":"2024-03-05"}`)

	w, _ := do(r, http.MethodGet, "/export/transactions.csv", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	body := w.Body.Bytes()
	if !bytes.HasPrefix(body, []byte("\xEF\xBB\xBF")) {
		t.Error("csv export lacks UTF-8 BOM")
	}
	if !bytes.Contains(body, []byte("Paint job")) {
		t.Errorf("csv body = %q", body)
	}
}

// brokenWriter fails every body write, like a dropped client connection.
type brokenWriter struct {
	header http.Header
	status int
}

func (w *brokenWriter) Header() http.Header       { return w.header }
func (w *brokenWriter) WriteHeader(status int)    { w.status = status }
func (w *brokenWriter) Write([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestExportCSV_WriteErrorIsRecorded(t *testing.T) {
	svc := newTestService(t)
	if _, err := svc.AddTransaction(models.Transaction{
		Description: "Paint job", Amount: decimalOf(t, "300"), Type: models.TypeIncome, Date: models.MustDate("2024-03-05"),
	}); err != nil {
		t.Fatalf("AddTransaction error = %v", err)
	}

	gin.SetMode(gin.TestMode)
	r := gin.New()
	var recorded []*gin.Error
	r.Use(func(c *gin.Context) {
		c.Next()
		recorded = c.Errors
	})
	r.GET("/export/transactions.csv", NewImportExportHandler(svc).ExportCSV)

	w := &brokenWriter{header: http.Header{}}
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/export/transactions.csv", nil))
	if len(recorded) == 0 {
		t.Fatal("write failure was not recorded on the context")
	}
}

func TestTransactionsWorkbook(t *testing.T) {
	f, err := transactionsWorkbook([]string{"Date", "Description"}, [][]string{{"2024-03-05", "Paint job"}})
	if err != nil {
		t.Fatalf("transactionsWorkbook error = %v", err)
	}
	defer f.Close()
	v, err := f.GetCellValue("Transactions", "B2")
	if err != nil || v != "Paint job" {
		t.Errorf("B2 = %q, %v", v, err)
	}
}

func decimalOf(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("decimal %q: %v", s, err)
	}
	return d
}

func TestFieldUnmarshal(t *testing.T) {
	cases := map[string]string{
		`"12.5"`: "12.5",
		`12.5`:   "12.5",
		`null`:   "",
		`"  "`:   "  ",
	}
	for in, want := range cases {
		var f field
		if err := json.Unmarshal([]byte(in), &f); err != nil {
			t.Errorf("%s: error = %v", in, err)
			continue
		}
		if f.String() != want {
			t.Errorf("%s: got %q, want %q", in, f, want)
		}
	}
}
