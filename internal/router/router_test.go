package router

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"bookkeeping/internal/config"
	"bookkeeping/internal/database"
	"bookkeeping/internal/models"
	"bookkeeping/internal/persistence"
	"bookkeeping/internal/service"
	"bookkeeping/internal/store"
	"bookkeeping/internal/util"

	"github.com/sirupsen/logrus"
)

func newDeps(t *testing.T, passphrase string) Deps {
	t.Helper()
	cfg := &config.Config{
		Server:   config.ServerConfig{Mode: "test"},
		Database: config.DatabaseConfig{Path: filepath.Join(t.TempDir(), "router.db")},
		App:      config.AppSubConfig{Currency: "USD"},
	}
	if passphrase != "" {
		hash, err := util.HashPassphrase(passphrase)
		if err != nil {
			t.Fatalf("HashPassphrase error = %v", err)
		}
		cfg.Security.PassphraseHash = hash
		cfg.Security.JWTSecret = "router-test-secret"
	}

	db, err := database.Init(cfg.Database)
	if err != nil {
		t.Fatalf("Init error = %v", err)
	}
	t.Cleanup(func() { database.Close(db) })
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate error = %v", err)
	}

	log := logrus.New()
	log.SetOutput(io.Discard)
	gw := persistence.NewGateway(persistence.NewKVStore(db), nil, 1, models.DefaultSettings("", "USD", time.Now()), log)
	svc := service.New(store.New(gw.Load(context.Background())), gw, service.Defaults{Currency: "USD"}, log)
	return Deps{Config: cfg, DB: db, Service: svc, Log: log}
}

func serve(h http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestRouter_OpenAccess(t *testing.T) {
	r := SetupRouter(newDeps(t, ""))

	for _, path := range []string{"/api/health", "/api/dashboard", "/api/categories", "/api/settings", "/api/reports/trend"} {
		if w := serve(r, http.MethodGet, path, "", ""); w.Code != http.StatusOK {
			t.Errorf("GET %s status = %d", path, w.Code)
		}
	}
	if w := serve(r, http.MethodPost, "/api/auth/login", "", `{"passphrase":"x"}`); w.Code != http.StatusNotFound {
		t.Errorf("login without passphrase configured status = %d, want 404", w.Code)
	}
	// backups are not routed without an encryption key
	if w := serve(r, http.MethodGet, "/api/backups", "", ""); w.Code != http.StatusNotFound {
		t.Errorf("GET /api/backups status = %d, want 404", w.Code)
	}
}

func TestRouter_LoginFlow(t *testing.T) {
	r := SetupRouter(newDeps(t, "correct horse"))

	if w := serve(r, http.MethodGet, "/api/dashboard", "", ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("dashboard without token status = %d, want 401", w.Code)
	}
	if w := serve(r, http.MethodPost, "/api/auth/login", "", `{"passphrase":"wrong"}`); w.Code != http.StatusUnauthorized {
		t.Errorf("wrong passphrase status = %d, want 401", w.Code)
	}

	w := serve(r, http.MethodPost, "/api/auth/login", "", `{"passphrase":"correct horse"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("login status = %d body = %s", w.Code, w.Body.String())
	}
	var env struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil || env.Data.Token == "" {
		t.Fatalf("login body = %s", w.Body.String())
	}

	if w := serve(r, http.MethodGet, "/api/dashboard", env.Data.Token, ""); w.Code != http.StatusOK {
		t.Errorf("dashboard with token status = %d", w.Code)
	}
}

func TestRouter_MutationsAreAudited(t *testing.T) {
	d := newDeps(t, "")
	r := SetupRouter(d)

	w := serve(r, http.MethodPost, "/api/clients", "", `{"name":"Acme","type":"business"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("create client status = %d body = %s", w.Code, w.Body.String())
	}

	var count int64
	if err := d.DB.Model(&models.AuditLog{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Errorf("audit rows = %d, want 1", count)
	}

	w = serve(r, http.MethodGet, "/api/logs", "", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "/api/clients") {
		t.Errorf("logs status = %d body = %s", w.Code, w.Body.String())
	}
}
