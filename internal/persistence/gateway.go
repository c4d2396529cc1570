// Package persistence saves and restores the record store: always to the
// local key-value store, and optionally to a remote backend.
package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"bookkeeping/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

// Fixed keys of the local store, one per collection plus settings.
const (
	KeyTransactions = "transactions"
	KeyCategories   = "categories"
	KeyClients      = "clients"
	KeyQuotes       = "quotes"
	KeyEmployees    = "employees"
	KeyWorkHours    = "workHours"
	KeySettings     = "settings"
)

var Keys = []string{
	KeyTransactions,
	KeyCategories,
	KeyClients,
	KeyQuotes,
	KeyEmployees,
	KeyWorkHours,
	KeySettings,
}

// ErrRecordAbsent is returned by a RemoteBackend when the record does not exist.
var ErrRecordAbsent = errors.New("remote record absent")

// RemoteBackend stores the whole state as one record addressed by id.
type RemoteBackend interface {
	LoadOne(ctx context.Context, id uint) (*models.RemoteRecord, error)
	Upsert(ctx context.Context, rec *models.RemoteRecord) error
}

type Gateway struct {
	local    LocalStore
	remote   RemoteBackend
	recordID uint
	settings models.Settings
	log      *logrus.Logger
	now      func() time.Time

	inflight sync.WaitGroup
}

// NewGateway builds a gateway. remote may be nil for local-only operation;
// defaults is used whenever the settings value is missing.
func NewGateway(local LocalStore, remote RemoteBackend, recordID uint, defaults models.Settings, log *logrus.Logger) *Gateway {
	if recordID == 0 {
		recordID = 1
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Gateway{
		local:    local,
		remote:   remote,
		recordID: recordID,
		settings: defaults,
		log:      log,
		now:      time.Now,
	}
}

func (g *Gateway) RemoteEnabled() bool {
	return g.remote != nil
}

// Load restores the state. The remote record wins when it can be fetched;
// any remote failure falls back to the local store. Load never fails: every
// missing or malformed value is replaced by its default.
func (g *Gateway) Load(ctx context.Context) models.Snapshot {
	if g.remote != nil {
		rec, err := g.remote.LoadOne(ctx, g.recordID)
		if err == nil && rec != nil {
			g.log.WithField("record_id", g.recordID).Info("state loaded from remote backend")
			return g.decode(remoteFields(rec))
		}
		g.log.WithError(err).Debug("remote load unavailable, falling back to local store")
	}

	fields := make(map[string][]byte, len(Keys))
	for _, key := range Keys {
		if v, ok := g.local.Get(key); ok {
			fields[key] = v
		}
	}
	return g.decode(fields)
}

// Save writes every key locally and, when configured, pushes the full
// snapshot to the remote backend in the background. Errors are logged only.
func (g *Gateway) Save(snap models.Snapshot) {
	fields := g.encode(snap)
	for _, key := range Keys {
		if err := g.local.Set(key, fields[key]); err != nil {
			g.log.WithError(err).WithField("key", key).Warn("local save failed")
		}
	}

	if g.remote == nil {
		return
	}
	rec := &models.RemoteRecord{
		ID:           g.recordID,
		Transactions: datatypes.JSON(fields[KeyTransactions]),
		Categories:   datatypes.JSON(fields[KeyCategories]),
		Clients:      datatypes.JSON(fields[KeyClients]),
		Quotes:       datatypes.JSON(fields[KeyQuotes]),
		Employees:    datatypes.JSON(fields[KeyEmployees]),
		WorkHours:    datatypes.JSON(fields[KeyWorkHours]),
		Settings:     datatypes.JSON(fields[KeySettings]),
		UpdatedAt:    g.now().UTC(),
	}

	g.inflight.Add(1)
	go func() {
		defer g.inflight.Done()
		if err := g.remote.Upsert(context.Background(), rec); err != nil {
			g.log.WithError(err).Debug("remote upsert failed")
		}
	}()
}

// Flush waits for background remote writes started by Save.
func (g *Gateway) Flush() {
	g.inflight.Wait()
}

// Decode reads an exported document (all seven keys in one JSON object) with
// the same per-key defaults as Load. Only a document that is not a JSON
// object is an error.
func (g *Gateway) Decode(raw []byte) (models.Snapshot, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return models.Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	fields := make(map[string][]byte, len(Keys))
	for _, key := range Keys {
		if v, ok := doc[key]; ok {
			fields[key] = v
		}
	}
	return g.decode(fields), nil
}

func (g *Gateway) encode(snap models.Snapshot) map[string][]byte {
	values := map[string]interface{}{
		KeyTransactions: nonNil(snap.Transactions),
		KeyCategories:   nonNil(snap.Categories),
		KeyClients:      nonNil(snap.Clients),
		KeyQuotes:       nonNil(snap.Quotes),
		KeyEmployees:    nonNil(snap.Employees),
		KeyWorkHours:    nonNil(snap.WorkHours),
		KeySettings:     snap.Settings,
	}
	fields := make(map[string][]byte, len(values))
	for key, v := range values {
		b, err := json.Marshal(v)
		if err != nil {
			g.log.WithError(err).WithField("key", key).Error("encode failed")
			continue
		}
		fields[key] = b
	}
	return fields
}

func (g *Gateway) decode(fields map[string][]byte) models.Snapshot {
	snap := models.Snapshot{
		Transactions: decodeList[models.Transaction](g, KeyTransactions, fields),
		Categories:   decodeList[models.Category](g, KeyCategories, fields),
		Clients:      decodeList[models.Client](g, KeyClients, fields),
		Quotes:       decodeList[models.Quote](g, KeyQuotes, fields),
		Employees:    decodeList[models.Employee](g, KeyEmployees, fields),
		WorkHours:    decodeList[models.WorkHour](g, KeyWorkHours, fields),
		Settings:     g.settings,
	}
	if snap.Categories == nil {
		snap.Categories = models.DefaultCategories()
	}
	if raw, ok := fields[KeySettings]; ok && len(raw) > 0 && string(raw) != "null" {
		var s models.Settings
		if err := json.Unmarshal(raw, &s); err == nil {
			snap.Settings = s
		} else {
			g.log.WithError(err).WithField("key", KeySettings).Warn("stored value unreadable, using default")
		}
	}
	// Clone turns the remaining nil collections into empty ones
	return snap.Clone()
}

// decodeList returns nil when the value is absent, null or malformed so the
// caller can substitute the default for that key.
func decodeList[T any](g *Gateway, key string, fields map[string][]byte) []T {
	raw, ok := fields[key]
	if !ok || len(raw) == 0 {
		return nil
	}
	var out []T
	if err := json.Unmarshal(raw, &out); err != nil {
		g.log.WithError(err).WithField("key", key).Warn("stored value unreadable, using default")
		return nil
	}
	return out
}

func remoteFields(rec *models.RemoteRecord) map[string][]byte {
	fields := make(map[string][]byte, len(Keys))
	put := func(key string, v datatypes.JSON) {
		if len(v) > 0 {
			fields[key] = []byte(v)
		}
	}
	put(KeyTransactions, rec.Transactions)
	put(KeyCategories, rec.Categories)
	put(KeyClients, rec.Clients)
	put(KeyQuotes, rec.Quotes)
	put(KeyEmployees, rec.Employees)
	put(KeyWorkHours, rec.WorkHours)
	put(KeySettings, rec.Settings)
	return fields
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
