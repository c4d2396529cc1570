package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"bookkeeping/internal/models"
	"bookkeeping/internal/service"
	"bookkeeping/internal/store"
	"bookkeeping/internal/util"

	"github.com/gin-gonic/gin"
)

// field is a raw form value. JSON bodies may send it as a string or a
// number, so "120.50" and 120.50 bind the same way.
type field string

func (f *field) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*f = ""
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = field(s)
	default:
		*f = field(b)
	}
	return nil
}

func (f field) String() string { return string(f) }

// pathID reads the :id segment. It writes the 400 response itself.
func pathID(c *gin.Context) (models.ID, bool) {
	id, err := models.ParseID(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid id")
		return 0, false
	}
	return id, true
}

// backupID is like pathID for the uint keys of the backups table.
func backupID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid id")
		return 0, false
	}
	return uint(id), true
}

// optionalID parses a reference field where empty means none.
func optionalID(c *gin.Context, name string, raw field) (models.ID, bool) {
	id, err := models.ParseID(raw.String())
	if err != nil || id < 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid "+name)
		return 0, false
	}
	return id, true
}

func confirmation(c *gin.Context) service.Confirmation {
	ok, _ := strconv.ParseBool(c.Query("confirm"))
	return service.Confirmed(ok)
}

func badRequest(c *gin.Context, err error) {
	util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
}

// respondError maps service errors onto the envelope.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalid):
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
	case errors.Is(err, store.ErrNotFound), errors.Is(err, service.ErrBackupNotFound):
		util.Error(c, http.StatusNotFound, util.CodeNotFound, err.Error())
	case errors.Is(err, service.ErrNothingPending):
		util.Error(c, http.StatusConflict, util.CodeConflict, err.Error())
	default:
		_ = c.Error(err)
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "internal error")
	}
}

func deleteResponse(c *gin.Context, res service.DeleteResult) {
	util.Success(c, util.Response{
		"result":   res.Result,
		"removed":  res.Removed,
		"cascaded": res.Cascaded,
	})
}
