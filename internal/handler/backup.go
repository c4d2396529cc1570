package handler

import (
	"fmt"

	"bookkeeping/internal/models"
	"bookkeeping/internal/service"
	"bookkeeping/internal/util"

	"github.com/gin-gonic/gin"
)

// BackupHandler exposes the encrypted backups.
type BackupHandler struct {
	Backups *service.Backups
}

func NewBackupHandler(backups *service.Backups) *BackupHandler {
	return &BackupHandler{Backups: backups}
}

func backupResp(b models.Backup) gin.H {
	return gin.H{
		"id":         b.ID,
		"file_name":  b.FileName,
		"size":       b.Size,
		"trigger":    b.Trigger,
		"created_at": b.CreatedAt,
	}
}

// CreateBackup takes a manual backup of the current state.
func (h *BackupHandler) CreateBackup(c *gin.Context) {
	backup, err := h.Backups.Create(models.BackupManual)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, util.Response{"backup": backupResp(backup)})
}

func (h *BackupHandler) ListBackups(c *gin.Context) {
	list, err := h.Backups.List()
	if err != nil {
		respondError(c, err)
		return
	}
	items := make([]gin.H, 0, len(list))
	for _, b := range list {
		items = append(items, backupResp(b))
	}
	util.Success(c, util.Response{"items": items})
}

// DownloadBackup streams the encrypted file as stored.
func (h *BackupHandler) DownloadBackup(c *gin.Context) {
	id, ok := backupID(c)
	if !ok {
		return
	}
	backup, err := h.Backups.Get(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Type", "application/octet-stream")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", backup.FileName))
	c.File(backup.FilePath)
}

// RestoreBackup replaces all data with the backup's contents.
func (h *BackupHandler) RestoreBackup(c *gin.Context) {
	id, ok := backupID(c)
	if !ok {
		return
	}
	snap, err := h.Backups.Restore(id)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, util.Response{
		"message":      "restored",
		"transactions": len(snap.Transactions),
	})
}

func (h *BackupHandler) DeleteBackup(c *gin.Context) {
	id, ok := backupID(c)
	if !ok {
		return
	}
	if err := h.Backups.Delete(id); err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, util.Response{"message": "deleted"})
}
