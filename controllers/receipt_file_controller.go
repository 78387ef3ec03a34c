package controllers

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"donation-portal/config"
	"donation-portal/utils"

	"github.com/gin-gonic/gin"
)

// ServeReceipt streams a previously rendered receipt PDF by filename.
// The filename allowlist (pdf suffix, no separators, no "..") is a hard
// security invariant: the caller is untrusted and must never be able to read
// outside the receipts directory.
//
// GET /receipts/:filename
func ServeReceipt(c *gin.Context) {
	filename := c.Param("filename")

	if !strings.HasSuffix(filename, ".pdf") ||
		strings.Contains(filename, "..") ||
		strings.ContainsAny(filename, `/\`) {
		utils.LogError("Rejected receipt filename: %q", filename)
		utils.BadRequest(c, "Invalid file request", nil)
		return
	}

	path := filepath.Join(config.App.ReceiptsDir, filename)
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		utils.LogError("Receipt file not found: %s", path)
		utils.NotFound(c, "Receipt not found")
		return
	}

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", filename))
	c.Header("Cache-Control", "public, max-age=3600")
	c.File(path)
}
