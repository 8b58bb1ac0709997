package handler

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lerhino/rhino-be/service"
	"github.com/lerhino/rhino-be/types"
)

const defaultUploadMaxBytes = 10 << 20

// DriveAPI is the slice of the drive service the handler needs.
type DriveAPI interface {
	ListFiles(ctx context.Context) ([]types.DriveFile, error)
	UploadFile(ctx context.Context, r io.Reader, filename, mimeType string) (*types.DriveFile, error)
}

type DriveHandler struct {
	drive    DriveAPI
	maxBytes int64
}

// NewDriveHandler accepts a nil drive when credentials were missing at
// startup; the endpoints then answer 500 without touching the network.
func NewDriveHandler(drive DriveAPI, maxBytes int64) *DriveHandler {
	if maxBytes <= 0 {
		maxBytes = defaultUploadMaxBytes
	}
	return &DriveHandler{
		drive:    drive,
		maxBytes: maxBytes,
	}
}

func (h *DriveHandler) HandleListFiles(c *gin.Context) {
	if h.drive == nil {
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "Drive not configured"})
		return
	}

	files, err := h.drive.ListFiles(c.Request.Context())
	if err != nil {
		log.Printf("[drive] list failed: %v", err)
		if errors.Is(err, service.ErrFolderNotConfigured) {
			c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "Folder ID not configured"})
			return
		}
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, types.DriveListResponse{Files: files})
}

func (h *DriveHandler) HandleUpload(c *gin.Context) {
	if h.drive == nil {
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "Drive not configured"})
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "No file uploaded"})
		return
	}
	defer file.Close()

	if header.Size > h.maxBytes {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "File too large"})
		return
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	uploaded, err := h.drive.UploadFile(c.Request.Context(), file, header.Filename, mimeType)
	if err != nil {
		log.Printf("[drive] upload failed: %v", err)
		if errors.Is(err, service.ErrFolderNotConfigured) {
			c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "Folder ID not configured"})
			return
		}
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, types.DriveUploadResponse{File: *uploaded})
}
