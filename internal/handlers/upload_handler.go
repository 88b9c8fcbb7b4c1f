package handlers

import (
	"time"

	"github.com/hejmarcin29/panel-firma-sub007/internal/storage"

	"github.com/gin-gonic/gin"
)

// UploadHandler stores montage protocol files (photos, signature scans)
// in object storage.
type UploadHandler struct {
	store *storage.Store
}

func NewUploadHandler(store *storage.Store) *UploadHandler {
	return &UploadHandler{store: store}
}

type uploadedFile struct {
	Key      string `json:"key"`
	URL      string `json:"url"`
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
}

// POST /api/montages/:id/files
func (h *UploadHandler) Upload(c *gin.Context) {
	montageID, ok := parseID(c, "id")
	if !ok {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		BadRequest(c, "nie można odczytać przesłanych plików")
		return
	}

	files := form.File["files"]
	if len(files) == 0 {
		files = form.File["file"]
	}
	if len(files) == 0 {
		BadRequest(c, "nie przesłano żadnych plików")
		return
	}

	var uploaded []uploadedFile
	for _, fileHeader := range files {
		src, err := fileHeader.Open()
		if err != nil {
			HandleError(c, err)
			return
		}

		key, err := h.store.Upload(c.Request.Context(), montageID, fileHeader.Filename,
			src, fileHeader.Size, fileHeader.Header.Get("Content-Type"))
		src.Close()
		if err != nil {
			HandleError(c, err)
			return
		}

		url, err := h.store.PresignedURL(c.Request.Context(), key, 24*time.Hour)
		if err != nil {
			HandleError(c, err)
			return
		}

		uploaded = append(uploaded, uploadedFile{
			Key:      key,
			URL:      url,
			Filename: fileHeader.Filename,
			Size:     fileHeader.Size,
		})
	}

	Created(c, uploaded)
}
