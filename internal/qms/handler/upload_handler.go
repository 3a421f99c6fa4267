package handler

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/thanhnvm-alt/aatnqms-sub000/internal/imaging"
)

// UploadHandler image capture upload; every file passes through the
// normalizer before it is stored
type UploadHandler struct {
	normalizer *imaging.Normalizer
	uploadDir  string
}

func NewUploadHandler(normalizer *imaging.Normalizer, uploadDir string) *UploadHandler {
	if uploadDir == "" {
		uploadDir = "./uploads"
	}
	return &UploadHandler{normalizer: normalizer, uploadDir: uploadDir}
}

// UploadImages normalizes a whole multipart batch concurrently and
// stores the results; the batch either fully completes or fails
// POST /api/v1/qms/uploads (multipart, field "files")
func (h *UploadHandler) UploadImages(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		BadRequest(c, "invalid multipart form: "+err.Error())
		return
	}
	files := form.File["files"]
	if len(files) == 0 {
		BadRequest(c, "no files in request")
		return
	}

	batch := make([][]byte, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			BadRequest(c, "read upload failed: "+err.Error())
			return
		}
		raw, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			BadRequest(c, "read upload failed: "+err.Error())
			return
		}
		batch = append(batch, raw)
	}

	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		InternalError(c, "prepare upload dir failed: "+err.Error())
		return
	}

	normalized := h.normalizer.NormalizeBatch(batch)

	urls := make([]string, 0, len(normalized))
	for _, encoded := range normalized {
		name := fmt.Sprintf("%s.jpg", uuid.New().String()[:32])
		path := filepath.Join(h.uploadDir, name)
		if err := os.WriteFile(path, encoded, 0o644); err != nil {
			InternalError(c, "store upload failed: "+err.Error())
			return
		}
		urls = append(urls, "/uploads/"+name)
	}

	Created(c, gin.H{"urls": urls})
}
