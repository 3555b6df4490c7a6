package api

import (
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/warp/employee-directory/export"
)

// StoredExportDTO describes a document in the blob store.
type StoredExportDTO struct {
	Key         string            `json:"key"`
	DownloadURL string            `json:"download_url"`
	ContentType string            `json:"content_type"`
	SizeBytes   int64             `json:"size_bytes"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
}

// ListExports returns every stored export, oldest key first.
func (h *Handler) ListExports(w http.ResponseWriter, r *http.Request) {
	infos, err := export.Stored(r.Context(), h.blobs)
	if err != nil {
		h.log.Error().Err(err).Msg("list exports")
		HandleError(w, err)
		return
	}

	out := make([]StoredExportDTO, len(infos))
	for i, info := range infos {
		out[i] = StoredExportDTO{
			Key:         info.Key,
			DownloadURL: "/api/exports/" + strings.TrimPrefix(info.Key, export.KeyPrefix),
			ContentType: info.ContentType,
			SizeBytes:   info.Size,
			Metadata:    info.Metadata,
			CreatedAt:   info.LastModified,
		}
	}
	ok(w, "", out)
}

// DownloadExport streams one stored export. The path below /api/exports/ is
// relative to the exports prefix, as in download_url.
func (h *Handler) DownloadExport(w http.ResponseWriter, r *http.Request) {
	key := export.KeyPrefix + chi.URLParam(r, "*")

	info, body, err := h.blobs.Get(r.Context(), key)
	if err != nil {
		HandleError(w, err)
		return
	}
	defer body.Close()

	filename := key[strings.LastIndex(key, "/")+1:]
	w.Header().Set("Content-Type", info.ContentType)
	w.Header().Set("Content-Length", strconv.FormatInt(info.Size, 10))
	w.Header().Set("Content-Disposition", "attachment; filename=\""+filename+"\"")
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, body); err != nil {
		h.log.Warn().Err(err).Str("key", key).Msg("download interrupted")
	}
}
