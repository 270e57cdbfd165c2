package handlers

import (
	"io"
	"net/http"
)

// Attachment uploads are capped well below the media host's limit.
const maxUploadSize = 20 << 20 // 20MB

// uploadAttachment forwards a file to the media host and returns the
// durable URL for storing in an attachment column.
func (r *Router) uploadAttachment(w http.ResponseWriter, req *http.Request) {
	if !r.uploads.Configured() {
		respondError(w, http.StatusServiceUnavailable, "Media host credentials not configured")
		return
	}

	req.Body = http.MaxBytesReader(w, req.Body, maxUploadSize)
	if err := req.ParseMultipartForm(maxUploadSize); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid multipart payload")
		return
	}

	file, header, err := req.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Missing file field")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Failed to read file")
		return
	}

	url := r.uploads.Upload(data, header.Filename)
	if url == "" {
		respondError(w, http.StatusBadGateway, "Upload to media host failed")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]string{"url": url})
}
