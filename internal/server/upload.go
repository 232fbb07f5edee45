package server

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"family-drop/internal/logging"
	"family-drop/internal/upload"
)

const (
	familyNameField = "familyName"
	filesField      = "files"

	uploadSuccessMessage = "files uploaded successfully"
)

// uploadResp is the JSON response returned after a successful upload.
type uploadResp struct {
	Status   string          `json:"status"`
	Message  string          `json:"message"`
	Uploaded []upload.Result `json:"uploaded"`
}

type errorResp struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResp{Status: "error", Message: msg})
}

// uploadHandler handles POST /upload. The body is a multipart form with a
// familyName field and any number of file parts named "files". Every file
// is stored in the family's folder at the provider and the response lists
// one shareable link per file, in upload order.
func (s *Server) uploadHandler(w http.ResponseWriter, r *http.Request) {
	provider := s.uploader.Provider()

	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if limit := s.cfg.Upload.MaxBytes; limit > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, limit)
	}

	if err := r.ParseMultipartForm(s.cfg.Upload.MaxMemory); err != nil {
		s.metrics.RecordUploadError(provider, "request")

		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "upload too large")
			return
		}
		logging.Warn("upload_bad_multipart", map[string]any{
			"rid":   logging.RequestIDFromContext(r.Context()),
			"error": err.Error(),
		})
		writeError(w, http.StatusBadRequest, "bad multipart body")
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	req := upload.Request{
		FamilyName: firstValue(r.MultipartForm, familyNameField),
		Files:      filesFromForm(r.MultipartForm.File[filesField]),
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.Upload.Timeout)
	defer cancel()

	results, stats, err := s.uploader.Upload(ctx, req)
	if err != nil {
		s.writeUploadError(w, provider, err)
		return
	}

	s.metrics.RecordUpload(provider, stats)
	writeJSON(w, http.StatusOK, uploadResp{
		Status:   "ok",
		Message:  uploadSuccessMessage,
		Uploaded: results,
	})
}

// writeUploadError maps upload errors to HTTP responses.
func (s *Server) writeUploadError(w http.ResponseWriter, provider string, err error) {
	var verr *upload.ValidationError
	if errors.As(err, &verr) {
		s.metrics.RecordUploadError(provider, "validation")
		writeError(w, http.StatusBadRequest, verr.Message)
		return
	}

	s.metrics.RecordUploadError(provider, "provider")
	writeError(w, http.StatusInternalServerError, err.Error())
}

func firstValue(form *multipart.Form, key string) string {
	if vs := form.Value[key]; len(vs) > 0 {
		return vs[0]
	}
	return ""
}

// filesFromForm adapts multipart file headers to upload files. Each part is
// opened lazily by the upload service.
func filesFromForm(headers []*multipart.FileHeader) []upload.File {
	files := make([]upload.File, 0, len(headers))
	for _, fh := range headers {
		files = append(files, upload.File{
			Name:        fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
			Open: func() (io.ReadCloser, error) {
				return fh.Open()
			},
		})
	}
	return files
}
