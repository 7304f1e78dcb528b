package api

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dgallion1/docreader/internal/converter"
	"github.com/dgallion1/docreader/internal/export"
	"github.com/dgallion1/docreader/internal/ingest"
)

// handleUpload starts reading a batch of files into the session. Reads finish
// in the background; the response only reports what was accepted.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	ws, ok := s.workspace(w, r)
	if !ok {
		return
	}

	maxBytes := s.cfg.Upload.MaxBytes
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes*int64(s.cfg.Upload.MaxFiles)+1024*1024) // extra 1MB for form overhead
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		jsonError(w, "at least one file is required", http.StatusBadRequest)
		return
	}
	if len(files) > s.cfg.Upload.MaxFiles {
		jsonError(w, fmt.Sprintf("too many files (max %d)", s.cfg.Upload.MaxFiles), http.StatusBadRequest)
		return
	}

	opts := s.cfg.ConverterOptions()
	var sources []ingest.Source
	var rejected []map[string]string
	for _, fh := range files {
		filename := sanitizeFilename(fh.Filename)
		if !converter.IsSupportedExtension(filename) {
			rejected = append(rejected, map[string]string{
				"filename": filename,
				"error":    fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)),
			})
			continue
		}

		f, err := fh.Open()
		if err != nil {
			rejected = append(rejected, map[string]string{"filename": filename, "error": "failed to open file"})
			continue
		}
		data, err := io.ReadAll(io.LimitReader(f, maxBytes+1))
		f.Close()
		if err != nil || int64(len(data)) > maxBytes {
			rejected = append(rejected, map[string]string{"filename": filename, "error": "file too large or read error"})
			continue
		}

		src, err := ingest.FileSource(filename, data, opts)
		if err != nil {
			rejected = append(rejected, map[string]string{"filename": filename, "error": err.Error()})
			continue
		}
		sources = append(sources, src)
	}

	if len(sources) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":    "no readable files",
			"rejected": rejected,
		})
		return
	}

	batch := ws.Ingest(r.Context(), sources)
	writeJSON(w, http.StatusAccepted, map[string]any{
		"batch_size": batch.Size(),
		"rejected":   rejected,
	})
}

// handleExport downloads a standalone HTML snapshot of one document, the
// active one unless ?index= is given.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	ws, ok := s.workspace(w, r)
	if !ok {
		return
	}

	var (
		out export.Export
		err error
	)
	if v := r.URL.Query().Get("index"); v != "" {
		index, convErr := strconv.Atoi(v)
		if convErr != nil {
			jsonError(w, "index must be an integer", http.StatusBadRequest)
			return
		}
		out, err = ws.Export(index)
	} else {
		out, err = ws.ExportActive()
	}
	if err != nil {
		sessionError(w, err)
		return
	}

	w.Header().Set("Content-Type", out.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": out.Filename}))
	w.Header().Set("Content-Length", strconv.Itoa(len(out.Body)))
	w.Write(out.Body)
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." || name == "/" {
		name = "unnamed"
	}
	return name
}
