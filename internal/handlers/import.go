package handlers

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	applog "przepisnik/internal/log"
)

// maxRecipeUploadSize bounds accepted recipe uploads at 10 MiB.
const maxRecipeUploadSize = 10 << 20

// importRecipe handles POST /api/recipes/import: a multipart upload whose
// "file" part carries a PDF or plain-text recipe. The extracted text feeds
// the same translation flow as a pasted recipe.
func importRecipe(w http.ResponseWriter, r *http.Request) {
	fileName, data, mime, err := readRecipeUpload(r)
	if err != nil {
		applog.Debug(r.Context(), "invalid recipe upload", "error", err)
		writeJSONError(w, http.StatusBadRequest, "invalid upload")
		return
	}
	if len(data) == 0 {
		writeJSONError(w, http.StatusBadRequest, "file is required")
		return
	}

	rawText, err := deriveTextFromUpload(data, mime)
	if err != nil {
		applog.Debug(r.Context(), "failed to extract recipe text", "error", err, "file", fileName)
		writeJSONError(w, http.StatusBadRequest, "unable to read recipe text from the uploaded file")
		return
	}
	if strings.TrimSpace(rawText) == "" {
		writeJSONError(w, http.StatusBadRequest, "the uploaded file contains no text")
		return
	}

	createRecipeFromRawInput(w, r, rawText)
}

func readRecipeUpload(r *http.Request) (string, []byte, string, error) {
	if err := r.ParseMultipartForm(maxRecipeUploadSize); err != nil {
		return "", nil, "", err
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return "", nil, "", nil
		}
		return "", nil, "", err
	}
	defer file.Close()

	if header.Size > maxRecipeUploadSize {
		return "", nil, "", errors.New("file too large")
	}

	buf := bytes.NewBuffer(make([]byte, 0, header.Size))
	if _, err := io.Copy(buf, file); err != nil {
		return "", nil, "", err
	}

	mime := header.Header.Get("Content-Type")
	if mime == "" {
		mime = mimeTypeFromName(header.Filename)
	}

	return header.Filename, buf.Bytes(), mime, nil
}

func deriveTextFromUpload(data []byte, mime string) (string, error) {
	lower := strings.ToLower(mime)
	switch {
	case strings.Contains(lower, "pdf"):
		return extractTextFromPDF(data)
	default:
		return string(data), nil
	}
}

func extractTextFromPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	var builder strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", err
		}
		builder.WriteString(text)
		builder.WriteString("\n")
	}
	return builder.String(), nil
}

func mimeTypeFromName(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".txt":
		return "text/plain"
	case ".pdf":
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}
