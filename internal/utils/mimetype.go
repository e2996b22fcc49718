package utils

import (
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
)

// commonTypes covers extensions that the system mime table may not know.
var commonTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".bmp":  "image/bmp",
	".tiff": "image/tiff",
	".tif":  "image/tiff",
	".pdf":  "application/pdf",
	".txt":  "text/plain",
	".md":   "text/markdown",
	".srt":  "application/x-subrip",
	".vtt":  "text/vtt",
	".zip":  "application/zip",
	".mp4":  "video/mp4",
	".mov":  "video/quicktime",
	".mkv":  "video/x-matroska",
	".webm": "video/webm",
	".mp3":  "audio/mpeg",
	".wav":  "audio/wav",
	".flac": "audio/flac",
	".m4a":  "audio/mp4",
}

// DetectContentType detects the MIME type of a file from its extension,
// then from the first 512 bytes of reader.
func DetectContentType(filePath string, reader io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filePath))
	if contentType, ok := commonTypes[ext]; ok {
		return contentType, nil
	}
	if contentType := mime.TypeByExtension(ext); contentType != "" {
		return contentType, nil
	}

	if reader != nil {
		buffer := make([]byte, 512)
		n, err := io.ReadFull(reader, buffer)
		if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
			return "", err
		}
		if contentType := http.DetectContentType(buffer[:n]); contentType != "application/octet-stream" {
			return contentType, nil
		}
	}

	return "application/octet-stream", nil
}

// IsCompressibleImage reports whether uploads of this type can be re-encoded.
func IsCompressibleImage(contentType string) bool {
	switch contentType {
	case "image/jpeg", "image/png", "image/bmp", "image/tiff", "image/gif":
		return true
	}
	return false
}
