package utils

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"

	"github.com/disintegration/imaging"
	"github.com/sirupsen/logrus"
)

// ProgressCallback reports upload progress.
type ProgressCallback func(uploaded, total int64, percentage float64)

// AssetWriter is the storage side of an upload.
type AssetWriter interface {
	PutAsset(ctx context.Context, key string, body io.Reader, contentType string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// UploadOptions controls a single upload.
type UploadOptions struct {
	Overwrite bool
	// ContentType overrides detection when set.
	ContentType string
	// AutoDetect sniffs the content type when ContentType is empty.
	AutoDetect bool
	// Compress is one of high, fine, normal, low; empty keeps the original bytes.
	Compress string
}

// UploadResult describes what was sent.
type UploadResult struct {
	Key          string
	ContentType  string
	OriginalSize int64
	UploadedSize int64
	Compressed   bool
}

// ErrAssetExists is returned when the key is taken and overwrite is off.
var ErrAssetExists = errors.New("asset already exists")

type uploadError struct {
	operation string
	path      string
	err       error
}

func (e *uploadError) Error() string {
	return fmt.Sprintf("upload %s failed for %s: %v", e.operation, e.path, e.err)
}

func (e *uploadError) Unwrap() error {
	return e.err
}

type compressionLevel struct {
	quality int
	maxSide int
}

var compressionLevels = map[string]compressionLevel{
	"high":   {quality: 95},
	"fine":   {quality: 85, maxSide: 3840},
	"normal": {quality: 75, maxSide: 2560},
	"low":    {quality: 60, maxSide: 1920},
}

// ValidCompression reports whether level is empty or a known level name.
func ValidCompression(level string) bool {
	if level == "" {
		return true
	}
	_, ok := compressionLevels[level]
	return ok
}

// Uploader sends local files to the review bucket.
type Uploader struct {
	store AssetWriter
	// Wrap, when set, wraps the body before it is sent, e.g. with a ProgressReader.
	Wrap func(body io.Reader, size int64) io.Reader
}

func NewUploader(store AssetWriter) *Uploader {
	return &Uploader{store: store}
}

// Upload sends localPath to remoteKey.
func (u *Uploader) Upload(ctx context.Context, localPath, remoteKey string, opts UploadOptions, callback ProgressCallback) (UploadResult, error) {
	if !ValidCompression(opts.Compress) {
		return UploadResult{}, fmt.Errorf("invalid compression level: %s (use: high, fine, normal, low)", opts.Compress)
	}

	file, err := os.Open(localPath)
	if err != nil {
		return UploadResult{}, &uploadError{operation: "open file", path: localPath, err: err}
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return UploadResult{}, &uploadError{operation: "get file info", path: localPath, err: err}
	}

	if !opts.Overwrite {
		exists, err := u.store.Exists(ctx, remoteKey)
		if err != nil {
			return UploadResult{}, &uploadError{operation: "check remote file", path: remoteKey, err: err}
		}
		if exists {
			return UploadResult{}, &uploadError{operation: "check file conflict", path: remoteKey, err: ErrAssetExists}
		}
	}

	result := UploadResult{Key: remoteKey, OriginalSize: info.Size(), UploadedSize: info.Size()}
	result.ContentType = opts.ContentType
	if result.ContentType == "" && opts.AutoDetect {
		result.ContentType, _ = DetectContentType(localPath, file)
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return UploadResult{}, &uploadError{operation: "seek file", path: localPath, err: err}
	}

	var body io.Reader = file
	if opts.Compress != "" && IsCompressibleImage(contentTypeOrGuess(result.ContentType, localPath)) {
		data, err := compressImage(file, opts.Compress)
		if err != nil {
			return UploadResult{}, &uploadError{operation: "compress image", path: localPath, err: err}
		}
		body = bytes.NewReader(data)
		result.UploadedSize = int64(len(data))
		result.ContentType = "image/jpeg"
		result.Compressed = true
		logrus.Infof("Compressed %s from %d to %d bytes", localPath, result.OriginalSize, result.UploadedSize)
	}

	if callback != nil {
		body = &progressReader{reader: body, total: result.UploadedSize, callback: callback}
	}
	if u.Wrap != nil {
		body = u.Wrap(body, result.UploadedSize)
	}

	if err := u.store.PutAsset(ctx, remoteKey, body, result.ContentType); err != nil {
		return UploadResult{}, &uploadError{operation: "upload to R2", path: localPath, err: err}
	}

	logrus.Infof("Successfully uploaded %s to %s", localPath, remoteKey)
	return result, nil
}

func contentTypeOrGuess(contentType, path string) string {
	if contentType != "" {
		return contentType
	}
	guess, _ := DetectContentType(path, nil)
	return guess
}

// compressImage re-encodes an image as JPEG at the level's quality, shrinking
// it to the level's longest side. Transparent areas become white.
func compressImage(r io.Reader, level string) ([]byte, error) {
	lvl := compressionLevels[level]

	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	b := img.Bounds()
	if lvl.maxSide > 0 && (b.Dx() > lvl.maxSide || b.Dy() > lvl.maxSide) {
		img = imaging.Fit(img, lvl.maxSide, lvl.maxSide, imaging.Lanczos)
		b = img.Bounds()
	}
	flat := imaging.Overlay(imaging.New(b.Dx(), b.Dy(), color.White), img, image.Pt(0, 0), 1.0)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, flat, imaging.JPEG, imaging.JPEGQuality(lvl.quality)); err != nil {
		return nil, fmt.Errorf("failed to encode compressed image: %w", err)
	}
	return buf.Bytes(), nil
}

// progressReader reports every read to a callback.
type progressReader struct {
	reader   io.Reader
	total    int64
	read     int64
	callback ProgressCallback
}

func (pr *progressReader) Read(p []byte) (n int, err error) {
	n, err = pr.reader.Read(p)
	if n > 0 {
		pr.read += int64(n)
		percentage := 100.0
		if pr.total > 0 {
			percentage = float64(pr.read) / float64(pr.total) * 100
		}
		if percentage > 100 {
			percentage = 100
		}
		pr.callback(pr.read, pr.total, percentage)
	}
	return n, err
}
