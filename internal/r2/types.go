package r2

import (
	"mime"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// Kind groups assets by how the workspace previews them.
type Kind string

const (
	KindImage    Kind = "image"
	KindVideo    Kind = "video"
	KindAudio    Kind = "audio"
	KindDocument Kind = "document"
	KindArchive  Kind = "archive"
	KindText     Kind = "text"
	KindOther    Kind = "other"
)

// Playable reports whether assets of this kind have a timeline.
func (k Kind) Playable() bool {
	return k == KindVideo || k == KindAudio
}

// Icon is a short label used in narrow listings.
func (k Kind) Icon() string {
	switch k {
	case KindImage:
		return "IMG"
	case KindVideo:
		return "VID"
	case KindAudio:
		return "AUD"
	case KindDocument:
		return "DOC"
	case KindArchive:
		return "ZIP"
	case KindText:
		return "TXT"
	default:
		return "---"
	}
}

// Asset is one object in the review bucket.
type Asset struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
	ContentType  string    `json:"content_type,omitempty"`
	Kind         Kind      `json:"kind"`
	ETag         string    `json:"etag,omitempty"`
}

// Name is the last path segment of the key.
func (a Asset) Name() string {
	return path.Base(a.Key)
}

// KindOf classifies an object by content type, falling back to the key's extension.
func KindOf(contentType, key string) Kind {
	if contentType == "" || contentType == "application/octet-stream" || contentType == "binary/octet-stream" {
		contentType = mime.TypeByExtension(strings.ToLower(path.Ext(key)))
	}
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}
	contentType = strings.TrimSpace(strings.ToLower(contentType))

	switch {
	case strings.HasPrefix(contentType, "image/"):
		return KindImage
	case strings.HasPrefix(contentType, "video/"):
		return KindVideo
	case strings.HasPrefix(contentType, "audio/"):
		return KindAudio
	case strings.HasPrefix(contentType, "text/"):
		return KindText
	}

	switch contentType {
	case "application/pdf", "application/msword", "application/rtf",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		"application/vnd.openxmlformats-officedocument.presentationml.presentation":
		return KindDocument
	case "application/zip", "application/gzip", "application/x-tar", "application/x-7z-compressed":
		return KindArchive
	case "application/json", "application/xml":
		return KindText
	}

	// Extensions the system mime table often lacks.
	switch strings.ToLower(path.Ext(key)) {
	case ".mp4", ".mov", ".mkv", ".webm", ".avi":
		return KindVideo
	case ".mp3", ".wav", ".flac", ".m4a":
		return KindAudio
	case ".zip", ".tar", ".gz", ".7z":
		return KindArchive
	case ".md", ".txt", ".srt", ".vtt":
		return KindText
	}
	return KindOther
}

func assetFromObject(obj types.Object) Asset {
	a := Asset{
		Key:  aws.ToString(obj.Key),
		Size: aws.ToInt64(obj.Size),
		ETag: strings.Trim(aws.ToString(obj.ETag), `"`),
	}
	if obj.LastModified != nil {
		a.LastModified = *obj.LastModified
	}
	a.Kind = KindOf("", a.Key)
	return a
}

func assetFromHead(key string, out *s3.HeadObjectOutput) Asset {
	a := Asset{
		Key:         key,
		Size:        aws.ToInt64(out.ContentLength),
		ContentType: aws.ToString(out.ContentType),
		ETag:        strings.Trim(aws.ToString(out.ETag), `"`),
	}
	if out.LastModified != nil {
		a.LastModified = *out.LastModified
	}
	a.Kind = KindOf(a.ContentType, key)
	return a
}
