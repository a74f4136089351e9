package model

import (
	"strings"
	"time"
)

// MediaType is the coarse kind of an uploaded file.
type MediaType string

const (
	MediaImage    MediaType = "image"
	MediaDocument MediaType = "document"
	MediaText     MediaType = "text"
	MediaUnknown  MediaType = "unknown"
)

var documentMimeTypes = []string{
	"application/pdf",
	"application/msword",
	"application/rtf",
	"application/vnd.openxmlformats-officedocument",
	"application/vnd.ms-",
	"application/vnd.oasis.opendocument",
}

// MediaTypeOf derives the coarse type from a MIME type. Parameters such as
// "; charset=utf-8" are ignored.
func MediaTypeOf(mimeType string) MediaType {
	mt := strings.ToLower(strings.TrimSpace(strings.SplitN(mimeType, ";", 2)[0]))
	switch {
	case strings.HasPrefix(mt, "image/"):
		return MediaImage
	case strings.HasPrefix(mt, "text/"):
		return MediaText
	}
	for _, prefix := range documentMimeTypes {
		if strings.HasPrefix(mt, prefix) {
			return MediaDocument
		}
	}
	return MediaUnknown
}

// Media is the local metadata of a file kept in the object store.
type Media struct {
	ID        string    `json:"id"`
	Filename  string    `json:"filename"`
	URL       string    `json:"url"`
	MimeType  string    `json:"mimetype"`
	Type      MediaType `json:"type"`
	Size      int64     `json:"size"`
	Pages     *int      `json:"pages,omitempty"`
	Owner     string    `json:"owner"`
	CreatedAt time.Time `json:"createdAt"`
}
