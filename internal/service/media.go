package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	pdfmodel "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"kiruna/internal/model"
	"kiruna/internal/repository"
	"kiruna/internal/storage"
)

// sniffLen is how much of an upload is inspected to detect its type.
const sniffLen = 3072

// UploadInput describes a file received from a client.
type UploadInput struct {
	Reader   io.Reader
	Filename string
	// Size is the exact byte count, or -1 when unknown.
	Size  int64
	Owner string
}

// MediaLink is media metadata plus a short-lived download URL.
type MediaLink struct {
	model.Media
	DownloadURL string    `json:"downloadUrl"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// MediaContent is the stored file of a media item, open for reading.
type MediaContent struct {
	Body        io.ReadCloser
	Filename    string
	ContentType string
	// Size is the byte count, or -1 when the store does not report it.
	Size int64
}

// MediaService stores files in the object store and their metadata in the
// database.
type MediaService interface {
	// Upload detects the content type, counts PDF pages, uploads the content
	// and saves the metadata. The object is removed again when the metadata
	// cannot be saved.
	Upload(ctx context.Context, in UploadInput) (*model.Media, error)

	// Get returns the metadata with a presigned download URL.
	Get(ctx context.Context, id string) (*MediaLink, error)

	// Open streams the stored file through the API. The caller closes Body.
	Open(ctx context.Context, id string) (*MediaContent, error)
}

type mediaService struct {
	store      storage.Storage
	repo       repository.MediaRepository
	presignTTL time.Duration
	countPages func(io.ReadSeeker) (int, error)
	now        func() time.Time
}

// NewMediaService constructs a new MediaService.
func NewMediaService(store storage.Storage, repo repository.MediaRepository, presignTTL time.Duration) MediaService {
	return &mediaService{
		store:      store,
		repo:       repo,
		presignTTL: presignTTL,
		countPages: pdfPageCount,
		now:        time.Now,
	}
}

func (s *mediaService) Upload(ctx context.Context, in UploadInput) (*model.Media, error) {
	if in.Reader == nil {
		return nil, ErrReaderNil
	}
	if in.Size == 0 {
		return nil, ErrEmptyFile
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(in.Reader, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if n == 0 {
		return nil, ErrEmptyFile
	}
	head = head[:n]
	detected := mimetype.Detect(head)
	mediaType := model.MediaTypeOf(detected.String())

	body := io.MultiReader(bytes.NewReader(head), in.Reader)
	size := in.Size
	var pages *int
	if detected.Is("application/pdf") {
		// Page counting needs random access, so PDFs are buffered.
		buf, err := io.ReadAll(body)
		if err != nil {
			return nil, fmt.Errorf("read upload: %w", err)
		}
		if p, err := s.countPages(bytes.NewReader(buf)); err == nil {
			pages = &p
		}
		body, size = bytes.NewReader(buf), int64(len(buf))
	}

	id := uuid.NewString()
	filename := cleanFilename(in.Filename)
	key := storage.ObjectKey(folderOf(mediaType), id, filename)

	info, err := s.store.Put(ctx, key, body, storage.PutObjectOptions{
		Size:        size,
		ContentType: detected.String(),
		Metadata:    map[string]string{"original-filename": filename},
	})
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}
	if info.Size > 0 {
		size = info.Size
	}

	stored, err := s.repo.Create(ctx, &model.Media{
		ID:        id,
		Filename:  filename,
		URL:       key,
		MimeType:  detected.String(),
		Type:      mediaType,
		Size:      size,
		Pages:     pages,
		Owner:     in.Owner,
		CreatedAt: s.now().UTC(),
	})
	if err != nil {
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}
	return stored, nil
}

func (s *mediaService) Get(ctx context.Context, id string) (*MediaLink, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "media", id)
	}
	url, err := s.store.PresignGet(ctx, m.URL, s.presignTTL)
	if err != nil {
		return nil, fmt.Errorf("presign media %s: %w", id, err)
	}
	return &MediaLink{Media: *m, DownloadURL: url, ExpiresAt: s.now().Add(s.presignTTL).UTC()}, nil
}

func (s *mediaService) Open(ctx context.Context, id string) (*MediaContent, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "media", id)
	}
	body, info, err := s.store.Get(ctx, m.URL)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, fmt.Errorf("media %s content: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("open media %s: %w", id, err)
	}

	content := &MediaContent{Body: body, Filename: m.Filename, ContentType: info.ContentType, Size: info.Size}
	if content.ContentType == "" {
		content.ContentType = m.MimeType
	}
	if content.Size <= 0 {
		content.Size = -1
	}
	return content, nil
}

func folderOf(t model.MediaType) string {
	switch t {
	case model.MediaImage:
		return "images"
	case model.MediaDocument:
		return "documents"
	case model.MediaText:
		return "texts"
	default:
		return "files"
	}
}

// cleanFilename keeps the base name of a client supplied path.
func cleanFilename(name string) string {
	name = strings.ReplaceAll(name, `\`, "/")
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "upload"
	}
	return name
}

var pdfcpuOnce sync.Once

func pdfPageCount(rs io.ReadSeeker) (int, error) {
	pdfcpuOnce.Do(api.DisableConfigDir)
	conf := pdfmodel.NewDefaultConfiguration()
	conf.ValidationMode = pdfmodel.ValidationRelaxed
	return api.PageCount(rs, conf)
}
