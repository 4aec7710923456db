package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "image/gif"
	_ "image/png"

	"github.com/google/uuid"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"go-blog-api/internal/auth"
	"go-blog-api/internal/model"
	"go-blog-api/pkg/apierror"
)

const thumbnailMaxEdge = 320

var allowedImageMIMEs = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
	"image/bmp":  ".bmp",
}

type mediaStore interface {
	Create(ctx context.Context, m model.Media) error
	FindByID(ctx context.Context, id string) (model.Media, error)
	ListByOwner(ctx context.Context, ownerID string) ([]model.Media, error)
}

// MediaService stores uploaded images under mediaRoot and derives
// downscaled thumbnails on demand under thumbnailRoot.
type MediaService struct {
	media         mediaStore
	mediaRoot     string
	thumbnailRoot string
	maxUploadSize int64
}

func NewMediaService(media mediaStore, mediaRoot string, thumbnailRoot string, maxUploadSize int64) (*MediaService, error) {
	for _, dir := range []string{mediaRoot, thumbnailRoot} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create media directory %s: %w", dir, err)
		}
	}

	return &MediaService{
		media:         media,
		mediaRoot:     mediaRoot,
		thumbnailRoot: thumbnailRoot,
		maxUploadSize: maxUploadSize,
	}, nil
}

// Upload sniffs the content type from the first bytes, rejects non-image
// payloads, and writes the file under a uuid name so uploads can never
// collide or traverse paths.
func (s *MediaService) Upload(ctx context.Context, actor *auth.SessionClaims, filename string, r io.Reader) (model.Media, error) {
	head := make([]byte, 512)
	n, err := io.ReadFull(r, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return model.Media{}, fmt.Errorf("read upload: %w", err)
	}
	head = head[:n]

	mimeType := http.DetectContentType(head)
	ext, allowed := allowedImageMIMEs[mimeType]
	if !allowed {
		return model.Media{}, apierror.BadRequest("unsupported media type", mimeType)
	}

	id := uuid.NewString()
	path := filepath.Join(s.mediaRoot, id+ext)

	out, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return model.Media{}, fmt.Errorf("create media file: %w", err)
	}

	// Read one byte past the cap so an oversized upload is detectable.
	limited := io.LimitReader(io.MultiReader(bytes.NewReader(head), r), s.maxUploadSize+1)
	written, err := io.Copy(out, limited)
	closeErr := out.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(path)
		return model.Media{}, fmt.Errorf("write media file: %w", err)
	}
	if written > s.maxUploadSize {
		_ = os.Remove(path)
		return model.Media{}, apierror.New("PAYLOAD_TOO_LARGE", "upload exceeds the size limit", "", http.StatusRequestEntityTooLarge)
	}

	media := model.Media{
		ID:        id,
		OwnerID:   actor.UserID,
		Filename:  filepath.Base(strings.TrimSpace(filename)),
		Path:      path,
		MimeType:  mimeType,
		SizeBytes: written,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.media.Create(ctx, media); err != nil {
		_ = os.Remove(path)
		return model.Media{}, err
	}

	return media, nil
}

func (s *MediaService) Get(ctx context.Context, id string) (model.Media, error) {
	return s.media.FindByID(ctx, id)
}

func (s *MediaService) ListByOwner(ctx context.Context, ownerID string) ([]model.Media, error) {
	return s.media.ListByOwner(ctx, ownerID)
}

// ThumbnailPath returns the path of the media's thumbnail, generating it on
// first access. Thumbnails are always JPEG regardless of the source format.
func (s *MediaService) ThumbnailPath(ctx context.Context, id string) (string, error) {
	media, err := s.media.FindByID(ctx, id)
	if err != nil {
		return "", err
	}

	thumbPath := filepath.Join(s.thumbnailRoot, media.ID+".jpg")
	if _, err := os.Stat(thumbPath); err == nil {
		return thumbPath, nil
	}

	src, err := os.Open(media.Path)
	if err != nil {
		return "", fmt.Errorf("open media for thumbnail: %w", err)
	}
	defer src.Close()

	decoded, _, err := image.Decode(src)
	if err != nil {
		return "", fmt.Errorf("decode media %s: %w", media.ID, err)
	}

	bounds := decoded.Bounds()
	width, height := scaleToFit(bounds.Dx(), bounds.Dy(), thumbnailMaxEdge)

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), decoded, bounds, draw.Over, nil)

	out, err := os.Create(thumbPath)
	if err != nil {
		return "", fmt.Errorf("create thumbnail file: %w", err)
	}

	err = jpeg.Encode(out, dst, &jpeg.Options{Quality: 80})
	closeErr := out.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(thumbPath)
		return "", fmt.Errorf("encode thumbnail: %w", err)
	}

	return thumbPath, nil
}

// scaleToFit shrinks the dimensions so the longer edge equals maxEdge,
// preserving aspect ratio. Images already within bounds keep their size.
func scaleToFit(width int, height int, maxEdge int) (int, int) {
	if width <= maxEdge && height <= maxEdge {
		return width, height
	}

	if width >= height {
		scaled := height * maxEdge / width
		if scaled < 1 {
			scaled = 1
		}
		return maxEdge, scaled
	}

	scaled := width * maxEdge / height
	if scaled < 1 {
		scaled = 1
	}
	return scaled, maxEdge
}
