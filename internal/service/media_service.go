package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"domemarket/internal/config"
	"domemarket/internal/models"
	"domemarket/internal/repository"

	"github.com/chai2010/webp"
	"github.com/google/uuid"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // Register WebP decoder
)

const (
	DefaultMediaUploadDir       = "/tmp/domemarket/uploads/media"
	DefaultMediaMaxUploadSizeMB = 10
	MediaMaxSize                = 1600
	JPEGQuality                 = 82
	WebPQuality                 = 70
)

type UploadMediaInput struct {
	UserID      uint
	PostID      uint
	Filename    string
	ContentType string
	Content     []byte
}

// MediaService stores post images on disk and records them against posts.
// Each upload is normalized to a bounded JPEG plus a WebP companion.
type MediaService struct {
	postRepo           repository.PostRepository
	uploadDir          string
	maxUploadSizeBytes int64
}

func NewMediaService(postRepo repository.PostRepository, cfg *config.Config) *MediaService {
	uploadDir := DefaultMediaUploadDir
	maxUploadSizeMB := DefaultMediaMaxUploadSizeMB

	if cfg != nil {
		if cfg.MediaUploadDir != "" {
			uploadDir = cfg.MediaUploadDir
		}
		if cfg.MediaMaxUploadSizeMB > 0 {
			maxUploadSizeMB = cfg.MediaMaxUploadSizeMB
		}
	}

	return &MediaService{
		postRepo:           postRepo,
		uploadDir:          uploadDir,
		maxUploadSizeBytes: int64(maxUploadSizeMB) * 1024 * 1024,
	}
}

// Upload validates, re-encodes and attaches an image to the caller's post.
func (s *MediaService) Upload(ctx context.Context, in UploadMediaInput) (*models.Media, error) {
	if in.UserID == 0 {
		return nil, models.NewValidationError("Invalid user")
	}
	if len(in.Content) == 0 {
		return nil, models.NewValidationError("No file uploaded")
	}
	if int64(len(in.Content)) > s.maxUploadSizeBytes {
		return nil, models.NewValidationError(fmt.Sprintf("File too large (max %dMB)", s.maxUploadSizeBytes/(1024*1024)))
	}

	post, err := s.postRepo.GetByID(ctx, in.PostID, in.UserID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != in.UserID {
		return nil, models.NewUnauthorizedError("You can only add media to your own posts")
	}

	detectedType := http.DetectContentType(in.Content)
	if !isAllowedImageMIME(detectedType) {
		return nil, models.NewValidationError("Invalid image type")
	}

	decoded, format, err := image.Decode(bytes.NewReader(in.Content))
	if err != nil {
		return nil, models.NewValidationError("Invalid image file")
	}
	if !isSupportedDecodedFormat(format) {
		return nil, models.NewValidationError("Unsupported image format")
	}

	normalized := resizeToFit(decoded, MediaMaxSize, MediaMaxSize)

	encodedJPG, err := encodeJPEG(normalized, JPEGQuality)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	encodedWebP, err := encodeWebP(normalized, WebPQuality)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	name := uuid.New().String()
	jpgRel := filepath.ToSlash(filepath.Join(fmt.Sprintf("%d", in.PostID), name+".jpg"))
	webpRel := filepath.ToSlash(filepath.Join(fmt.Sprintf("%d", in.PostID), name+".webp"))
	jpgAbs := filepath.Join(s.uploadDir, jpgRel)
	webpAbs := filepath.Join(s.uploadDir, webpRel)

	if err := writeBytesToFile(jpgAbs, encodedJPG); err != nil {
		return nil, models.NewInternalError(err)
	}
	if err := writeBytesToFile(webpAbs, encodedWebP); err != nil {
		_ = os.Remove(jpgAbs)
		return nil, models.NewInternalError(err)
	}

	media := &models.Media{
		PostID:    in.PostID,
		ImagePath: "/media/" + jpgRel,
	}
	if err := s.postRepo.AddMedia(ctx, media); err != nil {
		_ = os.Remove(jpgAbs)
		_ = os.Remove(webpAbs)
		return nil, err
	}
	return media, nil
}

// ResolveForServing maps a stored media path back to the file on disk,
// refusing anything that escapes the upload directory.
func (s *MediaService) ResolveForServing(rel string) (string, error) {
	rel = strings.TrimPrefix(rel, "/media/")
	clean := filepath.Clean("/" + rel)
	full := filepath.Join(s.uploadDir, clean)
	if !strings.HasPrefix(full, filepath.Clean(s.uploadDir)+string(os.PathSeparator)) {
		return "", models.NewValidationError("Invalid media path")
	}
	if _, err := os.Stat(full); err != nil {
		if os.IsNotExist(err) {
			return "", models.NewNotFoundError("Media", rel)
		}
		return "", models.NewInternalError(err)
	}
	return full, nil
}

func resizeToFit(src image.Image, maxWidth, maxHeight int) image.Image {
	bounds := src.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	if w <= 0 || h <= 0 {
		return src
	}
	if w <= maxWidth && h <= maxHeight {
		return src
	}

	scaleW := float64(maxWidth) / float64(w)
	scaleH := float64(maxHeight) / float64(h)
	scale := scaleW
	if scaleH < scale {
		scale = scaleH
	}
	newW := int(float64(w) * scale)
	newH := int(float64(h) * scale)
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, xdraw.Over, nil)
	return dst
}

func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeWebP(img image.Image, quality int) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := webp.Encode(buf, img, &webp.Options{Quality: float32(quality)}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func isAllowedImageMIME(contentType string) bool {
	switch normalizeContentType(contentType) {
	case "image/jpeg", "image/jpg", "image/png", "image/gif", "image/webp":
		return true
	default:
		return false
	}
}

func normalizeContentType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return strings.ToLower(strings.TrimSpace(mediaType))
}

func isSupportedDecodedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "jpeg", "jpg", "png", "gif", "webp":
		return true
	default:
		return false
	}
}

func writeBytesToFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
