package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"os"
	"path/filepath"

	"tastr/internal/cache"
	"tastr/internal/config"
	"tastr/internal/models"
	"tastr/internal/repository"

	"github.com/chai2010/webp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // Register WebP decoder
)

const (
	DefaultAvatarUploadDir       = "/tmp/tastr/uploads/avatars"
	DefaultAvatarMaxUploadSizeMB = 5
	AvatarSize                   = 256
	AvatarWebPQuality            = 80
)

// AvatarService processes profile avatar uploads: decode, center-crop to a
// square, downscale, encode as WebP and store the result on disk.
type AvatarService struct {
	userRepo           repository.UserRepository
	uploadDir          string
	maxUploadSizeBytes int64
}

// NewAvatarService returns a new AvatarService.
func NewAvatarService(userRepo repository.UserRepository, cfg *config.Config) *AvatarService {
	uploadDir := DefaultAvatarUploadDir
	maxUploadSizeMB := DefaultAvatarMaxUploadSizeMB

	if cfg != nil {
		if cfg.AvatarUploadDir != "" {
			uploadDir = cfg.AvatarUploadDir
		}
		if cfg.AvatarMaxUploadSizeMB > 0 {
			maxUploadSizeMB = cfg.AvatarMaxUploadSizeMB
		}
	}

	return &AvatarService{
		userRepo:           userRepo,
		uploadDir:          uploadDir,
		maxUploadSizeBytes: int64(maxUploadSizeMB) * 1024 * 1024,
	}
}

// Upload validates and processes an avatar image, stores it and updates the
// user's profile to point at the new file. Returns the serving URL.
func (s *AvatarService) Upload(ctx context.Context, userID uint, content []byte) (string, error) {
	if len(content) == 0 {
		return "", models.NewValidationError("No file uploaded")
	}
	if int64(len(content)) > s.maxUploadSizeBytes {
		return "", models.NewValidationError(fmt.Sprintf("File too large (max %dMB)", s.maxUploadSizeBytes/(1024*1024)))
	}

	detectedType := http.DetectContentType(content)
	switch detectedType {
	case "image/jpeg", "image/png", "image/gif", "image/webp":
	default:
		return "", models.NewValidationError("Invalid image type")
	}

	decoded, _, err := image.Decode(bytes.NewReader(content))
	if err != nil {
		return "", models.NewValidationError("Invalid image file")
	}

	avatar := resizeAvatar(cropSquare(decoded), AvatarSize)
	encoded, err := encodeAvatarWebP(avatar, AvatarWebPQuality)
	if err != nil {
		return "", models.NewInternalError(err)
	}

	sum := sha256.Sum256(encoded)
	filename := hex.EncodeToString(sum[:16]) + ".webp"
	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return "", models.NewInternalError(err)
	}
	if err := os.WriteFile(filepath.Join(s.uploadDir, filename), encoded, 0o644); err != nil {
		return "", models.NewInternalError(err)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	user.Avatar = "/media/avatars/" + filename
	if err := s.userRepo.Update(ctx, user); err != nil {
		return "", err
	}
	cache.InvalidateProfile(ctx, userID)

	return user.Avatar, nil
}

// UploadDir returns the directory avatars are served from.
func (s *AvatarService) UploadDir() string {
	return s.uploadDir
}

func cropSquare(src image.Image) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == h {
		return src
	}
	side := w
	if h < side {
		side = h
	}
	x := b.Min.X + (w-side)/2
	y := b.Min.Y + (h-side)/2

	dst := image.NewRGBA(image.Rect(0, 0, side, side))
	draw.Draw(dst, dst.Bounds(), src, image.Point{X: x, Y: y}, draw.Src)
	return dst
}

func resizeAvatar(src image.Image, size int) image.Image {
	b := src.Bounds()
	if b.Dx() <= size && b.Dy() <= size {
		return src
	}
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, b, xdraw.Over, nil)
	return dst
}

func encodeAvatarWebP(img image.Image, quality int) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := webp.Encode(buf, img, &webp.Options{Quality: float32(quality)}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
