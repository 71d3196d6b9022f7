package service

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tastr/internal/config"
	"tastr/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngFixture(t *testing.T, w, h int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	buf := bytes.NewBuffer(nil)
	require.NoError(t, png.Encode(buf, img))
	return buf.Bytes()
}

func testAvatarService(t *testing.T) (*AvatarService, *userRepoStub) {
	userRepo := noopUserRepo()
	cfg := &config.Config{
		AvatarUploadDir:       t.TempDir(),
		AvatarMaxUploadSizeMB: 1,
	}
	return NewAvatarService(userRepo, cfg), userRepo
}

func TestAvatarService_Upload(t *testing.T) {
	ctx := context.Background()

	t.Run("ProcessesAndStores", func(t *testing.T) {
		svc, userRepo := testAvatarService(t)
		var saved *models.User
		userRepo.updateFn = func(_ context.Context, u *models.User) error {
			saved = u
			return nil
		}

		url, err := svc.Upload(ctx, 1, pngFixture(t, 600, 400))
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(url, "/media/avatars/"))
		assert.True(t, strings.HasSuffix(url, ".webp"))

		require.NotNil(t, saved)
		assert.Equal(t, url, saved.Avatar)

		// The encoded file landed in the upload dir
		onDisk := filepath.Join(svc.UploadDir(), filepath.Base(url))
		info, err := os.Stat(onDisk)
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0))
	})

	t.Run("EmptyUpload", func(t *testing.T) {
		svc, _ := testAvatarService(t)
		_, err := svc.Upload(ctx, 1, nil)
		appErr, ok := err.(*models.AppError)
		require.True(t, ok)
		assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
	})

	t.Run("RejectsNonImage", func(t *testing.T) {
		svc, _ := testAvatarService(t)
		_, err := svc.Upload(ctx, 1, []byte("definitely not an image payload"))
		assert.Error(t, err)
	})

	t.Run("RejectsOversized", func(t *testing.T) {
		svc, _ := testAvatarService(t)
		big := make([]byte, 2*1024*1024)
		_, err := svc.Upload(ctx, 1, big)
		assert.Error(t, err)
	})
}
