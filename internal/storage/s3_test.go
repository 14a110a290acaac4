package storage

import (
	"context"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	appconfig "boardsite/internal/config"

	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T, cfg appconfig.StorageConfig) *S3Storage {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("AWS_CONFIG_FILE", filepath.Join(dir, "config"))
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", filepath.Join(dir, "credentials"))

	s, err := NewS3Storage(context.Background(), cfg)
	require.NoError(t, err)
	s.now = func() time.Time { return time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC) }
	return s
}

func TestPresignUpload(t *testing.T) {
	s := newTestStorage(t, appconfig.StorageConfig{
		Region:       "us-east-1",
		Bucket:       "attachments",
		Endpoint:     "http://127.0.0.1:9000",
		AccessKey:    "minioadmin",
		SecretKey:    "minioadmin",
		PresignTTL:   10 * time.Minute,
		UsePathStyle: true,
	})

	upload, err := s.PresignUpload(context.Background(), "Annual Report (2024).pdf", "application/pdf")
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(upload.Key, "posts/2024/03/"))
	require.True(t, strings.HasSuffix(upload.Key, "-Annual-Report--2024-.pdf"))
	require.Equal(t, 10*time.Minute, upload.ExpiresIn)
	require.Equal(t, "http://127.0.0.1:9000/attachments/"+upload.Key, upload.ObjectURL)

	u, err := url.Parse(upload.URL)
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:9000", u.Host)
	require.Equal(t, "/attachments/"+upload.Key, u.Path)
	require.NotEmpty(t, u.Query().Get("X-Amz-Signature"))
	require.Equal(t, "600", u.Query().Get("X-Amz-Expires"))
}

func TestPresignUpload_InvalidName(t *testing.T) {
	s := newTestStorage(t, appconfig.StorageConfig{
		Region:    "us-east-1",
		Bucket:    "attachments",
		AccessKey: "key",
		SecretKey: "secret",
	})

	_, err := s.PresignUpload(context.Background(), "../", "")
	require.ErrorIs(t, err, ErrInvalidFileName)
}

func TestObjectURL(t *testing.T) {
	tests := []struct {
		name string
		cfg  appconfig.StorageConfig
		want string
	}{
		{
			name: "public base url",
			cfg:  appconfig.StorageConfig{Region: "us-east-1", Bucket: "b", PublicBaseURL: "https://cdn.example.com/"},
			want: "https://cdn.example.com/posts/a.pdf",
		},
		{
			name: "aws virtual host",
			cfg:  appconfig.StorageConfig{Region: "ap-northeast-2", Bucket: "b"},
			want: "https://b.s3.ap-northeast-2.amazonaws.com/posts/a.pdf",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.cfg.AccessKey = "key"
			tt.cfg.SecretKey = "secret"
			s := newTestStorage(t, tt.cfg)
			require.Equal(t, tt.want, s.ObjectURL("posts/a.pdf"))
		})
	}
}

func TestSanitizeFileName(t *testing.T) {
	require.Equal(t, "photo.jpg", sanitizeFileName("C:\\Users\\kim\\photo.jpg"))
	require.Equal(t, "a-b.txt", sanitizeFileName("dir/a b.txt"))
	require.Equal(t, "", sanitizeFileName(".."))
}
