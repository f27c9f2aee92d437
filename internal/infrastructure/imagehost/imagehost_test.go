package imagehost

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n0000")

func TestPresetUploader_Upload(t *testing.T) {
	tests := []struct {
		name         string
		img          Image
		expectedFile string
	}{
		{
			name:         "bytes sent as data uri",
			img:          Image{Name: "rex.png", Data: []byte("abc"), ContentType: "image/png"},
			expectedFile: "data:image/png;base64,YWJj",
		},
		{
			name:         "remote source sent as is",
			img:          Image{SourceURL: "https://photos.example/rex.jpg"},
			expectedFile: "https://photos.example/rex.jpg",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				var body map[string]string
				require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
				assert.Equal(t, "ml_default", body["upload_preset"])
				assert.Equal(t, tt.expectedFile, body["file"])

				_, _ = io.WriteString(w, `{"url":"http://cdn.example/rex.png","secure_url":"https://cdn.example/rex.png"}`)
			}))
			defer srv.Close()

			u := NewPresetUploader(srv.URL, "ml_default", time.Second, slog.Default())
			url, err := u.Upload(context.Background(), tt.img)
			require.NoError(t, err)
			assert.Equal(t, "http://cdn.example/rex.png", url)
		})
	}
}

func TestPresetUploader_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":{"message":"Upload preset not found"}}`)
	}))
	defer srv.Close()

	u := NewPresetUploader(srv.URL, "missing", time.Second, slog.Default())

	_, err := u.Upload(context.Background(), Image{Data: pngHeader})
	assert.ErrorIs(t, err, ErrUploadFailed)
	assert.Contains(t, err.Error(), "Upload preset not found")

	_, err = u.Upload(context.Background(), Image{})
	assert.ErrorIs(t, err, ErrEmptyImage)
}

type mockPutObject struct {
	mock.Mock
}

func (m *mockPutObject) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.PutObjectOutput), args.Error(1)
}

func TestS3Uploader_Upload(t *testing.T) {
	tests := []struct {
		name      string
		publicURL string
		expected  string
	}{
		{name: "aws url", expected: "https://pets.s3.eu-west-1.amazonaws.com/pets/abc.png"},
		{name: "public base", publicURL: "http://localhost:9000/pets/", expected: "http://localhost:9000/pets/pets/abc.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := new(mockPutObject)
			client.On("PutObject", mock.Anything, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
				return *in.Bucket == "pets" && *in.Key == "pets/abc.png" && *in.ContentType == "image/png"
			})).Return(&s3.PutObjectOutput{}, nil)

			u := newS3Uploader(client, "pets", "eu-west-1", tt.publicURL, "pets/", slog.Default())
			u.newKey = func() string { return "abc" }

			url, err := u.Upload(context.Background(), Image{Data: pngHeader})
			require.NoError(t, err)
			assert.Equal(t, tt.expected, url)
			client.AssertExpectations(t)
		})
	}
}

func TestS3Uploader_PutFails(t *testing.T) {
	client := new(mockPutObject)
	client.On("PutObject", mock.Anything, mock.Anything).Return(nil, errors.New("access denied"))

	u := newS3Uploader(client, "pets", "us-east-1", "", "", slog.Default())

	_, err := u.Upload(context.Background(), Image{Name: "rex.JPG", Data: []byte("x")})
	assert.ErrorIs(t, err, ErrUploadFailed)
	assert.Contains(t, err.Error(), "access denied")

	url, err := u.Upload(context.Background(), Image{SourceURL: "https://photos.example/rex.jpg"})
	require.NoError(t, err)
	assert.Equal(t, "https://photos.example/rex.jpg", url)
}

func TestNew_Drivers(t *testing.T) {
	ctx := context.Background()

	u, err := New(ctx, Config{Driver: DriverPreset, UploadURL: "https://api.example/upload", UploadPreset: "p"}, slog.Default())
	require.NoError(t, err)
	assert.IsType(t, &PresetUploader{}, u)

	u, err = New(ctx, Config{Driver: DriverPreset}, slog.Default())
	require.NoError(t, err)
	_, err = u.Upload(ctx, Image{Data: []byte("x")})
	assert.ErrorIs(t, err, ErrDisabled)

	u, err = New(ctx, Config{Driver: DriverS3, S3: S3Config{Bucket: "pets", AccessKeyID: "k", SecretAccessKey: "s"}}, slog.Default())
	require.NoError(t, err)
	assert.IsType(t, &S3Uploader{}, u)

	_, err = New(ctx, Config{Driver: DriverS3}, slog.Default())
	assert.Error(t, err)

	_, err = New(ctx, Config{Driver: "ftp"}, slog.Default())
	assert.Error(t, err)
}
