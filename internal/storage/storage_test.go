package storage

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"rhp-backend/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type createFileRequest struct {
	Message string `json:"message"`
	Content string `json:"content"`
	Branch  string `json:"branch"`
}

func newGitHubTestStore(t *testing.T, handler http.HandlerFunc) *GitHubStore {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	store, err := NewGitHubStore(config.GitHubConfig{
		Token:         "test-token",
		Owner:         "n3-n2-n1",
		Repo:          "rhp-backend",
		Branch:        "main",
		Path:          "public/images",
		APIURL:        srv.URL,
		PublicBaseURL: "https://raw.githubusercontent.com/n3-n2-n1/rhp-backend/main/public/images",
	}, srv.Client())
	require.NoError(t, err)
	return store
}

func TestGitHubStorePutCommitsFile(t *testing.T) {
	var (
		gotMethod string
		gotPath   string
		gotAuth   string
		gotBody   createFileRequest
	)
	store := newGitHubTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"content":{"name":"1-a.png"},"commit":{"sha":"abc"}}`)
	})

	err := store.Put(context.Background(), "1-a.png", []byte("png-bytes"), "image/png")
	require.NoError(t, err)

	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/repos/n3-n2-n1/rhp-backend/contents/public/images/1-a.png", gotPath)
	assert.Equal(t, "Bearer test-token", gotAuth)
	assert.Equal(t, "Add product image: 1-a.png", gotBody.Message)
	assert.Equal(t, "main", gotBody.Branch)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("png-bytes")), gotBody.Content)
}

func TestGitHubStorePutForwardsRemoteMessage(t *testing.T) {
	store := newGitHubTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = io.WriteString(w, `{"message":"Invalid request. sha wasn't supplied."}`)
	})

	err := store.Put(context.Background(), "1-a.png", []byte("x"), "image/png")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid request. sha wasn't supplied.")
}

func TestGitHubStoreURL(t *testing.T) {
	store := newGitHubTestStore(t, func(w http.ResponseWriter, r *http.Request) {})
	assert.Equal(t,
		"https://raw.githubusercontent.com/n3-n2-n1/rhp-backend/main/public/images/1700000000000-photo.png",
		store.URL("1700000000000-photo.png"))
}

func TestNewGitHubStoreRequiresRepo(t *testing.T) {
	_, err := NewGitHubStore(config.GitHubConfig{Owner: "n3-n2-n1"}, nil)
	assert.Error(t, err)
}

func TestS3StorePutObject(t *testing.T) {
	var (
		gotMethod string
		gotPath   string
		gotType   string
		gotBody   []byte
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	store, err := NewS3Store(context.Background(), config.S3Config{
		Bucket:   "images",
		Region:   "us-east-1",
		Key:      "key",
		Secret:   "secret",
		Endpoint: srv.URL,
	})
	require.NoError(t, err)

	require.NoError(t, store.Put(context.Background(), "1-a.webp", []byte("webp-bytes"), "image/webp"))
	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/images/1-a.webp", gotPath)
	assert.Equal(t, "image/webp", gotType)
	assert.Contains(t, string(gotBody), "webp-bytes")
	assert.Equal(t, "https://images.s3.us-east-1.amazonaws.com/1-a.webp", store.URL("1-a.webp"))
}

func TestNewS3StoreRequiresBucket(t *testing.T) {
	_, err := NewS3Store(context.Background(), config.S3Config{Region: "us-east-1"})
	assert.Error(t, err)
}

func TestLocalStorePutAndServe(t *testing.T) {
	root := t.TempDir()
	store, err := NewLocalStore(config.LocalConfig{Root: root, PublicBaseURL: "http://localhost:3000/images/"})
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.Put(ctx, "1-a.png", []byte("png"), "image/png"))

	data, err := os.ReadFile(filepath.Join(root, "1-a.png"))
	require.NoError(t, err)
	assert.Equal(t, "png", string(data))
	assert.Equal(t, "http://localhost:3000/images/1-a.png", store.URL("1-a.png"))

	// same name twice is rejected like on GitHub
	assert.Error(t, store.Put(ctx, "1-a.png", []byte("other"), "image/png"))

	rec := httptest.NewRecorder()
	store.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/1-a.png", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "png", rec.Body.String())
}

func TestNewSelectsStore(t *testing.T) {
	cfg := &config.Config{
		Images: config.ImagesConfig{Store: config.StoreLocal},
		Local:  config.LocalConfig{Root: t.TempDir()},
	}
	store, err := New(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &LocalStore{}, store)

	cfg.Images.Store = "ftp"
	_, err = New(context.Background(), cfg, zap.NewNop())
	assert.Error(t, err)
}
