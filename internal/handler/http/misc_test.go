package http

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestNotFoundRoute(t *testing.T) {
	env := newTestEnv()

	rec := env.do(t, http.MethodGet, "/api/nope", "", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	resp := decodeResp(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "Not Found - /api/nope", resp.Error.Message)
}

func TestGetPayPalClientID(t *testing.T) {
	env := newTestEnv()

	rec := env.do(t, http.MethodGet, "/api/config/paypal", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	data, ok := decodeResp(t, rec).Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "sb", data["clientId"])
}

func TestHealthEndpoints(t *testing.T) {
	env := newTestEnv()

	rec := env.do(t, http.MethodGet, "/health/live", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func (e *testEnv) doUpload(t *testing.T, token, filename, contentType string, content []byte) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	partHeader := textproto.MIMEHeader{}
	partHeader.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename="%s"`, filename))
	partHeader.Set("Content-Type", contentType)
	part, err := mw.CreatePart(partHeader)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func TestUploadImage_Success(t *testing.T) {
	env := newTestEnv()

	rec := env.doUpload(t, env.tokenFor(t, primitive.NewObjectID(), true), "photo.jpg", "image/jpeg", []byte("jpeg-bytes"))

	assert.Equal(t, http.StatusCreated, rec.Code)
	data, ok := decodeResp(t, rec).Data.(map[string]any)
	require.True(t, ok)
	url, ok := data["image"].(string)
	require.True(t, ok)
	assert.Contains(t, url, "/uploads/image-")
	assert.Contains(t, url, ".jpg")
}

func TestUploadImage_BadExtension(t *testing.T) {
	env := newTestEnv()

	rec := env.doUpload(t, env.tokenFor(t, primitive.NewObjectID(), true), "script.exe", "application/octet-stream", []byte("mz"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadImage_MissingFile(t *testing.T) {
	env := newTestEnv()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+env.tokenFor(t, primitive.NewObjectID(), true))
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadImage_AdminOnly(t *testing.T) {
	env := newTestEnv()

	rec := env.doUpload(t, env.tokenFor(t, primitive.NewObjectID(), false), "photo.jpg", "image/jpeg", []byte("jpeg"))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.doUpload(t, "", "photo.jpg", "image/jpeg", []byte("jpeg"))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
