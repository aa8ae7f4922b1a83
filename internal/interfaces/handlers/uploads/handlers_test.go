package uploads

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	uploadsvc "yardsale-board/internal/application/uploads"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSigner struct {
	err error
}

func (s stubSigner) PresignPut(ctx context.Context, path string, expiry time.Duration) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return "https://storage.test/" + path + "?X-Amz-Signature=abc", nil
}

func (s stubSigner) PublicURL(path string) string { return "https://cdn.test/" + path }

func newApp(signer uploadsvc.Signer) *fiber.App {
	h := &Handlers{Service: &uploadsvc.Service{Signer: signer}}
	app := fiber.New()
	app.Post("/upload-photo", h.UploadPhoto)
	return app
}

func post(t *testing.T, app *fiber.App, body string) (int, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest("POST", "/upload-photo", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	raw, _ := io.ReadAll(resp.Body)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return resp.StatusCode, out
}

func TestUploadPhoto_OK(t *testing.T) {
	code, out := post(t, newApp(stubSigner{}), `{"fileName":"table.png"}`)
	require.Equal(t, 200, code)
	path, _ := out["path"].(string)
	assert.Regexp(t, `^photos/\d+-[0-9a-f-]{36}\.png$`, path)
	assert.Equal(t, "https://cdn.test/"+path, out["publicUrl"])
	assert.Contains(t, out["uploadUrl"], path)
}

func TestUploadPhoto_RequiresImageFileName(t *testing.T) {
	app := newApp(stubSigner{})

	code, out := post(t, app, `{"fileName":""}`)
	assert.Equal(t, 400, code)
	assert.Equal(t, "Missing required field: fileName", out["error"])

	code, _ = post(t, app, `{"fileName":"notes.txt"}`)
	assert.Equal(t, 400, code)
}

func TestUploadPhoto_SignerFailure(t *testing.T) {
	code, out := post(t, newApp(stubSigner{err: errors.New("s3 down")}), `{"fileName":"a.jpg"}`)
	assert.Equal(t, 500, code)
	assert.Equal(t, "Failed to generate upload URL", out["error"])
}
