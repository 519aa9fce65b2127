package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/stretchr/testify/require"

	"quotebuilder/quoting"
	"quotebuilder/testhelpers"
)

// newTestRequestEvent creates a RequestEvent suitable for handler tests.
func newTestRequestEvent(app *pocketbase.PocketBase, req *http.Request, rec *httptest.ResponseRecorder) *core.RequestEvent {
	e := &core.RequestEvent{}
	e.App = app
	e.Request = req
	e.Response = rec
	return e
}

// testEnv is an app with a loaded session on top of it.
type testEnv struct {
	t    *testing.T
	app  *pocketbase.PocketBase
	sess *quoting.Session
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	app := testhelpers.NewTestApp(t)
	return &testEnv{t: t, app: app, sess: testhelpers.NewTestSession(t, app)}
}

// call runs h against a request built from method, target and an optional
// JSON body. pathID, when set, becomes the {id} path value.
func (env *testEnv) call(h func(*core.RequestEvent) error, method, target, pathID string, body any) *httptest.ResponseRecorder {
	env.t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(env.t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, target, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if pathID != "" {
		req.SetPathValue("id", pathID)
	}
	rec := httptest.NewRecorder()
	require.NoError(env.t, h(newTestRequestEvent(env.app, req, rec)))
	return rec
}

// upload posts content as the multipart "file" field.
func (env *testEnv) upload(h func(*core.RequestEvent) error, target, fileName string, content []byte) *httptest.ResponseRecorder {
	env.t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", fileName)
	require.NoError(env.t, err)
	_, err = fw.Write(content)
	require.NoError(env.t, err)
	require.NoError(env.t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	require.NoError(env.t, h(newTestRequestEvent(env.app, req, rec)))
	return rec
}

// decodeBody unmarshals the JSON response into a value of type T.
func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), "body: %s", rec.Body.String())
	return v
}
