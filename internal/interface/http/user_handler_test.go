package handlers_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegisterLoginAccountScenario(t *testing.T) {
	app := newTestApp(t)

	w := app.doJSON(t, "POST", "/register", "",
		`{"email":"a@x.com","password":"pw1","name":"Alice"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = app.doJSON(t, "POST", "/login", "", `{"email":"a@x.com","password":"pw1"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var login struct {
		Token string `json:"token"`
	}
	env := decodeEnvelope(t, w)
	require.NoError(t, json.Unmarshal(env.Data, &login))

	claims, err := app.Tokens.Verify(login.Token)
	require.NoError(t, err)
	require.Equal(t, "a@x.com", claims.Email)

	w = app.doJSON(t, "GET", "/account", login.Token, "")
	require.Equal(t, http.StatusOK, w.Code)

	var account struct {
		Email   string  `json:"email"`
		Name    string  `json:"name"`
		Picture *string `json:"picture"`
	}
	env = decodeEnvelope(t, w)
	require.NoError(t, json.Unmarshal(env.Data, &account))
	require.Equal(t, "a@x.com", account.Email)
	require.Equal(t, "Alice", account.Name)
	require.Nil(t, account.Picture)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	app := newTestApp(t)

	w := app.doJSON(t, "POST", "/register", "",
		`{"email":"a@x.com","password":"pw1","name":"Alice"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	// the unique-constraint error is not classified, it surfaces generically
	w = app.doJSON(t, "POST", "/register", "",
		`{"email":"a@x.com","password":"pw2","name":"Other"}`)
	require.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestLoginUnknownEmail(t *testing.T) {
	app := newTestApp(t)

	w := app.doJSON(t, "POST", "/login", "", `{"email":"nobody@x.com","password":"pw1"}`)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestLoginWrongPassword(t *testing.T) {
	app := newTestApp(t)
	app.register(t, "a@x.com", "pw1", "Alice")

	w := app.doJSON(t, "POST", "/login", "", `{"email":"a@x.com","password":"wrong"}`)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAccountRequiresToken(t *testing.T) {
	app := newTestApp(t)

	w := app.doJSON(t, "GET", "/account", "", "")
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = app.doJSON(t, "GET", "/account", "garbage-token", "")
	require.Equal(t, http.StatusForbidden, w.Code)
}

func multipartBody(t *testing.T, fields map[string]string, pictureName string, pictureBytes []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if pictureName != "" {
		fw, err := w.CreateFormFile("picture", pictureName)
		require.NoError(t, err)
		_, err = fw.Write(pictureBytes)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func (a *testApp) updateAccount(t *testing.T, token string, fields map[string]string, pictureName string, pictureBytes []byte) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := multipartBody(t, fields, pictureName, pictureBytes)
	req := httptest.NewRequest(http.MethodPut, "/update-account", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	a.Router.ServeHTTP(w, req)
	return w
}

func TestUpdateAccountPreservesPicture(t *testing.T) {
	app := newTestApp(t)
	token := app.register(t, "a@x.com", "pw1", "Alice")

	// first update uploads a picture
	w := app.updateAccount(t, token, map[string]string{"name": "Alice B", "email": "a@x.com"}, "pic.png", []byte("png"))
	require.Equal(t, http.StatusOK, w.Code)

	w = app.doJSON(t, "GET", "/account", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	var account struct {
		Name    string  `json:"name"`
		Picture *string `json:"picture"`
	}
	env := decodeEnvelope(t, w)
	require.NoError(t, json.Unmarshal(env.Data, &account))
	require.Equal(t, "Alice B", account.Name)
	require.NotNil(t, account.Picture)
	first := *account.Picture

	// second update without a picture keeps the stored path
	w = app.updateAccount(t, token, map[string]string{"name": "Alice C", "email": "a@x.com"}, "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = app.doJSON(t, "GET", "/account", token, "")
	env = decodeEnvelope(t, w)
	require.NoError(t, json.Unmarshal(env.Data, &account))
	require.Equal(t, "Alice C", account.Name)
	require.NotNil(t, account.Picture)
	require.Equal(t, first, *account.Picture)

	// supplying a new picture replaces it
	w = app.updateAccount(t, token, map[string]string{"name": "Alice C", "email": "a@x.com"}, "new.jpg", []byte("jpg"))
	require.Equal(t, http.StatusOK, w.Code)

	w = app.doJSON(t, "GET", "/account", token, "")
	env = decodeEnvelope(t, w)
	require.NoError(t, json.Unmarshal(env.Data, &account))
	require.NotNil(t, account.Picture)
	require.NotEqual(t, first, *account.Picture)
}

func TestUpdateAccountMissingRow(t *testing.T) {
	app := newTestApp(t)

	// a token for a user that no longer exists in the store
	tok, _, err := app.Tokens.Issue("ghost-id", "ghost@x.com")
	require.NoError(t, err)

	w := app.updateAccount(t, tok, map[string]string{"name": "Ghost", "email": "ghost@x.com"}, "", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAccountMissingRow(t *testing.T) {
	app := newTestApp(t)

	tok, _, err := app.Tokens.Issue("ghost-id", "ghost@x.com")
	require.NoError(t, err)

	w := app.doJSON(t, "GET", "/account", tok, "")
	require.Equal(t, http.StatusNotFound, w.Code)
}
