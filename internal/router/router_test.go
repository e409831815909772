package router

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/patric-chuzhbe/todolists/internal/auth"
	"github.com/patric-chuzhbe/todolists/internal/config"
	"github.com/patric-chuzhbe/todolists/internal/db/memorystorage"
	"github.com/patric-chuzhbe/todolists/internal/db/storage"
	"github.com/patric-chuzhbe/todolists/internal/logger"
	"github.com/patric-chuzhbe/todolists/internal/mockstorage"
	"github.com/patric-chuzhbe/todolists/internal/models"
	"github.com/patric-chuzhbe/todolists/internal/service"
	"github.com/patric-chuzhbe/todolists/internal/user"
)

type mockAuth struct{}

func (m *mockAuth) Authenticate(h http.Handler) http.Handler {
	return h
}

type initOption func(*initOptions)

type initOptions struct {
	mockAuth    bool
	mockStorage storage.Storage
}

func withMockStorage(db storage.Storage) initOption {
	return func(options *initOptions) {
		options.mockStorage = db
	}
}

func withMockAuth(value bool) initOption {
	return func(options *initOptions) {
		options.mockAuth = value
	}
}

func setupTestRouter(t *testing.T, optionsProto ...initOption) (*httptest.Server, storage.Storage, *chi.Mux) {
	options := &initOptions{}
	for _, protoOption := range optionsProto {
		protoOption(options)
	}

	cfg, err := config.New(config.WithDisableFlagsParsing(true))
	require.NoError(t, err)

	var db storage.Storage
	if options.mockStorage != nil {
		db = options.mockStorage
	} else {
		db, err = memorystorage.New()
		require.NoError(t, err)
	}

	authKey, err := base64.URLEncoding.DecodeString(cfg.TokenSigningSecretKey)
	require.NoError(t, err)

	theAuth := auth.New(db, authKey, cfg.TokenTTL)

	var authMiddleware authenticator
	if options.mockAuth {
		authMiddleware = &mockAuth{}
	} else {
		authMiddleware = theAuth
	}

	theRouter := New(service.New(db), theAuth, authMiddleware)

	err = logger.Init("debug")
	require.NoError(t, err)

	return httptest.NewServer(theRouter), db, theRouter
}

func createTestUser(t *testing.T, db storage.Storage, username, password string) string {
	usr := &user.User{Username: username}
	err := usr.SetPassword(password)
	require.NoError(t, err)

	userID, err := db.CreateUser(context.Background(), usr, nil)
	require.NoError(t, err)

	return userID
}

func loginTestUser(t *testing.T, serverURL, username, password string) string {
	var result models.LoginResponse
	resp, err := resty.New().R().
		SetBody(models.LoginRequest{Username: username, Password: password}).
		SetResult(&result).
		Post(serverURL + "/api/auth/login")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode())
	require.NotEmpty(t, result.Token)

	return result.Token
}

func gzipString(input string) ([]byte, error) {
	var buf bytes.Buffer
	gzipWriter := gzip.NewWriter(&buf)

	_, err := gzipWriter.Write([]byte(input))
	if err != nil {
		return nil, err
	}

	if err := gzipWriter.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func TestGetPing(t *testing.T) {
	server, _, _ := setupTestRouter(t)
	defer server.Close()

	resp, err := resty.New().R().Get(server.URL + "/ping")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode())
}

func TestPostAuthLogin(t *testing.T) {
	server, db, _ := setupTestRouter(t)
	defer server.Close()

	createTestUser(t, db, "alice", "s3cret")

	type tExpectedResponse struct {
		code int
		body *regexp.Regexp
	}
	testCases := []struct {
		name             string
		requestBody      string
		expectedResponse tExpectedResponse
	}{
		{
			name:        "positive",
			requestBody: `{"username":"alice","password":"s3cret"}`,
			expectedResponse: tExpectedResponse{
				http.StatusOK,
				regexp.MustCompile(`\{\s*"token"\s*:\s*"[\w-]+\.[\w-]+\.[\w-]+"\s*\}`),
			},
		},
		{
			name:        "wrong password",
			requestBody: `{"username":"alice","password":"nope"}`,
			expectedResponse: tExpectedResponse{
				http.StatusUnauthorized,
				regexp.MustCompile(`"kind"\s*:\s*"invalid_credentials"`),
			},
		},
		{
			name:        "unknown username",
			requestBody: `{"username":"mallory","password":"s3cret"}`,
			expectedResponse: tExpectedResponse{
				http.StatusUnauthorized,
				regexp.MustCompile(`"kind"\s*:\s*"invalid_credentials"`),
			},
		},
		{
			name:        "missing fields",
			requestBody: `{}`,
			expectedResponse: tExpectedResponse{
				http.StatusUnprocessableEntity,
				regexp.MustCompile(`"kind"\s*:\s*"validation"`),
			},
		},
		{
			name:        "malformed JSON",
			requestBody: `{"username":`,
			expectedResponse: tExpectedResponse{
				http.StatusUnprocessableEntity,
				nil,
			},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			resp, err := resty.New().R().
				SetHeader("Content-Type", "application/json").
				SetBody(testCase.requestBody).
				Post(server.URL + "/api/auth/login")
			assert.NoError(t, err, "error making HTTP request")

			assert.Equal(t, testCase.expectedResponse.code, resp.StatusCode(), "Response code didn't match expected value")

			if testCase.expectedResponse.body != nil {
				assert.NotNil(
					t,
					testCase.expectedResponse.body.FindIndex(resp.Body()),
					fmt.Sprintf(
						"The response body should match expected value (%s)",
						testCase.expectedResponse.body.String(),
					),
				)
			}
		})
	}
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	server, db, _ := setupTestRouter(t)
	defer server.Close()

	createTestUser(t, db, "alice", "s3cret")

	wrongPassword, err := resty.New().R().
		SetBody(models.LoginRequest{Username: "alice", Password: "nope"}).
		Post(server.URL + "/api/auth/login")
	require.NoError(t, err)

	unknownUser, err := resty.New().R().
		SetBody(models.LoginRequest{Username: "mallory", Password: "nope"}).
		Post(server.URL + "/api/auth/login")
	require.NoError(t, err)

	assert.Equal(t, wrongPassword.StatusCode(), unknownUser.StatusCode())
	assert.Equal(t, string(wrongPassword.Body()), string(unknownUser.Body()))
}

func TestPostAuthLoginForGzip(t *testing.T) {
	server, db, _ := setupTestRouter(t)
	defer server.Close()

	createTestUser(t, db, "alice", "s3cret")

	requestBody, err := gzipString(`{"username":"alice","password":"s3cret"}`)
	require.NoError(t, err)

	resp, err := resty.New().R().
		SetHeader("Content-Type", "application/json").
		SetHeader("Content-Encoding", "gzip").
		SetBody(requestBody).
		Post(server.URL + "/api/auth/login")
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode())
	assert.Regexp(t, `"token"\s*:\s*"[\w-]+\.[\w-]+\.[\w-]+"`, string(resp.Body()))
}

func TestGzippedErrorBodyStaysDecodable(t *testing.T) {
	server, _, _ := setupTestRouter(t)
	defer server.Close()

	// setting Accept-Encoding by hand disables the transport's transparent
	// decompression, so the wire bytes are visible to the assertions
	request, err := http.NewRequest(http.MethodGet, server.URL+"/api/todos", nil)
	require.NoError(t, err)
	request.Header.Set("Accept-Encoding", "gzip")

	response, err := http.DefaultClient.Do(request)
	require.NoError(t, err)
	defer response.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, response.StatusCode)
	require.Equal(t, "gzip", response.Header.Get("Content-Encoding"),
		"a compressed body must be announced so clients can decode it")

	zr, err := gzip.NewReader(response.Body)
	require.NoError(t, err)
	plain, err := io.ReadAll(zr)
	require.NoError(t, err)

	var body models.ErrorResponse
	require.NoError(t, json.Unmarshal(plain, &body))
	assert.Equal(t, models.ErrorKindUnauthenticated, body.Kind)
}

func TestGetAuthCurrent(t *testing.T) {
	server, db, _ := setupTestRouter(t)
	defer server.Close()

	userID := createTestUser(t, db, "alice", "s3cret")
	token := loginTestUser(t, server.URL, "alice", "s3cret")

	t.Run("with token", func(t *testing.T) {
		var profile models.UserProfile
		resp, err := resty.New().R().
			SetHeader("Authorization", "Bearer "+token).
			SetResult(&profile).
			Get(server.URL + "/api/auth/current")
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode())
		assert.Equal(t, userID, profile.ID)
		assert.Equal(t, "alice", profile.Username)
		assert.NotContains(t, string(resp.Body()), "password")
	})

	t.Run("without token", func(t *testing.T) {
		resp, err := resty.New().R().Get(server.URL + "/api/auth/current")
		require.NoError(t, err)

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode())
		assert.Contains(t, string(resp.Body()), models.ErrorKindUnauthenticated)
	})
}

func TestListAndItemLifecycle(t *testing.T) {
	server, db, _ := setupTestRouter(t)
	defer server.Close()

	createTestUser(t, db, "alice", "s3cret")
	token := loginTestUser(t, server.URL, "alice", "s3cret")

	client := resty.New().SetBaseURL(server.URL).SetAuthToken(token)

	// create two lists, creation order must be stable
	var groceries models.List
	resp, err := client.R().
		SetBody(models.CreateListRequest{Name: "groceries"}).
		SetResult(&groceries).
		Post("/api/todos")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode())
	require.NotEmpty(t, groceries.ID)
	assert.Equal(t, "groceries", groceries.Name)
	assert.Empty(t, groceries.Items)

	var chores models.List
	resp, err = client.R().
		SetBody(models.CreateListRequest{Name: "chores"}).
		SetResult(&chores).
		Post("/api/todos")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode())

	var lists []models.List
	resp, err = client.R().SetResult(&lists).Get("/api/todos")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode())
	require.Len(t, lists, 2)
	assert.Equal(t, "groceries", lists[0].Name)
	assert.Equal(t, "chores", lists[1].Name)

	// rename
	var renamed models.List
	resp, err = client.R().
		SetBody(models.RenameListRequest{Name: "groceries (market)"}).
		SetResult(&renamed).
		Put("/api/todos/" + groceries.ID)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode())
	assert.Equal(t, "groceries (market)", renamed.Name)
	assert.Equal(t, groceries.ID, renamed.ID)

	// add items
	var milk models.Item
	resp, err = client.R().
		SetBody(models.AddItemRequest{Title: "milk", Detail: "2 liters"}).
		SetResult(&milk).
		Post("/api/todos/" + groceries.ID + "/items")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode())
	require.NotEmpty(t, milk.ID)
	assert.Equal(t, groceries.ID, milk.ListID)
	assert.False(t, milk.DateAdded.IsZero())

	var bread models.Item
	resp, err = client.R().
		SetBody(models.AddItemRequest{Title: "bread"}).
		SetResult(&bread).
		Post("/api/todos/" + groceries.ID + "/items")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode())

	resp, err = client.R().SetResult(&lists).Get("/api/todos")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode())
	require.Len(t, lists[0].Items, 2)
	assert.Equal(t, "milk", lists[0].Items[0].Title)
	assert.Equal(t, "bread", lists[0].Items[1].Title)

	// edit title only: detail must stay
	var updated models.Item
	resp, err = client.R().
		SetBody(`{"title":"oat milk"}`).
		SetHeader("Content-Type", "application/json").
		SetResult(&updated).
		Put("/api/todos/" + groceries.ID + "/items/" + milk.ID)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode())
	assert.Equal(t, "oat milk", updated.Title)
	assert.Equal(t, "2 liters", updated.Detail)

	// explicitly empty detail clears it while the title stays
	resp, err = client.R().
		SetBody(`{"detail":""}`).
		SetHeader("Content-Type", "application/json").
		SetResult(&updated).
		Put("/api/todos/" + groceries.ID + "/items/" + milk.ID)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode())
	assert.Equal(t, "oat milk", updated.Title)
	assert.Equal(t, "", updated.Detail)

	// remove one item
	var message models.MessageResponse
	resp, err = client.R().
		SetResult(&message).
		Delete("/api/todos/" + groceries.ID + "/items/" + bread.ID)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode())
	assert.Equal(t, "Item removed", message.Message)

	resp, err = client.R().SetResult(&lists).Get("/api/todos")
	require.NoError(t, err)
	require.Len(t, lists[0].Items, 1)
	assert.Equal(t, "oat milk", lists[0].Items[0].Title)

	// delete the list: the cascade must take the remaining item with it
	resp, err = client.R().
		SetResult(&message).
		Delete("/api/todos/" + groceries.ID)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode())
	assert.Equal(t, "List removed", message.Message)

	_, found, err := db.GetItemByID(context.Background(), milk.ID, nil)
	require.NoError(t, err)
	assert.False(t, found, "Deleting a list must delete its items too")

	resp, err = client.R().SetResult(&lists).Get("/api/todos")
	require.NoError(t, err)
	require.Len(t, lists, 1)
	assert.Equal(t, "chores", lists[0].Name)
}

func TestOwnershipEnforcement(t *testing.T) {
	server, db, _ := setupTestRouter(t)
	defer server.Close()

	createTestUser(t, db, "alice", "s3cret")
	createTestUser(t, db, "bob", "hunter2")

	aliceToken := loginTestUser(t, server.URL, "alice", "s3cret")
	bobToken := loginTestUser(t, server.URL, "bob", "hunter2")

	alice := resty.New().SetBaseURL(server.URL).SetAuthToken(aliceToken)
	bob := resty.New().SetBaseURL(server.URL).SetAuthToken(bobToken)

	var aliceList models.List
	resp, err := alice.R().
		SetBody(models.CreateListRequest{Name: "private"}).
		SetResult(&aliceList).
		Post("/api/todos")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode())

	var aliceItem models.Item
	resp, err = alice.R().
		SetBody(models.AddItemRequest{Title: "secret plan"}).
		SetResult(&aliceItem).
		Post("/api/todos/" + aliceList.ID + "/items")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode())

	var bobList models.List
	resp, err = bob.R().
		SetBody(models.CreateListRequest{Name: "bob's own"}).
		SetResult(&bobList).
		Post("/api/todos")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode())

	t.Run("other user's lists are invisible in the index", func(t *testing.T) {
		var lists []models.List
		resp, err := bob.R().SetResult(&lists).Get("/api/todos")
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode())
		require.Len(t, lists, 1)
		assert.Equal(t, "bob's own", lists[0].Name)
	})

	forbiddenCases := []struct {
		name    string
		request func() (*resty.Response, error)
	}{
		{
			name: "rename foreign list",
			request: func() (*resty.Response, error) {
				return bob.R().
					SetBody(models.RenameListRequest{Name: "mine now"}).
					Put("/api/todos/" + aliceList.ID)
			},
		},
		{
			name: "delete foreign list",
			request: func() (*resty.Response, error) {
				return bob.R().Delete("/api/todos/" + aliceList.ID)
			},
		},
		{
			name: "add item to foreign list",
			request: func() (*resty.Response, error) {
				return bob.R().
					SetBody(models.AddItemRequest{Title: "graffiti"}).
					Post("/api/todos/" + aliceList.ID + "/items")
			},
		},
		{
			name: "edit item in foreign list",
			request: func() (*resty.Response, error) {
				return bob.R().
					SetBody(`{"title":"defaced"}`).
					SetHeader("Content-Type", "application/json").
					Put("/api/todos/" + aliceList.ID + "/items/" + aliceItem.ID)
			},
		},
		{
			name: "delete item in foreign list",
			request: func() (*resty.Response, error) {
				return bob.R().Delete("/api/todos/" + aliceList.ID + "/items/" + aliceItem.ID)
			},
		},
	}

	for _, tt := range forbiddenCases {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := tt.request()
			require.NoError(t, err)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode())
			assert.Contains(t, string(resp.Body()), models.ErrorKindForbidden)
			assert.NotContains(t, string(resp.Body()), "secret plan")
		})
	}

	t.Run("foreign item addressed through own list is not found", func(t *testing.T) {
		resp, err := bob.R().
			SetBody(`{"title":"stolen"}`).
			SetHeader("Content-Type", "application/json").
			Put("/api/todos/" + bobList.ID + "/items/" + aliceItem.ID)
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode())
	})

	t.Run("missing list is not found", func(t *testing.T) {
		resp, err := bob.R().
			SetBody(models.AddItemRequest{Title: "nowhere"}).
			Post("/api/todos/no-such-list/items")
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode())
		assert.Contains(t, string(resp.Body()), models.ErrorKindNotFound)
	})

	// Alice's data survived every attempt above.
	var lists []models.List
	resp, err = alice.R().SetResult(&lists).Get("/api/todos")
	require.NoError(t, err)
	require.Len(t, lists, 1)
	assert.Equal(t, "private", lists[0].Name)
	require.Len(t, lists[0].Items, 1)
	assert.Equal(t, "secret plan", lists[0].Items[0].Title)
}

func TestSimpleTodos(t *testing.T) {
	server, db, r := setupTestRouter(t, withMockAuth(true))
	defer server.Close()

	userID := createTestUser(t, db, "alice", "s3cret")
	otherUserID := createTestUser(t, db, "bob", "hunter2")

	asUser := func(request *http.Request, userID string) *http.Request {
		return request.WithContext(context.WithValue(request.Context(), auth.UserIDKey, userID))
	}

	var created models.Todo

	t.Run("create", func(t *testing.T) {
		request := httptest.NewRequest(
			http.MethodPost,
			"/api/simple-todos",
			strings.NewReader(`{"title":"call dentist","detail":"before friday"}`),
		)
		request.Header.Set("Content-Type", "application/json")
		recorder := httptest.NewRecorder()

		r.ServeHTTP(recorder, asUser(request, userID))

		require.Equal(t, http.StatusCreated, recorder.Code)
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&created))
		assert.NotEmpty(t, created.ID)
		assert.Equal(t, userID, created.UserID)
	})

	t.Run("list", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodGet, "/api/simple-todos", nil)
		recorder := httptest.NewRecorder()

		r.ServeHTTP(recorder, asUser(request, userID))

		require.Equal(t, http.StatusOK, recorder.Code)
		var todos []models.Todo
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&todos))
		require.Len(t, todos, 1)
		assert.Equal(t, "call dentist", todos[0].Title)
	})

	t.Run("other user sees an empty collection", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodGet, "/api/simple-todos", nil)
		recorder := httptest.NewRecorder()

		r.ServeHTTP(recorder, asUser(request, otherUserID))

		require.Equal(t, http.StatusOK, recorder.Code)
		var todos []models.Todo
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&todos))
		assert.Empty(t, todos)
	})

	t.Run("update title only keeps the detail", func(t *testing.T) {
		request := httptest.NewRequest(
			http.MethodPut,
			"/api/simple-todos/"+created.ID,
			strings.NewReader(`{"title":"cancel dentist"}`),
		)
		request.Header.Set("Content-Type", "application/json")
		recorder := httptest.NewRecorder()

		r.ServeHTTP(recorder, asUser(request, userID))

		require.Equal(t, http.StatusOK, recorder.Code)
		var todo models.Todo
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&todo))
		assert.Equal(t, "cancel dentist", todo.Title)
		assert.Equal(t, "before friday", todo.Detail)
	})

	t.Run("foreign todo is not found, not forbidden", func(t *testing.T) {
		request := httptest.NewRequest(
			http.MethodPut,
			"/api/simple-todos/"+created.ID,
			strings.NewReader(`{"title":"hijacked"}`),
		)
		request.Header.Set("Content-Type", "application/json")
		recorder := httptest.NewRecorder()

		r.ServeHTTP(recorder, asUser(request, otherUserID))

		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})

	t.Run("delete", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodDelete, "/api/simple-todos/"+created.ID, nil)
		recorder := httptest.NewRecorder()

		r.ServeHTTP(recorder, asUser(request, userID))

		require.Equal(t, http.StatusOK, recorder.Code)
		var message models.MessageResponse
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&message))
		assert.Equal(t, "Todo deleted successfully", message.Message)

		_, found, err := db.GetTodoByID(context.Background(), created.ID, nil)
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("unauthenticated request without user in context", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodGet, "/api/simple-todos", nil)
		recorder := httptest.NewRecorder()

		r.ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})
}

func TestValidationErrors(t *testing.T) {
	server, db, _ := setupTestRouter(t)
	defer server.Close()

	createTestUser(t, db, "alice", "s3cret")
	token := loginTestUser(t, server.URL, "alice", "s3cret")
	client := resty.New().SetBaseURL(server.URL).SetAuthToken(token)

	tests := []struct {
		name    string
		request func() (*resty.Response, error)
	}{
		{
			name: "list without name",
			request: func() (*resty.Response, error) {
				return client.R().
					SetBody(`{}`).
					SetHeader("Content-Type", "application/json").
					Post("/api/todos")
			},
		},
		{
			name: "item without title",
			request: func() (*resty.Response, error) {
				var list models.List
				_, err := client.R().
					SetBody(models.CreateListRequest{Name: "holder"}).
					SetResult(&list).
					Post("/api/todos")
				if err != nil {
					return nil, err
				}
				return client.R().
					SetBody(`{"detail":"no title"}`).
					SetHeader("Content-Type", "application/json").
					Post("/api/todos/" + list.ID + "/items")
			},
		},
		{
			name: "simple todo without title",
			request: func() (*resty.Response, error) {
				return client.R().
					SetBody(`{}`).
					SetHeader("Content-Type", "application/json").
					Post("/api/simple-todos")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := tt.request()
			require.NoError(t, err)
			assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode())
			assert.Contains(t, string(resp.Body()), models.ErrorKindValidation)
		})
	}
}

func TestInternalErrorFromStorage(t *testing.T) {
	db := new(mockstorage.StorageMock)
	server, _, r := setupTestRouter(t, withMockAuth(true), withMockStorage(db))
	defer server.Close()

	db.On("GetListsByUser", mock.Anything, "some-user").
		Return([]models.List(nil), errors.New("db error"))

	request := httptest.NewRequest(http.MethodGet, "/api/todos", nil)
	request = request.WithContext(context.WithValue(request.Context(), auth.UserIDKey, "some-user"))
	recorder := httptest.NewRecorder()

	r.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.Contains(t, recorder.Body.String(), models.ErrorKindInternal)
}
