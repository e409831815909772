// Package router wires the HTTP/JSON API: request decoding and validation,
// dispatch to the service layer, and mapping of service errors onto HTTP
// statuses and normalized {message, kind} bodies.
package router

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	validator "github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/patric-chuzhbe/todolists/internal/auth"
	"github.com/patric-chuzhbe/todolists/internal/gzippedhttp"
	"github.com/patric-chuzhbe/todolists/internal/logger"
	"github.com/patric-chuzhbe/todolists/internal/models"
)

type todoService interface {
	Ping(ctx context.Context) error
	CurrentUser(ctx context.Context, userID string) (*models.UserProfile, error)
	ListAll(ctx context.Context, userID string) ([]models.List, error)
	CreateList(ctx context.Context, userID, name string) (*models.List, error)
	RenameList(ctx context.Context, userID, listID, name string) (*models.List, error)
	DeleteList(ctx context.Context, userID, listID string) error
	AddItem(ctx context.Context, userID, listID, title, detail string) (*models.Item, error)
	UpdateItem(ctx context.Context, userID, listID, itemID string, title, detail *string) (*models.Item, error)
	DeleteItem(ctx context.Context, userID, listID, itemID string) error
	Todos(ctx context.Context, userID string) ([]models.Todo, error)
	CreateTodo(ctx context.Context, userID, title, detail string) (*models.Todo, error)
	UpdateTodo(ctx context.Context, userID, todoID string, title, detail *string) (*models.Todo, error)
	DeleteTodo(ctx context.Context, userID, todoID string) error
}

type loginer interface {
	Login(ctx context.Context, username, password string) (string, error)
}

type authenticator interface {
	Authenticate(h http.Handler) http.Handler
}

// Router holds the HTTP handlers of the API.
type Router struct {
	service  todoService
	loginer  loginer
	validate *validator.Validate
}

// New assembles the chi mux with logging, gzip and authentication
// middleware around the API handlers.
func New(
	service todoService,
	theLoginer loginer,
	theAuthenticator authenticator,
) *chi.Mux {
	myRouter := &Router{
		service:  service,
		loginer:  theLoginer,
		validate: validator.New(),
	}

	router := chi.NewRouter()
	router.Use(
		logger.WithLoggingHTTPMiddleware,
		gzippedhttp.UngzipJSONAndTextHTMLRequest,
		gzippedhttp.GzipResponse,
	)

	router.Get(`/ping`, myRouter.GetPing)
	router.Post(`/api/auth/login`, myRouter.PostAuthLogin)

	router.Group(func(router chi.Router) {
		router.Use(theAuthenticator.Authenticate)

		router.Get(`/api/auth/current`, myRouter.GetAuthCurrent)

		router.Get(`/api/todos`, myRouter.GetTodos)
		router.Post(`/api/todos`, myRouter.PostTodos)
		router.Put(`/api/todos/{listID}`, myRouter.PutTodosList)
		router.Delete(`/api/todos/{listID}`, myRouter.DeleteTodosList)
		router.Post(`/api/todos/{listID}/items`, myRouter.PostTodosListItems)
		router.Put(`/api/todos/{listID}/items/{itemID}`, myRouter.PutTodosListItem)
		router.Delete(`/api/todos/{listID}/items/{itemID}`, myRouter.DeleteTodosListItem)

		router.Get(`/api/simple-todos`, myRouter.GetSimpleTodos)
		router.Post(`/api/simple-todos`, myRouter.PostSimpleTodos)
		router.Put(`/api/simple-todos/{todoID}`, myRouter.PutSimpleTodo)
		router.Delete(`/api/simple-todos/{todoID}`, myRouter.DeleteSimpleTodo)
	})

	return router
}

// GetPing reports storage health.
func (r *Router) GetPing(response http.ResponseWriter, request *http.Request) {
	if err := r.service.Ping(request.Context()); err != nil {
		logger.Log.Debugln("Error calling the `r.service.Ping()`: ", zap.Error(err))
		response.WriteHeader(http.StatusInternalServerError)
		return
	}
	response.WriteHeader(http.StatusOK)
}

// PostAuthLogin exchanges a username/password pair for a signed token.
func (r *Router) PostAuthLogin(response http.ResponseWriter, request *http.Request) {
	var requestBody models.LoginRequest
	if !r.decodeAndValidate(response, request, &requestBody) {
		return
	}

	token, err := r.loginer.Login(request.Context(), requestBody.Username, requestBody.Password)
	if err != nil {
		if errors.Is(err, models.ErrInvalidCredentials) {
			writeError(response, http.StatusUnauthorized, "invalid credentials", models.ErrorKindInvalidCredentials)
			return
		}
		r.internalError(response, err)
		return
	}

	writeJSON(response, http.StatusOK, models.LoginResponse{Token: token})
}

// GetAuthCurrent returns the authenticated user's profile, hash excluded.
func (r *Router) GetAuthCurrent(response http.ResponseWriter, request *http.Request) {
	userID, ok := auth.UserIDFromContext(request.Context())
	if !ok {
		writeError(response, http.StatusUnauthorized, "authentication required", models.ErrorKindUnauthenticated)
		return
	}

	profile, err := r.service.CurrentUser(request.Context(), userID)
	if err != nil {
		r.writeServiceError(response, err)
		return
	}

	writeJSON(response, http.StatusOK, profile)
}

// GetTodos returns every list of the authenticated user, items populated.
func (r *Router) GetTodos(response http.ResponseWriter, request *http.Request) {
	userID, ok := auth.UserIDFromContext(request.Context())
	if !ok {
		writeError(response, http.StatusUnauthorized, "authentication required", models.ErrorKindUnauthenticated)
		return
	}

	lists, err := r.service.ListAll(request.Context(), userID)
	if err != nil {
		r.writeServiceError(response, err)
		return
	}

	writeJSON(response, http.StatusOK, lists)
}

// PostTodos creates a new list.
func (r *Router) PostTodos(response http.ResponseWriter, request *http.Request) {
	userID, ok := auth.UserIDFromContext(request.Context())
	if !ok {
		writeError(response, http.StatusUnauthorized, "authentication required", models.ErrorKindUnauthenticated)
		return
	}

	var requestBody models.CreateListRequest
	if !r.decodeAndValidate(response, request, &requestBody) {
		return
	}

	list, err := r.service.CreateList(request.Context(), userID, requestBody.Name)
	if err != nil {
		r.writeServiceError(response, err)
		return
	}

	writeJSON(response, http.StatusOK, list)
}

// PutTodosList renames a list.
func (r *Router) PutTodosList(response http.ResponseWriter, request *http.Request) {
	userID, ok := auth.UserIDFromContext(request.Context())
	if !ok {
		writeError(response, http.StatusUnauthorized, "authentication required", models.ErrorKindUnauthenticated)
		return
	}

	var requestBody models.RenameListRequest
	if !r.decodeAndValidate(response, request, &requestBody) {
		return
	}

	list, err := r.service.RenameList(request.Context(), userID, chi.URLParam(request, "listID"), requestBody.Name)
	if err != nil {
		r.writeServiceError(response, err)
		return
	}

	writeJSON(response, http.StatusOK, list)
}

// DeleteTodosList deletes a list and cascades over its items.
func (r *Router) DeleteTodosList(response http.ResponseWriter, request *http.Request) {
	userID, ok := auth.UserIDFromContext(request.Context())
	if !ok {
		writeError(response, http.StatusUnauthorized, "authentication required", models.ErrorKindUnauthenticated)
		return
	}

	if err := r.service.DeleteList(request.Context(), userID, chi.URLParam(request, "listID")); err != nil {
		r.writeServiceError(response, err)
		return
	}

	writeJSON(response, http.StatusOK, models.MessageResponse{Message: "List removed"})
}

// PostTodosListItems adds an item to a list.
func (r *Router) PostTodosListItems(response http.ResponseWriter, request *http.Request) {
	userID, ok := auth.UserIDFromContext(request.Context())
	if !ok {
		writeError(response, http.StatusUnauthorized, "authentication required", models.ErrorKindUnauthenticated)
		return
	}

	var requestBody models.AddItemRequest
	if !r.decodeAndValidate(response, request, &requestBody) {
		return
	}

	item, err := r.service.AddItem(
		request.Context(),
		userID,
		chi.URLParam(request, "listID"),
		requestBody.Title,
		requestBody.Detail,
	)
	if err != nil {
		r.writeServiceError(response, err)
		return
	}

	writeJSON(response, http.StatusOK, item)
}

// PutTodosListItem edits an item's title and/or detail.
func (r *Router) PutTodosListItem(response http.ResponseWriter, request *http.Request) {
	userID, ok := auth.UserIDFromContext(request.Context())
	if !ok {
		writeError(response, http.StatusUnauthorized, "authentication required", models.ErrorKindUnauthenticated)
		return
	}

	var requestBody models.UpdateItemRequest
	if !r.decodeAndValidate(response, request, &requestBody) {
		return
	}

	item, err := r.service.UpdateItem(
		request.Context(),
		userID,
		chi.URLParam(request, "listID"),
		chi.URLParam(request, "itemID"),
		requestBody.Title,
		requestBody.Detail,
	)
	if err != nil {
		r.writeServiceError(response, err)
		return
	}

	writeJSON(response, http.StatusOK, item)
}

// DeleteTodosListItem removes an item from a list.
func (r *Router) DeleteTodosListItem(response http.ResponseWriter, request *http.Request) {
	userID, ok := auth.UserIDFromContext(request.Context())
	if !ok {
		writeError(response, http.StatusUnauthorized, "authentication required", models.ErrorKindUnauthenticated)
		return
	}

	err := r.service.DeleteItem(
		request.Context(),
		userID,
		chi.URLParam(request, "listID"),
		chi.URLParam(request, "itemID"),
	)
	if err != nil {
		r.writeServiceError(response, err)
		return
	}

	writeJSON(response, http.StatusOK, models.MessageResponse{Message: "Item removed"})
}

// GetSimpleTodos returns the flat todo collection of the authenticated user.
func (r *Router) GetSimpleTodos(response http.ResponseWriter, request *http.Request) {
	userID, ok := auth.UserIDFromContext(request.Context())
	if !ok {
		writeError(response, http.StatusUnauthorized, "authentication required", models.ErrorKindUnauthenticated)
		return
	}

	todos, err := r.service.Todos(request.Context(), userID)
	if err != nil {
		r.writeServiceError(response, err)
		return
	}

	writeJSON(response, http.StatusOK, todos)
}

// PostSimpleTodos creates a flat todo.
func (r *Router) PostSimpleTodos(response http.ResponseWriter, request *http.Request) {
	userID, ok := auth.UserIDFromContext(request.Context())
	if !ok {
		writeError(response, http.StatusUnauthorized, "authentication required", models.ErrorKindUnauthenticated)
		return
	}

	var requestBody models.CreateTodoRequest
	if !r.decodeAndValidate(response, request, &requestBody) {
		return
	}

	todo, err := r.service.CreateTodo(request.Context(), userID, requestBody.Title, requestBody.Detail)
	if err != nil {
		r.writeServiceError(response, err)
		return
	}

	writeJSON(response, http.StatusCreated, todo)
}

// PutSimpleTodo edits a flat todo.
func (r *Router) PutSimpleTodo(response http.ResponseWriter, request *http.Request) {
	userID, ok := auth.UserIDFromContext(request.Context())
	if !ok {
		writeError(response, http.StatusUnauthorized, "authentication required", models.ErrorKindUnauthenticated)
		return
	}

	var requestBody models.UpdateTodoRequest
	if !r.decodeAndValidate(response, request, &requestBody) {
		return
	}

	todo, err := r.service.UpdateTodo(
		request.Context(),
		userID,
		chi.URLParam(request, "todoID"),
		requestBody.Title,
		requestBody.Detail,
	)
	if err != nil {
		r.writeServiceError(response, err)
		return
	}

	writeJSON(response, http.StatusOK, todo)
}

// DeleteSimpleTodo removes a flat todo.
func (r *Router) DeleteSimpleTodo(response http.ResponseWriter, request *http.Request) {
	userID, ok := auth.UserIDFromContext(request.Context())
	if !ok {
		writeError(response, http.StatusUnauthorized, "authentication required", models.ErrorKindUnauthenticated)
		return
	}

	if err := r.service.DeleteTodo(request.Context(), userID, chi.URLParam(request, "todoID")); err != nil {
		r.writeServiceError(response, err)
		return
	}

	writeJSON(response, http.StatusOK, models.MessageResponse{Message: "Todo deleted successfully"})
}

// decodeAndValidate fills target from the request body and validates it,
// answering 422 with a validation error body on failure.
func (r *Router) decodeAndValidate(response http.ResponseWriter, request *http.Request, target any) bool {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		writeError(response, http.StatusUnprocessableEntity, "malformed request body", models.ErrorKindValidation)
		return false
	}

	if err := r.validate.Struct(target); err != nil {
		writeError(response, http.StatusUnprocessableEntity, err.Error(), models.ErrorKindValidation)
		return false
	}

	return true
}

// writeServiceError maps service errors onto the wire taxonomy. Forbidden
// keeps the source's 401 status; the kind field disambiguates.
func (r *Router) writeServiceError(response http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		writeError(response, http.StatusNotFound, "not found", models.ErrorKindNotFound)
	case errors.Is(err, models.ErrForbidden):
		writeError(response, http.StatusUnauthorized, "not authorized", models.ErrorKindForbidden)
	default:
		r.internalError(response, err)
	}
}

func (r *Router) internalError(response http.ResponseWriter, err error) {
	logger.Log.Debugln("Internal error while handling the request: ", zap.Error(err))
	writeError(response, http.StatusInternalServerError, "server error", models.ErrorKindInternal)
}

func writeJSON(response http.ResponseWriter, status int, payload any) {
	response.Header().Set("Content-Type", "application/json")
	response.WriteHeader(status)
	if err := json.NewEncoder(response).Encode(payload); err != nil {
		logger.Log.Debugln("Error encoding the response payload: ", zap.Error(err))
	}
}

func writeError(response http.ResponseWriter, status int, message, kind string) {
	writeJSON(response, status, models.ErrorResponse{Message: message, Kind: kind})
}
