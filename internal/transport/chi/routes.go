package chi

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

// InvalidParamFormatError reports a path parameter that could not be bound.
type InvalidParamFormatError struct {
	ParamName string
	Err       error
}

func (e *InvalidParamFormatError) Error() string {
	return fmt.Sprintf("Invalid format for parameter %s: %s", e.ParamName, e.Err.Error())
}

func (e *InvalidParamFormatError) Unwrap() error { return e.Err }

// Options configures Handler.
type Options struct {
	BaseRouter       chi.Router
	ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

// Handler mounts the API routes of s on opts.BaseRouter (a new router if nil).
func Handler(s *Server, opts Options) http.Handler {
	r := opts.BaseRouter
	if r == nil {
		r = chi.NewRouter()
	}
	errorHandler := opts.ErrorHandlerFunc
	if errorHandler == nil {
		errorHandler = func(w http.ResponseWriter, _ *http.Request, err error) {
			writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, err.Error())
		}
	}

	wrapper := &serverWrapper{handler: s, errorHandler: errorHandler}

	r.Post("/projects/{project}/collections", wrapper.CreateCollection)
	r.Post("/projects/{project}/collections/{collection}/fields", wrapper.AddFields)
	r.Get("/capability", s.GetCapability)
	r.Get("/health", s.HealthCheck)
	r.Get("/version", s.GetVersion)
	r.Get("/metrics", s.Metrics)

	return r
}

// serverWrapper binds path parameters before calling the typed handlers.
type serverWrapper struct {
	handler      *Server
	errorHandler func(w http.ResponseWriter, r *http.Request, err error)
}

// CreateCollection binds {project}.
func (sw *serverWrapper) CreateCollection(w http.ResponseWriter, r *http.Request) {
	project, ok := sw.bindPath(w, r, "project")
	if !ok {
		return
	}
	sw.handler.CreateCollection(w, r, project)
}

// AddFields binds {project} and {collection}.
func (sw *serverWrapper) AddFields(w http.ResponseWriter, r *http.Request) {
	project, ok := sw.bindPath(w, r, "project")
	if !ok {
		return
	}
	collection, ok := sw.bindPath(w, r, "collection")
	if !ok {
		return
	}
	sw.handler.AddFields(w, r, project, collection)
}

func (sw *serverWrapper) bindPath(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	var value string
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), &value,
		runtime.BindStyledParameterOptions{
			ParamLocation: runtime.ParamLocationPath,
			Explode:       false,
			Required:      true,
		})
	if err != nil {
		sw.errorHandler(w, r, &InvalidParamFormatError{ParamName: name, Err: err})
		return "", false
	}
	return value, true
}
