package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/csrf"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"ourApp/domain"
	"ourApp/errs"
)

// Server provides the http functionality of this app, namely routing,
// request handling, and middleware. It performs authentication and
// authorization before handing things over to one of the crud services.
type Server struct {
	router *mux.Router
	us     domain.UserService
	ps     domain.PostService
	fs     domain.FollowService
}

// NewServer returns a new instance of the server, registers all necessary
// routes and gives their handlers access to the services passed in.
func NewServer(
	isProd bool,
	csrfAuthKey string,
	us domain.UserService,
	ps domain.PostService,
	fs domain.FollowService,
) *Server {
	s := &Server{
		router: mux.NewRouter(),
		us:     us,
		ps:     ps,
		fs:     fs,
	}

	s.registerAuthRoutes(s.router)
	s.registerPostRoutes(s.router)
	s.registerFollowRoutes(s.router)
	s.registerProfileRoutes(s.router)

	// Middleware that runs on every request. A new CSRF token is issued
	// with the first response and checked on every mutating request.
	csrfMw := csrf.Protect([]byte(csrfAuthKey), csrf.Secure(isProd), csrf.Path("/"))
	s.router.Use(csrfMw, setContentTypeJSON, s.authUser)
	return s
}

// Run starts to listen and serve on the specified port.
func (s *Server) Run(port int) {
	log.Infof("listening on port %d", port)
	log.Fatal(http.ListenAndServe(":"+strconv.Itoa(port), s.router))
}

// The setContentTypeJSON middleware sets the content type to
// "application/json".
func setContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// codeStatus maps application error codes to http response status codes.
var codeStatus = map[string]int{
	errs.EINVALID:  http.StatusUnprocessableEntity,
	errs.ENOTFOUND: http.StatusNotFound,
	errs.ENOTOWNER: http.StatusForbidden,
	errs.EINTERNAL: http.StatusInternalServerError,
}

// errorResponse is the body of every failed request: a flat list of
// messages fit for flash-style display.
type errorResponse struct {
	Errors []string `json:"errors"`
}

// error writes an error response. Internal detail is logged here and never
// leaves the server; the user gets the generic retry message instead.
func (s *Server) error(w http.ResponseWriter, r *http.Request, err error) {
	code := errs.ErrorCode(err)
	if code == errs.EINTERNAL {
		log.WithError(err).Errorf("internal error on %s %s", r.Method, r.URL.Path)
	}
	status, ok := codeStatus[code]
	if !ok {
		status = http.StatusInternalServerError
	}
	s.respond(w, status, errorResponse{Errors: errs.ErrorMessages(err)})
}

// respond writes a status code and a JSON body.
func (s *Server) respond(w http.ResponseWriter, status int, v interface{}) {
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Error("err encoding response body")
	}
}
