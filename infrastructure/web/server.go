package web

import (
	"context"
	"html/template"
	"io"
	"log/slog"
	nethttp "net/http"
	"sync"

	appmashup "mashup/application/mashup"
	appnotif "mashup/application/notification"
	"mashup/domain/mashup"
	"mashup/domain/notification"
)

// Response bodies
const (
	MsgSuccess     = "Mashup created and emailed successfully!"
	msgErrorPrefix = "Error occurred: "
)

// Pipeline produces a mashup for a validated request
type Pipeline interface {
	Run(ctx context.Context, req *mashup.Request) (*appmashup.Result, error)
}

// Deliverer zips and emails a finished mashup
type Deliverer interface {
	Deliver(ctx context.Context, req appnotif.DeliverRequest) error
}

// Server is the form front end for the pipeline. Submissions are handled one
// at a time, because every run writes the same output and archive files.
type Server struct {
	mu          sync.Mutex
	pipeline    Pipeline
	deliverer   Deliverer
	outputFile  string
	archiveFile string
	tpl         *template.Template
}

// ServerOption is a functional option for configuring Server
type ServerOption func(*Server)

// WithOutputFiles sets the mashup and archive file names
func WithOutputFiles(outputFile, archiveFile string) ServerOption {
	return func(s *Server) {
		if outputFile != "" {
			s.outputFile = outputFile
		}
		if archiveFile != "" {
			s.archiveFile = archiveFile
		}
	}
}

// NewServer creates a new form server
func NewServer(pipeline Pipeline, deliverer Deliverer, opts ...ServerOption) *Server {
	s := &Server{
		pipeline:    pipeline,
		deliverer:   deliverer,
		outputFile:  "mashup.mp3",
		archiveFile: "mashup.zip",
		tpl:         template.Must(template.New("form").Parse(formTpl)),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Handler returns the routes of the service
func (s *Server) Handler() nethttp.Handler {
	mux := nethttp.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.Handle("/healthz", HealthHandler())
	return mux
}

func (s *Server) handleIndex(w nethttp.ResponseWriter, r *nethttp.Request) {
	if r.URL.Path != "/" {
		nethttp.NotFound(w, r)
		return
	}

	switch r.Method {
	case nethttp.MethodGet, nethttp.MethodHead:
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := s.tpl.Execute(w, nil); err != nil {
			slog.Error("failed to render form", "error", err)
		}
	case nethttp.MethodPost:
		s.handleSubmit(w, r)
	default:
		w.Header().Set("Allow", "GET, HEAD, POST")
		textResponse(w, nethttp.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleSubmit(w nethttp.ResponseWriter, r *nethttp.Request) {
	if err := r.ParseForm(); err != nil {
		textResponse(w, nethttp.StatusBadRequest, msgErrorPrefix+err.Error())
		return
	}

	singer := r.PostFormValue("singer")
	email := r.PostFormValue("email")

	number, duration, err := mashup.ValidateFormCounts(r.PostFormValue("number"), r.PostFormValue("duration"))
	if err != nil {
		textResponse(w, nethttp.StatusBadRequest, err.Error())
		return
	}
	if err := mashup.ValidateEmail(email); err != nil {
		textResponse(w, nethttp.StatusBadRequest, err.Error())
		return
	}

	req, err := mashup.NewRequest(singer, number, duration, s.outputFile, email)
	if err != nil {
		textResponse(w, nethttp.StatusBadRequest, err.Error())
		return
	}

	if err := s.produce(r.Context(), req); err != nil {
		textResponse(w, nethttp.StatusInternalServerError, msgErrorPrefix+err.Error())
		return
	}

	textResponse(w, nethttp.StatusOK, MsgSuccess)
}

// produce builds and delivers one mashup. The output and archive are not
// touched by another submission until delivery has finished.
func (s *Server) produce(ctx context.Context, req *mashup.Request) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.pipeline.Run(ctx, req)
	if err != nil {
		return err
	}

	return s.deliverer.Deliver(ctx, appnotif.DeliverRequest{
		To:          notification.Recipient{Address: req.Email},
		OutputPath:  result.OutputPath,
		ArchivePath: s.archiveFile,
		Performer:   req.Performer,
		ClipCount:   len(result.Merged),
		ClipSeconds: req.ClipSeconds,
	})
}

func textResponse(w nethttp.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

const formTpl = `<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>Mashup</title>
<style>
body{font-family:system-ui,sans-serif;max-width:420px;margin:40px auto;padding:0 16px}
label{display:block;margin-top:12px}
input{width:100%;padding:6px;box-sizing:border-box}
button{margin-top:16px;padding:8px 16px}
</style>
</head>
<body>
<h1>Mashup</h1>
<form method="post" action="/">
<label>Singer name <input name="singer" required></label>
<label>Number of videos (&gt;10) <input name="number" type="number" min="11" required></label>
<label>Duration of each clip in seconds (&gt;20) <input name="duration" type="number" min="21" required></label>
<label>Email <input name="email" type="email" required></label>
<button type="submit">Create mashup</button>
</form>
</body>
</html>
`
