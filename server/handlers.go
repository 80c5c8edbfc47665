package server

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rudderlabs/rudder-go-kit/logger"
	"github.com/spf13/cast"

	"github.com/spektr-org/csvlens/chart"
	"github.com/spektr-org/csvlens/export"
	"github.com/spektr-org/csvlens/schema"
	"github.com/spektr-org/csvlens/session"
	"github.com/spektr-org/csvlens/translator"
)

type errorResponse struct {
	Error string `json:"error"`
}

type sessionResponse struct {
	ID       string               `json:"id"`
	FileName string               `json:"fileName"`
	Profile  *schema.TableProfile `json:"profile"`
}

type profileResponse struct {
	FileName   string               `json:"fileName"`
	Profile    *schema.TableProfile `json:"profile"`
	Report     string               `json:"report"`
	Labels     map[string]string    `json:"labels"`
	Translated bool                 `json:"translated"`
}

type translateRequest struct {
	Columns []string `json:"columns"`
	Target  string   `json:"target"`
}

type translateResponse struct {
	*translator.Result
	Status string `json:"status"`
}

type healthResponse struct {
	Status     string `json:"status"`
	Translator string `json:"translator"`
	Sessions   int    `json:"sessions"`
}

// ── Handlers ─────────────────────────────────────────────────────────────

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:     "UP",
		Translator: s.translator.Info(),
		Sessions:   s.store.Len(),
	})
}

func (s *Server) languages(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, translator.SupportedLanguages)
}

func (s *Server) upload(w http.ResponseWriter, r *http.Request) {
	tooLarge := fmt.Sprintf("upload exceeds %d bytes", s.maxUploadSize)
	if r.ContentLength > s.maxUploadSize {
		writeError(w, http.StatusRequestEntityTooLarge, tooLarge)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadSize)

	file, header, err := r.FormFile("file")
	if err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			writeError(w, http.StatusRequestEntityTooLarge, tooLarge)
			return
		}
		writeError(w, http.StatusBadRequest, "multipart field \"file\" is required")
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read upload")
		return
	}

	sess := s.store.Create()
	if err := sess.Load(header.Filename, data, s.analyzer, s.loadOptions...); err != nil {
		s.store.Delete(sess.ID)
		s.log.Warnn("upload rejected",
			logger.NewStringField("file", header.Filename),
			logger.NewErrorField(err),
		)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	profile, _ := sess.Profile()
	s.log.Infon("file loaded",
		logger.NewStringField("session", sess.ID),
		logger.NewStringField("file", header.Filename),
		logger.NewIntField("rows", int64(profile.RowCount)),
		logger.NewIntField("columns", int64(profile.ColumnCount)),
	)
	writeJSON(w, http.StatusCreated, sessionResponse{
		ID:       sess.ID,
		FileName: sess.FileName(),
		Profile:  profile,
	})
}

func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	if !s.store.Delete(chi.URLParam(r, "id")) {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) profile(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	p, err := sess.Profile()
	if err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profileResponse{
		FileName:   sess.FileName(),
		Profile:    p,
		Report:     schema.GenerateReport(p),
		Labels:     sess.Labels(),
		Translated: sess.Translation() != nil,
	})
}

func (s *Server) translate(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	var req translateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "can't unmarshal body")
		return
	}
	if len(req.Columns) == 0 {
		writeError(w, http.StatusBadRequest, "no columns selected")
		return
	}
	if req.Target == "" {
		req.Target = s.defaultLanguage
	}

	progress := func(done, total int) {
		if done == total {
			s.log.Debugn("translation finished",
				logger.NewStringField("session", sess.ID),
				logger.NewIntField("cells", int64(total)),
			)
		}
	}
	res, err := sess.Translate(r.Context(), s.translator, req.Columns, req.Target, progress)
	switch {
	case errors.Is(err, translator.ErrUnsupportedLanguage):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, translateResponse{Result: res, Status: s.translator.Info()})
}

func (s *Server) chart(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	req := chart.Request{
		Kind:    chart.Kind(chi.URLParam(r, "kind")),
		Column:  q.Get("column"),
		X:       q.Get("x"),
		Y:       q.Get("y"),
		Color:   q.Get("color"),
		GroupBy: q.Get("group"),
		Date:    q.Get("date"),
		Value:   q.Get("value"),
		TopN:    cast.ToInt(q.Get("top")),
	}

	res := sess.Chart(req)
	if !res.Ok() {
		writeJSON(w, http.StatusBadRequest, res)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) export(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	format, err := export.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	t, err := sess.Current()
	if err != nil {
		writeSessionError(w, err)
		return
	}
	p, _ := sess.Profile()

	var buf bytes.Buffer
	switch format {
	case export.FormatCSV:
		err = export.CSV(&buf, t)
	case export.FormatReport:
		err = export.Report(&buf, p)
	case export.FormatXLSX:
		err = export.XLSX(&buf, t, p, sess.Labels())
	case export.FormatSQLite:
		err = s.sqlite(r, &buf, sess)
	}
	if err != nil {
		s.log.Errorn("export failed",
			logger.NewStringField("session", sess.ID),
			logger.NewStringField("format", string(format)),
			logger.NewErrorField(err),
		)
		writeError(w, http.StatusInternalServerError, "export failed")
		return
	}

	w.Header().Set("Content-Type", export.ContentType(format))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName(format)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// sqlite builds the database in a temporary directory and copies it into buf.
func (s *Server) sqlite(r *http.Request, buf *bytes.Buffer, sess *session.Session) error {
	t, err := sess.Current()
	if err != nil {
		return err
	}
	p, _ := sess.Profile()

	dir, err := os.MkdirTemp("", "csvlens-export-")
	if err != nil {
		return err
	}
	defer func() { _ = os.RemoveAll(dir) }()

	path := filepath.Join(dir, export.FileName(export.FormatSQLite))
	if err := export.SQLite(r.Context(), path, t, p, export.SQLiteOptions{
		TableName:  strings.TrimSuffix(sess.FileName(), filepath.Ext(sess.FileName())),
		SourceName: sess.FileName(),
	}); err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	_, err = buf.Write(data)
	return err
}

// ── Helpers ──────────────────────────────────────────────────────────────

func (s *Server) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, ok := s.store.Get(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")
		return nil, false
	}
	return sess, true
}

func writeSessionError(w http.ResponseWriter, err error) {
	if errors.Is(err, session.ErrNoTable) {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeJSON encodes v before writing the header so that an encoding
// failure still yields a well-formed 500 reply.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	body, err := json.Marshal(v)
	if err != nil {
		status = http.StatusInternalServerError
		body, _ = json.Marshal(errorResponse{Error: "failed to encode response: " + err.Error()})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}
