package echo_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	app "github.com/mohammadpnp/account-import/internal/application/account"
	domain "github.com/mohammadpnp/account-import/internal/domain/account"
	httpecho "github.com/mohammadpnp/account-import/internal/interfaces/http/echo"
)

type fakeRunImport struct {
	out      app.RunImportOutput
	err      error
	busy     bool
	gotPath  string
	gotBytes []byte
}

func (f *fakeRunImport) Execute(ctx context.Context, in app.RunImportInput) (app.RunImportOutput, error) {
	f.gotPath = in.SourcePath
	if data, err := os.ReadFile(in.SourcePath); err == nil {
		f.gotBytes = data
	}
	return f.out, f.err
}

func (f *fakeRunImport) Busy() bool {
	return f.busy
}

func newImportServer(useCase app.RunImport) *echo.Echo {
	e := echo.New()
	httpecho.RegisterRoutes(e, httpecho.Routes{Import: httpecho.NewImportHandler(useCase, nil)})
	return e
}

func TestImportUsersHandlerSourcePath(t *testing.T) {
	t.Parallel()

	summary := domain.ImportSummary{ProcessedCount: 2, CreatedCount: 1, FailedCount: 1}
	useCase := &fakeRunImport{out: app.RunImportOutput{
		Summary: summary,
		Report:  domain.BuildReport([]string{"b@x.com"}, false),
	}}
	e := newImportServer(useCase)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/imports/users", strings.NewReader(`{"source_path":"users.csv"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if useCase.gotPath != "users.csv" {
		t.Fatalf("unexpected source path: %q", useCase.gotPath)
	}

	var got map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("unexpected json: %v", err)
	}
	data := got["data"].(map[string]any)
	if data["kind"] != string(domain.ReportFailures) {
		t.Fatalf("unexpected kind: %#v", data["kind"])
	}
	if data["title"] != domain.FailureReportTitle {
		t.Fatalf("unexpected title: %#v", data["title"])
	}
	if data["message"] != "b@x.com\n" {
		t.Fatalf("unexpected message: %#v", data["message"])
	}
	if data["created"] != float64(1) || data["failed"] != float64(1) {
		t.Fatalf("unexpected counts: %#v", data)
	}
}

func TestImportUsersHandlerMultipartUpload(t *testing.T) {
	t.Parallel()

	useCase := &fakeRunImport{out: app.RunImportOutput{Report: domain.BuildReport(nil, false)}}
	e := newImportServer(useCase)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "accounts.csv")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte("email,password\na@x.com,pw")); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/imports/users", &body)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if filepath.Base(useCase.gotPath) != "accounts.csv" {
		t.Fatalf("expected upload to keep its name, got %q", useCase.gotPath)
	}
	if string(useCase.gotBytes) != "email,password\na@x.com,pw" {
		t.Fatalf("unexpected upload contents: %q", useCase.gotBytes)
	}
	if _, err := os.Stat(useCase.gotPath); !os.IsNotExist(err) {
		t.Fatalf("expected upload to be removed, stat err: %v", err)
	}
}

func TestImportUsersHandlerErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "invalid source", err: app.ErrInvalidImportSource, want: http.StatusBadRequest},
		{name: "busy", err: app.ErrImportInProgress, want: http.StatusConflict},
		{name: "unreadable", err: app.ErrReadImportSource, want: http.StatusUnprocessableEntity},
		{name: "undecodable", err: app.ErrDecodeImportSource, want: http.StatusUnprocessableEntity},
		{name: "other", err: errors.New("boom"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			e := newImportServer(&fakeRunImport{err: tt.err})
			req := httptest.NewRequest(http.MethodPost, "/api/v1/imports/users", strings.NewReader(`{"source_path":"users.csv"}`))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			rec := httptest.NewRecorder()

			e.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, rec.Code)
			}
		})
	}
}

func TestImportStatusHandler(t *testing.T) {
	t.Parallel()

	e := newImportServer(&fakeRunImport{busy: true})
	req := httptest.NewRequest(http.MethodGet, "/api/v1/imports/status", nil)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"importing":true`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestImportRoutesDisabled(t *testing.T) {
	t.Parallel()

	e := echo.New()
	httpecho.RegisterRoutes(e, httpecho.Routes{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/imports/users", strings.NewReader(`{"source_path":"users.csv"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestImportUsersHandlerRejectsEscapingSourcePath(t *testing.T) {
	t.Parallel()

	for _, sourcePath := range []string{"/etc/users.csv", "../users.csv", "exports/../../users.csv"} {
		useCase := &fakeRunImport{}
		e := newImportServer(useCase)

		body, err := json.Marshal(map[string]string{"source_path": sourcePath})
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		req := httptest.NewRequest(http.MethodPost, "/api/v1/imports/users", bytes.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()

		e.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", sourcePath, rec.Code)
		}
		if useCase.gotPath != "" {
			t.Fatalf("%s: expected no import, got %q", sourcePath, useCase.gotPath)
		}
	}
}

func TestImportUsersHandlerUploadStagingFailure(t *testing.T) {
	t.Setenv("TMPDIR", filepath.Join(t.TempDir(), "missing"))

	useCase := &fakeRunImport{}
	e := newImportServer(useCase)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "accounts.csv")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte("email,password\na@x.com,pw")); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/imports/users", &body)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d: %s", rec.Code, rec.Body.String())
	}
	if useCase.gotPath != "" {
		t.Fatalf("expected no import, got %q", useCase.gotPath)
	}
}

func TestImportUsersHandlerMalformedBody(t *testing.T) {
	t.Parallel()

	e := newImportServer(&fakeRunImport{})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/imports/users", strings.NewReader(`{"source_path":`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
