package echo

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/labstack/echo/v4"
	app "github.com/mohammadpnp/account-import/internal/application/account"
	"go.uber.org/zap"
)

var (
	errBadImportRequest = errors.New("bad import request")
	errUnsafeSourcePath = errors.New("source path escapes the import directory")
	errStageUpload      = errors.New("failed to stage upload")
)

type ImportHandler struct {
	useCase app.RunImport
	logger  *zap.Logger
}

type importUsersRequest struct {
	SourcePath string `json:"source_path" form:"source_path"`
}

type importUsersResponse struct {
	Kind         string   `json:"kind"`
	Title        string   `json:"title,omitempty"`
	Message      string   `json:"message"`
	FailedEmails []string `json:"failed_emails"`
	Processed    int64    `json:"processed"`
	Created      int64    `json:"created"`
	Failed       int64    `json:"failed"`
	Skipped      int64    `json:"skipped"`
}

type importStatusResponse struct {
	Importing bool `json:"importing"`
}

func NewImportHandler(useCase app.RunImport, logger *zap.Logger) *ImportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImportHandler{useCase: useCase, logger: logger}
}

// ImportUsers runs an import from an uploaded multipart "file" or from a
// source_path on the server.
func (h *ImportHandler) ImportUsers(c echo.Context) error {
	sourcePath, cleanup, err := h.sourcePath(c)
	if err != nil {
		switch {
		case errors.Is(err, errUnsafeSourcePath):
			return writeError(c, http.StatusBadRequest, "invalid_source", "source_path must be relative to the import directory")
		case errors.Is(err, errStageUpload):
			h.logger.Error("stage upload failed", zap.Error(err))
			return writeError(c, http.StatusInternalServerError, "internal_error", "failed to store upload")
		default:
			return writeError(c, http.StatusBadRequest, "bad_request", "invalid request body")
		}
	}
	defer cleanup()

	out, err := h.useCase.Execute(c.Request().Context(), app.RunImportInput{SourcePath: sourcePath})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidImportSource):
			return writeError(c, http.StatusBadRequest, "invalid_source", "file must be a .csv, .xlsx or .xls file")
		case errors.Is(err, app.ErrImportInProgress):
			return writeError(c, http.StatusConflict, "import_in_progress", "an import is already running")
		case errors.Is(err, app.ErrReadImportSource), errors.Is(err, app.ErrDecodeImportSource):
			return writeError(c, http.StatusUnprocessableEntity, "unreadable_source", "file could not be read")
		default:
			h.logger.Error("import failed", zap.Error(err))
			return writeError(c, http.StatusInternalServerError, "internal_error", "failed to run import")
		}
	}

	failed := out.Report.FailedEmails
	if failed == nil {
		failed = []string{}
	}

	return c.JSON(http.StatusOK, apiResponse{Data: importUsersResponse{
		Kind:         string(out.Report.Kind),
		Title:        out.Report.Title,
		Message:      out.Report.Message,
		FailedEmails: failed,
		Processed:    out.Summary.ProcessedCount,
		Created:      out.Summary.CreatedCount,
		Failed:       out.Summary.FailedCount,
		Skipped:      out.Summary.SkippedCount,
	}})
}

func (h *ImportHandler) ImportStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, apiResponse{Data: importStatusResponse{Importing: h.useCase.Busy()}})
}

func (h *ImportHandler) sourcePath(c echo.Context) (string, func(), error) {
	noop := func() {}

	header, err := c.FormFile("file")
	if err == nil {
		return saveUpload(header.Filename, func() (io.ReadCloser, error) { return header.Open() })
	}

	var req importUsersRequest
	if err := c.Bind(&req); err != nil {
		return "", noop, fmt.Errorf("%w: %v", errBadImportRequest, err)
	}
	if req.SourcePath != "" && !filepath.IsLocal(req.SourcePath) {
		return "", noop, fmt.Errorf("%w: %s", errUnsafeSourcePath, req.SourcePath)
	}
	return req.SourcePath, noop, nil
}

// saveUpload copies an upload into a private temp dir, keeping the base name
// so the extension still selects the format.
func saveUpload(filename string, open func() (io.ReadCloser, error)) (string, func(), error) {
	dir, err := os.MkdirTemp("", "account-import-*")
	if err != nil {
		return "", func() {}, fmt.Errorf("%w: create upload dir: %v", errStageUpload, err)
	}
	cleanup := func() { _ = os.RemoveAll(dir) }

	src, err := open()
	if err != nil {
		cleanup()
		return "", func() {}, fmt.Errorf("%w: open upload: %v", errStageUpload, err)
	}
	defer src.Close()

	path := filepath.Join(dir, filepath.Base(filename))
	dst, err := os.Create(path)
	if err != nil {
		cleanup()
		return "", func() {}, fmt.Errorf("%w: create upload file: %v", errStageUpload, err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		cleanup()
		return "", func() {}, fmt.Errorf("%w: copy upload: %v", errStageUpload, err)
	}
	if err := dst.Close(); err != nil {
		cleanup()
		return "", func() {}, fmt.Errorf("%w: close upload: %v", errStageUpload, err)
	}

	return path, cleanup, nil
}
