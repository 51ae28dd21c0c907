package files

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/clinicbase/clinicbase/internal/domain/record"
	"github.com/clinicbase/clinicbase/internal/platform/apperr"
	"github.com/clinicbase/clinicbase/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/patients/:id/files", h.Upload, auth.Require(auth.OpFileUpload))
	api.GET("/patients/:id/files", h.List, auth.Require(auth.OpFileList))
	api.GET("/patients/:id/files/:fileId/url", h.SignedURL, auth.Require(auth.OpFileRead))
	api.DELETE("/patients/:id/files/:fileId", h.Delete, auth.Require(auth.OpFileDelete))
}

func (h *Handler) ids(c echo.Context) (patientID, fileID int64, err error) {
	patientID, err = strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, 0, apperr.New(apperr.Validation, "Invalid patient id")
	}
	fileID, err = strconv.ParseInt(c.Param("fileId"), 10, 64)
	if err != nil {
		return 0, 0, apperr.New(apperr.Validation, "Invalid file id")
	}
	return patientID, fileID, nil
}

func (h *Handler) Upload(c echo.Context) error {
	patientID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return apperr.New(apperr.Validation, "Invalid patient id")
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return apperr.New(apperr.Validation, "No file uploaded")
	}
	src, err := fh.Open()
	if err != nil {
		return apperr.Wrap(apperr.Internal, "Failed to read uploaded file", err)
	}
	defer src.Close()

	in := UploadInput{
		FileName:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		FileType:    c.FormValue("fileType"),
		Description: c.FormValue("description"),
	}

	file, err := h.svc.Upload(c.Request().Context(), patientID, in, src,
		auth.UserIDFromContext(c.Request().Context()))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":  "File uploaded successfully",
		"fileInfo": file,
	})
}

func (h *Handler) List(c echo.Context) error {
	patientID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return apperr.New(apperr.Validation, "Invalid patient id")
	}
	return c.JSON(http.StatusOK, map[string][]record.FileAttachment{
		"files": h.svc.List(patientID),
	})
}

func (h *Handler) SignedURL(c echo.Context) error {
	patientID, fileID, err := h.ids(c)
	if err != nil {
		return err
	}

	url, err := h.svc.SignedURL(c.Request().Context(), patientID, fileID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"url": url})
}

func (h *Handler) Delete(c echo.Context) error {
	patientID, fileID, err := h.ids(c)
	if err != nil {
		return err
	}

	if err := h.svc.Delete(c.Request().Context(), patientID, fileID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "File deleted successfully"})
}
