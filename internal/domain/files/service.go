// Package files is the attachment catalog over the blob gateway. File bytes
// live in the external object store; only descriptor rows live in the local
// catalog. Remote writes always happen before catalog writes so a visible
// catalog row implies a stored object.
package files

import (
	"context"
	"io"
	"time"

	"github.com/clinicbase/clinicbase/internal/domain/record"
	"github.com/clinicbase/clinicbase/internal/platform/apperr"
	"github.com/clinicbase/clinicbase/internal/platform/blobstore"
)

// DefaultFileType labels uploads that do not declare a type.
const DefaultFileType = "medical"

type Service struct {
	graph     *record.Graph
	gateway   *blobstore.Gateway
	maxBytes  int64
	signedTTL time.Duration

	// catalog persists the descriptor row after the remote write. Split out
	// so the compensation path can be exercised without a real failure mode
	// in the in-memory catalog.
	catalog func(row record.FileAttachment) (record.FileAttachment, error)
}

func NewService(graph *record.Graph, gateway *blobstore.Gateway, maxBytes int64, signedTTL time.Duration) *Service {
	s := &Service{
		graph:     graph,
		gateway:   gateway,
		maxBytes:  maxBytes,
		signedTTL: signedTTL,
	}
	s.catalog = func(row record.FileAttachment) (record.FileAttachment, error) {
		return graph.Files.Create(func(id int64) record.FileAttachment {
			row.ID = id
			return row
		}), nil
	}
	return s
}

type UploadInput struct {
	FileName    string
	ContentType string
	Size        int64
	FileType    string
	Description string
}

// Upload stores the content remotely, then catalogs the descriptor. If the
// catalog write fails after the remote write succeeded, the remote object is
// deleted best-effort.
func (s *Service) Upload(ctx context.Context, patientID int64, in UploadInput, content io.Reader, actorID int64) (*record.FileAttachment, error) {
	if !s.graph.HasPatient(patientID) {
		return nil, apperr.New(apperr.NotFound, "Patient not found")
	}
	if in.FileName == "" {
		return nil, apperr.New(apperr.Validation, "No file uploaded")
	}
	if s.maxBytes > 0 && in.Size > s.maxBytes {
		return nil, apperr.New(apperr.Validation, "File too large")
	}
	if in.FileType == "" {
		in.FileType = DefaultFileType
	}

	res, err := s.gateway.Upload(ctx, patientID, in.FileName, in.ContentType, content)
	if err != nil {
		return nil, err
	}

	row, err := s.catalog(record.FileAttachment{
		PatientID:   patientID,
		FileName:    in.FileName,
		FileType:    in.FileType,
		Description: in.Description,
		StorageKey:  res.Key,
		StorageURL:  res.URL,
		UploadedBy:  actorID,
		UploadDate:  time.Now().UTC(),
	})
	if err != nil {
		// best effort, the object is unreachable without a row anyway
		_ = s.gateway.Delete(ctx, res.Key)
		return nil, apperr.Wrap(apperr.Internal, "Failed to catalog file", err)
	}
	return &row, nil
}

// List returns the cataloged attachments for a patient, never nil.
func (s *Service) List(patientID int64) []record.FileAttachment {
	return s.graph.Files.Where(func(f record.FileAttachment) bool {
		return f.PatientID == patientID
	})
}

func (s *Service) get(patientID, fileID int64) (record.FileAttachment, error) {
	file, ok := s.graph.Files.Get(fileID)
	if !ok || file.PatientID != patientID {
		return record.FileAttachment{}, apperr.New(apperr.NotFound, "File not found")
	}
	return file, nil
}

// SignedURL returns a fresh time-limited read URL for a cataloged file.
func (s *Service) SignedURL(ctx context.Context, patientID, fileID int64) (string, error) {
	file, err := s.get(patientID, fileID)
	if err != nil {
		return "", err
	}
	return s.gateway.SignedReadURL(ctx, file.StorageKey, s.signedTTL)
}

// Delete removes the remote object first, then the catalog row. If the
// remote delete fails the row stays so the file remains reachable; a row is
// never removed while its object might still be served.
func (s *Service) Delete(ctx context.Context, patientID, fileID int64) error {
	file, err := s.get(patientID, fileID)
	if err != nil {
		return err
	}
	if err := s.gateway.Delete(ctx, file.StorageKey); err != nil {
		return err
	}
	s.graph.Files.Remove(fileID)
	return nil
}
