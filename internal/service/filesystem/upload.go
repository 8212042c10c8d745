package filesystem

import (
	"context"
	"strings"

	"filevault/internal/domain"
	models "filevault/internal/domain/models/filesystem"
	"filevault/internal/domain/services"
	fsSvc "filevault/internal/domain/services/filesystem"
	"filevault/internal/storage"
)

// UploadFileItem stores the payload and records a file-backed item.
//
// The object is uploaded first; the file and item rows are then written in
// one transaction, so callers never see one without the other. A metadata
// failure after a successful upload leaves an orphaned object, which is
// logged with its external ref.
func (s *itemService) UploadFileItem(ctx context.Context, req *fsSvc.UploadFileItemRequest, payload *fsSvc.FilePayload) (*models.Item, error) {
	if payload == nil || len(payload.Data) == 0 {
		return nil, domain.NewValidation("File is required")
	}
	if err := validateUploadItemRequest(req); err != nil {
		return nil, invalid(err)
	}

	folderID := emptyToNil(req.FolderID)
	if folderID != nil {
		if err := s.validator.ValidateFolder(ctx, *folderID, req.UserID, "Folder not found"); err != nil {
			return nil, err
		}
	}

	mimeType := storage.DetectMIME(payload.MimeType, payload.Data)
	class := s.catalog.Classify(mimeType)
	filename := storage.StoredFilename(payload.OriginalName)

	stored, err := s.storage.Upload(ctx, payload.Data, services.UploadHint{
		Folder:       class.Folder,
		Filename:     filename,
		ResourceKind: class.ResourceKind,
		ContentType:  mimeType,
	})
	if err != nil {
		s.logger.Error("object upload failed",
			"user_id", req.UserID,
			"original_filename", payload.OriginalName,
			"folder", class.Folder,
			"error", err,
		)
		return nil, &domain.UpstreamError{Message: "Failed to upload file", Cause: err}
	}

	size := payload.Size
	if size <= 0 {
		size = int64(len(payload.Data))
	}

	file := &models.File{
		Filename:         filename,
		OriginalFilename: originalName(payload.OriginalName, filename),
		ExternalRef:      stored.ExternalRef,
		URL:              stored.URL,
		FileType:         class.FileType,
		MimeType:         mimeType,
		Size:             size,
	}
	item := &models.Item{
		UserID:      req.UserID,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Type:        req.Type,
		FolderID:    folderID,
		Tags:        []string{},
		Size:        size,
	}

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.fileRepo.Create(txCtx, file); err != nil {
			return err
		}
		item.FileID = &file.ID
		return s.itemRepo.Create(txCtx, item)
	})
	if err != nil {
		s.logger.Warn("upload stored but metadata write failed, object orphaned",
			"external_ref", stored.ExternalRef,
			"user_id", req.UserID,
			"error", err,
		)
		return nil, notFound(err, "Folder not found")
	}

	item.File = file
	if err := newFolderLookup(s.folderRepo, req.UserID).attachOne(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info("file uploaded",
		"id", item.ID,
		"file_id", file.ID,
		"file_type", file.FileType,
		"mime_type", file.MimeType,
		"size", size,
		"user_id", req.UserID,
	)

	return item, nil
}

func originalName(name, fallback string) string {
	if strings.TrimSpace(name) == "" {
		return fallback
	}
	return name
}
