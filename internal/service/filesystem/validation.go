package filesystem

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"filevault/internal/config"
	"filevault/internal/domain"
	models "filevault/internal/domain/models/filesystem"
	fsRepo "filevault/internal/domain/repositories/filesystem"
	fsSvc "filevault/internal/domain/services/filesystem"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ResourceValidator checks that referenced folders are live and owned by
// the caller before a folder or item is attached to them
type ResourceValidator struct {
	folderRepo fsRepo.FolderRepository
}

// NewResourceValidator creates a new resource validator
func NewResourceValidator(folderRepo fsRepo.FolderRepository) *ResourceValidator {
	return &ResourceValidator{folderRepo: folderRepo}
}

// ValidateFolder ensures a folder exists, is live and belongs to userID.
// message is what the caller sees when it does not.
func (v *ResourceValidator) ValidateFolder(ctx context.Context, folderID, userID, message string) error {
	if _, err := v.folderRepo.GetByID(ctx, folderID, userID, models.Live); err != nil {
		return notFound(err, message)
	}
	return nil
}

// notFound replaces a repository not-found error with a uniform message so
// missing, trashed and foreign rows are indistinguishable
func notFound(err error, message string) error {
	if errors.Is(err, domain.ErrNotFound) {
		return domain.NewNotFound(message)
	}
	return err
}

func invalid(err error) error {
	return domain.NewValidation(err.Error())
}

// emptyToNil treats "" as "not given" for optional ids
func emptyToNil(id *string) *string {
	if id == nil || strings.TrimSpace(*id) == "" {
		return nil
	}
	return id
}

func itemTypeValues() []interface{} {
	values := make([]interface{}, len(models.ItemTypes))
	for i, t := range models.ItemTypes {
		values[i] = t
	}
	return values
}

// validateName rejects names that are blank once trimmed
func validateName(value interface{}) error {
	var name string
	switch v := value.(type) {
	case string:
		name = v
	case *string:
		if v == nil {
			return nil
		}
		name = *v
	default:
		return fmt.Errorf("name must be a string")
	}
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("name cannot be empty")
	}
	return nil
}

func validateTags(tags []string) error {
	return validation.Validate(tags,
		validation.Each(validation.Required, validation.Length(1, config.MaxTagLength)),
	)
}

func validateCreateFolderRequest(req *fsSvc.CreateFolderRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.UserID, validation.Required),
		validation.Field(&req.Name,
			validation.Required,
			validation.Length(1, config.MaxFolderNameLength),
			validation.By(validateName),
		),
		validation.Field(&req.Color, validation.Length(1, config.MaxColorLength)),
	)
}

func validateUpdateFolderRequest(req *fsSvc.UpdateFolderRequest) error {
	if err := validation.ValidateStruct(req,
		validation.Field(&req.Name,
			validation.NilOrNotEmpty,
			validation.Length(1, config.MaxFolderNameLength),
			validation.By(validateName),
		),
	); err != nil {
		return err
	}
	if req.Color.Value != nil {
		return validation.Errors{
			"color": validation.Validate(req.Color.Value, validation.Length(1, config.MaxColorLength)),
		}.Filter()
	}
	return nil
}

func validateCreateItemRequest(req *fsSvc.CreateItemRequest) error {
	if err := validation.ValidateStruct(req,
		validation.Field(&req.UserID, validation.Required),
		validation.Field(&req.Name,
			validation.Required,
			validation.Length(1, config.MaxItemNameLength),
			validation.By(validateName),
		),
		validation.Field(&req.Type, validation.Required, validation.In(itemTypeValues()...)),
	); err != nil {
		return err
	}
	return validation.Errors{"tags": validateTags(req.Tags)}.Filter()
}

func validateUploadItemRequest(req *fsSvc.UploadFileItemRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.UserID, validation.Required),
		validation.Field(&req.Name,
			validation.Required,
			validation.Length(1, config.MaxItemNameLength),
			validation.By(validateName),
		),
		validation.Field(&req.Type, validation.Required, validation.In(itemTypeValues()...)),
	)
}

func validateUpdateItemRequest(req *fsSvc.UpdateItemRequest) error {
	if err := validation.ValidateStruct(req,
		validation.Field(&req.Name,
			validation.NilOrNotEmpty,
			validation.Length(1, config.MaxItemNameLength),
			validation.By(validateName),
		),
	); err != nil {
		return err
	}
	if req.Tags != nil {
		return validation.Errors{"tags": validateTags(*req.Tags)}.Filter()
	}
	return nil
}
