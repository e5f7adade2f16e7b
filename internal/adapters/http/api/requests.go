package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/okian/postboard/internal/domain/model"
)

// createUserRequest mirrors the OpenAPI schema for POST /users.
type createUserRequest struct {
	UserName    *string `json:"userName" validate:"required,notblank"`
	DisplayName *string `json:"displayName"`
}

// updateUserRequest mirrors the OpenAPI schema for PATCH /users/{id}.
type updateUserRequest struct {
	UserName    *string `json:"userName" validate:"omitnil,notblank"`
	DisplayName *string `json:"displayName"`
}

func (r updateUserRequest) patch() model.UserPatch {
	return model.UserPatch{UserName: r.UserName, DisplayName: r.DisplayName}
}

// updateSettingsRequest mirrors the OpenAPI schema for PATCH /users/{id}/settings.
type updateSettingsRequest struct {
	NotificationsOn *bool `json:"notificationsOn"`
}

// createPostRequest mirrors the OpenAPI schema for POST /posts.
type createPostRequest struct {
	Title       *string `json:"title" validate:"required,notblank,max=200"`
	Description *string `json:"description" validate:"required,notblank"`
	UserID      *uint   `json:"userId" validate:"required"`
}

// createGroupPostRequest mirrors the OpenAPI schema for POST /posts/group.
type createGroupPostRequest struct {
	Title       *string `json:"title" validate:"required,notblank,max=200"`
	Description *string `json:"description" validate:"required,notblank"`
	UserIDs     []uint  `json:"userIds" validate:"required,min=1"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	// Report JSON field names rather than Go ones.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// maxBodyBytes caps request bodies read by decodeAndValidate.
const maxBodyBytes = 1 << 20

// decodeAndValidate reads a JSON body of at most maxBodyBytes into dst and
// checks its validate tags. Unknown fields are ignored.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		return decodeError(err)
	}
	if err := validate.Struct(dst); err != nil {
		return validationError(err)
	}
	return nil
}

func decodeError(err error) error {
	var typeErr *json.UnmarshalTypeError
	var syntaxErr *json.SyntaxError
	var sizeErr *http.MaxBytesError
	switch {
	case errors.As(err, &sizeErr):
		return fmt.Errorf("request body must not exceed %d bytes", sizeErr.Limit)
	case errors.Is(err, io.EOF):
		return errors.New("request body is required")
	case errors.As(err, &typeErr):
		return fmt.Errorf("%s must be of type %s", typeErr.Field, jsonKind(typeErr.Type))
	case errors.As(err, &syntaxErr):
		return fmt.Errorf("malformed JSON at offset %d", syntaxErr.Offset)
	default:
		return fmt.Errorf("malformed JSON: %w", err)
	}
}

func jsonKind(t reflect.Type) string {
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Slice, reflect.Array:
		return "array"
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Float32, reflect.Float64:
		return "non-negative integer"
	default:
		return t.String()
	}
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fe.Field()+" is required")
		case "notblank":
			msgs = append(msgs, fe.Field()+" should not be empty")
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be shorter than or equal to %s characters", fe.Field(), fe.Param()))
		case "min":
			msgs = append(msgs, fe.Field()+" should not be empty")
		default:
			msgs = append(msgs, fe.Field()+" is invalid")
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}
