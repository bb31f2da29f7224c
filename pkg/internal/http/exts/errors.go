package exts

import (
	"errors"

	"git.solsynth.dev/hypernet/socialgraph/pkg/internal/errs"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

var statusOfErrorType = map[errs.ErrorType]int{
	errs.ErrorTypeValidation:         fiber.StatusBadRequest,
	errs.ErrorTypeDuplicateKey:       fiber.StatusConflict,
	errs.ErrorTypeNotFound:           fiber.StatusNotFound,
	errs.ErrorTypeInvalidCredentials: fiber.StatusUnauthorized,
	errs.ErrorTypeReference:          fiber.StatusUnprocessableEntity,
	errs.ErrorTypeRestricted:         fiber.StatusConflict,
	errs.ErrorTypeStorage:            fiber.StatusInternalServerError,
}

// ErrorHandler turns the errors returned by handlers into json responses
func ErrorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	body := fiber.Map{"message": err.Error()}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		status = fe.Code
	} else if errType := errs.TypeOf(err); errType != "" {
		status = statusOfErrorType[errType]
		body["type"] = errType
		details(err, body)
	}

	if status >= fiber.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Path()).Msg("An error occurred when handling request...")
	}

	return c.Status(status).JSON(body)
}

func details(err error, body fiber.Map) {
	var validation *errs.ValidationError
	var duplicate *errs.DuplicateKeyError
	var notFound *errs.NotFoundError
	var reference *errs.ReferentialIntegrityError
	var restricted *errs.RestrictedDeleteError
	switch {
	case errors.As(err, &validation):
		body["entity"] = validation.Entity
		body["field"] = validation.Field
		body["rule"] = validation.Rule
	case errors.As(err, &duplicate):
		body["entity"] = duplicate.Entity
		body["field"] = duplicate.Field
	case errors.As(err, &notFound):
		body["entity"] = notFound.Entity
		body["key"] = notFound.Key
	case errors.As(err, &reference):
		body["entity"] = reference.Entity
		body["field"] = reference.Field
		body["key"] = reference.Key
	case errors.As(err, &restricted):
		body["entity"] = restricted.Entity
		body["relation"] = restricted.Relation
	}
}
