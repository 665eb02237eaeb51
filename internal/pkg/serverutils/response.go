package serverutils

import (
	"errors"

	"legal-analysis-be/pkg/rag"

	"github.com/gofiber/fiber/v2"
)

type Response struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

func SuccessResponse(message string, data interface{}) Response {
	return Response{Message: message, Data: data}
}

// ErrorHandlerMiddleware converts errors bubbling out of handlers into the
// structured error payload. Pipeline error codes map onto HTTP status:
// validation 400, session creation 422, document processing 500.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var pipelineErr *rag.Error
		if errors.As(err, &pipelineErr) {
			return ctx.Status(statusFor(pipelineErr.Code)).JSON(ErrorResponse{
				Error: ErrorBody{
					Code:    string(pipelineErr.Code),
					Message: pipelineErr.Message,
				},
			})
		}

		var validationErr *ValidationError
		if errors.As(err, &validationErr) {
			return ctx.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
				Error: ErrorBody{
					Code:    string(rag.CodeInputValidation),
					Message: validationErr.Error(),
				},
			})
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse{
				Error: ErrorBody{
					Code:    "HTTP_ERROR",
					Message: fiberErr.Message,
				},
			})
		}

		return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: ErrorBody{
				Code:    "INTERNAL_ERROR",
				Message: "something went wrong",
			},
		})
	}
}

func statusFor(code rag.ErrorCode) int {
	switch code {
	case rag.CodeInputValidation:
		return fiber.StatusBadRequest
	case rag.CodeSessionCreation:
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}
