package response

import (
	"context"
	"net/http"

	"github.com/cloudwego/hertz/pkg/app"
	"go.uber.org/zap"

	"TourCore/pkg/errors"
	"TourCore/pkg/logger"
)

// ErrorResponse 统一的错误响应格式
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Details map[string]interface{} `json:"details,omitempty"`
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
}

// SuccessResponse 统一的成功响应格式
type SuccessResponse struct {
	Data interface{}            `json:"data"`
	Meta map[string]interface{} `json:"meta,omitempty"`
}

// StatusOf 错误码到 HTTP 状态码的映射，未知错误一律 500
func StatusOf(err error) int {
	def, ok := errors.DefinitionOf(err)
	if !ok {
		return http.StatusInternalServerError
	}

	switch def.Code {
	case errors.ValidationFailed.Code, errors.MissingReason.Code, errors.InvalidRequest.Code:
		return http.StatusBadRequest // 400
	case errors.NotFound.Code:
		return http.StatusNotFound // 404
	case errors.InvalidTransition.Code, errors.CapacityExceeded.Code, errors.VersionConflict.Code:
		return http.StatusConflict // 409
	case errors.ResourceLocked.Code:
		return http.StatusLocked // 423
	case errors.TooManyRequests.Code:
		return http.StatusTooManyRequests // 429
	default:
		return http.StatusInternalServerError // 500
	}
}

// Error 返回错误响应，领域错误会带上 details
func Error(ctx context.Context, c *app.RequestContext, err error) {
	statusCode := StatusOf(err)

	detail := ErrorDetail{Code: "INTERNAL_ERROR", Message: "Internal server error"}
	if derr, ok := errors.As(err); ok {
		detail.Code = derr.Code
		detail.Message = derr.Message
		if details := derr.Details(); len(details) > 0 {
			detail.Details = details
		}
	} else if def, ok := errors.DefinitionOf(err); ok {
		detail.Code = def.Code
		detail.Message = def.Message
	}

	if statusCode >= http.StatusInternalServerError {
		logger.Logger.Error("Request failed",
			zap.String("path", string(c.Path())),
			zap.String("method", string(c.Method())),
			zap.Error(err),
		)
	}

	c.JSON(statusCode, ErrorResponse{Error: detail})
}

func Success(ctx context.Context, c *app.RequestContext, data interface{}) {
	c.JSON(http.StatusOK, SuccessResponse{
		Data: data,
	})
}

// Created 返回 201
func Created(ctx context.Context, c *app.RequestContext, data interface{}) {
	c.JSON(http.StatusCreated, SuccessResponse{
		Data: data,
	})
}

func SuccessWithMeta(ctx context.Context, c *app.RequestContext, data interface{}, meta map[string]interface{}) {
	c.JSON(http.StatusOK, SuccessResponse{
		Data: data,
		Meta: meta,
	})
}

func BindError(ctx context.Context, c *app.RequestContext, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error: ErrorDetail{
			Code:    errors.InvalidRequest.Code,
			Message: err.Error(),
		},
	})
}

// NoContent 返回 204 No Content（用于 DELETE 等操作）
func NoContent(ctx context.Context, c *app.RequestContext) {
	c.Status(http.StatusNoContent)
}
