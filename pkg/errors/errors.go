package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

func (d Definition) Error() string {
	return d.Message
}

// Definition 表示业务错误码及默认信息。
type Definition struct {
	Code    string
	Message string
}

// 领域错误，调用方可恢复。
var (
	ValidationFailed  = Definition{Code: "VALIDATION_FAILED", Message: "Validation failed"}
	NotFound          = Definition{Code: "NOT_FOUND", Message: "Resource not found"}
	InvalidTransition = Definition{Code: "INVALID_TRANSITION", Message: "Status transition not allowed"}
	CapacityExceeded  = Definition{Code: "CAPACITY_EXCEEDED", Message: "Fully booked"}
	MissingReason     = Definition{Code: "MISSING_REASON", Message: "Cancellation reason is required"}
)

// 编排层错误。
var (
	VersionConflict = Definition{Code: "VERSION_CONFLICT", Message: "Resource was modified concurrently"}
	ResourceLocked  = Definition{Code: "RESOURCE_LOCKED", Message: "Resource is being modified"}
	InvalidRequest  = Definition{Code: "INVALID_REQUEST", Message: "Invalid request"}
	TooManyRequests = Definition{Code: "TOO_MANY_REQUESTS", Message: "Too many requests, please retry later"}
)

// Lookup 提供错误码查询能力。
var Lookup = map[string]Definition{
	ValidationFailed.Code:  ValidationFailed,
	NotFound.Code:          NotFound,
	InvalidTransition.Code: InvalidTransition,
	CapacityExceeded.Code:  CapacityExceeded,
	MissingReason.Code:     MissingReason,
	VersionConflict.Code:   VersionConflict,
	ResourceLocked.Code:    ResourceLocked,
	InvalidRequest.Code:    InvalidRequest,
	TooManyRequests.Code:   TooManyRequests,
}

// Get 根据错误码返回 Definition，若不存在则返回空 Definition。
func Get(code string) Definition {
	if def, ok := Lookup[code]; ok {
		return def
	}
	return Definition{Code: code, Message: "Unexpected error"}
}

// Error 携带上下文的领域错误，errors.Is 可以直接与 Definition 比较。
type Error struct {
	Expected interface{}
	Actual   interface{}
	Definition
	Entity   string
	EntityID string
	Field    string
	Detail   string
}

func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Code)
	if e.Entity != "" {
		sb.WriteString(" ")
		sb.WriteString(e.Entity)
		if e.EntityID != "" {
			sb.WriteString("(")
			sb.WriteString(e.EntityID)
			sb.WriteString(")")
		}
	}
	if e.Field != "" {
		sb.WriteString(" field=")
		sb.WriteString(e.Field)
	}
	if e.Detail != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Detail)
	} else {
		sb.WriteString(": ")
		sb.WriteString(e.Message)
	}
	if e.Expected != nil || e.Actual != nil {
		fmt.Fprintf(&sb, " (expected %v, got %v)", e.Expected, e.Actual)
	}
	return sb.String()
}

func (e *Error) Unwrap() error {
	return e.Definition
}

// Details 转换为响应中的 details 字段。
func (e *Error) Details() map[string]interface{} {
	details := make(map[string]interface{})
	if e.Entity != "" {
		details["entity"] = e.Entity
	}
	if e.EntityID != "" {
		details["entity_id"] = e.EntityID
	}
	if e.Field != "" {
		details["field"] = e.Field
	}
	if e.Detail != "" {
		details["detail"] = e.Detail
	}
	if e.Expected != nil {
		details["expected"] = e.Expected
	}
	if e.Actual != nil {
		details["actual"] = e.Actual
	}
	return details
}

// Validation 字段校验失败。
func Validation(entity, id, field, detail string, expected, actual interface{}) *Error {
	return &Error{
		Definition: ValidationFailed,
		Entity:     entity,
		EntityID:   id,
		Field:      field,
		Detail:     detail,
		Expected:   expected,
		Actual:     actual,
	}
}

// NotFoundError 引用的实体不存在。
func NotFoundError(entity, id string) *Error {
	return &Error{Definition: NotFound, Entity: entity, EntityID: id}
}

// Transition 当前状态不允许执行 op。
func Transition(entity, id, op, from string, allowed []string) *Error {
	return &Error{
		Definition: InvalidTransition,
		Entity:     entity,
		EntityID:   id,
		Field:      "status",
		Detail:     op + " not allowed from " + from,
		Expected:   allowed,
		Actual:     from,
	}
}

// Capacity 超出容量。
func Capacity(entity, id, detail string, limit, requested int) *Error {
	return &Error{
		Definition: CapacityExceeded,
		Entity:     entity,
		EntityID:   id,
		Field:      "participants",
		Detail:     detail,
		Expected:   limit,
		Actual:     requested,
	}
}

// Reason 取消时缺少原因。
func Reason(entity, id string) *Error {
	return &Error{Definition: MissingReason, Entity: entity, EntityID: id, Field: "reason"}
}

// Conflict 乐观锁版本冲突。
func Conflict(entity, id string, expected int64) *Error {
	return &Error{Definition: VersionConflict, Entity: entity, EntityID: id, Field: "version", Expected: expected}
}

// Locked 资源被其他请求持有。
func Locked(entity, id string) *Error {
	return &Error{Definition: ResourceLocked, Entity: entity, EntityID: id}
}

// Is 判断 err 链中是否包含 def。
func Is(err error, def Definition) bool {
	return stderrors.Is(err, def)
}

// As 取出带上下文的领域错误。
func As(err error) (*Error, bool) {
	var e *Error
	if stderrors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// DefinitionOf 返回 err 链中的 Definition。
func DefinitionOf(err error) (Definition, bool) {
	if e, ok := As(err); ok {
		return e.Definition, true
	}
	var def Definition
	if stderrors.As(err, &def) {
		return def, true
	}
	return Definition{}, false
}
