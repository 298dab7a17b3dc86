package apperr

import (
	"errors"
	"fmt"
	"strings"
)

type Code uint

const (
	// ValidationCode 格式或業務規則錯誤，包含重複品項
	ValidationCode Code = iota + 1
	// ConflictCode 同一使用者重複建立購物車
	ConflictCode
	// NotFoundCode 使用者/購物車/訂單/商品不存在
	NotFoundCode
	// ForbiddenCode 角色或擁有權不符
	ForbiddenCode
	// StateCode 不允許的訂單狀態轉移
	StateCode
	// StockCode 庫存不足
	StockCode
	// InternalCode 儲存層或內部錯誤
	InternalCode
	// PartialWriteCode 跨越寫入邊界的操作中途失敗，系統處於部分套用狀態
	// 與單純的 InternalCode 區分，後續需要補償機制
	PartialWriteCode
)

func (c Code) String() string {
	switch c {
	case ValidationCode:
		return "validation"
	case ConflictCode:
		return "conflict"
	case NotFoundCode:
		return "not_found"
	case ForbiddenCode:
		return "forbidden"
	case StateCode:
		return "invalid_state"
	case StockCode:
		return "out_of_stock"
	case InternalCode:
		return "internal"
	case PartialWriteCode:
		return "partial_write"
	}
	return "unknown"
}

type AppError struct {
	Code   Code
	Detail string
	Items  []string // 出問題的 id 清單 (missing/duplicate/no stock)
	err    error
}

func (e *AppError) Error() string {
	if len(e.Items) > 0 {
		return fmt.Sprintf("%s: %s [%s]", e.Code, e.Detail, strings.Join(e.Items, ", "))
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Detail)
}

func (e *AppError) Unwrap() error {
	return e.err
}

func New(code Code, detail string) *AppError {
	return &AppError{Code: code, Detail: detail}
}

func Newf(code Code, format string, args ...any) *AppError {
	return &AppError{Code: code, Detail: fmt.Sprintf(format, args...)}
}

func WithItems(code Code, detail string, items []string) *AppError {
	return &AppError{Code: code, Detail: detail, Items: items}
}

func Wrap(code Code, detail string, err error) *AppError {
	return &AppError{Code: code, Detail: detail, err: err}
}

// CodeOf 取出錯誤分類，非 AppError 一律視為 internal
func CodeOf(err error) Code {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return InternalCode
}

func IsCode(err error, code Code) bool {
	return CodeOf(err) == code
}
