package service

import (
	"github.com/igorpreis/Store-Back-End/internal/domain/model"
	"github.com/igorpreis/Store-Back-End/internal/pkg/apperr"
)

// Actor 已通過身份驗證的請求者，core 直接信任不再驗證憑證
type Actor struct {
	UserID string
	Role   model.Role
}

type ResourceKind string

const (
	ResourceCatalog ResourceKind = "catalog"
	ResourceCart    ResourceKind = "cart"
	ResourceOrder   ResourceKind = "order"
)

// Resource 受保護資源，OwnerID 為空表示不檢查擁有權
type Resource struct {
	Kind    ResourceKind
	OwnerID string
}

// Authorize 集中式權限檢查，所有 mutating 操作前統一呼叫
func Authorize(actor Actor, res Resource) error {
	switch res.Kind {
	case ResourceCatalog:
		if actor.Role != model.RoleAdmin {
			return apperr.New(apperr.ForbiddenCode, "access denied, only administrators can manage products")
		}
	case ResourceCart:
		if actor.Role != model.RoleUser {
			return apperr.New(apperr.ForbiddenCode, "access denied, only authenticated users are allowed to manage a cart")
		}
		if res.OwnerID != "" && res.OwnerID != actor.UserID {
			return apperr.New(apperr.ForbiddenCode, "access denied, only the cart owner can do this")
		}
	case ResourceOrder:
		if actor.Role != model.RoleUser {
			return apperr.New(apperr.ForbiddenCode, "access denied, only authenticated users are allowed to manage orders")
		}
		if res.OwnerID != "" && res.OwnerID != actor.UserID {
			return apperr.New(apperr.ForbiddenCode, "access denied, only the user who owns the order can do this")
		}
	default:
		return apperr.Newf(apperr.InternalCode, "unknown resource kind %q", res.Kind)
	}
	return nil
}
