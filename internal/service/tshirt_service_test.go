package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/igorpreis/Store-Back-End/internal/domain/model"
	"github.com/igorpreis/Store-Back-End/internal/infra/repository/db"
	"github.com/igorpreis/Store-Back-End/internal/infra/repository/memrepo"
	"github.com/igorpreis/Store-Back-End/internal/pkg/apperr"
)

func adminActor() Actor {
	return Actor{UserID: "admin-1", Role: model.RoleAdmin}
}

func newTshirtFixture(t *testing.T) (*TshirtService, *CartService, *memrepo.TshirtRepo) {
	t.Helper()
	store := memrepo.NewStore()
	tshirtRepo := memrepo.NewTshirtRepo(store)
	cartRepo := memrepo.NewCartRepo(store)
	return NewTshirtService(tshirtRepo, cartRepo),
		NewCartService(cartRepo, NewInventoryService(tshirtRepo)),
		tshirtRepo
}

func TestCreateTshirtNormalizesFields(t *testing.T) {
	svc, _, repo := newTshirtFixture(t)
	ctx := context.Background()

	tshirt := &model.Tshirt{
		SKU:    "abc-001",
		Gender: model.Gender("MALE"),
		Model:  "classic",
		Size:   "M",
		Price:  decimal.RequireFromString("19.90"),
		Stock:  10,
	}
	require.NoError(t, svc.CreateTshirt(ctx, adminActor(), tshirt))
	require.Equal(t, "ABC-001", tshirt.SKU)
	require.Equal(t, model.GenderMale, tshirt.Gender)
	require.NotEmpty(t, tshirt.TshirtID)

	stored, err := repo.GetTshirtBySKU(ctx, "ABC-001")
	require.NoError(t, err)
	require.Equal(t, tshirt.TshirtID, stored.TshirtID)

	// SKU 重複
	err = svc.CreateTshirt(ctx, adminActor(), &model.Tshirt{
		SKU:    "ABC-001",
		Gender: model.GenderFemale,
		Model:  "slim",
		Size:   "S",
		Price:  decimal.RequireFromString("9.90"),
	})
	require.True(t, apperr.IsCode(err, apperr.ValidationCode))
}

func TestCreateTshirtValidation(t *testing.T) {
	svc, _, _ := newTshirtFixture(t)
	ctx := context.Background()

	err := svc.CreateTshirt(ctx, adminActor(), &model.Tshirt{
		SKU:    "A-1",
		Gender: model.Gender("robot"),
		Price:  decimal.RequireFromString("10.00"),
	})
	require.True(t, apperr.IsCode(err, apperr.ValidationCode))

	err = svc.CreateTshirt(ctx, adminActor(), &model.Tshirt{
		SKU:    "A-1",
		Gender: model.GenderMale,
		Price:  decimal.RequireFromString("-1.00"),
	})
	require.True(t, apperr.IsCode(err, apperr.ValidationCode))

	err = svc.CreateTshirt(ctx, userActor("u1"), &model.Tshirt{
		SKU:    "A-1",
		Gender: model.GenderMale,
		Price:  decimal.RequireFromString("10.00"),
	})
	require.True(t, apperr.IsCode(err, apperr.ForbiddenCode))
}

func TestUpdateTshirt(t *testing.T) {
	svc, _, repo := newTshirtFixture(t)
	ctx := context.Background()
	id := seedTshirt(t, repo, "10.00", 5)

	_, err := svc.UpdateTshirt(ctx, adminActor(), id, &model.TshirtUpdate{})
	require.True(t, apperr.IsCode(err, apperr.ValidationCode))

	newStock := 7
	changed, err := svc.UpdateTshirt(ctx, adminActor(), id, &model.TshirtUpdate{Stock: &newStock})
	require.NoError(t, err)
	require.True(t, changed)

	// 值沒變就不寫入
	changed, err = svc.UpdateTshirt(ctx, adminActor(), id, &model.TshirtUpdate{Stock: &newStock})
	require.NoError(t, err)
	require.False(t, changed)

	_, err = svc.UpdateTshirt(ctx, adminActor(), "ghost", &model.TshirtUpdate{Stock: &newStock})
	require.True(t, apperr.IsCode(err, apperr.NotFoundCode))
}

func TestDeleteTshirtCleansUpCarts(t *testing.T) {
	svc, carts, repo := newTshirtFixture(t)
	ctx := context.Background()
	target := seedTshirt(t, repo, "10.00", 50)
	other := seedTshirt(t, repo, "5.00", 50)

	for _, user := range []string{"u1", "u2", "u3"} {
		_, err := carts.CreateCart(ctx, userActor(user), []model.CartItem{
			{TshirtID: target, Quantity: 2},
			{TshirtID: other, Quantity: 1},
		})
		require.NoError(t, err)
	}

	result, err := svc.DeleteTshirt(ctx, adminActor(), target)
	require.NoError(t, err)
	require.Equal(t, 3, result.TotalCount)
	require.Len(t, result.SuccessCarts, 3)
	require.Empty(t, result.FailedCarts)

	_, err = repo.GetTshirtByID(ctx, target)
	require.ErrorIs(t, err, db.ErrTshirtNotFound)

	for _, user := range []string{"u1", "u2", "u3"} {
		cart, err := carts.GetCart(ctx, userActor(user))
		require.NoError(t, err)
		require.Len(t, cart.Items, 1)
		require.Equal(t, other, cart.Items[0].TshirtID)
		require.Equal(t, 1, cart.TotalItems)
	}
}

// 單台失敗不影響其他台的清理
func TestDeleteTshirtReportsFailedCarts(t *testing.T) {
	store := memrepo.NewStore()
	tshirtRepo := memrepo.NewTshirtRepo(store)
	cartRepo := &flakyCartRepo{ICartRepository: memrepo.NewCartRepo(store)}
	svc := NewTshirtService(tshirtRepo, cartRepo)
	carts := NewCartService(cartRepo, NewInventoryService(tshirtRepo))
	ctx := context.Background()

	target := seedTshirt(t, tshirtRepo, "10.00", 50)
	broken, err := carts.CreateCart(ctx, userActor("u1"), []model.CartItem{{TshirtID: target, Quantity: 1}})
	require.NoError(t, err)
	_, err = carts.CreateCart(ctx, userActor("u2"), []model.CartItem{{TshirtID: target, Quantity: 1}})
	require.NoError(t, err)

	cartRepo.failCartID = broken.CartID

	result, err := svc.DeleteTshirt(ctx, adminActor(), target)
	require.NoError(t, err)
	require.Equal(t, 2, result.TotalCount)
	require.Len(t, result.SuccessCarts, 1)
	require.Contains(t, result.FailedCarts, broken.CartID)
}

type flakyCartRepo struct {
	db.ICartRepository
	failCartID string
}

func (r *flakyCartRepo) ReplaceCartItems(ctx context.Context, cart *model.Cart) error {
	if cart.CartID == r.failCartID {
		return errors.New("replace failed")
	}
	return r.ICartRepository.ReplaceCartItems(ctx, cart)
}
