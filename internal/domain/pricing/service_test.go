package pricing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repairdesk/internal/core/apperror"
	"repairdesk/internal/core/id"
	"repairdesk/internal/core/types"
)

type priceKey struct {
	domain  Domain
	model   string
	storage string
}

type fakeRepo struct {
	base       map[priceKey]types.Money
	guarantees map[priceKey]types.Money
	rules      []DeductionRule
	err        error
}

func (f *fakeRepo) GetBasePrice(_ context.Context, domain Domain, model, storage string) (types.Money, bool, error) {
	if f.err != nil {
		return types.Zero(), false, f.err
	}
	v, ok := f.base[priceKey{domain, model, storage}]
	return v, ok, nil
}

func (f *fakeRepo) ListDeductionRules(_ context.Context, domain Domain, model string) ([]DeductionRule, error) {
	var out []DeductionRule
	for _, r := range f.rules {
		if r.Domain == domain && r.Model == model {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRepo) GetGuaranteePrice(_ context.Context, model, storage string) (types.Money, bool, error) {
	v, ok := f.guarantees[priceKey{"", model, storage}]
	return v, ok, nil
}

type fakeInventory struct {
	items   map[id.ID]*InventoryItem
	updated map[id.ID]types.Money
}

func (f *fakeInventory) GetInventoryItem(_ context.Context, itemID id.ID) (*InventoryItem, error) {
	item, ok := f.items[itemID]
	if !ok {
		return nil, apperror.NewNotFound("inventory item", itemID)
	}
	return item, nil
}

func (f *fakeInventory) UpdateResalePrice(_ context.Context, itemID id.ID, price types.Money) error {
	f.updated[itemID] = price
	return nil
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		base: map[priceKey]types.Money{
			{DomainBuyback, "IP13", "128GB"}: types.NewMoney(50_000),
			{DomainResale, "IP13", "128GB"}:  types.NewMoney(68_000),
		},
		guarantees: map[priceKey]types.Money{
			{"", "IP13", "128GB"}: types.NewMoney(20_000),
		},
		rules: []DeductionRule{
			{Domain: DomainBuyback, Model: "IP13", Kind: KindBattery, Grade: BatteryPoor, Value: types.NewRatePercent(10)},
			{Domain: DomainBuyback, Model: "IP13", Kind: KindNetworkLock, Grade: LockTriangle, Value: types.NewRatePercent(10)},
			{Domain: DomainResale, Model: "IP13", Kind: KindBattery, Grade: BatteryPoor, Value: types.NewMoney(5_000)},
		},
	}
}

func TestService_QuoteBuyback(t *testing.T) {
	svc := NewService(newFakeRepo(), nil)

	q, err := svc.QuoteBuyback(context.Background(), QuoteRequest{
		Model:      "IP13",
		Storage:    "128GB",
		Conditions: ConditionSet{KindBattery: BatteryPoor, KindNetworkLock: LockTriangle},
	})
	require.NoError(t, err)
	assert.Equal(t, "10000", q.TotalDeduction.String())
	assert.Equal(t, "40000", q.FinalPrice.String())
	require.NotNil(t, q.Floor)
	assert.Equal(t, "20000", q.Floor.String())
}

func TestService_QuoteBuyback_MissingData(t *testing.T) {
	ctx := context.Background()

	t.Run("base price", func(t *testing.T) {
		svc := NewService(newFakeRepo(), nil)
		_, err := svc.QuoteBuyback(ctx, QuoteRequest{Model: "IP14", Storage: "128GB"})
		assert.True(t, apperror.IsPriceDataMissing(err))
	})

	t.Run("guarantee price", func(t *testing.T) {
		repo := newFakeRepo()
		delete(repo.guarantees, priceKey{"", "IP13", "128GB"})
		svc := NewService(repo, nil)
		_, err := svc.QuoteBuyback(ctx, QuoteRequest{Model: "IP13", Storage: "128GB"})
		require.Error(t, err)
		appErr, ok := apperror.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperror.CodePriceDataMissing, appErr.Code)
		assert.Equal(t, "guarantee price", appErr.Details["table"])
	})

	t.Run("deduction rate", func(t *testing.T) {
		svc := NewService(newFakeRepo(), nil)
		_, err := svc.QuoteBuyback(ctx, QuoteRequest{Model: "IP13", Storage: "128GB", Conditions: ConditionSet{KindScreenCrack: ScreenCracked}})
		assert.True(t, apperror.IsPriceDataMissing(err))
	})

	t.Run("repository failure is not price data missing", func(t *testing.T) {
		repo := newFakeRepo()
		repo.err = errors.New("connection reset")
		svc := NewService(repo, nil)
		_, err := svc.QuoteBuyback(ctx, QuoteRequest{Model: "IP13", Storage: "128GB"})
		require.Error(t, err)
		assert.False(t, apperror.IsPriceDataMissing(err))
	})

	t.Run("validation", func(t *testing.T) {
		svc := NewService(newFakeRepo(), nil)
		_, err := svc.QuoteBuyback(ctx, QuoteRequest{Model: "IP13"})
		assert.True(t, apperror.HasCode(err, apperror.CodeValidation))
	})
}

func TestService_QuoteResale(t *testing.T) {
	svc := NewService(newFakeRepo(), nil)

	q, err := svc.QuoteResale(context.Background(), QuoteRequest{
		Model:      "IP13",
		Storage:    "128GB",
		Conditions: ConditionSet{KindBattery: BatteryPoor},
	})
	require.NoError(t, err)
	assert.Equal(t, "63000", q.FinalPrice.String())
	assert.Nil(t, q.Floor)
}

func TestService_PriceInventoryItem(t *testing.T) {
	itemID := id.New()
	inv := &fakeInventory{
		items: map[id.ID]*InventoryItem{
			itemID: {ID: itemID, Model: "IP13", Storage: "128GB", Conditions: ConditionSet{KindBattery: BatteryPoor}, Cost: types.NewMoney(41_000)},
		},
		updated: map[id.ID]types.Money{},
	}
	svc := NewService(newFakeRepo(), inv)

	priced, err := svc.PriceInventoryItem(context.Background(), itemID)
	require.NoError(t, err)
	assert.Equal(t, "63000", inv.updated[itemID].String())
	assert.Equal(t, "22000", priced.Margin.String())

	_, err = svc.PriceInventoryItem(context.Background(), id.New())
	assert.True(t, apperror.IsNotFound(err))
}
