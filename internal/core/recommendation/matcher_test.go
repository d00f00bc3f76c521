package recommendation

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"bagitup-api/internal/pkg/common"
)

// stubCatalog 測試用商品目錄，名稱子字串命中且有庫存才回傳
type stubCatalog struct {
	products map[string]*common.Product
	failOn   string
	calls    int
}

func (s *stubCatalog) FindOneInStock(ctx context.Context, name string, category common.Category) (*common.Product, error) {
	s.calls++
	if s.failOn != "" && strings.Contains(strings.ToLower(name), s.failOn) {
		return nil, errors.New("catalog query failed")
	}
	for key, p := range s.products {
		if strings.Contains(strings.ToLower(name), key) && p.InStock {
			return p, nil
		}
	}
	return nil, nil
}

func testProduct(name string) *common.Product {
	return &common.Product{
		ID:      primitive.NewObjectID(),
		Name:    name,
		InStock: true,
	}
}

func TestMatchPreservesOrderAndLength(t *testing.T) {
	catalog := &stubCatalog{products: map[string]*common.Product{
		"backpack": testProduct("Trail Backpack 40L"),
	}}
	matcher := NewMatcher(catalog)

	items := []common.RecommendedItem{
		{Name: "Lightweight Backpack", Priority: common.PriorityEssential, Category: common.CategoryLuggage},
		{Name: "Moon Rock Sample", Priority: common.PriorityOptional, Category: common.CategoryOther},
	}

	matched, unmatched := matcher.Match(context.Background(), items)

	require.Len(t, matched, 2)
	assert.Equal(t, "Lightweight Backpack", matched[0].Name)
	require.NotNil(t, matched[0].ProductID)
	assert.Equal(t, catalog.products["backpack"].ID, *matched[0].ProductID)

	assert.Equal(t, "Moon Rock Sample", matched[1].Name)
	assert.Nil(t, matched[1].ProductID)

	require.Len(t, unmatched, 1)
	assert.Equal(t, "Moon Rock Sample", unmatched[0].Name)
}

func TestMatchSkipsOutOfStockProduct(t *testing.T) {
	outOfStock := testProduct("Trail Backpack 40L")
	outOfStock.InStock = false
	catalog := &stubCatalog{products: map[string]*common.Product{
		"backpack": outOfStock,
	}}
	matcher := NewMatcher(catalog)

	items := []common.RecommendedItem{
		{Name: "Lightweight Backpack", Priority: common.PriorityEssential, Category: common.CategoryLuggage},
	}

	matched, unmatched := matcher.Match(context.Background(), items)

	// 缺貨商品即使名稱完全吻合也視為沒有對應
	require.Len(t, matched, 1)
	assert.Nil(t, matched[0].ProductID)
	require.Len(t, unmatched, 1)
	assert.Equal(t, "Lightweight Backpack", unmatched[0].Name)
}

func TestMatchCarriesItemFields(t *testing.T) {
	matcher := NewMatcher(&stubCatalog{})

	items := []common.RecommendedItem{
		{Name: "Sunscreen", Reason: "UV protection", Priority: common.PriorityEssential, Category: common.CategoryToiletries},
	}

	matched, _ := matcher.Match(context.Background(), items)

	require.Len(t, matched, 1)
	assert.Equal(t, "UV protection", matched[0].Reason)
	assert.Equal(t, common.PriorityEssential, matched[0].Priority)
	assert.Equal(t, common.CategoryToiletries, matched[0].Category)
}

func TestMatchQueryFailureDoesNotAffectOthers(t *testing.T) {
	catalog := &stubCatalog{
		products: map[string]*common.Product{"adapter": testProduct("Universal Adapter")},
		failOn:   "cursed",
	}
	matcher := NewMatcher(catalog)

	items := []common.RecommendedItem{
		{Name: "Cursed Item", Category: common.CategoryOther},
		{Name: "Travel Adapter", Category: common.CategoryElectronics},
	}

	matched, unmatched := matcher.Match(context.Background(), items)

	require.Len(t, matched, 2)
	assert.Nil(t, matched[0].ProductID)
	assert.NotNil(t, matched[1].ProductID)
	require.Len(t, unmatched, 1)
	assert.Equal(t, "Cursed Item", unmatched[0].Name)
	assert.Equal(t, 2, catalog.calls)
}

func TestMatchEmptyInput(t *testing.T) {
	matcher := NewMatcher(&stubCatalog{})

	matched, unmatched := matcher.Match(context.Background(), nil)

	assert.Empty(t, matched)
	assert.Empty(t, unmatched)
}
