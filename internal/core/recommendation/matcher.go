package recommendation

import (
	"context"

	"go.uber.org/zap"

	"bagitup-api/internal/pkg/common"
)

// Catalog 商品查詢介面，由 product 套件的 Mongo 實作提供
type Catalog interface {
	// FindOneInStock 回傳第一個符合的有庫存商品，找不到時回傳 (nil, nil)
	FindOneInStock(ctx context.Context, name string, category common.Category) (*common.Product, error)
}

// Matcher 把 AI 推薦項目對應到商品目錄
type Matcher struct {
	catalog Catalog
}

// NewMatcher 建立商品配對器
func NewMatcher(catalog Catalog) *Matcher {
	return &Matcher{catalog: catalog}
}

// Match 為每個推薦項目各自查詢目錄，一項失敗不影響其他項。
// 回傳值第一個切片與輸入等長且順序相同，未配對的項目 ProductID 為 nil；
// 第二個切片只收未配對的項目，方便呼叫端另外呈現。
func (m *Matcher) Match(ctx context.Context, items []common.RecommendedItem) ([]common.MatchedProduct, []common.RecommendedItem) {
	matched := make([]common.MatchedProduct, 0, len(items))
	var unmatched []common.RecommendedItem

	for _, item := range items {
		entry := common.MatchedProduct{
			Name:     item.Name,
			Reason:   item.Reason,
			Priority: item.Priority,
			Category: item.Category,
		}

		product, err := m.catalog.FindOneInStock(ctx, item.Name, item.Category)
		if err != nil {
			common.LogWarn("商品配對查詢失敗",
				zap.String("item", item.Name),
				zap.Error(err))
			product = nil
		}

		if product != nil {
			id := product.ID
			entry.ProductID = &id
		} else {
			unmatched = append(unmatched, item)
		}

		matched = append(matched, entry)
	}

	return matched, unmatched
}
