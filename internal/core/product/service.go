package product

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"bagitup-api/internal/pkg/common"
)

const productCollection = "products"

// ListOptions 商品列表的查詢條件
type ListOptions struct {
	Category common.Category
	Search   string
	InStock  *bool
	Limit    int64
	Skip     int64
}

// Service 商品目錄的 Mongo 持久層
type Service struct {
	collection *mongo.Collection
}

// NewService 建立商品服務
func NewService(db *mongo.Database) *Service {
	return &Service{collection: db.Collection(productCollection)}
}

// escapeRegex 使用者輸入進 $regex 前先跳脫，避免被當樣式解讀
func escapeRegex(s string) string {
	replacer := strings.NewReplacer(
		`\`, `\\`, `.`, `\.`, `+`, `\+`, `*`, `\*`, `?`, `\?`,
		`(`, `\(`, `)`, `\)`, `[`, `\[`, `]`, `\]`, `{`, `\{`, `}`, `\}`,
		`^`, `\^`, `$`, `\$`, `|`, `\|`,
	)
	return replacer.Replace(s)
}

// List 依條件列出商品，評分高的在前
func (s *Service) List(ctx context.Context, opts *ListOptions) ([]common.Product, error) {
	filter := bson.M{}
	if opts.Category != "" {
		filter["category"] = opts.Category
	}
	if opts.InStock != nil {
		filter["in_stock"] = *opts.InStock
	}
	if search := strings.TrimSpace(opts.Search); search != "" {
		pattern := primitive.Regex{Pattern: escapeRegex(search), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"name": pattern},
			bson.M{"description": pattern},
			bson.M{"tags": pattern},
		}
	}

	findOpts := options.Find().SetSort(bson.D{{Key: "rating", Value: -1}})
	if opts.Limit > 0 {
		findOpts.SetLimit(opts.Limit)
	}
	if opts.Skip > 0 {
		findOpts.SetSkip(opts.Skip)
	}

	cursor, err := s.collection.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	products := make([]common.Product, 0)
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// Featured 取得精選且有庫存的商品
func (s *Service) Featured(ctx context.Context, limit int64) ([]common.Product, error) {
	if limit <= 0 {
		limit = 10
	}
	findOpts := options.Find().
		SetSort(bson.D{{Key: "rating", Value: -1}}).
		SetLimit(limit)

	cursor, err := s.collection.Find(ctx, bson.M{"featured": true, "in_stock": true}, findOpts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	products := make([]common.Product, 0)
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// GetByID 取得單一商品，找不到回傳 ErrProductNotFound
func (s *Service) GetByID(ctx context.Context, id primitive.ObjectID) (*common.Product, error) {
	var p common.Product
	err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, common.ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// inStockFilter 組出推薦比對用的查詢條件：只看有庫存的商品，
// 名稱或標籤的不分大小寫子字串命中、或分類完全相等都算符合
func inStockFilter(name string, category common.Category) bson.M {
	pattern := primitive.Regex{Pattern: escapeRegex(strings.TrimSpace(name)), Options: "i"}
	return bson.M{
		"in_stock": true,
		"$or": bson.A{
			bson.M{"name": pattern},
			bson.M{"tags": pattern},
			bson.M{"category": category},
		},
	}
}

// FindOneInStock 為推薦項目找第一個符合的有庫存商品，
// 寧可錯配也不要漏配。找不到回傳 (nil, nil)
func (s *Service) FindOneInStock(ctx context.Context, name string, category common.Category) (*common.Product, error) {
	var p common.Product
	err := s.collection.FindOne(ctx, inStockFilter(name, category)).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}
