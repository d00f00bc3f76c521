package item

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"bagitup-api/internal/pkg/common"
)

const itemCollection = "items"

const (
	maxTitleLength       = 200
	maxDescriptionLength = 2000

	defaultPageLimit = 10
	maxPageLimit     = 100
)

// CreateInput 建立物品的輸入
type CreateInput struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description" binding:"required"`
	Category    string   `json:"category" binding:"required"`
	ImageURL    string   `json:"image_url"`
	Tags        []string `json:"tags"`
}

// UpdateInput 更新物品的輸入，nil 欄位表示不更動
type UpdateInput struct {
	Title       *string            `json:"title"`
	Description *string            `json:"description"`
	Category    *string            `json:"category"`
	ImageURL    *string            `json:"image_url"`
	Tags        *[]string          `json:"tags"`
	Status      *common.ItemStatus `json:"status"`
}

// ListOptions 查詢條件，Status 空值時只列出 active 的物品
type ListOptions struct {
	Category string
	Status   common.ItemStatus
	Page     int
	Limit    int
}

// Pagination 分頁資訊
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

// Service 物品的 Mongo 持久層與商業邏輯
type Service struct {
	collection *mongo.Collection
}

// NewService 建立物品服務
func NewService(db *mongo.Database) *Service {
	return &Service{collection: db.Collection(itemCollection)}
}

// validateTitle 標題必填且不超過上限
func validateTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", common.NewValidationError("title 不可為空")
	}
	if len(title) > maxTitleLength {
		return "", common.NewValidationError("title 超過 200 字元上限")
	}
	return title, nil
}

// validateDescription 描述必填且不超過上限
func validateDescription(description string) (string, error) {
	if strings.TrimSpace(description) == "" {
		return "", common.NewValidationError("description 不可為空")
	}
	if len(description) > maxDescriptionLength {
		return "", common.NewValidationError("description 超過 2000 字元上限")
	}
	return description, nil
}

// normalizeListOptions 補齊分頁預設值並限制單頁筆數
func normalizeListOptions(opts ListOptions) ListOptions {
	if opts.Status == "" {
		opts.Status = common.ItemStatusActive
	}
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit < 1 {
		opts.Limit = defaultPageLimit
	}
	if opts.Limit > maxPageLimit {
		opts.Limit = maxPageLimit
	}
	return opts
}

// listFilter 組出使用者範圍的查詢條件
func listFilter(userID string, opts ListOptions) bson.M {
	filter := bson.M{"user_id": userID, "status": opts.Status}
	if opts.Category != "" {
		filter["category"] = opts.Category
	}
	return filter
}

// Create 建立新物品，初始狀態為 active
func (s *Service) Create(ctx context.Context, userID string, input *CreateInput) (*common.Item, error) {
	title, err := validateTitle(input.Title)
	if err != nil {
		return nil, err
	}
	description, err := validateDescription(input.Description)
	if err != nil {
		return nil, err
	}
	category := strings.TrimSpace(input.Category)
	if category == "" {
		return nil, common.NewValidationError("category 不可為空")
	}

	tags := input.Tags
	if tags == nil {
		tags = []string{}
	}

	now := time.Now()
	item := &common.Item{
		ID:          primitive.NewObjectID(),
		UserID:      userID,
		Title:       title,
		Description: description,
		Category:    category,
		ImageURL:    input.ImageURL,
		Tags:        tags,
		Status:      common.ItemStatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := s.collection.InsertOne(ctx, item); err != nil {
		return nil, err
	}

	common.LogInfo("物品已建立",
		zap.String("item_id", item.ID.Hex()),
		zap.String("category", item.Category))
	return item, nil
}

// List 分頁列出使用者的物品，新的在前
func (s *Service) List(ctx context.Context, userID string, opts ListOptions) ([]common.Item, *Pagination, error) {
	opts = normalizeListOptions(opts)
	if !opts.Status.IsValid() {
		return nil, nil, common.NewValidationError("status 不在允許的值之內")
	}

	filter := listFilter(userID, opts)
	findOpts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(opts.Limit)).
		SetSkip(int64((opts.Page - 1) * opts.Limit))

	cursor, err := s.collection.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, nil, err
	}
	defer cursor.Close(ctx)

	items := make([]common.Item, 0)
	if err := cursor.All(ctx, &items); err != nil {
		return nil, nil, err
	}

	total, err := s.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, nil, err
	}

	return items, &Pagination{
		Page:  opts.Page,
		Limit: opts.Limit,
		Total: total,
		Pages: int(math.Ceil(float64(total) / float64(opts.Limit))),
	}, nil
}

// FindByID 取得使用者擁有的物品，找不到或不屬於該使用者回傳 ErrItemNotFound
func (s *Service) FindByID(ctx context.Context, itemID primitive.ObjectID, userID string) (*common.Item, error) {
	var item common.Item
	err := s.collection.FindOne(ctx, bson.M{"_id": itemID, "user_id": userID}).Decode(&item)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, common.ErrItemNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Update 部分更新物品
func (s *Service) Update(ctx context.Context, itemID primitive.ObjectID, userID string, input *UpdateInput) (*common.Item, error) {
	set := bson.M{"updated_at": time.Now()}

	if input.Title != nil {
		title, err := validateTitle(*input.Title)
		if err != nil {
			return nil, err
		}
		set["title"] = title
	}
	if input.Description != nil {
		description, err := validateDescription(*input.Description)
		if err != nil {
			return nil, err
		}
		set["description"] = description
	}
	if input.Category != nil {
		category := strings.TrimSpace(*input.Category)
		if category == "" {
			return nil, common.NewValidationError("category 不可為空")
		}
		set["category"] = category
	}
	if input.ImageURL != nil {
		set["image_url"] = *input.ImageURL
	}
	if input.Tags != nil {
		set["tags"] = *input.Tags
	}
	if input.Status != nil {
		if !input.Status.IsValid() {
			return nil, common.NewValidationError("status 不在允許的值之內")
		}
		set["status"] = *input.Status
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated common.Item
	err := s.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": itemID, "user_id": userID},
		bson.M{"$set": set}, opts).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, common.ErrItemNotFound
	}
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete 軟刪除：把狀態標成 deleted，文件保留
func (s *Service) Delete(ctx context.Context, itemID primitive.ObjectID, userID string) (*common.Item, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var deleted common.Item
	err := s.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": itemID, "user_id": userID},
		bson.M{"$set": bson.M{
			"status":     common.ItemStatusDeleted,
			"updated_at": time.Now(),
		}}, opts).Decode(&deleted)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, common.ErrItemNotFound
	}
	if err != nil {
		return nil, err
	}

	common.LogInfo("物品已標記刪除", zap.String("item_id", itemID.Hex()))
	return &deleted, nil
}
