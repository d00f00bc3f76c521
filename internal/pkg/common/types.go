package common

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Budget 預算等級，同時接受兩套詞彙（舊版 low/medium/high 與新版四級制）
type Budget string

const (
	BudgetLow      Budget = "Budget"
	BudgetModerate Budget = "Moderate"
	BudgetLuxury   Budget = "Luxury"
	BudgetUltra    Budget = "Ultra-Luxury"

	// 舊版詞彙，儲存時原樣保留
	BudgetLegacyLow    Budget = "low"
	BudgetLegacyMedium Budget = "medium"
	BudgetLegacyHigh   Budget = "high"
)

// IsValid 檢查預算等級是否在允許的兩套詞彙內
func (b Budget) IsValid() bool {
	switch b {
	case "", BudgetLow, BudgetModerate, BudgetLuxury, BudgetUltra,
		BudgetLegacyLow, BudgetLegacyMedium, BudgetLegacyHigh:
		return true
	}
	return false
}

// Priority 推薦項目的優先級
type Priority string

const (
	PriorityEssential   Priority = "essential"
	PriorityRecommended Priority = "recommended"
	PriorityOptional    Priority = "optional"
)

// NormalizePriority 將任意字串收斂到三值枚舉，枚舉外一律視為 recommended
func NormalizePriority(raw string) Priority {
	switch Priority(strings.ToLower(strings.TrimSpace(raw))) {
	case PriorityEssential:
		return PriorityEssential
	case PriorityOptional:
		return PriorityOptional
	case PriorityRecommended:
		return PriorityRecommended
	default:
		return PriorityRecommended
	}
}

// Category 商品分類
type Category string

const (
	CategoryLuggage      Category = "luggage"
	CategoryClothing     Category = "clothing"
	CategoryElectronics  Category = "electronics"
	CategoryAccessories  Category = "accessories"
	CategoryToiletries   Category = "toiletries"
	CategoryOutdoorGear  Category = "outdoor-gear"
	CategoryTravelDocs   Category = "travel-docs"
	CategoryHealthSafety Category = "health-safety"
	CategoryComfort      Category = "comfort"
	CategoryTechGadgets  Category = "tech-gadgets"
	CategoryOther        Category = "other"
)

// Categories 所有合法分類
var Categories = []Category{
	CategoryLuggage, CategoryClothing, CategoryElectronics, CategoryAccessories,
	CategoryToiletries, CategoryOutdoorGear, CategoryTravelDocs,
	CategoryHealthSafety, CategoryComfort, CategoryTechGadgets, CategoryOther,
}

// NormalizeCategory 將任意字串收斂到固定分類，枚舉外一律視為 other
func NormalizeCategory(raw string) Category {
	c := Category(strings.ToLower(strings.TrimSpace(raw)))
	for _, known := range Categories {
		if c == known {
			return known
		}
	}
	return CategoryOther
}

// TripStatus 行程狀態
type TripStatus string

const (
	TripStatusPlanning  TripStatus = "planning"
	TripStatusConfirmed TripStatus = "confirmed"
	TripStatusCompleted TripStatus = "completed"
	TripStatusCancelled TripStatus = "cancelled"
)

// TripPreferences 行程偏好
type TripPreferences struct {
	Activities  []string `json:"activities,omitempty" bson:"activities,omitempty"`
	Climate     string   `json:"climate,omitempty" bson:"climate,omitempty"`
	Budget      Budget   `json:"budget,omitempty" bson:"budget,omitempty"`
	TravelStyle string   `json:"travel_style,omitempty" bson:"travel_style,omitempty"`
}

// Trip 行程文件
type Trip struct {
	ID              primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	UserID          string               `json:"user_id" bson:"user_id"`
	Destination     string               `json:"destination" bson:"destination"`
	StartDate       time.Time            `json:"start_date" bson:"start_date"`
	EndDate         time.Time            `json:"end_date" bson:"end_date"`
	DurationDays    int                  `json:"duration_days" bson:"duration_days"`
	Preferences     TripPreferences      `json:"preferences" bson:"preferences"`
	Recommendations []primitive.ObjectID `json:"recommendations,omitempty" bson:"recommendations,omitempty"`
	Status          TripStatus           `json:"status" bson:"status"`
	Notes           string               `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedAt       time.Time            `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at" bson:"updated_at"`
}

// Attributes 取出產生推薦所需的行程屬性投影，Trip 本身不被修改
func (t *Trip) Attributes() TripAttributes {
	return TripAttributes{
		Destination:  t.Destination,
		DurationDays: t.DurationDays,
		StartDate:    t.StartDate,
		Climate:      t.Preferences.Climate,
		Activities:   t.Preferences.Activities,
		Budget:       t.Preferences.Budget,
		TravelStyle:  t.Preferences.TravelStyle,
	}
}

// TripAttributes 推薦管線的輸入，每次請求建立一次、不可變
type TripAttributes struct {
	Destination  string    `json:"destination"`
	DurationDays int       `json:"duration_days"`
	StartDate    time.Time `json:"start_date"`
	Climate      string    `json:"climate,omitempty"`
	Activities   []string  `json:"activities,omitempty"`
	Budget       Budget    `json:"budget,omitempty"`
	TravelStyle  string    `json:"travel_style,omitempty"`
}

// Product 可購買商品（聯盟行銷目錄）
type Product struct {
	ID               primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name             string             `json:"name" bson:"name"`
	Description      string             `json:"description" bson:"description"`
	Category         Category           `json:"category" bson:"category"`
	Price            float64            `json:"price" bson:"price"`
	Currency         string             `json:"currency" bson:"currency"`
	AffiliateURL     string             `json:"affiliate_url" bson:"affiliate_url"`
	AffiliatePartner string             `json:"affiliate_partner,omitempty" bson:"affiliate_partner,omitempty"`
	ImageURL         string             `json:"image_url" bson:"image_url"`
	Tags             []string           `json:"tags" bson:"tags"`
	Rating           float64            `json:"rating,omitempty" bson:"rating,omitempty"`
	ReviewCount      int                `json:"review_count" bson:"review_count"`
	InStock          bool               `json:"in_stock" bson:"in_stock"`
	Featured         bool               `json:"featured" bson:"featured"`
	CreatedAt        time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at" bson:"updated_at"`
}

// RecommendedItem AI 回應正規化後的單一建議項目，建立後不再修改
type RecommendedItem struct {
	Name     string   `json:"name"`
	Reason   string   `json:"reason"`
	Priority Priority `json:"priority"`
	Category Category `json:"category"`
}

// MatchedProduct 對應到目錄商品的建議項目，ProductID 為 nil 表示沒有目錄對應
type MatchedProduct struct {
	ProductID *primitive.ObjectID `json:"product_id" bson:"product_id,omitempty"`
	Name      string              `json:"name" bson:"name"`
	Reason    string              `json:"reason" bson:"reason"`
	Priority  Priority            `json:"priority" bson:"priority"`
	Category  Category            `json:"category" bson:"category"`
}

// ItemStatus 個人物品狀態，刪除採軟刪除
type ItemStatus string

const (
	ItemStatusActive   ItemStatus = "active"
	ItemStatusArchived ItemStatus = "archived"
	ItemStatusDeleted  ItemStatus = "deleted"
)

// IsValid 檢查物品狀態是否在枚舉內
func (s ItemStatus) IsValid() bool {
	switch s {
	case ItemStatusActive, ItemStatusArchived, ItemStatusDeleted:
		return true
	}
	return false
}

// Item 使用者自己管理的行李物品
type Item struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID      string             `json:"user_id" bson:"user_id"`
	Title       string             `json:"title" bson:"title"`
	Description string             `json:"description" bson:"description"`
	Category    string             `json:"category" bson:"category"`
	ImageURL    string             `json:"image_url,omitempty" bson:"image_url,omitempty"`
	Tags        []string           `json:"tags" bson:"tags"`
	Status      ItemStatus         `json:"status" bson:"status"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at" bson:"updated_at"`
}

// Recommendation 持久化的推薦結果，每個 (trip, user) 至多一筆有效紀錄
type Recommendation struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	TripID     primitive.ObjectID `json:"trip_id" bson:"trip_id"`
	UserID     string             `json:"user_id" bson:"user_id"`
	Products   []MatchedProduct   `json:"products" bson:"products"`
	AIPrompt   string             `json:"ai_prompt" bson:"ai_prompt"`
	AIResponse string             `json:"ai_response" bson:"ai_response"`
	CacheKey   string             `json:"cache_key,omitempty" bson:"cache_key,omitempty"`
	ExpiresAt  time.Time          `json:"expires_at" bson:"expires_at"`
	CreatedAt  time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at" bson:"updated_at"`
}

// Usable 只有在 expiresAt 之前這筆紀錄才能直接回用
func (r *Recommendation) Usable(now time.Time) bool {
	return now.Before(r.ExpiresAt)
}
