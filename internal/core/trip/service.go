package trip

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

const tripCollection = "trips"

// CreateInput 建立行程的輸入
type CreateInput struct {
	Destination string                 `json:"destination" binding:"required"`
	StartDate   time.Time              `json:"start_date" binding:"required"`
	EndDate     time.Time              `json:"end_date" binding:"required"`
	Preferences common.TripPreferences `json:"preferences"`
	Notes       string                 `json:"notes"`
}

// UpdateInput 更新行程的輸入，nil 欄位表示不更動
type UpdateInput struct {
	Destination *string                 `json:"destination"`
	StartDate   *time.Time              `json:"start_date"`
	EndDate     *time.Time              `json:"end_date"`
	Preferences *common.TripPreferences `json:"preferences"`
	Status      *common.TripStatus      `json:"status"`
	Notes       *string                 `json:"notes"`
}

// Service 行程的 Mongo 持久層與商業邏輯
type Service struct {
	collection *mongo.Collection
}

// NewService 建立行程服務
func NewService(db *mongo.Database) *Service {
	return &Service{collection: db.Collection(tripCollection)}
}

// durationDays 以日曆日計算行程天數，不足一天以一天計
func durationDays(start, end time.Time) int {
	days := int(math.Ceil(end.Sub(start).Hours() / 24))
	if days < 1 {
		days = 1
	}
	return days
}

// Create 建立新行程
func (s *Service) Create(ctx context.Context, userID string, input *CreateInput) (*common.Trip, error) {
	destination := strings.TrimSpace(input.Destination)
	if destination == "" {
		return nil, common.NewValidationError("destination 不可為空")
	}
	if !input.EndDate.After(input.StartDate) {
		return nil, common.NewValidationError("end_date 必須晚於 start_date")
	}
	if !input.Preferences.Budget.IsValid() {
		return nil, common.NewValidationError("budget 不在允許的值之內")
	}

	now := time.Now()
	trip := &common.Trip{
		ID:           primitive.NewObjectID(),
		UserID:       userID,
		Destination:  destination,
		StartDate:    input.StartDate,
		EndDate:      input.EndDate,
		DurationDays: durationDays(input.StartDate, input.EndDate),
		Preferences:  input.Preferences,
		Status:       common.TripStatusPlanning,
		Notes:        input.Notes,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := s.collection.InsertOne(ctx, trip); err != nil {
		return nil, err
	}

	common.LogInfo("行程已建立",
		zap.String("trip_id", trip.ID.Hex()),
		zap.String("destination", trip.Destination),
		zap.Int("duration_days", trip.DurationDays))
	return trip, nil
}

// List 列出使用者的行程，status 非空時過濾狀態，新的在前
func (s *Service) List(ctx context.Context, userID string, status common.TripStatus) ([]common.Trip, error) {
	filter := bson.M{"user_id": userID}
	if status != "" {
		filter["status"] = status
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := s.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	trips := make([]common.Trip, 0)
	if err := cursor.All(ctx, &trips); err != nil {
		return nil, err
	}
	return trips, nil
}

// FindByID 取得使用者擁有的行程，找不到或不屬於該使用者回傳 ErrTripNotFound
func (s *Service) FindByID(ctx context.Context, tripID primitive.ObjectID, userID string) (*common.Trip, error) {
	var trip common.Trip
	err := s.collection.FindOne(ctx, bson.M{"_id": tripID, "user_id": userID}).Decode(&trip)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, common.ErrTripNotFound
	}
	if err != nil {
		return nil, err
	}
	return &trip, nil
}

// Update 部分更新行程，日期變動時重算 duration_days
func (s *Service) Update(ctx context.Context, tripID primitive.ObjectID, userID string, input *UpdateInput) (*common.Trip, error) {
	current, err := s.FindByID(ctx, tripID, userID)
	if err != nil {
		return nil, err
	}

	set := bson.M{"updated_at": time.Now()}

	if input.Destination != nil {
		destination := strings.TrimSpace(*input.Destination)
		if destination == "" {
			return nil, common.NewValidationError("destination 不可為空")
		}
		set["destination"] = destination
	}

	start := current.StartDate
	end := current.EndDate
	if input.StartDate != nil {
		start = *input.StartDate
		set["start_date"] = start
	}
	if input.EndDate != nil {
		end = *input.EndDate
		set["end_date"] = end
	}
	if input.StartDate != nil || input.EndDate != nil {
		if !end.After(start) {
			return nil, common.NewValidationError("end_date 必須晚於 start_date")
		}
		set["duration_days"] = durationDays(start, end)
	}

	if input.Preferences != nil {
		if !input.Preferences.Budget.IsValid() {
			return nil, common.NewValidationError("budget 不在允許的值之內")
		}
		set["preferences"] = *input.Preferences
	}
	if input.Status != nil {
		set["status"] = *input.Status
	}
	if input.Notes != nil {
		set["notes"] = *input.Notes
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated common.Trip
	err = s.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": tripID, "user_id": userID},
		bson.M{"$set": set}, opts).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, common.ErrTripNotFound
	}
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete 刪除使用者擁有的行程
func (s *Service) Delete(ctx context.Context, tripID primitive.ObjectID, userID string) error {
	result, err := s.collection.DeleteOne(ctx, bson.M{"_id": tripID, "user_id": userID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return common.ErrTripNotFound
	}

	common.LogInfo("行程已刪除", zap.String("trip_id", tripID.Hex()))
	return nil
}

// AttachRecommendation 把推薦紀錄掛到行程上，重複掛同一筆不會累加
func (s *Service) AttachRecommendation(ctx context.Context, tripID primitive.ObjectID, userID string, recID primitive.ObjectID) error {
	_, err := s.collection.UpdateOne(ctx,
		bson.M{"_id": tripID, "user_id": userID},
		bson.M{
			"$addToSet": bson.M{"recommendations": recID},
			"$set":      bson.M{"updated_at": time.Now()},
		})
	return err
}

// ClearRecommendations 清空行程上的推薦參照
func (s *Service) ClearRecommendations(ctx context.Context, tripID primitive.ObjectID, userID string) error {
	_, err := s.collection.UpdateOne(ctx,
		bson.M{"_id": tripID, "user_id": userID},
		bson.M{
			"$set": bson.M{
				"recommendations": []primitive.ObjectID{},
				"updated_at":      time.Now(),
			},
		})
	return err
}
