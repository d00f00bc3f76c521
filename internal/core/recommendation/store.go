package recommendation

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"bagitup-api/internal/pkg/common"
)

const recommendationCollection = "recommendations"

// MongoStore 推薦紀錄的 Mongo 持久層
type MongoStore struct {
	collection *mongo.Collection
}

// NewMongoStore 建立推薦紀錄儲存
func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{collection: db.Collection(recommendationCollection)}
}

// FindOne 取得指定行程與使用者的推薦紀錄，找不到回傳 ErrRecommendationNotFound
func (s *MongoStore) FindOne(ctx context.Context, tripID primitive.ObjectID, userID string) (*common.Recommendation, error) {
	filter := bson.M{"trip_id": tripID, "user_id": userID}

	var rec common.Recommendation
	err := s.collection.FindOne(ctx, filter).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, common.ErrRecommendationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// FindByUser 取得使用者的所有推薦紀錄，新的在前
func (s *MongoStore) FindByUser(ctx context.Context, userID string) ([]common.Recommendation, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := s.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	recs := make([]common.Recommendation, 0)
	if err := cursor.All(ctx, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

// Upsert 以 (trip_id, user_id) 為鍵寫入推薦紀錄。已有紀錄時原地覆寫
// 內容並延後 expires_at，_id 與 created_at 不變
func (s *MongoStore) Upsert(ctx context.Context, rec *common.Recommendation) (*common.Recommendation, error) {
	now := time.Now()
	filter := bson.M{"trip_id": rec.TripID, "user_id": rec.UserID}
	update := bson.M{
		"$set": bson.M{
			"products":    rec.Products,
			"ai_prompt":   rec.AIPrompt,
			"ai_response": rec.AIResponse,
			"cache_key":   rec.CacheKey,
			"expires_at":  rec.ExpiresAt,
			"updated_at":  now,
		},
		"$setOnInsert": bson.M{
			"trip_id":    rec.TripID,
			"user_id":    rec.UserID,
			"created_at": now,
		},
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var saved common.Recommendation
	if err := s.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&saved); err != nil {
		return nil, err
	}

	common.LogDebug("推薦紀錄已寫入",
		zap.String("trip_id", rec.TripID.Hex()),
		zap.String("recommendation_id", saved.ID.Hex()))
	return &saved, nil
}

// DeleteMany 刪除指定行程與使用者的推薦紀錄，回傳刪除筆數
func (s *MongoStore) DeleteMany(ctx context.Context, tripID primitive.ObjectID, userID string) (int64, error) {
	result, err := s.collection.DeleteMany(ctx, bson.M{"trip_id": tripID, "user_id": userID})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}
