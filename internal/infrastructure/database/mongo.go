package database

import (
	"context"
	"fmt"

	"bagitup-api/internal/infrastructure/config"
	"bagitup-api/internal/pkg/common"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Connect 建立 MongoDB 連線並確認可達
func Connect(ctx context.Context, cfg *config.MongoConfig) (*mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	// 測試連接
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	common.LogInfo("MongoDB 連線成功",
		zap.String("database", cfg.Database),
	)

	return client.Database(cfg.Database), nil
}

// Disconnect 關閉 MongoDB 連線
func Disconnect(ctx context.Context, db *mongo.Database) {
	if db == nil {
		return
	}
	if err := db.Client().Disconnect(ctx); err != nil {
		common.LogError("MongoDB 連線關閉失敗", zap.Error(err))
	}
}
