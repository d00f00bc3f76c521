package item

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"bagitup-api/internal/pkg/common"
)

func TestValidateTitle(t *testing.T) {
	title, err := validateTitle("  Packing cubes  ")
	assert.NoError(t, err)
	assert.Equal(t, "Packing cubes", title)

	_, err = validateTitle("   ")
	assert.True(t, common.IsValidationError(err))

	_, err = validateTitle(strings.Repeat("a", maxTitleLength+1))
	assert.True(t, common.IsValidationError(err))

	_, err = validateTitle(strings.Repeat("a", maxTitleLength))
	assert.NoError(t, err)
}

func TestValidateDescription(t *testing.T) {
	_, err := validateDescription("")
	assert.True(t, common.IsValidationError(err))

	_, err = validateDescription(strings.Repeat("a", maxDescriptionLength+1))
	assert.True(t, common.IsValidationError(err))

	description, err := validateDescription("keeps clothes compressed")
	assert.NoError(t, err)
	assert.Equal(t, "keeps clothes compressed", description)
}

func TestCreateValidation(t *testing.T) {
	// 驗證失敗在進 DB 之前就擋下
	svc := &Service{}
	ctx := context.Background()

	_, err := svc.Create(ctx, "user-1", &CreateInput{
		Title:       "   ",
		Description: "desc",
		Category:    "bags",
	})
	assert.True(t, common.IsValidationError(err))

	_, err = svc.Create(ctx, "user-1", &CreateInput{
		Title:       "Packing cubes",
		Description: "",
		Category:    "bags",
	})
	assert.True(t, common.IsValidationError(err))

	_, err = svc.Create(ctx, "user-1", &CreateInput{
		Title:       "Packing cubes",
		Description: "desc",
		Category:    "  ",
	})
	assert.True(t, common.IsValidationError(err))
}

func TestUpdateValidation(t *testing.T) {
	svc := &Service{}
	ctx := context.Background()

	blank := "   "
	_, err := svc.Update(ctx, primitive.NewObjectID(), "user-1", &UpdateInput{Title: &blank})
	assert.True(t, common.IsValidationError(err))

	bogus := common.ItemStatus("misplaced")
	_, err = svc.Update(ctx, primitive.NewObjectID(), "user-1", &UpdateInput{Status: &bogus})
	assert.True(t, common.IsValidationError(err))
}

func TestNormalizeListOptions(t *testing.T) {
	// 空白選項補上預設：active 狀態、第一頁、每頁 10 筆
	opts := normalizeListOptions(ListOptions{})
	assert.Equal(t, common.ItemStatusActive, opts.Status)
	assert.Equal(t, 1, opts.Page)
	assert.Equal(t, defaultPageLimit, opts.Limit)

	opts = normalizeListOptions(ListOptions{Status: common.ItemStatusArchived, Page: 3, Limit: 25})
	assert.Equal(t, common.ItemStatusArchived, opts.Status)
	assert.Equal(t, 3, opts.Page)
	assert.Equal(t, 25, opts.Limit)

	opts = normalizeListOptions(ListOptions{Limit: maxPageLimit + 1})
	assert.Equal(t, maxPageLimit, opts.Limit)
}

func TestListFilter(t *testing.T) {
	filter := listFilter("user-1", normalizeListOptions(ListOptions{}))
	assert.Equal(t, bson.M{"user_id": "user-1", "status": common.ItemStatusActive}, filter)

	filter = listFilter("user-1", normalizeListOptions(ListOptions{Category: "bags", Status: common.ItemStatusDeleted}))
	assert.Equal(t, bson.M{
		"user_id":  "user-1",
		"status":   common.ItemStatusDeleted,
		"category": "bags",
	}, filter)
}

func TestItemStatusIsValid(t *testing.T) {
	assert.True(t, common.ItemStatusActive.IsValid())
	assert.True(t, common.ItemStatusArchived.IsValid())
	assert.True(t, common.ItemStatusDeleted.IsValid())
	assert.False(t, common.ItemStatus("").IsValid())
	assert.False(t, common.ItemStatus("misplaced").IsValid())
}
