package cache

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"bagitup-api/internal/pkg/common"
)

func baseAttrs() common.TripAttributes {
	return common.TripAttributes{
		Destination:  "Tokyo",
		DurationDays: 5,
		Climate:      "temperate",
		Activities:   []string{"hiking", "photography"},
		Budget:       common.BudgetModerate,
		TravelStyle:  "backpacking",
	}
}

func TestBuildKeyDeterministic(t *testing.T) {
	attrs := baseAttrs()
	assert.Equal(t, BuildKey(attrs), BuildKey(attrs))
}

func TestBuildKeyPrefix(t *testing.T) {
	key := BuildKey(baseAttrs())
	assert.True(t, strings.HasPrefix(key, KeyPrefix))
	// md5 hex digest
	assert.Len(t, key, len(KeyPrefix)+32)
}

func TestBuildKeyDestinationNormalized(t *testing.T) {
	a := baseAttrs()
	b := baseAttrs()
	b.Destination = "  TOKYO "

	assert.Equal(t, BuildKey(a), BuildKey(b))
}

func TestBuildKeyActivitiesOrderInsensitive(t *testing.T) {
	a := baseAttrs()
	b := baseAttrs()
	b.Activities = []string{"photography", "hiking"}

	assert.Equal(t, BuildKey(a), BuildKey(b))
}

func TestBuildKeyDoesNotMutateActivities(t *testing.T) {
	attrs := baseAttrs()
	attrs.Activities = []string{"photography", "hiking"}
	BuildKey(attrs)

	assert.Equal(t, []string{"photography", "hiking"}, attrs.Activities)
}

func TestBuildKeyIgnoresStartDate(t *testing.T) {
	a := baseAttrs()
	a.StartDate = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	b := baseAttrs()
	b.StartDate = time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, BuildKey(a), BuildKey(b))
}

func TestBuildKeyDistinguishesAttributes(t *testing.T) {
	a := baseAttrs()

	b := baseAttrs()
	b.DurationDays = 6
	assert.NotEqual(t, BuildKey(a), BuildKey(b))

	c := baseAttrs()
	c.Budget = common.BudgetLuxury
	assert.NotEqual(t, BuildKey(a), BuildKey(c))

	d := baseAttrs()
	d.Activities = append(d.Activities, "diving")
	assert.NotEqual(t, BuildKey(a), BuildKey(d))
}

func TestBuildKeyEmptyOptionalFields(t *testing.T) {
	attrs := common.TripAttributes{
		Destination:  "Osaka",
		DurationDays: 3,
	}

	key := BuildKey(attrs)
	assert.True(t, strings.HasPrefix(key, KeyPrefix))
	assert.Equal(t, key, BuildKey(attrs))
}
