package cache

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"sort"
	"strings"

	"bagitup-api/internal/pkg/common"
)

// KeyPrefix 快取鍵的固定命名空間
const KeyPrefix = "trip:recommendation:"

// canonicalAttributes 行程屬性的正規化投影。欄位順序固定，序列化結果
// 才會穩定；digest 只需要唯一與穩定，不需要抗碰撞攻擊，128 位元即可。
type canonicalAttributes struct {
	Destination  string        `json:"destination"`
	DurationDays int           `json:"duration_days"`
	Climate      string        `json:"climate,omitempty"`
	Activities   []string      `json:"activities,omitempty"`
	Budget       common.Budget `json:"budget,omitempty"`
	TravelStyle  string        `json:"travel_style,omitempty"`
}

// BuildKey 從行程屬性導出確定性的快取鍵。目的地大小寫與前後空白、
// 活動順序都不影響結果。純函數，永不失敗。
// StartDate 不參與鍵值：同一組偏好在不同出發日共享快取。
func BuildKey(attrs common.TripAttributes) string {
	canonical := canonicalAttributes{
		Destination:  strings.ToLower(strings.TrimSpace(attrs.Destination)),
		DurationDays: attrs.DurationDays,
		Climate:      attrs.Climate,
		Budget:       attrs.Budget,
		TravelStyle:  attrs.TravelStyle,
	}

	// 排序活動列表的副本，輸入本身不被改動
	if len(attrs.Activities) > 0 {
		canonical.Activities = append([]string(nil), attrs.Activities...)
		sort.Strings(canonical.Activities)
	}

	// 固定結構的 Marshal 不會失敗
	data, _ := json.Marshal(canonical)
	digest := md5.Sum(data)
	return KeyPrefix + hex.EncodeToString(digest[:])
}
