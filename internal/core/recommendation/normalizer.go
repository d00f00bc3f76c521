package recommendation

import (
	"strings"

	"go.uber.org/zap"

	"bagitup-api/internal/pkg/common"
)

// looseItem AI 回應中單一項目的寬鬆形狀，欄位缺漏或超出列舉都先照收
type looseItem struct {
	Name     string `json:"name"`
	Reason   string `json:"reason"`
	Priority string `json:"priority"`
	Category string `json:"category"`
}

// wrappedItems 有些模型會把陣列包在物件欄位裡
type wrappedItems struct {
	Items           []looseItem `json:"items"`
	Recommendations []looseItem `json:"recommendations"`
}

// Normalize 把 AI 回應整理成結構化的推薦項目清單。
// 接受已解析的項目切片（原樣通過）或原始文字；任何無法解析的
// 輸入都回傳空清單而不是錯誤，讓呼叫端永遠拿得到可用的結果。
func Normalize(raw any) []common.RecommendedItem {
	switch v := raw.(type) {
	case []common.RecommendedItem:
		return v
	case string:
		return normalizeText(v)
	case []byte:
		return normalizeText(string(v))
	default:
		common.LogWarn("推薦回應型別無法處理", zap.String("type", typeName(raw)))
		return []common.RecommendedItem{}
	}
}

// normalizeText 從原始文字中切出 JSON 區段並解析成項目清單
func normalizeText(raw string) []common.RecommendedItem {
	span := common.ExtractJSONSpan(raw)
	if span == "" {
		common.LogWarn("推薦回應中找不到 JSON 內容",
			zap.Int("response_length", len(raw)))
		return []common.RecommendedItem{}
	}

	items, err := parseSpan(span)
	if err != nil {
		// 常見故障是 key 沒加引號，修補後再試一次
		items, err = parseSpan(common.QuoteJSONKeys(span))
	}
	if err != nil {
		common.LogWarn("推薦回應解析失敗",
			zap.Error(err),
			zap.Int("span_length", len(span)))
		return []common.RecommendedItem{}
	}

	return coerceItems(items)
}

// parseSpan 依區段開頭決定是陣列還是包裝物件
func parseSpan(span string) ([]looseItem, error) {
	if strings.HasPrefix(span, "[") {
		var items []looseItem
		if err := common.ParseJSON(span, &items); err != nil {
			return nil, err
		}
		return items, nil
	}

	var wrapped wrappedItems
	if err := common.ParseJSON(span, &wrapped); err != nil {
		return nil, err
	}
	if len(wrapped.Items) > 0 {
		return wrapped.Items, nil
	}
	return wrapped.Recommendations, nil
}

// coerceItems 過濾沒有名稱的項目並把列舉值拉回合法範圍
func coerceItems(items []looseItem) []common.RecommendedItem {
	result := make([]common.RecommendedItem, 0, len(items))
	for _, item := range items {
		name := strings.TrimSpace(item.Name)
		if name == "" {
			continue
		}
		result = append(result, common.RecommendedItem{
			Name:     name,
			Reason:   strings.TrimSpace(item.Reason),
			Priority: common.NormalizePriority(item.Priority),
			Category: common.NormalizeCategory(item.Category),
		})
	}
	return result
}

func typeName(v any) string {
	if v == nil {
		return "nil"
	}
	switch v.(type) {
	case map[string]any:
		return "object"
	case []any:
		return "array"
	default:
		return "unknown"
	}
}
