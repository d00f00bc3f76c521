package recommendation

import (
	"fmt"
	"strings"

	"bagitup-api/internal/pkg/common"
)

// SystemInstruction 所有供應商共用的系統指示；JSON 模式的細節
// （response_format / responseMimeType）由各供應商自己處理
const SystemInstruction = "You are a helpful travel packing assistant with expertise in travel gear and equipment. Always respond with valid JSON only, no markdown formatting."

// BuildPrompt 從行程屬性組裝打包清單的 prompt
func BuildPrompt(attrs common.TripAttributes) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(
		"You are a travel gear expert. Suggest a comprehensive packing list for a %d-day trip to %s.",
		attrs.DurationDays, attrs.Destination,
	))

	if attrs.Climate != "" {
		sb.WriteString(fmt.Sprintf("\nClimate: %s", attrs.Climate))
	}

	if len(attrs.Activities) > 0 {
		sb.WriteString(fmt.Sprintf("\nPlanned activities: %s", strings.Join(attrs.Activities, ", ")))
	}

	if attrs.Budget != "" {
		sb.WriteString(fmt.Sprintf("\nBudget level: %s", attrs.Budget))
	}

	if attrs.TravelStyle != "" {
		sb.WriteString(fmt.Sprintf("\nTravel style: %s", attrs.TravelStyle))
	}

	sb.WriteString(`

For each recommended item, provide:
1. Item name (specific and searchable)
2. Brief reason why it's needed
3. Priority level (essential, recommended, or optional)

Format your response as a JSON array with this structure:
[
  {
    "name": "Item name",
    "reason": "Why you need it",
    "priority": "essential|recommended|optional",
    "category": "luggage|clothing|electronics|accessories|toiletries|outdoor-gear|travel-docs|health-safety|comfort|tech-gadgets|other"
  }
]

Focus on practical, commonly available products that a Gen-Z traveler would appreciate. Include 15-25 items total.`)

	return sb.String()
}
