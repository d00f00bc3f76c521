package provider

import (
	"context"
)

// MockProvider 開發與測試用的固定回應供應商。只能經由明確的設定旗標
// 啟用，不做任何環境自動偵測。
type MockProvider struct {
	response string
}

// 固定回應刻意保留枚舉外的 priority/category 值，讓正規化層的
// 收斂邏輯在開發模式下也會被走到。
const mockResponse = `[
  {"name": "Lightweight Backpack", "reason": "Essential for carrying your daily items during the trip", "priority": "high", "category": "bags"},
  {"name": "Travel Adapter", "reason": "Important for keeping your devices charged", "priority": "high", "category": "electronics"},
  {"name": "Quick-Dry Towel", "reason": "Space-saving and practical for various activities", "priority": "medium", "category": "accessories"},
  {"name": "Portable Charger", "reason": "Keep your phone charged during long days of exploration", "priority": "high", "category": "electronics"},
  {"name": "Reusable Water Bottle", "reason": "Stay hydrated and reduce plastic waste", "priority": "medium", "category": "accessories"},
  {"name": "First Aid Kit", "reason": "Always good to have basic medical supplies", "priority": "medium", "category": "health"},
  {"name": "Sunscreen", "reason": "Protect your skin from UV rays", "priority": "high", "category": "health"},
  {"name": "Travel Pillow", "reason": "Comfort during long flights or bus rides", "priority": "low", "category": "comfort"}
]`

// NewMock 創建固定回應供應商
func NewMock() *MockProvider {
	return &MockProvider{response: mockResponse}
}

// NewMockWithResponse 測試用：指定回應內容
func NewMockWithResponse(response string) *MockProvider {
	return &MockProvider{response: response}
}

// Name 供應商名稱
func (p *MockProvider) Name() string {
	return "mock"
}

// Available 固定回應供應商永遠可用
func (p *MockProvider) Available() bool {
	return true
}

// Generate 回傳固定內容
func (p *MockProvider) Generate(ctx context.Context, req *Request) (string, error) {
	return p.response, nil
}
