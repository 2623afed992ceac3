package model

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestUserJSONNeverExposesPasswordHash(t *testing.T) {
	user := &User{
		ID:           "user-1",
		Name:         "Alice",
		Email:        "alice@example.com",
		PasswordHash: "$2a$10$secret",
		AIModel:      DefaultAIModel,
		CreatedAt:    time.Now(),
	}

	data, err := json.Marshal(user)
	if err != nil {
		t.Fatalf("Failed to marshal user: %v", err)
	}
	if strings.Contains(string(data), "secret") {
		t.Errorf("Password hash leaked into JSON: %s", data)
	}
	if !strings.Contains(string(data), "alice@example.com") {
		t.Errorf("Expected email in JSON, got %s", data)
	}
}

func TestContractJSONOmitsEmptyOptionalFields(t *testing.T) {
	contract := &Contract{
		ID:      "c-1",
		Owner:   "user-1",
		Title:   "NDA",
		Status:  StatusDraft,
		Content: "some text",
	}

	data, err := json.Marshal(contract)
	if err != nil {
		t.Fatalf("Failed to marshal contract: %v", err)
	}
	if strings.Contains(string(data), "aiInsights") {
		t.Errorf("Expected aiInsights omitted when unset, got %s", data)
	}
	if strings.Contains(string(data), "originalFile") {
		t.Errorf("Expected originalFile omitted when unset, got %s", data)
	}
}

func TestDefaults(t *testing.T) {
	if StatusDraft != "draft" {
		t.Errorf("Expected status 'draft', got '%s'", StatusDraft)
	}
	if DefaultTitle != "Untitled contract" {
		t.Errorf("Expected 'Untitled contract', got '%s'", DefaultTitle)
	}
	if DefaultAIModel != "gpt-4.1-mini" {
		t.Errorf("Expected 'gpt-4.1-mini', got '%s'", DefaultAIModel)
	}
}
