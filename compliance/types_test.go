package compliance

import (
	"encoding/json"
	"testing"
)

func TestConsentTypeUnmarshalFallback(t *testing.T) {
	var known ConsentType
	if err := json.Unmarshal([]byte(`"analytics"`), &known); err != nil {
		t.Fatalf("unmarshal known: %v", err)
	}
	if known != ConsentAnalytics {
		t.Fatalf("expected analytics, got %q", known)
	}

	var unknown ConsentType
	if err := json.Unmarshal([]byte(`"ai_training"`), &unknown); err != nil {
		t.Fatalf("unmarshal unknown: %v", err)
	}
	if unknown != ConsentUnknown {
		t.Fatalf("expected fallback, got %q", unknown)
	}

	var bad ConsentType
	if err := json.Unmarshal([]byte(`7`), &bad); err == nil {
		t.Fatal("expected error for non-string consent type")
	}
}

func TestRetentionCategoryUnmarshalFallback(t *testing.T) {
	var known RetentionCategory
	if err := json.Unmarshal([]byte(`"audit_trail"`), &known); err != nil {
		t.Fatalf("unmarshal known: %v", err)
	}
	if known != RetentionAuditTrail {
		t.Fatalf("expected audit_trail, got %q", known)
	}

	var unknown RetentionCategory
	if err := json.Unmarshal([]byte(`"telemetry"`), &unknown); err != nil {
		t.Fatalf("unmarshal unknown: %v", err)
	}
	if unknown != RetentionUnknown {
		t.Fatalf("expected fallback, got %q", unknown)
	}
}

func TestExportStatusUnmarshalFallback(t *testing.T) {
	var known ExportStatus
	if err := json.Unmarshal([]byte(`"ready"`), &known); err != nil {
		t.Fatalf("unmarshal known: %v", err)
	}
	if known != ExportReady {
		t.Fatalf("expected ready, got %q", known)
	}

	var unknown ExportStatus
	if err := json.Unmarshal([]byte(`"archived"`), &unknown); err != nil {
		t.Fatalf("unmarshal unknown: %v", err)
	}
	if unknown != ExportUnknown {
		t.Fatalf("expected fallback, got %q", unknown)
	}
}

func TestEnumsMarshalAsPlainStrings(t *testing.T) {
	data, err := json.Marshal(ConsentRecord{Type: ConsentMarketing, Granted: true})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded["type"] != "marketing" {
		t.Fatalf("expected plain string enum, got %v", decoded["type"])
	}
}
