package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestParseInt(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 7},
		{"3", 3},
		{"abc", 7},
		{"0", 7},
		{"-2", 7},
	}
	for _, tt := range tests {
		if got := ParseInt(tt.in, 7); got != tt.want {
			t.Errorf("ParseInt(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestSplitCommaList(t *testing.T) {
	got := SplitCommaList(" Projector, Sound System ,,WiFi, ")
	want := []string{"Projector", "Sound System", "WiFi"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if got := SplitCommaList(""); len(got) != 0 {
		t.Fatalf("expected empty list, got %v", got)
	}
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		token  string
		ok     bool
	}{
		{"Bearer abc", "abc", true},
		{"bearer  abc ", "abc", true},
		{"Bearer", "", false},
		{"Token abc", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		token, ok := BearerToken(tt.header)
		if token != tt.token || ok != tt.ok {
			t.Errorf("BearerToken(%q) = %q, %v; want %q, %v", tt.header, token, ok, tt.token, tt.ok)
		}
	}
}

func TestPagination(t *testing.T) {
	if got := CalculateTotalPages(0, 10); got != 0 {
		t.Errorf("expected 0 pages, got %d", got)
	}
	if got := CalculateTotalPages(21, 10); got != 3 {
		t.Errorf("expected 3 pages, got %d", got)
	}
	if got := CalculateOffset(3, 10); got != 20 {
		t.Errorf("expected offset 20, got %d", got)
	}
	if got := CalculateOffset(0, 10); got != 0 {
		t.Errorf("expected offset 0, got %d", got)
	}
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("studentpass", 4)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !CheckPasswordHash("studentpass", hash) {
		t.Error("expected password to match")
	}
	if CheckPasswordHash("wrong", hash) {
		t.Error("expected wrong password to fail")
	}
}

type sample struct {
	Email string `validate:"required,email"`
	Date  string `validate:"required,datetime=2006-01-02"`
	Mode  string `validate:"oneof=approve reject"`
}

func TestValidateStruct(t *testing.T) {
	if errs := ValidateStruct(sample{Email: "a@b.edu", Date: "2025-03-15", Mode: "approve"}); errs != nil {
		t.Fatalf("expected no errors, got %v", errs)
	}

	errs := ValidateStruct(sample{Email: "nope", Date: "15/03/2025", Mode: "archive"})
	if len(errs) != 3 {
		t.Fatalf("expected 3 errors, got %v", errs)
	}
	if errs["Mode"] != "Must be one of: approve, reject" {
		t.Errorf("unexpected oneof message %q", errs["Mode"])
	}

	msg := FormatValidationErrors(errs)
	if !strings.HasPrefix(msg, "Date: ") {
		t.Errorf("expected sorted messages, got %q", msg)
	}
}

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"PORT", "APP_TIMEZONE", "BOOKING_UNIQUE_SLOT_SCOPE", "RATE_LIMIT_CAPACITY", "AVAILABILITY_CACHE_TTL", "RABBITMQ_QUEUE"} {
		t.Setenv(key, "")
	}
}

func TestLoadConfigFrom(t *testing.T) {
	clearConfigEnv(t)
	path := filepath.Join(t.TempDir(), ".env")
	content := "PORT=9090\nAPP_TIMEZONE=Asia/Kolkata\nBOOKING_UNIQUE_SLOT_SCOPE=all\nRATE_LIMIT_CAPACITY=0\nAVAILABILITY_CACHE_TTL=1m\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write env: %v", err)
	}

	config, err := LoadConfigFrom(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if config.App.Port != "9090" {
		t.Errorf("expected port 9090, got %s", config.App.Port)
	}
	if config.Booking.UniqueSlotScope != "all" {
		t.Errorf("expected scope all, got %s", config.Booking.UniqueSlotScope)
	}
	if config.RateLimit.Capacity != 1 {
		t.Errorf("expected capacity clamped to 1, got %d", config.RateLimit.Capacity)
	}
	if config.Redis.AvailabilityTTL != time.Minute {
		t.Errorf("expected 1m cache ttl, got %v", config.Redis.AvailabilityTTL)
	}
	if config.RabbitMQ.Queue != "hall.booking.events" {
		t.Errorf("expected default queue, got %s", config.RabbitMQ.Queue)
	}
}

func TestLoadConfigFrom_MissingFile(t *testing.T) {
	clearConfigEnv(t)
	config, err := LoadConfigFrom(filepath.Join(t.TempDir(), "absent.env"))
	if err != nil {
		t.Fatalf("expected defaults without a file, got %v", err)
	}
	if config.App.Port != "8080" || config.Booking.UniqueSlotScope != "active" {
		t.Errorf("unexpected defaults %+v", config)
	}
}

func TestLocation(t *testing.T) {
	if loc := (AppConfig{}).Location(); loc != time.UTC {
		t.Errorf("expected UTC for empty zone, got %v", loc)
	}
	if loc := (AppConfig{Timezone: "Mars/Olympus"}).Location(); loc != time.UTC {
		t.Errorf("expected UTC for unknown zone, got %v", loc)
	}
}
