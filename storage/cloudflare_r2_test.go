package storage

import (
	"context"
	"net/url"
	"testing"
)

func TestPublicURL(t *testing.T) {
	tests := []struct {
		base string
		key  string
		want string
	}{
		{"https://cdn.example.com", "players/a.png", "https://cdn.example.com/players/a.png"},
		{"https://cdn.example.com/", "/players/a.png", "https://cdn.example.com/players/a.png"},
		{"https://cdn.example.com/media", "players/a.png", "https://cdn.example.com/media/players/a.png"},
		{"https://cdn.example.com/media/", "players/a.png", "https://cdn.example.com/media/players/a.png"},
		{"https://cdn.example.com", "", ""},
	}
	for _, tt := range tests {
		base, err := url.Parse(tt.base)
		if err != nil {
			t.Fatalf("parse %q: %v", tt.base, err)
		}
		if got := PublicURL(base, tt.key); got != tt.want {
			t.Fatalf("PublicURL(%q, %q) = %q, want %q", tt.base, tt.key, got, tt.want)
		}
	}
	if got := PublicURL(nil, "x"); got != "" {
		t.Fatalf("PublicURL(nil) = %q, want empty", got)
	}
}

func TestNewCloudflareR2UploaderRequiresAllFields(t *testing.T) {
	_, err := NewCloudflareR2Uploader(context.Background(), CloudflareR2UploaderConfig{AccountID: "a"})
	if err == nil {
		t.Fatalf("expected configuration error")
	}
}
