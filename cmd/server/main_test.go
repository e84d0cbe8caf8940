package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"clubhub/internal/config"
)

func TestSwaggerURL(t *testing.T) {
	tests := []struct {
		host string
		want string
	}{
		{"", "http://localhost:8080/swagger/index.html"},
		{"api.example.com", "http://api.example.com/swagger/index.html"},
		{"https://api.example.com/", "https://api.example.com/swagger/index.html"},
	}
	for _, tt := range tests {
		got := swaggerURL(&config.Config{ServerPort: "8080", SwaggerHost: tt.host})
		assert.Equal(t, tt.want, got, tt.host)
	}
}
