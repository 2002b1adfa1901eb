package apiclient

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBaseURL(t *testing.T) {
	tests := []struct {
		name      string
		domain    string
		webOrigin string
		want      string
	}{
		{name: "production domain", domain: "app.settlementfast.com", want: "https://app.settlementfast.com"},
		{name: "domain with backend port", domain: "app.example.dev:5000", want: "https://app.example.dev"},
		{name: "domain with metro port", domain: "app.example.dev:8081", want: "https://app.example.dev"},
		{name: "localhost domain", domain: "localhost:8081", want: "http://localhost:5000"},
		{name: "web origin", webOrigin: "http://192.168.1.20:8081", want: "http://192.168.1.20:5000"},
		{name: "https web origin", webOrigin: "https://preview.example.dev", want: "https://preview.example.dev:5000"},
		{name: "nothing known", want: "http://localhost:5000"},
		{name: "domain wins over origin", domain: "api.example.com", webOrigin: "http://localhost:8081", want: "https://api.example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BaseURL(tt.domain, tt.webOrigin))
		})
	}
}
