package apiclient

import (
	"net/url"
	"strings"
)

// BackendPort — порт шлюза в локальной разработке.
const BackendPort = "5000"

// BaseURL вычисляет адрес шлюза.
//
// Если domain задан, порты :5000 и :8081 в нём отбрасываются; localhost
// получает http и порт 5000, остальные хосты — https без порта.
// Без domain используется хост webOrigin с портом 5000, а без него — localhost.
func BaseURL(domain, webOrigin string) string {
	if domain == "" {
		if u, err := url.Parse(webOrigin); err == nil && u.Scheme != "" && u.Hostname() != "" {
			return u.Scheme + "://" + u.Hostname() + ":" + BackendPort
		}
		return "http://localhost:" + BackendPort
	}

	host := strings.TrimSuffix(domain, ":"+BackendPort)
	host = strings.TrimSuffix(host, ":8081")
	if strings.Contains(host, "localhost") {
		return "http://" + host + ":" + BackendPort
	}
	return "https://" + host
}
