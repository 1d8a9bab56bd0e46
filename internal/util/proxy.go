package util

import (
	"net/http"
	"net/url"
	"strings"
)

// NewProxyFunc creates a proxy selection function for outbound scorer and
// LLM traffic. With no explicit proxy URLs it falls back to the standard
// environment variables. Hosts matching an entry of the comma-separated
// noProxy list bypass the proxy.
func NewProxyFunc(httpProxy, httpsProxy, noProxy string) func(*http.Request) (*url.URL, error) {
	if httpProxy == "" && httpsProxy == "" {
		return http.ProxyFromEnvironment
	}

	bypass := parseNoProxy(noProxy)

	return func(req *http.Request) (*url.URL, error) {
		if hostBypassed(req.URL.Hostname(), bypass) {
			return nil, nil
		}
		if req.URL.Scheme == "https" && httpsProxy != "" {
			return url.Parse(httpsProxy)
		}
		if httpProxy != "" {
			return url.Parse(httpProxy)
		}
		return http.ProxyFromEnvironment(req)
	}
}

func parseNoProxy(noProxy string) []string {
	var out []string
	for _, entry := range strings.Split(noProxy, ",") {
		entry = strings.TrimSpace(strings.ToLower(entry))
		if entry != "" {
			out = append(out, entry)
		}
	}
	return out
}

// hostBypassed matches the host exactly or as a suffix, so "example.com"
// also bypasses "api.example.com".
func hostBypassed(host string, bypass []string) bool {
	host = strings.ToLower(host)
	for _, entry := range bypass {
		if host == entry || strings.HasSuffix(host, "."+strings.TrimPrefix(entry, ".")) {
			return true
		}
	}
	return false
}
