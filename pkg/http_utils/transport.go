package http_utils

import (
	"crypto/tls"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"golang.org/x/net/http2"
)

func getProxyFunc() func(*http.Request) (*url.URL, error) {
	proxy := viper.GetString("scan.proxy")
	if proxy == "" {
		return http.ProxyFromEnvironment
	}
	proxyURL, err := url.Parse(proxy)
	if err != nil {
		log.Error().Err(err).Str("proxy", proxy).Msg("Error parsing proxy url, using environment proxy")
		return http.ProxyFromEnvironment
	}
	return http.ProxyURL(proxyURL)
}

// CreateHttpTransport creates an HTTP transport with no pre-defined http
// version. Certificate validation is disabled: scan targets routinely run on
// self-signed or otherwise misconfigured certificates.
func CreateHttpTransport() *http.Transport {
	return &http.Transport{
		Proxy: getProxyFunc(),
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		MaxConnsPerHost:       100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		TLSClientConfig: &tls.Config{
			Renegotiation:      tls.RenegotiateOnceAsClient,
			InsecureSkipVerify: true,
		},
	}
}

// CreateHttp2Transport creates a transport pinned to HTTP/2 without
// fallback.
func CreateHttp2Transport() *http2.Transport {
	return &http2.Transport{
		AllowHTTP: false,
		DialTLS: func(network, addr string, cfg *tls.Config) (net.Conn, error) {
			if cfg == nil {
				cfg = &tls.Config{}
			}
			cfg.NextProtos = []string{"h2"}
			return tls.DialWithDialer(&net.Dialer{
				Timeout:   30 * time.Second,
				KeepAlive: 30 * time.Second,
			}, network, addr, cfg)
		},
		TLSClientConfig: &tls.Config{
			Renegotiation:      tls.RenegotiateOnceAsClient,
			InsecureSkipVerify: true,
		},
	}
}

// CreateHttpClient creates a regular HTTP client. A zero timeout leaves
// requests unbounded.
func CreateHttpClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Transport: CreateHttpTransport(),
		Timeout:   timeout,
	}
}

// CreateHttp2Client creates an HTTP/2-only client.
func CreateHttp2Client(timeout time.Duration) *http.Client {
	return &http.Client{
		Transport: CreateHttp2Transport(),
		Timeout:   timeout,
	}
}
