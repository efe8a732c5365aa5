package http_utils

// DefaultUserAgent is sent on every request unless overridden via
// configuration or a scanned operation's own header parameters.
const DefaultUserAgent = "Mozilla/5.0 (compatible; oasprobe/1.0; +https://github.com/oasprobe/oasprobe)"
