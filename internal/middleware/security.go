package middleware

import (
	"fmt"
	"net/http"
	"strings"
)

// SecureHeaders sets the browser security headers of every response
type SecureHeaders struct {
	HSTSMaxAge            int
	ContentSecurityPolicy string
	XFrameOptions         string
	ReferrerPolicy        string
	PermissionsPolicy     string
}

// DefaultSecureHeaders returns the headers used by the form server.
// The CSP allows inline styles and data: URIs, which the result page
// uses for its chart and its download link.
func DefaultSecureHeaders() *SecureHeaders {
	return &SecureHeaders{
		HSTSMaxAge: 63072000,
		ContentSecurityPolicy: strings.Join([]string{
			"default-src 'self'",
			"style-src 'self' 'unsafe-inline'",
			"img-src 'self' data:",
			"script-src 'none'",
			"frame-ancestors 'none'",
			"base-uri 'self'",
			"form-action 'self'",
		}, "; "),
		XFrameOptions:  "DENY",
		ReferrerPolicy: "strict-origin-when-cross-origin",
		PermissionsPolicy: strings.Join([]string{
			"camera=()",
			"geolocation=()",
			"microphone=()",
			"payment=()",
			"usb=()",
		}, ", "),
	}
}

// Handler returns the middleware handler
func (sh *SecureHeaders) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")

		if sh.HSTSMaxAge > 0 && r.TLS != nil {
			h.Set("Strict-Transport-Security", fmt.Sprintf("max-age=%d; includeSubDomains", sh.HSTSMaxAge))
		}
		if sh.ContentSecurityPolicy != "" {
			h.Set("Content-Security-Policy", sh.ContentSecurityPolicy)
		}
		if sh.XFrameOptions != "" {
			h.Set("X-Frame-Options", sh.XFrameOptions)
		}
		if sh.ReferrerPolicy != "" {
			h.Set("Referrer-Policy", sh.ReferrerPolicy)
		}
		if sh.PermissionsPolicy != "" {
			h.Set("Permissions-Policy", sh.PermissionsPolicy)
		}

		next.ServeHTTP(w, r)
	})
}
