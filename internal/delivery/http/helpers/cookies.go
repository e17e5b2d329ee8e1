package helpers

import (
	"net/http"
	"time"

	"gatherly/internal/domain"
)

// Cookie names and paths for the credential pair.
const (
	AccessTokenCookie  = "access_token_cookie"
	RefreshTokenCookie = "refresh_token_cookie"
	AccessCookiePath   = "/"
	RefreshCookiePath  = "/token/refresh"
)

func authCookie(name, value, path string, expires time.Time, secure bool) *http.Cookie {
	maxAge := int(time.Until(expires).Seconds())
	if maxAge < 1 {
		maxAge = -1
	}
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		Expires:  expires,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	}
}

// SetAuthCookies writes the access cookie and, when present, the refresh cookie.
func SetAuthCookies(w http.ResponseWriter, creds *domain.Credentials, secure bool) {
	http.SetCookie(w, authCookie(AccessTokenCookie, creds.AccessToken, AccessCookiePath, creds.AccessExpiresAt, secure))
	if creds.RefreshToken != "" {
		http.SetCookie(w, authCookie(RefreshTokenCookie, creds.RefreshToken, RefreshCookiePath, creds.RefreshExpiresAt, secure))
	}
}

// ClearAuthCookies expires both credential cookies.
func ClearAuthCookies(w http.ResponseWriter, secure bool) {
	for _, c := range []struct{ name, path string }{
		{AccessTokenCookie, AccessCookiePath},
		{RefreshTokenCookie, RefreshCookiePath},
	} {
		http.SetCookie(w, &http.Cookie{
			Name:     c.name,
			Value:    "",
			Path:     c.path,
			Expires:  time.Unix(0, 0),
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   secure,
			SameSite: http.SameSiteStrictMode,
		})
	}
}
