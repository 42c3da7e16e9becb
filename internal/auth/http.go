package auth

import "net/http"

// Middleware attaches the caller to the request context. The bearer key is
// read from the Authorization header, or from the access_token query
// parameter for EventSource clients that cannot set headers.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := BearerToken(r.Header.Get("Authorization"))
		if token == "" {
			token = r.URL.Query().Get("access_token")
		}
		c := a.authenticate(token, r.RemoteAddr)
		next.ServeHTTP(w, r.WithContext(WithCaller(r.Context(), c)))
	})
}
