package middlewarectx

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/license-checkout/internal/http/response"
)

// AllowMethod отвечает 405 на любой метод, кроме method, до остальных middleware группы.
func AllowMethod(method string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != method {
				w.Header().Set("Allow", method)
				render.Status(r, http.StatusMethodNotAllowed)
				render.JSON(w, r, response.Error(response.MsgMethodNotAllowed))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
