package httpserver

import "net/http"

type Controller interface {
	AddRoutes(router *http.ServeMux)
}
