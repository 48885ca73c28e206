// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"

	"github.com/MKhiriev/scrapegate/internal/utils"
	"github.com/go-chi/chi/v5"
)

// CheckHTTPMethod is installed as the router's MethodNotAllowed handler. A
// known path requested with an unregistered method answers 404 like an
// unknown path, so clients cannot probe which admin routes exist. Requests
// whose method does match are served by router as usual.
func CheckHTTPMethod(router *chi.Mux) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		if !router.Match(chi.NewRouteContext(), r.Method, r.URL.Path) {
			utils.WriteError(w, http.StatusNotFound, http.StatusText(http.StatusNotFound), "")
			return
		}

		router.ServeHTTP(w, r)
	}
}
