// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"
	"slices"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/crowdblog-auth/internal/app"
	"github.com/MKhiriev/crowdblog-auth/internal/utils"
)

// CheckHTTPMethod returns an [http.HandlerFunc] that is intended to be
// registered as the router's MethodNotAllowed handler via
// [chi.Mux.MethodNotAllowed].
//
// It answers 405 with the JSON error body and an "Allow" header listing
// the methods registered for the requested path. The lookup compares each
// route pattern with the raw request path, so only exact matches count.
//
// Usage:
//
//	router := chi.NewRouter()
//	// ... register routes ...
//	router.MethodNotAllowed(CheckHTTPMethod(router))
func CheckHTTPMethod(router *chi.Mux) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		var allowed []string
		for _, route := range router.Routes() {
			if route.Pattern != r.URL.Path {
				continue
			}
			for method := range route.Handlers {
				allowed = append(allowed, method)
			}
		}

		if len(allowed) == 0 {
			notFound(w, r)
			return
		}

		slices.Sort(allowed)
		w.Header().Set("Allow", strings.Join(allowed, ", "))
		utils.WriteError(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	}
}

func notFound(w http.ResponseWriter, _ *http.Request) {
	utils.WriteError(w, app.MsgNotFound, http.StatusNotFound)
}
