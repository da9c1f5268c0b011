package fakebank

import (
	"context"
	"net/http"
)

func withPrincipal(r *http.Request, p principal) context.Context {
	return context.WithValue(r.Context(), ctxKey{}, p)
}

func principalFrom(r *http.Request) principal {
	p, _ := r.Context().Value(ctxKey{}).(principal)
	return p
}
