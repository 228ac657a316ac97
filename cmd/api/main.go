package main

import (
	"log"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"libralend/internal/platform/config"
)

// The gateway fronts the four downstream services. Every downstream
// serves its routes under /api/v1, so requests are proxied with their
// paths intact. Loan routes live under a patron path, which is why the
// patrons prefix fans out on the /loans segment.
func main() {
	config.Load()

	booksProxy := proxyFor(config.Env("BOOKS_SERVICE_URL", "http://localhost:8081"))
	loansProxy := proxyFor(config.Env("LOANS_SERVICE_URL", "http://localhost:8082"))
	patronsProxy := proxyFor(config.Env("PATRONS_SERVICE_URL", "http://localhost:8083"))
	staffProxy := proxyFor(config.Env("STAFF_SERVICE_URL", "http://localhost:8084"))

	http.Handle("/api/v1/books", booksProxy)
	http.Handle("/api/v1/books/", booksProxy)
	http.Handle("/api/v1/staff/", staffProxy)
	http.Handle("/api/v1/patrons", patronsProxy)
	http.Handle("/api/v1/patrons/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rest := strings.TrimPrefix(r.URL.Path, "/api/v1/patrons/")
		if segments := strings.Split(rest, "/"); len(segments) > 1 && segments[1] == "loans" {
			loansProxy.ServeHTTP(w, r)
			return
		}
		patronsProxy.ServeHTTP(w, r)
	}))

	port := config.Env("PORT", "8080")
	log.Printf("API Gateway listening on port %s", port)
	log.Fatal(http.ListenAndServe(":"+port, nil))
}

func proxyFor(rawURL string) *httputil.ReverseProxy {
	target, err := url.Parse(rawURL)
	if err != nil {
		log.Fatalf("invalid service URL %q: %v", rawURL, err)
	}
	return httputil.NewSingleHostReverseProxy(target)
}
