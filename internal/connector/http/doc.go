// Package http provides the REST transport used to talk to SharePoint.
//
// Structure:
//
//	client.go     - HTTP client with rate limiting and retry
//	auth.go       - Authentication strategies (Bearer, OAuth2 token source)
//	paginator.go  - OData next-link pagination
package http
