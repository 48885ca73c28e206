// Package http implements the REST API of scrapegate.
//
// Routes cover registration, authentication, activity logging, quota checks,
// the contact form and the admin operations. Middlewares handle trace IDs,
// access logging, gzip, bearer session tokens, admin keys and body hashes
// before a request reaches the service layer.
package http
