// Package middleware provides the HTTP middleware in front of the terminal
// service.
//
//   - CORS: the terminal page may be hosted on another origin, including the
//     websocket upgrade
//   - RateLimit: per-IP token bucket; idle buckets are swept
//
// RateLimitConfig.Limiter is also used by the websocket handler to bound
// keystrokes per connection.
//
// Example Usage:
//
//	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
//	router.Use(middleware.RateLimit(middleware.DefaultRateLimitConfig()))
package middleware
