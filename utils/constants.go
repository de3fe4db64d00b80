// File: utils/constants.go
package utils

import "time"

// InstantRequestTTL is the offer window of an instant request.
const InstantRequestTTL = 24 * time.Hour

// RateLimitWindow is the fixed window used by the Redis rate limiter.
const RateLimitWindow = time.Minute
