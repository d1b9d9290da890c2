// internal/app/system/limits/limits.go
package limits

// Request body size limits.
// These limits help prevent memory exhaustion from oversized requests.
const (
	// MaxJSONBodySize caps every JSON request body (login, users, projects, tasks, time).
	MaxJSONBodySize = 1 << 20 // 1 MB
)
