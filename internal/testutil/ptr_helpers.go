package testutil

// Ptr returns a pointer to v
func Ptr[T any](v T) *T {
	return &v
}

// String returns a pointer to the given string
func String(s string) *string {
	return &s
}

// Strings returns a pointer to a slice holding urls, as used by partial post updates
func Strings(urls ...string) *[]string {
	if urls == nil {
		urls = []string{}
	}
	return &urls
}
