// Package strindex is the Go client for the strindex HTTP API.
//
// The client submits strings for analysis, looks them up by exact
// value, and runs structured or natural-language filters:
//
//	c := strindex.New("http://localhost:8080")
//	rec, err := c.CreateString(ctx, "racecar")
//	res, err := c.QueryStrings(ctx, "all single word palindromic strings")
//
// API errors are returned as *strindex.Error carrying the HTTP status
// and the server's error code.
package strindex
