// Package session implements the websocket session to the market-data
// gateway.
//
// The gateway speaks an event protocol: each request carries a correlation
// ID and is answered by zero or more "partial_response" events followed by
// one terminal "response" (or "error") event. The drain loop is owned by
// the request helper; raw events never reach callers.
//
// A session supports concurrent requests — responses are routed by
// correlation ID — but each scheduler worker conventionally issues one
// request at a time.
package session
