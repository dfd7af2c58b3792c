// Package flows contains the orchestration logic for the refresh and logout
// operations, expressed as pure functions over dependency structs so the root
// package stays a thin facade and the flows stay unit-testable without Redis.
package flows
