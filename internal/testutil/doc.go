// Package testutil contains helper builders used across tests to reduce
// boilerplate when building documents from markup and recording the
// reactions custom element factories receive. They are not intended for
// production usage.
package testutil
