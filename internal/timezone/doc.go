// Package timezone converts timestamps between IANA zones at the system
// boundaries. The core scheduling computation works in UTC; this package
// owns the edges where user-facing zone-local strings enter and leave.
//
// Offset-qualified input (trailing Z, explicit offset) is always honored
// as-is. Offset-less input is interpreted in the zone the function's
// contract names, never silently in the host's local zone.
package timezone
