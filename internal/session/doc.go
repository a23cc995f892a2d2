// Package session implements the core usage-tracking domain: decoding
// device events from the message bus, applying them to the session
// store, and the aggregate queries behind the reporting API.
//
// Events arrive at least once and may be duplicated or reordered; the
// tracker keeps the store consistent by enforcing at most one open
// session per device and treating redundant starts and ends as
// corrections rather than errors.
package session
