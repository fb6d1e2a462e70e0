// Package util provides small helpers shared by the kvprefs packages:
//
//   - Future: a single-assignment result of an asynchronous operation with
//     context-aware waiting. The prefs facade returns futures from its write paths so
//     that callers can fire and forget or await the backend's answer.
//
//   - HashString: FNV-1a hashing used to derive channel IDs from channel names.
package util
