// Package google provides shared plumbing for the Google-backed handlers:
// OAuth access-token refresh from a stored refresh token, API service
// construction, and error classification.
package google
