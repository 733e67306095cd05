package common

// RootName is the label of the synthetic breadcrumb root.
const RootName = "Materials"

// RequestIDHeaderName is the HTTP header carrying the per-request
// correlation id.
const RequestIDHeaderName = "X-Request-ID"
