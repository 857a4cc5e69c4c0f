// Package binding exposes external data models, read from OpenAPI documents,
// as bindable property keys and scaffolds form widgets from them.
package binding
