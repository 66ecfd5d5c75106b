// Package scorer turns text into an AI-generated probability. It supports a
// chat-completion backend that asks a hosted model for a JSON score, a
// two-class detector backend, and a seedable mock used when no credential
// is configured or the remote call fails. A model catalog client lists the
// models the chat backend can use.
package scorer
