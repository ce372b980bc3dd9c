// Package events defines the topics and payload types exchanged between
// the content tree, the selection controller and the host surface.
package events
