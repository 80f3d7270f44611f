// Package integration provides integration tests for the release version API.
// These tests run the complete server against mock upstream release sources
// (stable-check APIs and Atom release feeds).
package integration
