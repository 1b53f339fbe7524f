// Package render defines the contract shared by record renderers and a
// registry to select one by name.
package render
