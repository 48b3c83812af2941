// Package logging builds the structured logger shared by every component.
package logging
