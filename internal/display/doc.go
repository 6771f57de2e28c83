// Package display implements pixelate.Display for the places a render can be
// watched: a progress line on the terminal and refresh events published on a
// Redis channel for external viewers.
package display
