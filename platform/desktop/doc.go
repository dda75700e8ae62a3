// Package desktop hosts the shell in an SDL window. It exists so the
// lifecycle can be driven and debugged away from a device: minimising
// the window plays the part of the OS taking the surface away.
package desktop
