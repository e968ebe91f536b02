// Package contour generates the frame geometry of the morphing contour field.
//
// Everything here is a pure function of (time, parameters, scale): the live
// view calls [GenerateFrame] with scale 1 and its own clock, the exporter
// calls it with resolution/400 and an independent clock. Nothing is cached
// between frames.
//
// The "4D" modulation is trigonometric phase modulation layered on the 2D
// contours; there is no projection from a higher-dimensional space.
package contour
