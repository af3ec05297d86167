// Package icon normalizes user-supplied icons into the .icns format
// required by macOS application bundles.
//
// Sources already in .icns are copied verbatim; raster images and legacy
// .ico containers are rendered into a multi-resolution container.
package icon
