// Package imaging connects the pixelation core to image files.
//
// It loads and decodes source images, persists result snapshots, describes
// colors for reporting, and draws block-grid overlays that show how an image
// will be divided. All operations use a coordinate system where (0,0) is the
// top-left corner, X increases rightward, and Y increases downward.
//
// # Loading
//
// ImageCache decodes PNG, JPEG, GIF, BMP, TIFF and WebP files and keeps the
// decoded images keyed by path. LoadBuffers turns a cached image into the
// source/result buffer pair a render needs. Any failure to open or decode is
// wrapped in pixelate.ErrLoadFailure.
//
// # Persisting
//
// FileStore implements pixelate.Store by encoding the result as JPEG, PNG or
// BMP, chosen by the target's extension, and atomically replacing the target
// file. MemoryStore keeps the latest snapshot in memory instead.
//
// # Thread Safety
//
// ImageCache and MemoryStore are safe for concurrent use. FileStore holds no
// state; concurrent saves to the same target must be serialized by the caller,
// which pixelate.OutputSync does.
//
// # Color Representation
//
// Colors are reported as hex "#RRGGBB", 8-bit RGB, and HSL with hue 0-360 and
// saturation/lightness 0-100.
package imaging
