// Package imaging provides the image plumbing shared by the coin pipeline.
//
// It covers three concerns:
//   - Loading and saving image files, with typed errors for each direction
//   - A copy-on-write Canvas for drawing circle outlines and text labels
//   - Annotation styles and colour parsing
//
// # Coordinate System
//
// All coordinates are 0-based pixels relative to the top-left corner of the
// image, X increasing rightward and Y increasing downward. Images copied onto
// a Canvas are rebased so that their bounds start at (0,0).
//
// # Error Handling
//
// Load returns *ImageLoadError for missing, undecodable or empty images.
// Save returns *PersistenceError when the directory or file cannot be written.
// Both match their sentinel (ErrImageLoad, ErrPersistence) with errors.Is.
//
// # Thread Safety
//
// A Canvas is not safe for concurrent use. Every Canvas owns its own pixel
// buffer, so separate canvases built from the same base image can be drawn on
// concurrently.
package imaging
