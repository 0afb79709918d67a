// Package checkpoint persists the state of a Mandelbrot rendering job so an
// interrupted job can be resumed.
//
// A job is described by three records, each stored in its own file:
//
//	FractalParameters  tag "MC"  conventionally save.mc
//	GridGeometry       tag "TC"  conventionally save.mtc
//	ProgressState      tag "PC"  conventionally save.mpc
//
// Every record starts with its two-byte tag followed by a schema version
// byte and a little-endian payload. File names are a convention only:
// records are identified by content.
//
// Reading is layered. [Identify] looks at the tag, [Validate] confirms that
// the stream is long enough for the whole record, and [Load] decodes it.
// [DetectAndLoad] composes the three for a file and treats a missing or
// unrecognizable file as "no checkpoint yet".
//
// Example:
//
//	var snap checkpoint.Snapshot
//	for _, name := range []string{"save.mc", "save.mtc", "save.mpc"} {
//	    if _, err := checkpoint.DetectAndLoad(filepath.Join(dir, name), &snap); err != nil {
//	        return err
//	    }
//	}
package checkpoint
