// Package launch persists tagged launch payloads for the host surface.
//
// The bridge writes a payload right before it launches the surface, and the
// boot handler writes the restart directive there for the next launch. The
// surface takes (reads and removes) the payload once it has opened. Files are
// written as protobuf JSON (structpb + protojson).
package launch
