// Package cloud turns an arbitrary binary blob into a deduplicated point cloud.
//
// Responsibilities: loading the input, packing consecutive byte triplets
// into 24-bit keys, sort-then-scan deduplication, the spherical projection
// of each unique key, and the colour gradient applied over the final order.
// Key types: Key, Point, Cloud.
//
// Dependency rule: cloud never imports a rendering or storage package; the
// viewer and point index consume a finished Cloud read-only.
package cloud
