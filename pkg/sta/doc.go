// Package sta holds the OGC SensorThings entity model used by the client.
//
// Entities fetched from a server are kept opaque: the wire schema beyond
// the pagination envelope is server-defined, so Entity is a map with typed
// accessors for the well-known @iot annotations. Typed structs exist only
// where this tool produces request bodies (Thing deep inserts).
package sta
