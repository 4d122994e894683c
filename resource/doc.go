// Package resource provides handle tables for host-owned values.
//
// The provider hands its host opaque handles instead of raw references:
// live dictionaries and outstanding string lists are registered in a
// Table and released through exactly one path. A handle is a small
// integer; handle 0 is reserved and always invalid. Removing a handle
// twice fails the second time, which is how double-free is detected at
// the public surface.
//
//	table := resource.NewTable[*Dict]()
//
//	// Insert a value, get a handle
//	h := table.Insert(dict)
//
//	// Retrieve value by handle
//	dict, ok := table.Get(h)
//
//	// Remove and get value (ownership returns to the caller)
//	dict, ok := table.Remove(h)
//
// Values implementing Dropper are cleaned up when the table is cleared
// or closed with values still inside.
package resource
