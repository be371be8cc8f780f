// Package timekeeper measures wall-clock, user-CPU and system-CPU time
// spent in named, nested regions of a program.
//
// Build a tree of Nodes once, time regions with Start/Stop scopes, and take
// a Result snapshot when it is time to report:
//
//	root := timekeeper.NewRoot("main")
//	load := timekeeper.NewNode("load", root)
//
//	func loadAll() {
//		defer timekeeper.Time(load)()
//		...
//	}
//
//	res := root.Snapshot()
//
// Nothing in the package locks. Use one tree per goroutine and Merge the
// snapshots, or serialize access yourself.
package timekeeper
