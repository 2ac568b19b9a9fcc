// Command threadsafety runs small concurrent programs for teaching thread
// safety: an invariant broken by an unguarded update, a bounded buffer
// shared by producers and consumers, a gate that releases waiting
// goroutines together, a countdown restarted by interrupts, and the dining
// philosophers with and without a way out of deadlock.
//
// The dining philosophers protocol can also be exported as communicating
// finite state machines or as a MiGo program for analysis by other tools.
package main
