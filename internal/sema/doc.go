// Package sema implements the semantic actions a grammar walk calls while it
// scans a script block.
//
// A Session holds the state shared by one analysis: the type registry, the
// scope graph, the sequence counter and the observer. A Context is a cursor
// into one scope of that graph; every action returns a Value describing the
// expression it produced. Failed actions report through diag.Reporter and
// return an empty Value, so a single bad expression only degrades itself.
package sema
