// Package readthis turns a document address, or a short identifier from a
// manual file, into a cleaned text extract of that document.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, http/, yaml/).
package readthis
