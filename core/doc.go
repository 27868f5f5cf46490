// Package core defines the shared contracts of the travel coordinator: the
// closed handler set and its capability interface, dispatch and result
// shapes, conversation sessions and their store contract, collaboration
// outcomes and the stream event wire format. It is the leaf package every
// other package depends on; it depends on nothing but the standard library.
package core
