// Package types contains the type expressions that the subtype checker compares.
// A type is one of a nominal reference to a declaration, a structural set of
// required methods, a tuple, a union, an intersection, or a reference to a
// generic type parameter. Tuples, unions and intersections are always binary;
// wider forms are right-nested pairs, see NewTuple, NewUnion and NewIntersection.
// Nothing in this package mutates a type after it has been built, so types and
// declarations can be shared freely between checks and goroutines.
package types //nolint:revive
