// Package ir holds the value model shared by every other package.
//
// Results of page scripts arrive as loosely typed data in which the real
// payload may be wrapped, possibly several times, in a mapping under the
// reserved "value" key next to unrelated metadata. The package resolves that
// once, at the boundary:
//
//	raw any --Classify--> Remote --Normalize--> Value
//
// Remote is a sealed variant (RemoteScalar, RemoteSequence, RemoteMapping,
// RemoteWrapped). Value is the normalized, wrapper-free form consumed by
// step logic through Lookup, AsString, AsBool, AsInt and Truthy.
//
// ir imports nothing internal.
package ir
