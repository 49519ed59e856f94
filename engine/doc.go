// Package engine wires the feed store, calendar resolver, trip selector and
// interstop analyzer into one query facade. An Engine is built once per feed
// and serves any number of independent, cancellable queries.
package engine
