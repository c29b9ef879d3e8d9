// Package pagination provides the pagination primitives shared by the engine client,
// the failed flow node list and the CLI.
//
// This package contains:
//   - Range: the descriptor carried by the engine's Content-Range header
//   - Params: count/page request parameters and their validation
//   - Meta: display metadata derived from a Range and the number of rendered items
//   - Order: ASC/DESC sort direction parsing
//
// The engine paginates with a count (c) and a zero-based page index (p). A response
// reports its window as "start-end/total", which ParseRange turns into a Range.
package pagination
