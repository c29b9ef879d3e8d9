// Package bpm is a small client for the flow node and process endpoints of the BPM
// engine REST API.
//
// It only covers what the failed flow node console needs: listing failed flow nodes
// with filters, sort, search and count/page pagination, listing processes for the
// process filter, and opening a session. Pagination metadata comes back through the
// Content-Range header and is decoded with pagination.ParseRange.
package bpm
