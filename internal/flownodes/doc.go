// Package flownodes implements the failed flow node list: its state, the single
// reducer that changes it, the filter/sort/process options offered to users and the
// row projection rendered by the CLI and the console.
//
// The list is driven by actions. Reduce returns the next state and, when the action
// needs data, a Fetch describing the engine query to run. The caller runs the fetch
// (see Run) and feeds the resulting Loaded or Failed action back into Reduce. Every
// fetch carries a sequence number; responses to anything but the latest fetch are
// discarded.
package flownodes
