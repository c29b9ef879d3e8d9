// Package listview provides a virtually scrolled list component for Bubble Tea.
//
// Only the rows inside the viewport, plus a small buffer, are rendered on each View
// call, so a list that keeps growing through "load more" stays cheap to draw.
// Navigation supports up/down, j/k, pgup/pgdn and home/end.
package listview
