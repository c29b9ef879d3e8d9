package pagination

import (
	"errors"
	"fmt"
	"strings"
)

// Order is a sort direction as the engine spells it.
type Order string

// Sort directions.
const (
	OrderAsc  Order = "ASC"
	OrderDesc Order = "DESC"
)

// ErrInvalidSortOrder is returned for anything but ASC or DESC.
var ErrInvalidSortOrder = errors.New("sort order must be 'ASC' or 'DESC'")

// ErrInvalidSortFormat is returned when a sort expression has no field.
var ErrInvalidSortFormat = errors.New("invalid sort format: use 'field' or 'field ORDER' (e.g., 'name ASC')")

// sortPartsMax is the maximum number of parts in a sort expression (field order).
const sortPartsMax = 2

// ParseOrder accepts asc/desc in any case.
func ParseOrder(s string) (Order, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case string(OrderAsc):
		return OrderAsc, nil
	case string(OrderDesc):
		return OrderDesc, nil
	default:
		return "", fmt.Errorf("%w: got %q", ErrInvalidSortOrder, s)
	}
}

// ParseSort parses "field", "field ORDER", "field+ORDER" or "field:order".
// A missing order defaults to ASC.
//
//nolint:nonamedreturns // Named returns improve readability for this multi-value function.
func ParseSort(expr string) (field string, order Order, err error) {
	normalized := strings.NewReplacer("+", " ", ":", " ").Replace(strings.TrimSpace(expr))
	parts := strings.Fields(normalized)
	switch len(parts) {
	case 1:
		return parts[0], OrderAsc, nil
	case sortPartsMax:
		order, err = ParseOrder(parts[1])
		if err != nil {
			return "", "", err
		}
		return parts[0], order, nil
	default:
		return "", "", fmt.Errorf("%w: %q", ErrInvalidSortFormat, expr)
	}
}
