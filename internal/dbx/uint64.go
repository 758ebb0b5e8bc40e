package dbx

import (
	"database/sql/driver"
	"fmt"
	"strconv"
)

// Uint64 maps a NUMERIC(20,0) column onto a Go uint64. database/sql has no
// unsigned 64-bit type, so values travel as decimal text.
type Uint64 uint64

// Value implements driver.Valuer.
func (u Uint64) Value() (driver.Value, error) {
	return strconv.FormatUint(uint64(u), 10), nil
}

// Scan implements sql.Scanner.
func (u *Uint64) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*u = 0
		return nil
	case int64:
		if v < 0 {
			return fmt.Errorf("dbx: negative value %d for Uint64", v)
		}
		*u = Uint64(v)
		return nil
	case []byte:
		return u.parse(string(v))
	case string:
		return u.parse(v)
	default:
		return fmt.Errorf("dbx: cannot scan %T into Uint64", src)
	}
}

func (u *Uint64) parse(s string) error {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return fmt.Errorf("dbx: parse Uint64: %w", err)
	}
	*u = Uint64(n)
	return nil
}
