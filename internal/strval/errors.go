package strval

import "errors"

// ErrFrozen is returned when growing a substring view or a static
// constant in place.
var ErrFrozen = errors.New("strval: cannot grow a frozen (substr or static) string")

// ErrBadUTF16 is returned by ToUTF8 when the code-unit sequence contains
// an unpaired or malformed surrogate.
var ErrBadUTF16 = errors.New("strval: bad_utf16_string")
