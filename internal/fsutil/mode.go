package fsutil

import (
	"fmt"
	"io/fs"
	"strconv"
)

// ParseMode parses an octal permission string such as "0644" or "755". The
// setuid, setgid and sticky bits map to their fs.Mode flags.
func ParseMode(s string) (fs.FileMode, error) {
	n, err := strconv.ParseUint(s, 8, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid file mode %q: must be octal, e.g. \"0644\"", s)
	}
	if n > 0o7777 {
		return 0, fmt.Errorf("invalid file mode %q: out of range", s)
	}
	mode := fs.FileMode(n & 0o777)
	if n&0o4000 != 0 {
		mode |= fs.ModeSetuid
	}
	if n&0o2000 != 0 {
		mode |= fs.ModeSetgid
	}
	if n&0o1000 != 0 {
		mode |= fs.ModeSticky
	}
	return mode, nil
}
