package app

import (
	"io"

	"github.com/specialistvlad/nucleos/internal/registry"
	"github.com/specialistvlad/nucleos/modules/directory"
	"github.com/specialistvlad/nucleos/modules/echo"
	"github.com/specialistvlad/nucleos/modules/exec"
	"github.com/specialistvlad/nucleos/modules/file"
)

// coreProviders is the definitive list of module types compiled into the
// nucleos binary. Modules that print write to out.
func coreProviders(out io.Writer) []registry.Provider {
	return []registry.Provider{
		&echo.Provider{Out: out},
		&file.Provider{},
		&directory.Provider{},
		&exec.Provider{Out: out},
	}
}
