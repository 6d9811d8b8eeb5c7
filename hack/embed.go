package hack

import _ "embed"

// SystemdUnitTemplate is the systemd user unit installed by the install
// command. /path/to/battery-daemon is replaced with the real executable path.
//
//go:embed battery-daemon.service
var SystemdUnitTemplate string
