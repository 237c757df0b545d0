// Package featureflag exposes flags fixed at build time.
//
// Override with:
//
//	go build -ldflags "-X github.com/nfrund/insightboard/internal/featureflag.dashboardAddLocked=false"
package featureflag

import "strconv"

// dashboardAddLocked is a string so the linker can set it.
var dashboardAddLocked = "true"

var addLocked = parse(dashboardAddLocked, true)

// DashboardAddLocked reports whether the dashboard's add company, add location and
// add prompt affordances are disabled. The administrative surface ignores it.
func DashboardAddLocked() bool {
	return addLocked
}

// All returns every flag by name, for diagnostics.
func All() map[string]bool {
	return map[string]bool{
		"DASHBOARD_ADD_LOCKED": addLocked,
	}
}

func parse(v string, def bool) bool {
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
