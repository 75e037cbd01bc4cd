package access

// Views of the dashboard and the capability each one needs.
var defaultViews = map[string]Capability{
	"dashboard":           CapabilityAny,
	"clock":               CapabilityAny,
	"my-leaves":           CapabilityAny,
	"my-payrolls":         CapabilityAny,
	"profile":             CapabilityAny,
	"paycheck-calculator": CapabilityAny,
	"manage-leaves":       CapabilityAdminOnly,
	"manage-payrolls":     CapabilityAdminOnly,
	"users-clock-entries": CapabilityAdminOnly,
}

type ViewRegistry struct {
	views map[string]Capability
}

func NewViewRegistry() *ViewRegistry {
	views := make(map[string]Capability, len(defaultViews))
	for name, c := range defaultViews {
		views[name] = c
	}
	return &ViewRegistry{views: views}
}

// CapabilityFor returns the capability a view requires. Unknown views are
// treated as admin-only; known reports whether the name was registered.
func (v *ViewRegistry) CapabilityFor(view string) (c Capability, known bool) {
	c, known = v.views[view]
	if !known {
		return CapabilityAdminOnly, false
	}
	return c, true
}
