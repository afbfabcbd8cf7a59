package errors

import "sort"

// Registered error codes.
const (
	CodeRouteMatch  = "E100"
	CodeRouteGuard  = "E101"
	CodeDataLoad    = "E200"
	CodeLoadTimeout = "E201"
	CodeStaticProbe = "E300"
	CodeRender      = "E400"
	CodeConfig      = "E500"
)

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	CodeRouteMatch: {
		Category: CategoryRouting,
		Message:  "Route match failed",
		Detail:   "The route table could not decide on a route for the request path. A pattern is malformed or the matcher failed.",
	},
	CodeRouteGuard: {
		Category: CategoryRouting,
		Message:  "Route guard failed",
		Detail:   "A route guard returned an error or panicked while deciding whether to redirect.",
	},
	CodeDataLoad: {
		Category: CategoryLoading,
		Message:  "Data load failed",
		Detail:   "At least one loader required by the matched views failed. The page degrades to client-side hydration.",
	},
	CodeLoadTimeout: {
		Category: CategoryLoading,
		Message:  "Data load timed out",
		Detail:   "The loader barrier did not settle before the configured load timeout.",
	},
	CodeStaticProbe: {
		Category: CategoryStatic,
		Message:  "Static asset probe failed",
		Detail:   "The filesystem check for a static asset failed for a reason other than the file being absent. The request falls through to routing.",
	},
	CodeRender: {
		Category: CategoryRender,
		Message:  "Render failed",
		Detail:   "A view or the document shell returned an error while producing markup.",
	},
	CodeConfig: {
		Category: CategoryConfig,
		Message:  "Invalid configuration",
		Detail:   "The settings file or environment does not describe a usable configuration.",
	},
}

// GetAllCodes returns all registered error codes in ascending order.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
