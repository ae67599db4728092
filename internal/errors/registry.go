package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
	DocURL   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Reconcile Errors (E001-E019)
	// ============================================

	"E001": {
		Category: CategoryReconcile,
		Message:  "Unknown description kind",
		Detail:   "A description node carried a kind the differ does not understand. Descriptions must be built with vdom.H or the element helpers.",
		DocURL:   "https://vtree.dev/docs/errors/E001",
	},
	"E002": {
		Category: CategoryReconcile,
		Message:  "Component description without a behavior",
		Detail:   "A KindComponent description had a nil Type. Pass a *reconcile.Func or *reconcile.Class as the identity.",
		DocURL:   "https://vtree.dev/docs/errors/E002",
	},
	"E003": {
		Category: CategoryReconcile,
		Message:  "Stateless expansion depth exceeded",
		Detail:   "A chain of stateless components kept returning other stateless components. This usually means a function component returns itself.",
		DocURL:   "https://vtree.dev/docs/errors/E003",
	},
	"E004": {
		Category: CategoryReconcile,
		Message:  "Component chain depth exceeded",
		Detail:   "A chain of higher-order components kept rendering further components without ever producing an element.",
		DocURL:   "https://vtree.dev/docs/errors/E004",
	},
	"E005": {
		Category: CategoryReconcile,
		Message:  "Component panicked",
		Detail:   "A render method or lifecycle hook panicked. Host mutations applied before the panic were kept.",
		DocURL:   "https://vtree.dev/docs/errors/E005",
	},
	"E006": {
		Category: CategoryReconcile,
		Message:  "Invalid mount parent",
		Detail:   "Render was called with a parent that is not an element or document node.",
		DocURL:   "https://vtree.dev/docs/errors/E006",
	},
	"E007": {
		Category: CategoryReconcile,
		Message:  "Unknown behavior type",
		Detail:   "A component description referenced a behavior that is neither a *reconcile.Func nor a *reconcile.Class.",
		DocURL:   "https://vtree.dev/docs/errors/E007",
	},

	// ============================================
	// Host Errors (E040-E049)
	// ============================================

	"E040": {
		Category: CategoryHost,
		Message:  "Host rejected field assignment",
		Detail:   "The host node refused a field value. The reconciler swallows this error; it only surfaces from direct host calls.",
		DocURL:   "https://vtree.dev/docs/errors/E040",
	},
	"E041": {
		Category: CategoryHost,
		Message:  "Invalid HTML markup",
		Detail:   "Markup handed to the host tree could not be parsed.",
		DocURL:   "https://vtree.dev/docs/errors/E041",
	},
	"E042": {
		Category: CategoryHost,
		Message:  "Hierarchy request error",
		Detail:   "A node cannot be inserted into one of its own descendants or into a text node.",
		DocURL:   "https://vtree.dev/docs/errors/E042",
	},

	// ============================================
	// Config Errors (E120-E149)
	// ============================================

	"E120": {
		Category: CategoryConfig,
		Message:  "Invalid configuration file",
		Detail:   "The configuration file could not be read or parsed.",
		DocURL:   "https://vtree.dev/docs/errors/E120",
	},
	"E121": {
		Category: CategoryConfig,
		Message:  "Invalid engine setting",
		Detail:   "An engine setting is out of range.",
		DocURL:   "https://vtree.dev/docs/errors/E121",
	},
	"E122": {
		Category: CategoryConfig,
		Message:  "Invalid scheduler",
		Detail:   "engine.scheduler must be one of: microtask, manual, timer.",
		DocURL:   "https://vtree.dev/docs/errors/E122",
	},
	"E123": {
		Category: CategoryConfig,
		Message:  "Invalid log setting",
		Detail:   "log.level must be debug, info, warn or error and log.format must be text or json.",
		DocURL:   "https://vtree.dev/docs/errors/E123",
	},
	"E141": {
		Category: CategoryConfig,
		Message:  "Configuration not found",
		Detail:   "No vtree.json, vtree.yaml or vtree.yml was found.",
		DocURL:   "https://vtree.dev/docs/errors/E141",
	},
	"E142": {
		Category: CategoryConfig,
		Message:  "Unsupported configuration format",
		Detail:   "Configuration files must end in .json, .yaml or .yml.",
		DocURL:   "https://vtree.dev/docs/errors/E142",
	},

	// ============================================
	// CLI Errors (E150-E159)
	// ============================================

	"E150": {
		Category: CategoryCLI,
		Message:  "Failed to load resume data",
		Detail:   "The resume data file could not be read or decoded.",
		DocURL:   "https://vtree.dev/docs/errors/E150",
	},
	"E151": {
		Category: CategoryCLI,
		Message:  "Failed to write output",
		Detail:   "The rendered document could not be written to its destination.",
		DocURL:   "https://vtree.dev/docs/errors/E151",
	},
	"E152": {
		Category: CategoryCLI,
		Message:  "Failed to publish output",
		Detail:   "Uploading the rendered document to object storage failed.",
		DocURL:   "https://vtree.dev/docs/errors/E152",
	},
	"E153": {
		Category: CategoryCLI,
		Message:  "Project already initialized",
		Detail:   "A vtree configuration file already exists in this directory.",
		DocURL:   "https://vtree.dev/docs/errors/E153",
	},
}

// Codes returns every registered code.
func Codes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	return codes
}
