package api

// Operation names a logical backend call. The concrete request that performs
// it differs across deployments, so each operation maps to an ordered list of
// candidate shapes tried until one resolves.
type Operation string

const (
	OpRegister          Operation = "register"
	OpLogin             Operation = "login"
	OpWhoAmI            Operation = "whoami"
	OpListSupplements   Operation = "supplements.list"
	OpAddSupplement     Operation = "supplements.add"
	OpRemoveSupplement  Operation = "supplements.remove"
	OpMonthCheckins     Operation = "checkins.month"
	OpSetCheckin        Operation = "checkins.set"
	OpMonthSuppCheckins Operation = "supp_checkins.month"
	OpSetSuppCheckin    Operation = "supp_checkins.set"
	OpGetProfile        Operation = "profile.get"
	OpSaveProfile       Operation = "profile.save"
)

// Encoding selects how non-path params are attached to the request.
type Encoding string

const (
	EncQuery Encoding = "query" // query string (GET)
	EncForm  Encoding = "form"  // application/x-www-form-urlencoded
	EncJSON  Encoding = "json"  // application/json body
)

// Shape is one concrete request template for an operation. Path segments of
// the form {name} are substituted from params; remaining params are attached
// per the encoding.
type Shape struct {
	Method   string
	Path     string
	Encoding Encoding
}

// catalog lists candidate shapes per operation, most likely first. The order
// reflects the deployments seen in the wild: form-encoded FastAPI routes,
// with JSON-body and path-segment variants as fallbacks.
var catalog = map[Operation][]Shape{
	OpRegister: {
		{Method: "POST", Path: "/api/register", Encoding: EncForm},
		{Method: "POST", Path: "/api/register", Encoding: EncJSON},
	},
	OpLogin: {
		{Method: "POST", Path: "/api/login", Encoding: EncForm},
		{Method: "POST", Path: "/api/login", Encoding: EncJSON},
	},
	OpWhoAmI: {
		{Method: "GET", Path: "/api/me", Encoding: EncQuery},
	},
	OpListSupplements: {
		{Method: "GET", Path: "/api/supplements", Encoding: EncQuery},
	},
	OpAddSupplement: {
		{Method: "POST", Path: "/api/supplements/add", Encoding: EncForm},
		{Method: "POST", Path: "/api/supplements", Encoding: EncJSON},
	},
	OpRemoveSupplement: {
		{Method: "DELETE", Path: "/api/supplements/{id}", Encoding: EncQuery},
		{Method: "POST", Path: "/api/supplements/remove", Encoding: EncForm},
	},
	OpMonthCheckins: {
		{Method: "GET", Path: "/api/checkins", Encoding: EncQuery},
		{Method: "GET", Path: "/api/checkins/{month}", Encoding: EncQuery},
	},
	OpSetCheckin: {
		{Method: "POST", Path: "/api/checkin", Encoding: EncForm},
		{Method: "POST", Path: "/api/checkin", Encoding: EncJSON},
	},
	OpMonthSuppCheckins: {
		{Method: "GET", Path: "/api/supp_checkins", Encoding: EncQuery},
		{Method: "GET", Path: "/api/supp_checkins/{month}", Encoding: EncQuery},
	},
	OpSetSuppCheckin: {
		{Method: "POST", Path: "/api/supp_checkin", Encoding: EncForm},
		{Method: "POST", Path: "/api/supp_checkin", Encoding: EncJSON},
	},
	OpGetProfile: {
		{Method: "GET", Path: "/api/profile", Encoding: EncQuery},
	},
	OpSaveProfile: {
		{Method: "POST", Path: "/api/profile", Encoding: EncForm},
		{Method: "PUT", Path: "/api/profile", Encoding: EncJSON},
	},
}

// Candidates returns the candidate shapes for op, or nil for an unknown
// operation.
func Candidates(op Operation) []Shape {
	return catalog[op]
}
