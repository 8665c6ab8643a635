package inventory

// Failure records a path that could not be inspected or entered, with the reason.
// The JSON names are the error log sidecar format.
type Failure struct {
	Path     string `json:"file_path"`
	Reason   string `json:"error"`
	Category string `json:"category,omitempty"`
}
