package systemcodes

const (
	ErrorCodeGeneric       = 3
	ErrorCodeConfigError   = 4
	ErrorCodeNotAuthorized = 5
)
