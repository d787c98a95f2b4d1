package error

// GenericError is implemented by every error type in this package so the
// REST layer can map a failure to a response code without a type switch
// per concrete error.
type GenericError interface {
	Error() string
	ErrCode() string
	StatusCode() int
}
