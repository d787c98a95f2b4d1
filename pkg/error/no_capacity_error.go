package error

import "net/http"

// NoCapacityError signals that the weekly calendar has no free slot for
// the requested operation (exhausted forward scan or an overfull horizon).
type NoCapacityError string

func (err NoCapacityError) Error() string {
	return string(err)
}

func (err NoCapacityError) ErrCode() string {
	return "NO_CAPACITY_ERROR"
}

func (err NoCapacityError) StatusCode() int {
	return http.StatusConflict
}
