package upload

import "fmt"

// ErrorKind categorizes a failed upload
type ErrorKind int

const (
	KindNone        ErrorKind = iota // upload succeeded
	KindValidation                   // bad input, no network activity
	KindCredentials                  // credential resolution or token refresh failed
	KindRemote                       // the Drive API call failed
)

func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindValidation:
		return "validation"
	case KindCredentials:
		return "credentials"
	case KindRemote:
		return "remote"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// UploadResult is the outcome handed back to the host. FileURL is empty on failure.
type UploadResult struct {
	Status   string
	FileURL  string
	FileID   string
	FileName string
	Kind     ErrorKind
}

// Succeeded reports whether the upload produced a link
func (r UploadResult) Succeeded() bool {
	return r.FileURL != ""
}

// Failure builds a failed result
func Failure(kind ErrorKind, status string) UploadResult {
	return UploadResult{Status: status, Kind: kind}
}
