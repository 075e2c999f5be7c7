package domain

import "errors"

var (
	ErrUnknownDomain   = errors.New("unknown domain")
	ErrInvalidDocument = errors.New("invalid document")
)

// ErrorKind tags a failure surfaced to callers of the search core.
type ErrorKind string

const (
	KindQuery         ErrorKind = "query_error"
	KindNotFound      ErrorKind = "document_not_found"
	KindImport        ErrorKind = "import_error"
	KindConfiguration ErrorKind = "configuration_error"
)

// SearchEngineError represents an error from the search engine layer.
type SearchEngineError struct {
	Op  string
	Err string
	// NotFound is set when the engine reported a missing document.
	NotFound bool
}

func (e *SearchEngineError) Error() string {
	return e.Op + ": " + e.Err
}

// MetasearchError represents an error from the metasearch layer.
type MetasearchError struct {
	Op  string
	Err string
}

func (e *MetasearchError) Error() string {
	return e.Op + ": " + e.Err
}

// QueryError reports an index engine failure while searching: engine
// unreachable, malformed filter or sort, or unknown domain.
type QueryError struct {
	Op  string
	Err error
}

func (e *QueryError) Error() string   { return e.Op + ": " + e.Err.Error() }
func (e *QueryError) Unwrap() error   { return e.Err }
func (e *QueryError) Kind() ErrorKind { return KindQuery }

// DocumentNotFoundError reports a get-by-id miss.
type DocumentNotFoundError struct {
	Domain Domain
	ID     int64
	Err    error
}

func (e *DocumentNotFoundError) Error() string {
	msg := "document not found in " + string(e.Domain)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}
func (e *DocumentNotFoundError) Unwrap() error   { return e.Err }
func (e *DocumentNotFoundError) Kind() ErrorKind { return KindNotFound }

// ImportError reports a failed web import: metasearch unreachable or
// non-success, attribute setup failure, or index write failure.
type ImportError struct {
	Op  string
	Err error
}

func (e *ImportError) Error() string   { return e.Op + ": " + e.Err.Error() }
func (e *ImportError) Unwrap() error   { return e.Err }
func (e *ImportError) Kind() ErrorKind { return KindImport }

// ConfigurationError reports an attribute setup failure.
type ConfigurationError struct {
	Domain Domain
	Err    error
}

func (e *ConfigurationError) Error() string {
	return "configure " + string(e.Domain) + " attributes: " + e.Err.Error()
}
func (e *ConfigurationError) Unwrap() error   { return e.Err }
func (e *ConfigurationError) Kind() ErrorKind { return KindConfiguration }

// KindOf returns the tag of the outermost tagged failure in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var tagged interface{ Kind() ErrorKind }
	if errors.As(err, &tagged) {
		return tagged.Kind(), true
	}
	return "", false
}
