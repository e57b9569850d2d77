package types

import "errors"

// Config holds backend selection and parameters for opening a Store.
type Config struct {
	Backend  string `json:"backend" yaml:"backend"`
	DataDir  string `json:"data_dir" yaml:"data_dir"`
	FileName string `json:"db_file" yaml:"db_file"`
}

// Supported backend names.
const (
	BackendSQLite = "sqlite"
)

// DefaultFileName is the database file created inside DataDir when
// FileName is empty.
const DefaultFileName = "capitals.db"

// Config validation errors.
var (
	ErrBackendEmpty    = errors.New("backend must not be empty")
	ErrBackendUnknown  = errors.New("unknown backend")
	ErrFileNameInvalid = errors.New("db file must be a bare file name")
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendSQLite: true,
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	for _, r := range c.FileName {
		if r == '/' || r == '\\' {
			return ErrFileNameInvalid
		}
	}
	return nil
}

// DBFile returns the configured database file name, falling back to
// DefaultFileName.
func (c Config) DBFile() string {
	if c.FileName == "" {
		return DefaultFileName
	}
	return c.FileName
}
