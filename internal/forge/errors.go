package forge

import "errors"

// ErrNotSupported is returned by optional ProviderClient methods on adapters
// that don't back the underlying forge feature. Callers must treat it as
// "skip this step", never as a reason to fail the enclosing job.
var ErrNotSupported = errors.New("forge: operation not supported by this provider")
