package primitives

import (
	"context"
	"fmt"

	mcperrors "github.com/TalBarda8/mcp-modular-architecture/pkg/errors"
	"github.com/TalBarda8/mcp-modular-architecture/pkg/protocol"
)

// DefaultMimeType is assumed for resources that do not declare one.
const DefaultMimeType = "text/plain"

// ResourceReader produces the current content of a resource. Dynamic
// resources recompute on every call; static ones may return a fixed value.
type ResourceReader func(ctx context.Context) (interface{}, error)

// Resource is a URI-addressed readable.
type Resource struct {
	URI         string
	Name        string
	Description string
	MimeType    string
	Dynamic     bool
	Reader      ResourceReader
}

// RegistryKey returns the URI the resource registers under.
func (r *Resource) RegistryKey() string { return r.URI }

// Validate reports whether the resource is well formed enough to register.
func (r *Resource) Validate() error {
	if r.URI == "" {
		return mcperrors.New(mcperrors.KindValidation, "Resource URI must not be empty")
	}
	if r.Reader == nil {
		return mcperrors.Newf(mcperrors.KindValidation, "Resource '%s' has no reader", r.URI)
	}
	return nil
}

// Info returns the resource's metadata view.
func (r *Resource) Info() protocol.ResourceInfo {
	return protocol.ResourceInfo{
		URI:         r.URI,
		Name:        r.Name,
		Description: r.Description,
		MimeType:    r.mimeType(),
		IsDynamic:   r.Dynamic,
	}
}

// Read runs the reader and wraps its content with the resource's URI and
// MIME type. Reader panics and untyped errors surface as ResourceReadError;
// errors already speaking the taxonomy pass through unchanged.
func (r *Resource) Read(ctx context.Context) (content *protocol.ResourceContent, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			content = nil
			err = mcperrors.ResourceReadFailed(r.URI, fmt.Errorf("panic: %v", rec))
		}
	}()

	value, err := r.Reader(ctx)
	if err != nil {
		if _, ok := mcperrors.AsMCPError(err); ok {
			return nil, err
		}
		return nil, mcperrors.ResourceReadFailed(r.URI, err)
	}

	return &protocol.ResourceContent{
		URI:      r.URI,
		MimeType: r.mimeType(),
		Content:  value,
	}, nil
}

func (r *Resource) mimeType() string {
	if r.MimeType == "" {
		return DefaultMimeType
	}
	return r.MimeType
}
